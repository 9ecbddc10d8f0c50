package testutils

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmstxt/pkg/archive"
)

// NewTestRecord creates a record for url created at the given offset from a
// fixed point in time, so ordering in tests is deterministic.
func NewTestRecord(id, url string, offset time.Duration) *archive.Record {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &archive.Record{
		ID:         id,
		URL:        url,
		LlmsTxt:    "# " + url + "\n",
		Mode:       archive.ModeStream,
		PagesTotal: 3,
		CreatedAt:  base.Add(offset),
	}
}

// ItBehavesLikeAnArchive declares the specs every archive.Driver must pass.
// newDriver is called before each spec; the driver is closed after it.
func ItBehavesLikeAnArchive(newDriver func() archive.Driver) {
	var (
		driver archive.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = newDriver()
	})

	AfterEach(func() {
		Expect(driver.Close()).To(Succeed())
	})

	It("stores and retrieves a record", func() {
		rec := NewTestRecord("r1", "https://example.com", 0)
		Expect(driver.Put(ctx, rec)).To(Succeed())

		got, err := driver.Get(ctx, "r1")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.URL).To(Equal(rec.URL))
		Expect(got.LlmsTxt).To(Equal(rec.LlmsTxt))
		Expect(got.Mode).To(Equal(rec.Mode))
		Expect(got.PagesTotal).To(Equal(rec.PagesTotal))
		Expect(got.CreatedAt.Equal(rec.CreatedAt)).To(BeTrue())
	})

	It("returns NotFoundError for an unknown id", func() {
		_, err := driver.Get(ctx, "missing")
		Expect(err).To(MatchError(archive.NotFoundError{Key: "missing"}))
	})

	It("rejects records without an id or url", func() {
		Expect(driver.Put(ctx, nil)).To(HaveOccurred())
		Expect(driver.Put(ctx, &archive.Record{URL: "u"})).To(HaveOccurred())
		Expect(driver.Put(ctx, &archive.Record{ID: "x"})).To(HaveOccurred())
	})

	It("replaces a record stored twice under the same id", func() {
		rec := NewTestRecord("r1", "https://example.com", 0)
		Expect(driver.Put(ctx, rec)).To(Succeed())

		rec.LlmsTxt = "# updated\n"
		Expect(driver.Put(ctx, rec)).To(Succeed())

		all, err := driver.List(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(1))
		Expect(all[0].LlmsTxt).To(Equal("# updated\n"))
	})

	It("returns the newest record for a url", func() {
		Expect(driver.Put(ctx, NewTestRecord("old", "https://a.example", 0))).To(Succeed())
		Expect(driver.Put(ctx, NewTestRecord("new", "https://a.example", time.Hour))).To(Succeed())
		Expect(driver.Put(ctx, NewTestRecord("other", "https://b.example", 2*time.Hour))).To(Succeed())

		got, err := driver.Latest(ctx, "https://a.example")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ID).To(Equal("new"))

		_, err = driver.Latest(ctx, "https://c.example")
		Expect(err).To(MatchError(archive.NotFoundError{Key: "https://c.example"}))
	})

	It("lists newest first and honors the limit", func() {
		Expect(driver.Put(ctx, NewTestRecord("a", "https://a.example", 0))).To(Succeed())
		Expect(driver.Put(ctx, NewTestRecord("c", "https://c.example", 2*time.Minute))).To(Succeed())
		Expect(driver.Put(ctx, NewTestRecord("b", "https://b.example", time.Minute))).To(Succeed())

		all, err := driver.List(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(ids(all)).To(Equal([]string{"c", "b", "a"}))

		two, err := driver.List(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(ids(two)).To(Equal([]string{"c", "b"}))
	})

	It("lists nothing when empty", func() {
		all, err := driver.List(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(BeEmpty())
	})
}

func ids(recs []*archive.Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}
