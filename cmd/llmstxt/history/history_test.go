package historycmder

import (
	"bytes"
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmstxt/pkg/archive/inmemory"
	"github.com/papercomputeco/llmstxt/pkg/archive/sqlite"
	testutils "github.com/papercomputeco/llmstxt/pkg/utils/test"
)

var _ = Describe("NewHistoryCmd", func() {
	It("has list and show subcommands", func() {
		cmd := NewHistoryCmd()
		names := []string{}
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("list", "show"))
	})
})

var _ = Describe("history subcommands", func() {
	var (
		ctx    context.Context
		driver *inmemory.Driver
		out    *bytes.Buffer
	)

	BeforeEach(func() {
		ctx = context.Background()
		out = &bytes.Buffer{}
		driver = inmemory.NewDriver()
		Expect(driver.Put(ctx, testutils.NewTestRecord("first", "https://example.com", 0))).To(Succeed())
		Expect(driver.Put(ctx, testutils.NewTestRecord("second", "https://example.com", time.Hour))).To(Succeed())
	})

	Describe("list", func() {
		It("prints newest first", func() {
			Expect((&listCommander{limit: 10}).run(ctx, driver, out)).To(Succeed())

			text := out.String()
			Expect(text).To(ContainSubstring("https://example.com"))
			Expect(bytes.Index(out.Bytes(), []byte("second"))).To(BeNumerically("<", bytes.Index(out.Bytes(), []byte("first"))))
			Expect(text).To(ContainSubstring("3 pages"))
		})

		It("honors the limit", func() {
			Expect((&listCommander{limit: 1}).run(ctx, driver, out)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("second"))
			Expect(out.String()).NotTo(ContainSubstring("first"))
		})

		It("says so when the archive is empty", func() {
			Expect((&listCommander{}).run(ctx, inmemory.NewDriver(), out)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("No generations archived yet."))
		})
	})

	Describe("show", func() {
		It("prints a record by id", func() {
			Expect((&showCommander{}).run(ctx, driver, "first", out)).To(Succeed())
			Expect(out.String()).To(Equal("# https://example.com\n"))
		})

		It("prints the newest record for a URL", func() {
			Expect(driver.Put(ctx, testutils.NewTestRecord("other", "https://other.example", 2*time.Hour))).To(Succeed())

			Expect((&showCommander{}).run(ctx, driver, "https://other.example", out)).To(Succeed())
			Expect(out.String()).To(Equal("# https://other.example\n"))
		})

		It("fails for an unknown reference", func() {
			err := (&showCommander{}).run(ctx, driver, "https://missing.example", out)
			Expect(err).To(MatchError(`no archived generation for "https://missing.example"`))
		})
	})

	It("reads the SQLite archive given by --sqlite", func() {
		path := filepath.Join(GinkgoT().TempDir(), "archive.sqlite")
		db, err := sqlite.NewDriver(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Put(ctx, testutils.NewTestRecord("stored", "https://stored.example", 0))).To(Succeed())
		Expect(db.Close()).To(Succeed())

		cmd := NewHistoryCmd()
		cmd.SetOut(out)
		cmd.SetArgs([]string{"show", "--sqlite", path, "stored"})
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(Equal("# https://stored.example\n"))
	})
})
