package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmstxt/pkg/client"
	testutils "github.com/papercomputeco/llmstxt/pkg/utils/test"
)

var _ = Describe("New", func() {
	It("rejects a base URL without scheme or host", func() {
		_, err := client.New("localhost:8080")
		Expect(err).To(HaveOccurred())

		_, err = client.New("")
		Expect(err).To(HaveOccurred())
	})

	It("rejects a non-positive read buffer size", func() {
		_, err := client.New("http://localhost:8080", client.WithReadBufferSize(0))
		Expect(err).To(MatchError(ContainSubstring("read buffer size")))
	})

	It("trims a trailing slash from the base URL", func() {
		c, err := client.New("http://localhost:8080/")
		Expect(err).NotTo(HaveOccurred())
		Expect(c.BaseURL()).To(Equal("http://localhost:8080"))
	})
})

var _ = Describe("Generate", func() {
	var server *httptest.Server

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	newClient := func() *client.Client {
		c, err := client.New(server.URL)
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	It("posts the URL as JSON and returns llms_txt", func() {
		var (
			gotMethod string
			gotPath   string
			gotType   string
			gotID     string
			gotBody   map[string]any
		)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			gotType = r.Header.Get("Content-Type")
			gotID = r.Header.Get(client.RequestIDHeader)
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &gotBody)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"llms_txt":"# Example\n\n> An example site\n"}`))
		}))

		result, err := newClient().Generate(context.Background(), "https://example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal("# Example\n\n> An example site\n"))

		Expect(gotMethod).To(Equal(http.MethodPost))
		Expect(gotPath).To(Equal(client.DefaultGeneratePath))
		Expect(gotType).To(Equal("application/json"))
		Expect(gotID).NotTo(BeEmpty())
		Expect(gotBody).To(Equal(map[string]any{"url": "https://example.com"}))
	})

	It("uses the detail field of a failed response", func() {
		server = testutils.NewStatusServer(http.StatusBadRequest, "application/json", `{"detail":"bad url"}`)

		_, err := newClient().Generate(context.Background(), "nope")
		Expect(err).To(MatchError("bad url"))

		var genErr *client.GenerationError
		Expect(errors.As(err, &genErr)).To(BeTrue())
		Expect(genErr.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("prefers detail over title", func() {
		server = testutils.NewStatusServer(http.StatusUnprocessableEntity, "application/problem+json",
			`{"title":"Unprocessable Entity","detail":"invalid URL: must be a valid http or https URL"}`)

		_, err := newClient().Generate(context.Background(), "ftp://example.com")
		Expect(err).To(MatchError("invalid URL: must be a valid http or https URL"))
	})

	It("falls back to title", func() {
		server = testutils.NewStatusServer(http.StatusInternalServerError, "application/json", `{"title":"Internal Server Error"}`)

		_, err := newClient().Generate(context.Background(), "https://example.com")
		Expect(err).To(MatchError("Internal Server Error"))
	})

	It("falls back to a generic message when the body has neither", func() {
		server = testutils.NewStatusServer(http.StatusBadGateway, "text/plain", "upstream down")

		_, err := newClient().Generate(context.Background(), "https://example.com")
		Expect(err).To(MatchError("Generation failed"))
	})

	It("returns a decode error for a success status with an invalid body", func() {
		server = testutils.NewStatusServer(http.StatusOK, "application/json", "not json")

		_, err := newClient().Generate(context.Background(), "https://example.com")
		Expect(err).To(MatchError(ContainSubstring("decoding generate response")))
	})

	It("makes exactly one request and does not retry", func() {
		var requests int
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			requests++
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"title":"Service Unavailable"}`))
		}))

		_, err := newClient().Generate(context.Background(), "https://example.com")
		Expect(err).To(HaveOccurred())
		Expect(requests).To(Equal(1))
	})

	It("rejects an empty URL without sending", func() {
		server = testutils.NewStatusServer(http.StatusOK, "application/json", `{}`)

		_, err := newClient().Generate(context.Background(), "")
		Expect(err).To(MatchError(client.ErrEmptyURL))
	})

	It("honors a custom generate path and headers", func() {
		var gotPath, gotAuth string
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"llms_txt":"ok"}`))
		}))

		c, err := client.New(server.URL,
			client.WithGeneratePath("/v2/generate"),
			client.WithHeader("Authorization", "Bearer token"),
		)
		Expect(err).NotTo(HaveOccurred())

		result, err := c.Generate(context.Background(), "https://example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal("ok"))
		Expect(gotPath).To(Equal("/v2/generate"))
		Expect(gotAuth).To(Equal("Bearer token"))
	})

	It("keeps the default path when given an empty override", func() {
		var gotPath string
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"llms_txt":"ok"}`))
		}))

		c, err := client.New(server.URL, client.WithGeneratePath(""))
		Expect(err).NotTo(HaveOccurred())

		_, err = c.Generate(context.Background(), "https://example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(gotPath).To(Equal(client.DefaultGeneratePath))
	})
})
