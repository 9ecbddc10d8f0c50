package generatecmder_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	generatecmder "github.com/papercomputeco/llmstxt/cmd/llmstxt/generate"
	"github.com/papercomputeco/llmstxt/cmd/llmstxt/setup"
	"github.com/papercomputeco/llmstxt/pkg/archive"
	"github.com/papercomputeco/llmstxt/pkg/archive/sqlite"
	testutils "github.com/papercomputeco/llmstxt/pkg/utils/test"
)

// runGenerate executes "generate args..." under a root carrying the
// persistent flags, with an isolated config directory.
func runGenerate(configDir string, args ...string) (string, string, error) {
	root := &cobra.Command{Use: "llmstxt", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().Bool(setup.FlagDebug, false, "")
	root.PersistentFlags().String(setup.FlagConfigDir, "", "")
	root.PersistentFlags().String(setup.FlagLogFile, "", "")
	root.AddCommand(generatecmder.NewGenerateCmd())

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"generate", "--config-dir", configDir}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func llmsTxtBody(text string) string {
	b, _ := json.Marshal(map[string]string{"llms_txt": text})
	return string(b)
}

func openArchive(configDir string) archive.Driver {
	driver, err := sqlite.NewDriver(filepath.Join(configDir, "archive.sqlite"))
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(driver.Close)
	return driver
}

var _ = Describe("generate command", func() {
	var configDir string

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
		GinkgoT().Setenv("LLMSTXT_SQLITE", "")
		GinkgoT().Setenv("XDG_DATA_HOME", "")
	})

	It("requires at least one URL", func() {
		_, _, err := runGenerate(configDir)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an invalid URL without calling the service", func() {
		var hits atomic.Int32
		server := testutils.NewGenerateServer(func(string) (int, string) {
			hits.Add(1)
			return http.StatusOK, llmsTxtBody("# x")
		})
		DeferCleanup(server.Close)

		_, _, err := runGenerate(configDir, "--target", server.URL, "ftp://example.com")
		Expect(err).To(MatchError(ContainSubstring("invalid URL")))
		Expect(hits.Load()).To(BeZero())
	})

	Describe("one-shot", func() {
		It("prints the document and archives it", func() {
			server := testutils.NewGenerateServer(func(siteURL string) (int, string) {
				return http.StatusOK, llmsTxtBody("# " + siteURL + "\n")
			})
			DeferCleanup(server.Close)

			stdout, _, err := runGenerate(configDir, "--target", server.URL, "https://example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(stdout).To(Equal("# https://example.com\n"))

			rec, err := openArchive(configDir).Latest(context.Background(), "https://example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Mode).To(Equal(archive.ModeOneShot))
			Expect(rec.LlmsTxt).To(Equal("# https://example.com\n"))
		})

		It("does not archive with --save=false", func() {
			server := testutils.NewGenerateServer(func(string) (int, string) {
				return http.StatusOK, llmsTxtBody("# doc\n")
			})
			DeferCleanup(server.Close)

			_, _, err := runGenerate(configDir, "--target", server.URL, "--save=false", "https://example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = os.Stat(filepath.Join(configDir, "archive.sqlite"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("reports the service's error detail", func() {
			server := testutils.NewGenerateServer(func(string) (int, string) {
				return http.StatusUnprocessableEntity, `{"detail":"site unreachable"}`
			})
			DeferCleanup(server.Close)

			stdout, _, err := runGenerate(configDir, "--target", server.URL, "https://example.com")
			Expect(err).To(MatchError(ContainSubstring("site unreachable")))
			Expect(stdout).To(BeEmpty())
		})
	})

	Describe("batch", func() {
		It("generates every URL and counts failures", func() {
			server := testutils.NewGenerateServer(func(siteURL string) (int, string) {
				if strings.Contains(siteURL, "fail") {
					return http.StatusBadGateway, `{"title":"upstream down"}`
				}
				return http.StatusOK, llmsTxtBody("# " + siteURL + "\n")
			})
			DeferCleanup(server.Close)

			stdout, stderr, err := runGenerate(configDir,
				"--target", server.URL, "--parallel", "2",
				"https://a.example", "https://fail.example", "https://b.example",
			)
			Expect(err).To(MatchError("1 of 3 generations failed"))
			Expect(stdout).To(ContainSubstring("# https://a.example"))
			Expect(stdout).To(ContainSubstring("# https://b.example"))
			Expect(stderr).To(ContainSubstring("upstream down"))

			recs, err := openArchive(configDir).List(context.Background(), 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(2))
		})
	})

	Describe("--stream", func() {
		It("prints progress on stderr and the document on stdout", func() {
			server := testutils.NewStreamServer(
				testutils.Frame("discovered", `{"URLs":["https://example.com/a","https://example.com/b"],"Total":2}`),
				testutils.Frame("progress", `{"CurrentURL":"https://example.com/a","Done":1,"Total":2}`),
				testutils.Frame("progress", `{"CurrentURL":"https://example.com/b","Done":2,"Total":2}`),
				testutils.Frame("done", `{"Result":"# Example\n"}`),
			)
			DeferCleanup(server.Close)

			stdout, stderr, err := runGenerate(configDir, "--target", server.URL, "--stream", "https://example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(stdout).To(Equal("# Example\n"))
			Expect(stderr).To(ContainSubstring("Discovered 2 pages"))
			Expect(stderr).To(ContainSubstring("https://example.com/a"))
			Expect(stderr).To(ContainSubstring("https://example.com/b"))

			rec, err := openArchive(configDir).Latest(context.Background(), "https://example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Mode).To(Equal(archive.ModeStream))
			Expect(rec.PagesTotal).To(Equal(2))
		})

		It("fails on an error frame", func() {
			server := testutils.NewStreamServer(
				testutils.Frame("discovered", `{"URLs":[],"Total":0}`),
				testutils.Frame("error", `{"Error":"crawl failed"}`),
			)
			DeferCleanup(server.Close)

			stdout, _, err := runGenerate(configDir, "--target", server.URL, "--stream", "https://example.com")
			Expect(err).To(MatchError("generation failed: crawl failed"))
			Expect(stdout).To(BeEmpty())
		})

		It("fails when the stream ends without a result", func() {
			server := testutils.NewStreamServer(
				testutils.Frame("discovered", `{"URLs":[],"Total":0}`),
			)
			DeferCleanup(server.Close)

			_, _, err := runGenerate(configDir, "--target", server.URL, "--stream", "https://example.com")
			Expect(err).To(MatchError(ContainSubstring("stream ended without a result")))
		})

		It("fails on a non-success status with the body text", func() {
			server := testutils.NewStatusServer(http.StatusTooManyRequests, "text/plain", "slow down")
			DeferCleanup(server.Close)

			_, _, err := runGenerate(configDir, "--target", server.URL, "--stream", "https://example.com")
			Expect(err).To(MatchError("generation failed: slow down"))
		})

		It("accepts a single URL only", func() {
			_, _, err := runGenerate(configDir, "--stream", "https://a.example", "https://b.example")
			Expect(err).To(MatchError("--stream accepts a single URL"))
		})
	})
})
