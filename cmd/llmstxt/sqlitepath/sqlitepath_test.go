package sqlitepath

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolveSQLitePath", func() {
	var (
		origXDG    string
		origSQLite string
		configDir  string
	)

	BeforeEach(func() {
		origXDG = os.Getenv("XDG_DATA_HOME")
		origSQLite = os.Getenv("LLMSTXT_SQLITE")
		Expect(os.Setenv("XDG_DATA_HOME", "")).To(Succeed())
		Expect(os.Setenv("LLMSTXT_SQLITE", "")).To(Succeed())
		configDir = GinkgoT().TempDir()
	})

	AfterEach(func() {
		Expect(os.Setenv("XDG_DATA_HOME", origXDG)).To(Succeed())
		Expect(os.Setenv("LLMSTXT_SQLITE", origSQLite)).To(Succeed())
	})

	It("prefers the override", func() {
		Expect(os.Setenv("LLMSTXT_SQLITE", "/tmp/env.sqlite")).To(Succeed())

		path, err := ResolveSQLitePath("/tmp/flag.sqlite", configDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/flag.sqlite"))
	})

	It("uses LLMSTXT_SQLITE when set", func() {
		Expect(os.Setenv("LLMSTXT_SQLITE", "/tmp/env.sqlite")).To(Succeed())

		path, err := ResolveSQLitePath("", configDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/env.sqlite"))
	})

	It("uses an existing archive under XDG_DATA_HOME", func() {
		xdg := GinkgoT().TempDir()
		Expect(os.MkdirAll(filepath.Join(xdg, "llmstxt"), 0o755)).To(Succeed())
		candidate := filepath.Join(xdg, "llmstxt", "archive.sqlite")
		Expect(os.WriteFile(candidate, nil, 0o600)).To(Succeed())
		Expect(os.Setenv("XDG_DATA_HOME", xdg)).To(Succeed())

		path, err := ResolveSQLitePath("", configDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(candidate))
	})

	It("ignores XDG_DATA_HOME when no archive exists there", func() {
		Expect(os.Setenv("XDG_DATA_HOME", GinkgoT().TempDir())).To(Succeed())

		path, err := ResolveSQLitePath("", configDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(configDir, "archive.sqlite")))
	})

	It("falls back to the config directory", func() {
		path, err := ResolveSQLitePath("", configDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(configDir, "archive.sqlite")))
	})
})
