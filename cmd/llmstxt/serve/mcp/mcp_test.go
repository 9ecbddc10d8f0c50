package mcpcmder

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmstxt/pkg/config"
	"github.com/papercomputeco/llmstxt/pkg/logger"
)

var _ = Describe("NewMCPCmd", func() {
	It("registers the listen flag with the configured default", func() {
		cmd := NewMCPCmd()
		Expect(cmd.Use).To(Equal("mcp"))

		f := cmd.Flags().Lookup("listen")
		Expect(f).NotTo(BeNil())
		Expect(f.Shorthand).To(Equal("l"))
		Expect(f.DefValue).To(Equal(":8090"))
	})

	It("registers the client and archive flags", func() {
		cmd := NewMCPCmd()
		for _, name := range []string{"target", "save", "sqlite", "publisher", "brokers", "topic"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
	})
})

var _ = Describe("build", func() {
	var cmder *mcpCommander

	BeforeEach(func() {
		GinkgoT().Setenv("LLMSTXT_SQLITE", "")
		GinkgoT().Setenv("XDG_DATA_HOME", "")
		cmder = &mcpCommander{
			configDir: GinkgoT().TempDir(),
			cfg:       config.NewDefaultConfig(),
			logger:    logger.Nop(),
		}
	})

	It("wires the server with the archive", func() {
		server, closer, err := cmder.build()
		Expect(err).NotTo(HaveOccurred())
		Expect(server).NotTo(BeNil())
		Expect(closer.Close()).To(Succeed())

		_, err = os.Stat(filepath.Join(cmder.configDir, "archive.sqlite"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("wires the server without the archive", func() {
		cmder.cfg.Archive.Enabled = false

		server, closer, err := cmder.build()
		Expect(err).NotTo(HaveOccurred())
		Expect(server).NotTo(BeNil())
		Expect(closer.Close()).To(Succeed())

		_, err = os.Stat(filepath.Join(cmder.configDir, "archive.sqlite"))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("fails for an invalid target", func() {
		cmder.cfg.Client.Target = "not a url"

		_, _, err := cmder.build()
		Expect(err).To(HaveOccurred())
	})

	It("fails for an unknown publisher", func() {
		cmder.cfg.EventStream.Provider = "carrier-pigeon"

		_, _, err := cmder.build()
		Expect(err).To(MatchError(ContainSubstring("carrier-pigeon")))
	})
})
