// Package llmstxtcmder
package llmstxtcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/llmstxt/cmd/llmstxt/config"
	generatecmder "github.com/papercomputeco/llmstxt/cmd/llmstxt/generate"
	historycmder "github.com/papercomputeco/llmstxt/cmd/llmstxt/history"
	"github.com/papercomputeco/llmstxt/cmd/llmstxt/setup"
	servecmder "github.com/papercomputeco/llmstxt/cmd/llmstxt/serve"
	versioncmder "github.com/papercomputeco/llmstxt/cmd/version"
)

const llmstxtLongDesc string = `llmstxt asks an llms.txt generation service to summarize a site
as an llms.txt document.

  llmstxt generate <url>...   Generate documents, optionally streaming progress
  llmstxt history             Browse previously generated documents
  llmstxt serve mcp           Expose generation to MCP clients
  llmstxt config              Manage persistent configuration`

const llmstxtShortDesc string = "llmstxt - llms.txt generation client"

func NewLlmstxtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "llmstxt",
		Short:         llmstxtShortDesc,
		Long:          llmstxtLongDesc,
		SilenceUsage:  true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP(setup.FlagDebug, "d", false, "Enable debug logging")
	cmd.PersistentFlags().String(setup.FlagConfigDir, "", "Override path to the .llmstxt/ config directory")
	cmd.PersistentFlags().String(setup.FlagLogFile, "", "Also write JSON logs to this file")

	// Add subcommands
	cmd.AddCommand(generatecmder.NewGenerateCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
