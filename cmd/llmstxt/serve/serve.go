// Package servecmder provides the serve command with subcommands for running services.
package servecmder

import (
	"github.com/spf13/cobra"

	mcpcmder "github.com/papercomputeco/llmstxt/cmd/llmstxt/serve/mcp"
)

const serveLongDesc string = `Run llmstxt services.

  llmstxt serve mcp    Run the MCP server, exposing generate_llms_txt
                       and the archive over streamable HTTP`

const serveShortDesc string = "Run llmstxt services"

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
	}

	cmd.AddCommand(mcpcmder.NewMCPCmd())

	return cmd
}
