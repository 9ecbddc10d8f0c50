// Package configcmder provides the config command for managing persistent
// llmstxt configuration stored in the .llmstxt/ directory.
package configcmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmstxt/pkg/config"
)

const configLongDesc string = `Manage persistent llmstxt configuration.

Configuration is stored as config.toml in the .llmstxt/ directory and provides
default values for command flags. CLI flags and LLMSTXT_* environment
variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  client.target, client.generate_path, client.stream_path, client.timeout,
  generate.parallel,
  archive.enabled, archive.sqlite_path,
  eventstream.provider, eventstream.brokers, eventstream.topic,
  mcp.listen

Use subcommands to get, set, or list configuration values:
  llmstxt config set <key> <value>    Set a configuration value
  llmstxt config get <key>            Get a configuration value
  llmstxt config list                 List all configuration values

Examples:
  llmstxt config set client.target https://llmstxt.example.com
  llmstxt config set client.timeout 5m
  llmstxt config get client.target
  llmstxt config list`

const configShortDesc string = "Manage persistent llmstxt configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// validKeysCompletion completes the first argument with the config keys.
func validKeysCompletion(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
