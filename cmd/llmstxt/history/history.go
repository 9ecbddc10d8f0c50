// Package historycmder provides the history command for browsing archived
// generations.
package historycmder

import (
	"github.com/spf13/cobra"
)

const historyLongDesc string = `Browse llms.txt documents saved by "llmstxt generate".

The archive is a SQLite database, by default .llmstxt/archive.sqlite.

Examples:
  llmstxt history list
  llmstxt history list --limit 5
  llmstxt history show https://example.com
  llmstxt history show 0b6f2a9e-5d0c-4d7e-9c52-3f0a1f1e7c11`

const historyShortDesc string = "Browse archived generations"

func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())

	return cmd
}
