package historycmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmstxt/cmd/llmstxt/setup"
	"github.com/papercomputeco/llmstxt/pkg/archive"
	"github.com/papercomputeco/llmstxt/pkg/cliui"
	"github.com/papercomputeco/llmstxt/pkg/config"
	"github.com/papercomputeco/llmstxt/pkg/logger"
)

type showCommander struct {
	sqlitePath string
	raw        bool
}

const showLongDesc string = `Print an archived llms.txt document.

The argument is either a generation id from "llmstxt history list" or a
site URL, in which case the newest generation for that URL is shown.`

const showShortDesc string = "Print an archived document"

func newShowCmd() *cobra.Command {
	cmder := &showCommander{}

	cmd := &cobra.Command{
		Use:   "show <id|url>",
		Short: showShortDesc,
		Long:  showLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := setup.OpenSQLite(cmder.sqlitePath, setup.OptionsFrom(cmd).ConfigDir, logger.Nop())
			if err != nil {
				return err
			}
			defer driver.Close()

			return cmder.run(cmd.Context(), driver, args[0], cmd.OutOrStdout())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print the markdown without terminal rendering")

	return cmd
}

func (c *showCommander) run(ctx context.Context, driver archive.Driver, ref string, w io.Writer) error {
	rec, err := lookup(ctx, driver, ref)
	if err != nil {
		var nf archive.NotFoundError
		if errors.As(err, &nf) {
			return fmt.Errorf("no archived generation for %q", ref)
		}
		return err
	}

	f, isFile := w.(*os.File)
	if c.raw || !isFile || !cliui.IsTerminal(f) {
		_, err = io.WriteString(w, rec.LlmsTxt)
		return err
	}

	rendered, _ := cliui.RenderMarkdown(rec.LlmsTxt, cliui.TerminalWidth(f, 80))
	_, err = io.WriteString(w, rendered)
	return err
}

// lookup treats ref as a site URL when it has an http(s) scheme and as a
// generation id otherwise.
func lookup(ctx context.Context, driver archive.Driver, ref string) (*archive.Record, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return driver.Latest(ctx, ref)
	}
	return driver.Get(ctx, ref)
}
