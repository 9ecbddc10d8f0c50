package historycmder

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmstxt/cmd/llmstxt/setup"
	"github.com/papercomputeco/llmstxt/pkg/archive"
	"github.com/papercomputeco/llmstxt/pkg/cliui"
	"github.com/papercomputeco/llmstxt/pkg/config"
	"github.com/papercomputeco/llmstxt/pkg/logger"
)

const defaultListLimit = 20

type listCommander struct {
	sqlitePath string
	limit      int
}

const listShortDesc string = "List archived generations, newest first"

func newListCmd() *cobra.Command {
	cmder := &listCommander{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			driver, err := setup.OpenSQLite(cmder.sqlitePath, setup.OptionsFrom(cmd).ConfigDir, logger.Nop())
			if err != nil {
				return err
			}
			defer driver.Close()

			return cmder.run(cmd.Context(), driver, cmd.OutOrStdout())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", defaultListLimit, "Maximum number of generations to list (0 for all)")

	return cmd
}

func (c *listCommander) run(ctx context.Context, driver archive.Driver, w io.Writer) error {
	recs, err := driver.List(ctx, c.limit)
	if err != nil {
		return fmt.Errorf("listing generations: %w", err)
	}

	if len(recs) == 0 {
		fmt.Fprintf(w, "%s\n", cliui.DimStyle.Render("No generations archived yet."))
		return nil
	}

	for _, rec := range recs {
		pages := ""
		if rec.PagesTotal > 0 {
			pages = fmt.Sprintf(" %d pages", rec.PagesTotal)
		}
		fmt.Fprintf(w, "%s  %s  %s%s\n",
			cliui.DimStyle.Render(rec.ID),
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			cliui.URLStyle.Render(rec.URL),
			cliui.StepStyle.Render(" ("+rec.Mode+pages+")"),
		)
	}

	return nil
}
