// Package generatecmder provides the generate command.
package generatecmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmstxt/cmd/llmstxt/setup"
	"github.com/papercomputeco/llmstxt/pkg/archive"
	"github.com/papercomputeco/llmstxt/pkg/client"
	"github.com/papercomputeco/llmstxt/pkg/cliui"
	"github.com/papercomputeco/llmstxt/pkg/config"
	"github.com/papercomputeco/llmstxt/pkg/utils"
	"github.com/papercomputeco/llmstxt/pkg/worker"
)

// ErrCancelled is returned when the user interrupted a streaming generation.
var ErrCancelled = errors.New("generation cancelled")

type generateCommander struct {
	flags config.FlagSet

	target       string
	timeout      string
	generatePath string
	streamPath   string
	parallel     uint
	save         bool
	sqlitePath   string
	publisher    string
	brokers      string
	topic        string

	stream bool
	raw    bool

	cfg       *config.Config
	configDir string
	client    *client.Client
	archive   archive.Driver
	logger    *slog.Logger

	stdout io.Writer
	stderr io.Writer

	// interactive selects the live progress view for streaming runs.
	interactive bool
	width       int
}

var generateFlags = []string{
	config.FlagTarget,
	config.FlagTimeout,
	config.FlagGeneratePath,
	config.FlagStreamPath,
	config.FlagParallel,
	config.FlagSave,
	config.FlagSQLite,
	config.FlagPublisher,
	config.FlagBrokers,
	config.FlagTopic,
}

const generateLongDesc string = `Generate llms.txt documents for one or more sites.

Each URL is sent to the generation service, which crawls the site and
returns an llms.txt summary. With a single URL and --stream, discovery
and per-page progress are shown live while the service works; press
Ctrl+C to cancel. Several URLs are generated concurrently (--parallel).

Finished documents are saved to the local archive unless --save=false,
and can be viewed later with "llmstxt history".

Examples:
  llmstxt generate https://example.com
  llmstxt generate --stream https://example.com
  llmstxt generate --raw https://example.com > llms.txt
  llmstxt generate -p 8 https://a.example https://b.example
  llmstxt generate --stream --publisher kafka --brokers kafka:9092 https://example.com`

const generateShortDesc string = "Generate llms.txt for one or more sites"

func NewGenerateCmd() *cobra.Command {
	cmder := &generateCommander{
		flags: config.Flags,
	}

	cmd := &cobra.Command{
		Use:   "generate <url>...",
		Short: generateShortDesc,
		Long:  generateLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir = setup.OptionsFrom(cmd).ConfigDir
			cfg, err := setup.LoadConfig(cmd, cmder.configDir, generateFlags)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := setup.NewLogger(setup.OptionsFrom(cmd), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()
			cmder.logger = log

			cmder.stdout = cmd.OutOrStdout()
			cmder.stderr = cmd.ErrOrStderr()
			cmder.interactive = isTerminal(cmder.stdout) && isTerminal(cmder.stderr)
			cmder.width = terminalWidth(cmder.stdout)

			return cmder.run(cmd.Context(), args)
		},
	}

	config.AddStringFlag(cmd, cmder.flags, config.FlagTarget, &cmder.target)
	config.AddStringFlag(cmd, cmder.flags, config.FlagTimeout, &cmder.timeout)
	config.AddStringFlag(cmd, cmder.flags, config.FlagGeneratePath, &cmder.generatePath)
	config.AddStringFlag(cmd, cmder.flags, config.FlagStreamPath, &cmder.streamPath)
	config.AddUintFlag(cmd, cmder.flags, config.FlagParallel, &cmder.parallel)
	config.AddBoolFlag(cmd, cmder.flags, config.FlagSave, &cmder.save)
	config.AddStringFlag(cmd, cmder.flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, cmder.flags, config.FlagPublisher, &cmder.publisher)
	config.AddStringFlag(cmd, cmder.flags, config.FlagBrokers, &cmder.brokers)
	config.AddStringFlag(cmd, cmder.flags, config.FlagTopic, &cmder.topic)

	cmd.Flags().BoolVar(&cmder.stream, "stream", false, "Show discovery and page progress while generating (single URL only)")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print the llms.txt markdown without terminal rendering")

	return cmd
}

func (c *generateCommander) run(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	urls := make([]string, 0, len(args))
	for _, arg := range args {
		u, err := utils.ValidateSiteURL(arg)
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		urls = append(urls, u)
	}

	if c.stream && len(urls) > 1 {
		return errors.New("--stream accepts a single URL")
	}

	timeout, err := c.cfg.Client.TimeoutDuration()
	if err != nil {
		return err
	}

	c.client, err = setup.NewClient(c.cfg, c.logger)
	if err != nil {
		return err
	}

	c.archive, err = setup.OpenArchive(c.cfg, c.configDir, c.logger)
	if err != nil {
		return err
	}
	defer func() {
		if c.archive != nil {
			_ = c.archive.Close()
		}
	}()

	switch {
	case c.stream:
		return c.runStream(ctx, urls[0], timeout)
	case len(urls) == 1:
		return c.runOne(ctx, urls[0], timeout)
	default:
		return c.runBatch(ctx, urls, timeout)
	}
}

// runOne performs a single one-shot generation behind a spinner.
func (c *generateCommander) runOne(ctx context.Context, siteURL string, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	var text string
	generate := func() error {
		var err error
		text, err = c.client.Generate(ctx, siteURL)
		return err
	}

	var err error
	if c.interactive {
		err = cliui.Step(c.stderr, "Generating llms.txt for "+cliui.URLStyle.Render(siteURL), generate)
	} else {
		err = generate()
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	c.saveRecord(ctx, archive.NewRecord(siteURL, text, archive.ModeOneShot, 0))
	return c.printDocument(text)
}

// runBatch generates every URL on the worker pool and reports each result
// as it completes.
func (c *generateCommander) runBatch(ctx context.Context, urls []string, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	pool, err := worker.NewPool(ctx, &worker.Config{
		Generator:  c.client,
		Archive:    c.archive,
		NumWorkers: c.cfg.Generate.Parallel,
		QueueSize:  uint(len(urls)),
		Logger:     c.logger,
	})
	if err != nil {
		return err
	}

	for _, u := range urls {
		pool.Enqueue(u)
	}
	go pool.Close()

	failed := 0
	for res := range pool.Results() {
		line := fmt.Sprintf("%s %s %s",
			cliui.Mark(res.Err),
			cliui.URLStyle.Render(res.URL),
			cliui.StepStyle.Render("("+cliui.FormatDuration(res.Duration)+")"),
		)

		if res.Err != nil {
			failed++
			fmt.Fprintf(c.stderr, "%s %s\n", line, cliui.DimStyle.Render(res.Err.Error()))
			continue
		}

		if res.RecordID != "" {
			line += " " + cliui.DimStyle.Render(res.RecordID)
		}
		fmt.Fprintln(c.stderr, line)

		if err := c.printDocument(res.LlmsTxt); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d generations failed", failed, len(urls))
	}
	return nil
}

// saveRecord archives rec when the archive is enabled. Archive failures are
// logged and do not fail the command, since the document is still printed.
func (c *generateCommander) saveRecord(ctx context.Context, rec *archive.Record) {
	if c.archive == nil {
		return
	}

	if err := c.archive.Put(ctx, rec); err != nil {
		c.logger.Warn("failed to archive generation",
			slog.String("url", rec.URL),
			slog.String("error", err.Error()),
		)
		return
	}

	c.logger.Debug("archived generation",
		slog.String("id", rec.ID),
		slog.String("url", rec.URL),
	)
}

// printDocument writes text to stdout, rendered as markdown unless --raw was
// given or stdout is not a terminal.
func (c *generateCommander) printDocument(text string) error {
	if c.raw || !isTerminal(c.stdout) {
		_, err := io.WriteString(c.stdout, text)
		return err
	}

	rendered, err := cliui.RenderMarkdown(text, c.width)
	if err != nil {
		c.logger.Debug("markdown rendering failed", slog.String("error", err.Error()))
	}
	_, err = io.WriteString(c.stdout, rendered)
	return err
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && cliui.IsTerminal(f)
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 80
	}
	return cliui.TerminalWidth(f, 80)
}
