// Package mcpcmder provides the cobra command that runs the MCP server.
package mcpcmder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmstxt/api"
	"github.com/papercomputeco/llmstxt/api/mcp"
	"github.com/papercomputeco/llmstxt/cmd/llmstxt/setup"
	"github.com/papercomputeco/llmstxt/pkg/config"
)

type mcpCommander struct {
	flags config.FlagSet

	listen       string
	target       string
	generatePath string
	streamPath   string
	save         bool
	sqlitePath   string
	publisher    string
	brokers      string
	topic        string

	configDir string
	cfg       *config.Config
	logger    *slog.Logger
}

var mcpFlags = []string{
	config.FlagMCPListen,
	config.FlagTarget,
	config.FlagGeneratePath,
	config.FlagStreamPath,
	config.FlagSave,
	config.FlagSQLite,
	config.FlagPublisher,
	config.FlagBrokers,
	config.FlagTopic,
}

const mcpLongDesc string = `Run the llmstxt MCP server.

MCP clients connect over streamable HTTP at <listen>/mcp and get the
generate_llms_txt tool, which runs a streaming generation and reports
page progress as MCP progress notifications. With the archive enabled,
finished documents are saved and the archived_llms_txt tool and the
/v1/generations routes serve them back.

Examples:
  llmstxt serve mcp
  llmstxt serve mcp --listen :9000 --target https://llmstxt.example.com`

const mcpShortDesc string = "Run the llmstxt MCP server"

func NewMCPCmd() *cobra.Command {
	cmder := &mcpCommander{
		flags: config.Flags,
	}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: mcpShortDesc,
		Long:  mcpLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir = setup.OptionsFrom(cmd).ConfigDir
			cfg, err := setup.LoadConfig(cmd, cmder.configDir, mcpFlags)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, closeLog, err := setup.NewLogger(setup.OptionsFrom(cmd), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()
			cmder.logger = log

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, cmder.flags, config.FlagMCPListen, &cmder.listen)
	config.AddStringFlag(cmd, cmder.flags, config.FlagTarget, &cmder.target)
	config.AddStringFlag(cmd, cmder.flags, config.FlagGeneratePath, &cmder.generatePath)
	config.AddStringFlag(cmd, cmder.flags, config.FlagStreamPath, &cmder.streamPath)
	config.AddBoolFlag(cmd, cmder.flags, config.FlagSave, &cmder.save)
	config.AddStringFlag(cmd, cmder.flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, cmder.flags, config.FlagPublisher, &cmder.publisher)
	config.AddStringFlag(cmd, cmder.flags, config.FlagBrokers, &cmder.brokers)
	config.AddStringFlag(cmd, cmder.flags, config.FlagTopic, &cmder.topic)

	return cmd
}

func (c *mcpCommander) run() error {
	server, closer, err := c.build()
	if err != nil {
		return err
	}
	defer closer.Close()

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
		return server.Shutdown()
	}
}

// build wires the client, archive and publisher into the HTTP server. The
// returned closer releases the archive and the publisher.
func (c *mcpCommander) build() (*api.Server, io.Closer, error) {
	gen, err := setup.NewClient(c.cfg, c.logger)
	if err != nil {
		return nil, nil, err
	}

	driver, err := setup.OpenArchive(c.cfg, c.configDir, c.logger)
	if err != nil {
		return nil, nil, err
	}

	publisher, err := setup.NewPublisher(c.cfg, c.logger)
	if err != nil {
		_ = setup.CloseAll(driver)
		return nil, nil, err
	}

	closer := closeFunc(func() error { return setup.CloseAll(driver, publisher) })

	mcpServer, err := mcp.NewServer(mcp.Config{
		Generator: gen,
		Archive:   driver,
		Publisher: publisher,
		Logger:    c.logger,
	})
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("creating MCP server: %w", err), closer.Close())
	}

	server, err := api.NewServer(api.Config{ListenAddr: c.cfg.MCP.Listen}, driver, mcpServer.Handler(), c.logger)
	if err != nil {
		return nil, nil, errors.Join(err, closer.Close())
	}

	c.logger.Info("generation service",
		slog.String("target", c.cfg.Client.Target),
		slog.Bool("archive", driver != nil),
		slog.String("publisher", c.cfg.EventStream.Provider),
	)

	return server, closer, nil
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }
