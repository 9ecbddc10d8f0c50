// Package setup builds the dependencies shared by llmstxt commands from the
// persistent root flags and the resolved configuration.
package setup

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmstxt/cmd/llmstxt/sqlitepath"
	"github.com/papercomputeco/llmstxt/pkg/archive"
	"github.com/papercomputeco/llmstxt/pkg/archive/sqlite"
	"github.com/papercomputeco/llmstxt/pkg/client"
	"github.com/papercomputeco/llmstxt/pkg/config"
	"github.com/papercomputeco/llmstxt/pkg/eventstream"
	"github.com/papercomputeco/llmstxt/pkg/eventstream/kafka"
	"github.com/papercomputeco/llmstxt/pkg/eventstream/nop"
	"github.com/papercomputeco/llmstxt/pkg/logger"
)

// Persistent flag names registered on the root command.
const (
	FlagDebug     = "debug"
	FlagConfigDir = "config-dir"
	FlagLogFile   = "log-file"
)

// Options are the persistent root flags.
type Options struct {
	Debug     bool
	ConfigDir string
	LogFile   string
}

// OptionsFrom reads the persistent flags visible to cmd. Missing flags leave
// their zero value, so subcommands also work when executed on their own.
func OptionsFrom(cmd *cobra.Command) Options {
	var o Options
	o.Debug, _ = cmd.Flags().GetBool(FlagDebug)
	o.ConfigDir, _ = cmd.Flags().GetString(FlagConfigDir)
	o.LogFile, _ = cmd.Flags().GetString(FlagLogFile)
	return o
}

// NewLogger returns the CLI logger: pretty output on stderr, plus JSON lines
// appended to o.LogFile when set. The returned closer releases the log file.
func NewLogger(o Options, stderr io.Writer) (*slog.Logger, func() error, error) {
	pretty := logger.New(
		logger.WithDebug(o.Debug),
		logger.WithPretty(true),
		logger.WithWriter(stderr),
	)

	if o.LogFile == "" {
		return pretty, func() error { return nil }, nil
	}

	f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(
		logger.WithDebug(o.Debug),
		logger.WithJSON(true),
		logger.WithWriter(f),
	)

	return logger.Multi(pretty, file), f.Close, nil
}

// LoadConfig resolves the configuration for cmd, binding the registry flags
// named in flagKeys so that explicitly set flags win over env and file values.
func LoadConfig(cmd *cobra.Command, configDir string, flagKeys []string) (*config.Config, error) {
	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}

	config.BindRegisteredFlags(v, cmd, config.Flags, flagKeys)
	return config.FromViper(v), nil
}

// NewClient builds the generation service client for cfg.
func NewClient(cfg *config.Config, log *slog.Logger) (*client.Client, error) {
	return client.New(cfg.Client.Target,
		client.WithLogger(log),
		client.WithGeneratePath(cfg.Client.GeneratePath),
		client.WithStreamPath(cfg.Client.StreamPath),
	)
}

// OpenArchive opens the SQLite archive, or returns nil when archiving is
// disabled.
func OpenArchive(cfg *config.Config, configDir string, log *slog.Logger) (archive.Driver, error) {
	if !cfg.Archive.Enabled {
		log.Debug("archive disabled")
		return nil, nil
	}

	return OpenSQLite(cfg.Archive.SQLitePath, configDir, log)
}

// OpenSQLite opens the SQLite archive regardless of archive.enabled.
func OpenSQLite(override, configDir string, log *slog.Logger) (archive.Driver, error) {
	path, err := sqlitepath.ResolveSQLitePath(override, configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving archive path: %w", err)
	}

	driver, err := sqlite.NewDriver(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	log.Debug("using SQLite archive", slog.String("path", path))
	return driver, nil
}

// NewPublisher builds the event stream publisher selected by cfg.
func NewPublisher(cfg *config.Config, log *slog.Logger) (eventstream.Publisher, error) {
	switch cfg.EventStream.Provider {
	case "", config.EventStreamNop:
		return nop.NewPublisher(), nil

	case config.EventStreamKafka:
		p, err := kafka.NewPublisher(kafka.Config{
			Brokers: cfg.EventStream.BrokerList(),
			Topic:   cfg.EventStream.Topic,
		})
		if err != nil {
			return nil, fmt.Errorf("creating kafka publisher: %w", err)
		}
		log.Debug("publishing stream events to kafka",
			slog.String("brokers", cfg.EventStream.Brokers),
			slog.String("topic", cfg.EventStream.Topic),
		)
		return p, nil

	default:
		return nil, fmt.Errorf("unknown event stream provider: %q", cfg.EventStream.Provider)
	}
}

// CloseAll closes every non-nil closer and joins their errors.
func CloseAll(closers ...io.Closer) error {
	var errs []error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
