package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config represents the persistent llmstxt configuration stored as
// config.toml in the .llmstxt/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Client      ClientConfig      `toml:"client"`
	Generate    GenerateConfig    `toml:"generate"`
	Archive     ArchiveConfig     `toml:"archive"`
	EventStream EventStreamConfig `toml:"eventstream"`
	MCP         MCPConfig         `toml:"mcp"`
}

// ClientConfig holds settings for reaching the generation service.
// Target is a full URL (scheme + host + port).
type ClientConfig struct {
	Target       string `toml:"target,omitempty"`
	GeneratePath string `toml:"generate_path,omitempty"`
	StreamPath   string `toml:"stream_path,omitempty"`
	Timeout      string `toml:"timeout,omitempty"`
}

// TimeoutDuration parses Timeout. An empty value means no timeout.
func (c ClientConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid client.timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

// GenerateConfig holds defaults for "llmstxt generate".
type GenerateConfig struct {
	Parallel uint `toml:"parallel,omitempty"`
}

// ArchiveConfig controls where finished generations are kept.
type ArchiveConfig struct {
	Enabled    bool   `toml:"enabled"`
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// EventStreamConfig selects the publisher stream events are mirrored to.
type EventStreamConfig struct {
	Provider string `toml:"provider,omitempty"`
	Brokers  string `toml:"brokers,omitempty"`
	Topic    string `toml:"topic,omitempty"`
}

// BrokerList splits the comma separated Brokers value.
func (e EventStreamConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(e.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"client.target": {
		get: func(c *Config) string { return c.Client.Target },
		set: func(c *Config, v string) error { c.Client.Target = v; return nil },
	},
	"client.generate_path": {
		get: func(c *Config) string { return c.Client.GeneratePath },
		set: func(c *Config, v string) error { c.Client.GeneratePath = v; return nil },
	},
	"client.stream_path": {
		get: func(c *Config) string { return c.Client.StreamPath },
		set: func(c *Config, v string) error { c.Client.StreamPath = v; return nil },
	},
	"client.timeout": {
		get: func(c *Config) string { return c.Client.Timeout },
		set: func(c *Config, v string) error {
			if v != "" {
				if _, err := time.ParseDuration(v); err != nil {
					return fmt.Errorf("invalid value for client.timeout: %w", err)
				}
			}
			c.Client.Timeout = v
			return nil
		},
	},
	"generate.parallel": {
		get: func(c *Config) string {
			if c.Generate.Parallel == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Generate.Parallel), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for generate.parallel: %w", err)
			}
			c.Generate.Parallel = uint(n)
			return nil
		},
	},
	"archive.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.Archive.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for archive.enabled: %w", err)
			}
			c.Archive.Enabled = b
			return nil
		},
	},
	"archive.sqlite_path": {
		get: func(c *Config) string { return c.Archive.SQLitePath },
		set: func(c *Config, v string) error { c.Archive.SQLitePath = v; return nil },
	},
	"eventstream.provider": {
		get: func(c *Config) string { return c.EventStream.Provider },
		set: func(c *Config, v string) error {
			switch v {
			case EventStreamNop, EventStreamKafka:
			default:
				return fmt.Errorf("invalid value for eventstream.provider: %q (available: %s, %s)",
					v, EventStreamNop, EventStreamKafka)
			}
			c.EventStream.Provider = v
			return nil
		},
	},
	"eventstream.brokers": {
		get: func(c *Config) string { return c.EventStream.Brokers },
		set: func(c *Config, v string) error { c.EventStream.Brokers = v; return nil },
	},
	"eventstream.topic": {
		get: func(c *Config) string { return c.EventStream.Topic },
		set: func(c *Config, v string) error { c.EventStream.Topic = v; return nil },
	},
	"mcp.listen": {
		get: func(c *Config) string { return c.MCP.Listen },
		set: func(c *Config, v string) error { c.MCP.Listen = v; return nil },
	},
}
