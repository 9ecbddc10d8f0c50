package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/llmstxt/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the LLMSTXT_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (LLMSTXT_CLIENT_TARGET, LLMSTXT_MCP_LISTEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("LLMSTXT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper builds a Config from the resolved viper values.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		Client: ClientConfig{
			Target:       v.GetString("client.target"),
			GeneratePath: v.GetString("client.generate_path"),
			StreamPath:   v.GetString("client.stream_path"),
			Timeout:      v.GetString("client.timeout"),
		},
		Generate: GenerateConfig{
			Parallel: v.GetUint("generate.parallel"),
		},
		Archive: ArchiveConfig{
			Enabled:    v.GetBool("archive.enabled"),
			SQLitePath: v.GetString("archive.sqlite_path"),
		},
		EventStream: EventStreamConfig{
			Provider: v.GetString("eventstream.provider"),
			Brokers:  v.GetString("eventstream.brokers"),
			Topic:    v.GetString("eventstream.topic"),
		},
		MCP: MCPConfig{
			Listen: v.GetString("mcp.listen"),
		},
	}
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Client
	v.SetDefault("client.target", d.Client.Target)
	v.SetDefault("client.generate_path", d.Client.GeneratePath)
	v.SetDefault("client.stream_path", d.Client.StreamPath)
	v.SetDefault("client.timeout", d.Client.Timeout)

	// Generate
	v.SetDefault("generate.parallel", d.Generate.Parallel)

	// Archive
	v.SetDefault("archive.enabled", d.Archive.Enabled)
	v.SetDefault("archive.sqlite_path", d.Archive.SQLitePath)

	// Event stream
	v.SetDefault("eventstream.provider", d.EventStream.Provider)
	v.SetDefault("eventstream.brokers", d.EventStream.Brokers)
	v.SetDefault("eventstream.topic", d.EventStream.Topic)

	// MCP
	v.SetDefault("mcp.listen", d.MCP.Listen)
}
