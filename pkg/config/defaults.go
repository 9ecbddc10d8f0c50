package config

// Event stream providers.
const (
	EventStreamNop   = "nop"
	EventStreamKafka = "kafka"
)

const (
	defaultTarget       = "http://localhost:8080"
	defaultGeneratePath = "/api/generate"
	defaultStreamPath   = "/api/generate-stream"
	defaultTimeout      = "10m"

	defaultParallel = 4

	defaultEventStreamProvider = EventStreamNop
	defaultEventStreamBrokers  = "localhost:9092"
	defaultEventStreamTopic    = "llmstxt.generations"

	defaultMCPListen = ":8090"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			Target:       defaultTarget,
			GeneratePath: defaultGeneratePath,
			StreamPath:   defaultStreamPath,
			Timeout:      defaultTimeout,
		},
		Generate: GenerateConfig{
			Parallel: defaultParallel,
		},
		Archive: ArchiveConfig{
			Enabled: true,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Brokers:  defaultEventStreamBrokers,
			Topic:    defaultEventStreamTopic,
		},
		MCP: MCPConfig{
			Listen: defaultMCPListen,
		},
	}
}
