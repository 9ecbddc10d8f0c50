// Package api provides the HTTP server that hosts the MCP endpoint and a
// read-only view of the generation archive.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string
}
