// Package utils provides small helpers shared by the llmstxt commands that
// don't warrant a package of their own.
package utils

// Build metadata, overridden at link time with
// -X github.com/papercomputeco/llmstxt/pkg/utils.Version=... and friends.
// The MCP server also reports Version in its implementation info.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
