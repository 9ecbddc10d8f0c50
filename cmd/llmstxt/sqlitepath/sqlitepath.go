// Package sqlitepath resolves where the SQLite generation archive lives.
package sqlitepath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/papercomputeco/llmstxt/pkg/dotdir"
)

// ResolveSQLitePath returns the archive database path. Order of precedence:
//  1. override (--sqlite or archive.sqlite_path)
//  2. LLMSTXT_SQLITE
//  3. an existing $XDG_DATA_HOME/llmstxt/archive.sqlite
//  4. archive.sqlite inside the resolved .llmstxt/ directory
func ResolveSQLitePath(override, configDir string) (string, error) {
	if override != "" {
		return override, nil
	}

	if envPath := strings.TrimSpace(os.Getenv("LLMSTXT_SQLITE")); envPath != "" {
		return envPath, nil
	}

	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		candidate := filepath.Join(xdgHome, "llmstxt", "archive.sqlite")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return dotdir.NewManager().ArchivePath(configDir)
}
