// Package dotdir resolves the .llmstxt/ directory that holds the config file
// and the local generation archive.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the llmstxt directory.
	dirName = ".llmstxt"

	// archiveFile is the default SQLite archive inside the directory.
	archiveFile = "archive.sqlite"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .llmstxt/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.llmstxt/ dir
//  3. Home ~/.llmstxt/ dir, created if missing
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating llmstxt directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// ArchivePath returns the default SQLite archive path inside the resolved
// .llmstxt/ directory.
func (m *Manager) ArchivePath(overrideDir string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, archiveFile), nil
}

// localDirExists checks whether a .llmstxt/ directory exists in the current
// working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
