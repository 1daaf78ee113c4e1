package config

import (
	"os"
	"path/filepath"
)

const defaultRuntimeDir = ".recall"

// GetRuntimePath resolves the runtime directory. Relative paths are anchored
// at the user's home directory.
func GetRuntimePath() string {
	path := os.Getenv("RECALL_RUNTIME_PATH")
	if path == "" {
		path = defaultRuntimeDir
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
