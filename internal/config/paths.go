// ABOUTME: Standard filesystem paths for buddy configuration and data
// ABOUTME: Resolves ~/.buddy/ for global and .buddy/ for project-local paths

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".buddy"
	projectDirName = ".buddy"
)

// GlobalDir returns the user-global config directory (~/.buddy/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory (.buddy/ in cwd).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// AuthFile returns the path to the auth credentials file.
func AuthFile() string {
	return filepath.Join(GlobalDir(), "auth.json")
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), "config.json")
}

// ProjectConfigFile returns the path to the project-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), "config.json")
}

// PersonaDirs returns the persona directories in resolution order
// (project-local first, then global).
func PersonaDirs(projectRoot string) []string {
	return []string{
		filepath.Join(ProjectDir(projectRoot), "personas"),
		filepath.Join(GlobalDir(), "personas"),
	}
}

// EnsureDir creates the directory if it does not exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
