package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appName = "opdflow"

// UserConfigPath returns the user-level config file, honoring
// XDG_CONFIG_HOME on Linux.
func UserConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.yml"), nil
}

// ProjectConfigPath returns the project-level config file, relative to the
// working directory.
func ProjectConfigPath() string {
	return ".opdflow.yml"
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
