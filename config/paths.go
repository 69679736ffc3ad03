package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appName = "fitchat"

// GetDefaultDataDir returns $XDG_DATA_HOME/fitchat, falling back to
// ~/.local/share/fitchat.
func GetDefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); filepath.IsAbs(xdg) {
		return filepath.Join(xdg, appName)
	}
	return filepath.Join(GetHomeDir(), ".local", "share", appName)
}

// GetHomeDir returns the user's home directory, or the working directory when
// none is known.
func GetHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// ExpandPath resolves a leading ~ and $VARS, then cleans the result.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = GetHomeDir() + path[1:]
	}
	return filepath.Clean(os.ExpandEnv(path))
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDataDirPermissions creates dataDir if needed and restricts it to the
// owner.
func EnsureDataDirPermissions(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return err
	}
	return os.Chmod(dataDir, 0700)
}
