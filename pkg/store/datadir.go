package store

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user data and config directories.
const AppName = "cadence"

// EnvDataDir overrides the data directory when set.
const EnvDataDir = "CADENCE_DIR"

// DefaultDataDir returns where task files live when nothing overrides it.
//
//   - macOS:   ~/Library/Application Support/cadence
//   - Linux:   $XDG_DATA_HOME/cadence (fallback ~/.local/share/cadence)
//   - Windows: %LOCALAPPDATA%\cadence (fallback %APPDATA%\cadence)
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return dataDirFor(runtime.GOOS, home, os.Getenv)
}

func dataDirFor(goos, home string, getenv func(string) string) string {
	if dir := getenv(EnvDataDir); dir != "" {
		return dir
	}
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", AppName)
	case "windows":
		for _, key := range []string{"LOCALAPPDATA", "APPDATA"} {
			if dir := getenv(key); dir != "" {
				return filepath.Join(dir, AppName)
			}
		}
		return filepath.Join(home, AppName)
	default:
		if dir := getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, AppName)
		}
		return filepath.Join(home, ".local", "share", AppName)
	}
}
