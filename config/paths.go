package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// GetConfigDir returns the platform-specific configuration directory
// Linux/Mac: ~/.config/chatui
// Windows: C:\Users\username\.config\chatui
func GetConfigDir() string {
	return filepath.Join(GetHomeDir(), ".config", "chatui")
}

// GetCacheDir returns the platform-specific cache directory, used for the debug log
// Linux/Mac: ~/.cache/chatui
// Windows: C:\Users\username\AppData\Local\chatui
func GetCacheDir() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(GetHomeDir(), "AppData", "Local")
		}
		return filepath.Join(localAppData, "chatui")
	}

	return filepath.Join(GetHomeDir(), ".cache", "chatui")
}

// GetConfigFilePath returns the path to config.toml
func GetConfigFilePath() string {
	return filepath.Join(GetConfigDir(), "config.toml")
}

// GetHomeDir returns the user's home directory across platforms
func GetHomeDir() string {
	if runtime.GOOS == "windows" {
		home := os.Getenv("USERPROFILE")
		if home == "" {
			home = os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
		}
		if home == "" {
			home = "C:\\"
		}
		return home
	}
	return os.Getenv("HOME")
}

// ExpandPath replaces a leading ~ with the home directory
func ExpandPath(path string) string {
	if path == "~" {
		return GetHomeDir()
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
		return filepath.Join(GetHomeDir(), path[2:])
	}
	return path
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir with user-only permissions if it does not exist
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0700)
}
