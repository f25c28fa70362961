package config

import (
	"os"
	"path/filepath"
	"strings"
)

// UserConfigPath returns the per-user config file location, or "" when no
// home directory can be resolved.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".rove", "config.yaml")
}

// ProjectConfigPath returns the working-directory config file location.
func ProjectConfigPath() string {
	return filepath.Join(".", ".rove", "config.yaml")
}

// ResolveSnapshotPath returns the absolute path the exit metrics snapshot
// should be written to. Preference order:
//  1. Explicit path configured via telemetry.output_path
//  2. Empty string, which sends the snapshot to stderr
func ResolveSnapshotPath(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	path := strings.TrimSpace(cfg.Telemetry.OutputPath)
	path = expandHomeDir(path)
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func expandHomeDir(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
