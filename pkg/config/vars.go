package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "skillmap"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/skillmap by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/skillmap by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/skillmap/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ExportDir returns the default directory for checkpoint snapshots,
// review queues and CSV exports.
// Returns ~/.local/share/skillmap/exports by default.
func ExportDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "exports")
}

// EmbedCacheDir returns the directory of the embedding cache.
// Returns ~/.cache/skillmap/embed by default.
func EmbedCacheDir(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "embed")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/skillmap/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// OutDir resolves the export directory from the config, falling back
// to the default location under HomeDir.
func (c *Config) OutDir() string {
	if c.Mapping.OutputDir != "" {
		return c.Mapping.OutputDir
	}
	return ExportDir(c.HomeDir)
}
