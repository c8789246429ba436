package iofs

import (
	"os"

	"github.com/edugraph/skillmap/pkg/config"
	"github.com/edugraph/skillmap/pkg/templates"
)

// EnsureDirs creates the directories skillmap needs under the home
// directory. Safe to call on every start.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.EmbedCacheDir(homeDir),
		config.LogDir(homeDir),
		config.ExportDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the embedded default config.yaml to the
// config directory on first run. An existing file is left untouched.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	// Write embedded config.yaml to the config directory
	if err := os.WriteFile(
		configPath, []byte(templates.ConfigYAML), 0644,
	); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}
