package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edugraph/skillmap/pkg/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnsureDirs_CreatesDirectories verifies all required
// directories are created.
func TestEnsureDirs_CreatesDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirs(tmpDir)
	require.NoError(t, err)

	dirs := []string{
		filepath.Join(tmpDir, ".config", "skillmap"),
		filepath.Join(tmpDir, ".cache", "skillmap"),
		filepath.Join(tmpDir, ".cache", "skillmap", "embed"),
		filepath.Join(tmpDir, ".local", "share", "skillmap", "logs"),
		filepath.Join(tmpDir, ".local", "share", "skillmap", "exports"),
	}
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}
}

// TestEnsureDirs_Idempotent verifies multiple calls work.
func TestEnsureDirs_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureDirs(tmpDir))
}

// TestTouchDir_CreatesNewDirectory verifies new directory
// creation.
func TestTouchDir_CreatesNewDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	newDir := filepath.Join(tmpDir, "test", "subdir")

	err := touchDir(newDir)
	require.NoError(t, err)

	info, err := os.Stat(newDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// TestEnsureConfigFile_CreatesFile verifies config file
// is created from the embedded template.
func TestEnsureConfigFile_CreatesFile(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureConfigFile(tmpDir))

	configPath := filepath.Join(tmpDir, ".config", "skillmap",
		"config.yaml")
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, templates.ConfigYAML, string(content),
		"Config file content should match embedded template")
}

// TestEnsureConfigFile_Idempotent verifies existing file
// is not overwritten.
func TestEnsureConfigFile_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureConfigFile(tmpDir))

	configPath := filepath.Join(tmpDir, ".config", "skillmap",
		"config.yaml")

	customContent := "# Custom config\ndatabase:\n  host: myhost"
	err := os.WriteFile(configPath, []byte(customContent), 0644)
	require.NoError(t, err)

	require.NoError(t, EnsureConfigFile(tmpDir))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, customContent, string(content),
		"Existing config file should not be overwritten")
}

// TestConfigYAML_Embedded verifies embedded config is not empty.
func TestConfigYAML_Embedded(t *testing.T) {
	assert.NotEmpty(t, templates.ConfigYAML)
	assert.Contains(t, templates.ConfigYAML, "database")
	assert.Contains(t, templates.ConfigYAML, "classify")
	assert.Contains(t, templates.ConfigYAML, "mapping")
	assert.Contains(t, templates.ConfigYAML, "log")
}
