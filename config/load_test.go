package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "ontochat.toml")

	content := `
[database]
path = "/tmp/kb.db"

[ontology]
path = "crypto.yaml"

[server]
port = 9000
allowed_origins = ["http://example.com"]

[answer]
max_concepts = 3
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/kb.db", cfg.Database.Path)
	assert.Equal(t, "crypto.yaml", cfg.Ontology.Path)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"http://example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3, cfg.Answer.MaxConcepts)
}

func TestLoadFromFileDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "ontochat.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("# empty\n"), 0o644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "ontochat.db", cfg.Database.Path)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.MessagesPerMinute)
	assert.Equal(t, 5, cfg.Answer.MaxConcepts)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/ontochat.toml")
	assert.Error(t, err)
}

func TestLoadCaches(t *testing.T) {
	Reset()
	defer Reset()

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second, "Load should cache the configuration")
}
