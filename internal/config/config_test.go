package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calenai.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
	assert.Equal(t, "llama3.2", cfg.Model)
	assert.Equal(t, 7, cfg.HorizonDays)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadNormalizesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calenai.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: mistral\nhorizon_days: -2\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mistral", cfg.Model)
	assert.Equal(t, 7, cfg.HorizonDays)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calenai.yaml")

	cfg := DefaultConfig()
	cfg.Model = "llama3.1"
	cfg.DigestCron = "0 8 * * *"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "llama3.1", loaded.Model)
	assert.Equal(t, "0 8 * * *", loaded.DigestCron)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CALENAI_OLLAMA_URL", "http://127.0.0.1:9999")
	t.Setenv("CALENAI_MODEL", "phi3")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "http://127.0.0.1:9999", cfg.OllamaURL)
	assert.Equal(t, "phi3", cfg.Model)
}
