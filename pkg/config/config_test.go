package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"OPENAI_API_KEY", "PIPO_ADDR", "PIPO_MAX_STEPS", "PIPO_SESSION_TTL", "PIPO_LOG_PRETTY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10, cfg.MaxSteps)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.ErrorIs(t, cfg.CheckOpenAIKey(), ErrMissingAPIKey)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\nmaxSteps: 4\nsessionTTL: 1h\nmodel: gpt-4o\n"), 0o600))

	t.Setenv("PIPO_MAX_STEPS", "6")
	t.Setenv("PIPO_LOG_PRETTY", "false")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 6, cfg.MaxSteps)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.LogPretty)
	assert.NoError(t, cfg.CheckOpenAIKey())
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("PIPO_MAX_STEPS", "many")
	_, err := Load("")
	assert.ErrorContains(t, err, "PIPO_MAX_STEPS")
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENAI_API_KEY="+PlaceholderOpenAIKey+"\nPERPLEXITY_API_KEY=pplx\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("PERPLEXITY_API_KEY=local\n"), 0o600))
	t.Setenv("OPENAI_API_KEY", "")
	os.Unsetenv("OPENAI_API_KEY")
	t.Setenv("PERPLEXITY_API_KEY", "")
	os.Unsetenv("PERPLEXITY_API_KEY")

	require.NoError(t, LoadEnvFiles(dir))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.CheckOpenAIKey(), ErrPlaceholderAPIKey)
	assert.Equal(t, "local", cfg.PerplexityKey)
}

func TestPerplexityToken(t *testing.T) {
	assert.Empty(t, Config{PerplexityKey: PlaceholderPerplexityKey}.PerplexityToken())
	assert.Equal(t, "k", Config{PerplexityKey: "k"}.PerplexityToken())
}
