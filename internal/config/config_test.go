package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gedquiz/internal/generator"
)

// isolate runs the test in an empty directory with no provider keys set.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	for _, k := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"GEDQUIZ_DB", "GEDQUIZ_LLM_PROVIDER",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func load(t *testing.T, file string) *Config {
	t.Helper()
	v, err := New(file)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)
	cfg := load(t, "")

	assert.Equal(t, generator.Medium, cfg.Quiz.Difficulty)
	assert.Equal(t, 60, cfg.Quiz.TimeLimit)
	assert.Equal(t, 5, cfg.Quiz.HistorySize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, filepath.Join(dir, "data", "gedquiz", "gedquiz.db"), cfg.DBPath)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-flash", cfg.LLM.Gemini.Model)
	assert.Equal(t, 1, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.False(t, cfg.KeyDiscovered)
	assert.False(t, cfg.LLM.HasKey())
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("GEDQUIZ_QUIZ_DIFFICULTY", "Hard")
	t.Setenv("GEDQUIZ_QUIZ_TIME_LIMIT", "30")
	t.Setenv("GEDQUIZ_LLM_PROVIDER", "openai")
	t.Setenv("GEDQUIZ_LLM_OPENAI_API_KEY", "sk-test")
	t.Setenv("GEDQUIZ_LLM_TIMEOUT", "5s")
	t.Setenv("GEDQUIZ_SERVER_ADDR", "127.0.0.1:9000")

	cfg := load(t, "")
	assert.Equal(t, generator.Hard, cfg.Quiz.Difficulty)
	assert.Equal(t, 30, cfg.Quiz.TimeLimit)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.NoError(t, cfg.LLM.Validate())
}

func TestLoad_DiscoversProviderKey(t *testing.T) {
	isolate(t)
	t.Setenv("ANTHROPIC_API_KEY", "ak-test")

	cfg := load(t, "")
	assert.True(t, cfg.KeyDiscovered)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "ak-test", cfg.LLM.Anthropic.APIKey)
}

func TestLoad_ExplicitProviderSkipsDiscovery(t *testing.T) {
	isolate(t)
	t.Setenv("ANTHROPIC_API_KEY", "ak-test")
	t.Setenv("GEDQUIZ_LLM_PROVIDER", "mock")

	cfg := load(t, "")
	assert.False(t, cfg.KeyDiscovered)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GEDQUIZ_QUIZ_HISTORY_SIZE=3\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("GEDQUIZ_QUIZ_HISTORY_SIZE") })

	cfg := load(t, "")
	assert.Equal(t, 3, cfg.Quiz.HistorySize)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	yaml := "quiz:\n  difficulty: easy\n  time_limit: 45\nlog:\n  level: debug\nllm:\n  provider: mock\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg := load(t, path)
	assert.Equal(t, generator.Easy, cfg.Quiz.Difficulty)
	assert.Equal(t, 45, cfg.Quiz.TimeLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "mock", cfg.LLM.Provider)

	opts := cfg.Quiz.Options()
	assert.Equal(t, generator.Easy, opts.Difficulty)
	assert.Equal(t, 45, opts.TimeLimit)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gedquiz.yaml"), []byte("server:\n  addr: \":7000\"\n"), 0o644))

	cfg := load(t, "")
	assert.Equal(t, ":7000", cfg.Addr)
}

func TestNew_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := New(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"difficulty", "GEDQUIZ_QUIZ_DIFFICULTY", "expert"},
		{"time limit", "GEDQUIZ_QUIZ_TIME_LIMIT", "0"},
		{"history size", "GEDQUIZ_QUIZ_HISTORY_SIZE", "-1"},
		{"history size above cap", "GEDQUIZ_QUIZ_HISTORY_SIZE", "6"},
		{"log level", "GEDQUIZ_LOG_LEVEL", "chatty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)
			v, err := New("")
			require.NoError(t, err)
			_, err = Load(v)
			assert.Error(t, err)
		})
	}
}
