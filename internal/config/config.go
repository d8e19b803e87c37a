// Package config loads gedquiz settings from defaults, an optional YAML
// file, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/abhisek/gedquiz/internal/generator"
	"github.com/abhisek/gedquiz/internal/llm"
	"github.com/abhisek/gedquiz/internal/quiz"
	"github.com/abhisek/gedquiz/internal/store"
)

// EnvPrefix is prepended to every environment key, e.g.
// GEDQUIZ_QUIZ_DIFFICULTY for quiz.difficulty.
const EnvPrefix = "GEDQUIZ"

// Config is the fully resolved application configuration.
type Config struct {
	LLM    llm.Config
	Quiz   QuizConfig
	Log    LogConfig
	DBPath string
	Addr   string

	// KeyDiscovered is set when the LLM provider was chosen from a
	// provider-standard API key variable rather than explicit settings.
	KeyDiscovered bool
}

// QuizConfig holds per-session settings.
type QuizConfig struct {
	Difficulty  generator.Difficulty
	TimeLimit   int
	HistorySize int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	File  string
}

// Options returns controller options for these settings.
func (q QuizConfig) Options() quiz.Options {
	return quiz.Options{
		Difficulty:  q.Difficulty,
		TimeLimit:   q.TimeLimit,
		HistorySize: q.HistorySize,
	}
}

// New returns a viper instance with gedquiz defaults and environment
// binding applied. If file is non-empty it must exist; otherwise
// gedquiz.yaml is looked up in the working directory and the user config
// dir, and silently skipped when absent.
func New(file string) (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName("gedquiz")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "gedquiz"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.rate_limit.rps", d.RateLimit.RPS)
	v.SetDefault("llm.rate_limit.burst", d.RateLimit.Burst)

	v.SetDefault("quiz.difficulty", string(generator.Medium))
	v.SetDefault("quiz.time_limit", quiz.DefaultTimeLimit)
	v.SetDefault("quiz.history_size", quiz.DefaultHistorySize)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("db.path", "")
	v.SetDefault("server.addr", ":8080")
}

// Load resolves a Config from v. The LLM section is not validated here so
// commands that never call a provider still work without a key; callers
// that need one run Config.LLM.Validate.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		LLM: loadLLM(v),
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		DBPath: v.GetString("db.path"),
		Addr:   v.GetString("server.addr"),
	}

	if cfg.LLM.Provider == "" {
		base := cfg.LLM
		base.Provider = llm.DefaultConfig().Provider
		cfg.LLM, cfg.KeyDiscovered = llm.DiscoverConfig(base)
	}

	level, err := generator.ParseDifficulty(v.GetString("quiz.difficulty"))
	if err != nil {
		return nil, fmt.Errorf("quiz.difficulty: %w", err)
	}
	cfg.Quiz = QuizConfig{
		Difficulty:  level,
		TimeLimit:   v.GetInt("quiz.time_limit"),
		HistorySize: v.GetInt("quiz.history_size"),
	}
	if cfg.Quiz.TimeLimit < 1 {
		return nil, fmt.Errorf("quiz.time_limit must be positive, got %d", cfg.Quiz.TimeLimit)
	}
	if cfg.Quiz.HistorySize < 1 || cfg.Quiz.HistorySize > quiz.DefaultHistorySize {
		return nil, fmt.Errorf("quiz.history_size must be between 1 and %d, got %d", quiz.DefaultHistorySize, cfg.Quiz.HistorySize)
	}

	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func loadLLM(v *viper.Viper) llm.Config {
	c := llm.DefaultConfig()
	c.Provider = strings.ToLower(strings.TrimSpace(v.GetString("llm.provider")))

	c.Anthropic.APIKey = v.GetString("llm.anthropic.api_key")
	c.Anthropic.Model = v.GetString("llm.anthropic.model")
	c.OpenAI.APIKey = v.GetString("llm.openai.api_key")
	c.OpenAI.Model = v.GetString("llm.openai.model")
	c.OpenAI.BaseURL = v.GetString("llm.openai.base_url")
	c.Gemini.APIKey = v.GetString("llm.gemini.api_key")
	c.Gemini.Model = v.GetString("llm.gemini.model")
	c.OpenRouter.APIKey = v.GetString("llm.openrouter.api_key")
	c.OpenRouter.Model = v.GetString("llm.openrouter.model")
	c.OpenRouter.BaseURL = v.GetString("llm.openrouter.base_url")

	c.Timeout = v.GetDuration("llm.timeout")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	c.Retry.MaxAttempts = v.GetInt("llm.retry.max_attempts")
	c.RateLimit.RPS = v.GetFloat64("llm.rate_limit.rps")
	c.RateLimit.Burst = v.GetInt("llm.rate_limit.burst")
	return c
}
