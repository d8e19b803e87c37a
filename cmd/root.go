package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/gedquiz/internal/config"
	"github.com/abhisek/gedquiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "gedquiz",
	Short: "Timed GED math practice in the terminal",
	Long: `gedquiz serves AI-generated GED-style math questions one at a time,
with a countdown per question and a step-by-step explanation for every miss.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file (default: ./gedquiz.yaml or the user config dir)")
	flags.String("db", "", "Path to SQLite database file (overrides GEDQUIZ_DB_PATH and GEDQUIZ_DB)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("provider", "", "LLM provider: anthropic, openai, gemini, openrouter, mock")

	rootCmd.Flags().String("difficulty", "", "Starting difficulty: easy, medium, hard")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// loadConfig resolves configuration from file, .env and environment, then
// applies command-line overrides on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	v, err := config.New(file)
	if err != nil {
		return nil, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		v.Set("db.path", p)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		v.Set("log.level", lvl)
	}
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		v.Set("llm.provider", p)
	}
	if f := cmd.Flags().Lookup("difficulty"); f != nil && f.Value.String() != "" {
		v.Set("quiz.difficulty", f.Value.String())
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the db.path setting, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	return cfg.DBPath, store.EnsureDir(cfg.DBPath)
}

// sessionFields tags every log line of one process run.
func sessionFields(cfg *config.Config, sessionID string) logrus.Fields {
	return logrus.Fields{
		"session":    sessionID,
		"provider":   cfg.LLM.Provider,
		"difficulty": string(cfg.Quiz.Difficulty),
	}
}
