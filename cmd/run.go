package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/gedquiz/internal/app"
	"github.com/abhisek/gedquiz/internal/generator"
	"github.com/abhisek/gedquiz/internal/llm"
	"github.com/abhisek/gedquiz/internal/logging"
	"github.com/abhisek/gedquiz/internal/quiz"
	"github.com/abhisek/gedquiz/internal/store"
)

// runApp opens the store, builds the quiz session, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.LLM.Validate(); err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	// The terminal belongs to the UI, so logs always go to a file.
	logFile := cfg.Log.File
	if logFile == "" {
		if logFile, err = logging.DefaultFile(); err != nil {
			return err
		}
	}
	log, closeLog, err := logging.New(logging.Options{Level: cfg.Log.Level, File: logFile})
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = closeLog() }()

	if err := store.EnsureDir(cfg.DBPath); err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	sessionID := uuid.NewString()
	entry := log.WithFields(sessionFields(cfg, sessionID))
	if cfg.KeyDiscovered {
		entry.Info("using LLM provider discovered from environment")
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), entry)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	opts := cfg.Quiz.Options()
	opts.SessionID = sessionID
	opts.Logger = entry
	session := quiz.New(generator.New(provider, generator.DefaultConfig()), opts)

	entry.Info("starting interactive session")
	if err := app.Run(ctx, app.Options{
		Session:   session,
		EventRepo: st.EventRepo(),
		Log:       entry,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "See", logFile, "for details.")
		return err
	}
	return nil
}
