package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/gedquiz/internal/generator"
	"github.com/abhisek/gedquiz/internal/llm"
	"github.com/abhisek/gedquiz/internal/logging"
	"github.com/abhisek/gedquiz/internal/quiz"
	"github.com/abhisek/gedquiz/internal/server"
	"github.com/abhisek/gedquiz/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a single quiz session over HTTP",
	Long: `Serve one quiz session as a JSON API for a browser or script front end.

The session lives in memory for the life of the process. Endpoints:
  GET  /healthz          liveness
  GET  /api/state        current session state
  POST /api/start        begin fetching the first question
  POST /api/difficulty   {"level": "easy|medium|hard"}
  POST /api/next         next question after answering
  POST /api/retry        retry a failed question fetch
  POST /api/answer       {"index": 0-3}`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8080, or server.addr)")
	serveCmd.Flags().Bool("json-logs", false, "Emit logs as JSON")
	serveCmd.Flags().String("difficulty", "", "Starting difficulty: easy, medium, hard")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.LLM.Validate(); err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	log, closeLog, err := logging.New(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
		JSON:  jsonLogs,
	})
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = closeLog() }()

	addr := cfg.Addr
	if a, _ := cmd.Flags().GetString("addr"); a != "" {
		addr = a
	}

	if err := store.EnsureDir(cfg.DBPath); err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionID := uuid.NewString()
	entry := log.WithFields(sessionFields(cfg, sessionID))

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), entry)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	opts := cfg.Quiz.Options()
	opts.SessionID = sessionID
	opts.Logger = entry
	session := quiz.New(generator.New(provider, generator.DefaultConfig()), opts)
	defer session.Close()

	return server.New(session, server.DefaultConfig(), entry).Run(ctx, addr)
}
