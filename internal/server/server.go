// Package server exposes a quiz session as a small JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/gedquiz/internal/generator"
	"github.com/abhisek/gedquiz/internal/quiz"
)

// Session is the subset of quiz.Controller the API drives.
type Session interface {
	Snapshot() quiz.State
	Start()
	SwitchDifficulty(level generator.Difficulty) error
	FetchNextQuestion()
	Retry() bool
	SelectAnswer(index int) bool
}

// Config tunes the API server.
type Config struct {
	// RateLimitRPS and RateLimitBurst bound mutating requests per client
	// IP. RPS <= 0 disables the limit.
	RateLimitRPS   float64
	RateLimitBurst int
}

// DefaultConfig returns limits suited to a single interactive player.
func DefaultConfig() Config {
	return Config{RateLimitRPS: 5, RateLimitBurst: 10}
}

// Server serves one session.
type Server struct {
	session Session
	log     logrus.FieldLogger
	engine  *gin.Engine
	limits  *clientLimiter
	started time.Time
}

// New builds the router for session.
func New(session Session, cfg Config, log logrus.FieldLogger) *Server {
	s := &Server{
		session: session,
		log:     log,
		limits:  newClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		started: time.Now(),
	}

	bindingTranslator()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(accessLogMiddleware(log))
	r.Use(ginGzip.Gzip(ginGzip.DefaultCompression))
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		log.WithError(err).Warn("failed to set trusted proxies")
	}

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	api.GET("/state", s.handleState)

	mutating := api.Group("", s.rateLimitMiddleware())
	mutating.POST("/start", s.handleStart)
	mutating.POST("/difficulty", s.handleDifficulty)
	mutating.POST("/next", s.handleNext)
	mutating.POST("/retry", s.handleRetry)
	mutating.POST("/answer", s.handleAnswer)

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
