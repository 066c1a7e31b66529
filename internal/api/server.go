package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ytscribe/internal/config"
	"ytscribe/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server serves the transcription API.
type Server struct {
	bind              string
	token             string
	dispatchByDefault bool
	processor         Processor
	logger            *slog.Logger

	engine *gin.Engine
	server *http.Server
}

// NewServer builds the router and HTTP server for cfg. The processor is
// invoked once per accepted /transcribe request.
func NewServer(cfg *config.Config, processor Processor, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("api: config is required")
	}
	if processor == nil {
		return nil, errors.New("api: processor is required")
	}
	s := &Server{
		bind:              strings.TrimSpace(cfg.Server.Bind),
		token:             strings.TrimSpace(cfg.Server.APIToken),
		dispatchByDefault: cfg.Webhook.DispatchByDefault,
		processor:         processor,
		logger:            logging.NewComponentLogger(logger, "api"),
	}
	s.engine = s.newRouter()
	s.server = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Transcription runs inside the request; no write deadline.
		IdleTimeout: 60 * time.Second,
	}
	return s, nil
}

// Handler returns the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(requestLogger(s.logger))

	RegisterHealthRoutes(r)
	s.RegisterTranscribeRoutes(r)
	return r
}

// Run listens on the configured bind address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()
	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.Bool("auth", s.token != ""),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		logging.WarnWithContext(s.logger, "api shutdown incomplete", "api_shutdown",
			logging.Error(err),
			logging.String(logging.FieldImpact, "in-flight requests were interrupted"),
		)
		_ = s.server.Close()
	}
	<-errCh
	s.logger.Info("api server stopped")
	return nil
}
