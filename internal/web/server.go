// Package web serves the prompt form over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed templates/index.html
var templateFS embed.FS

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// SessionTTL is how long an idle browser session is kept.
	SessionTTL time.Duration
	// CopyReset is how long the page shows the copy confirmation.
	CopyReset time.Duration
}

// Server is the prompt form HTTP server.
type Server struct {
	router   *gin.Engine
	sessions *SessionStore
	opts     Options
}

// NewServer creates a Server whose sessions get controllers from factory.
func NewServer(factory ControllerFactory, opts Options) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.SetHTMLTemplate(tmpl)

	s := &Server{
		router:   router,
		sessions: NewSessionStore(opts.SessionTTL, factory),
		opts:     opts,
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.GET("/", pageSession(s.sessions), s.handleIndex)

	api := router.Group("/api", apiSession(s.sessions))
	api.GET("/state", s.handleState)
	api.PUT("/idea", s.handleIdea)
	api.PUT("/context", s.handleContext)
	api.POST("/submit", s.handleSubmit)
	api.POST("/copy", s.handleCopy)

	return s, nil
}

// Router returns the underlying gin.Engine so it can be used directly in tests
// without starting a real HTTP listener.
func (s *Server) Router() http.Handler {
	return s.router
}

// Sessions returns the server's session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.Run(sweepCtx, sweepInterval)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting web server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server forced to shutdown: %w", err)
	}
	log.Info().Msg("Web server exited")
	return nil
}
