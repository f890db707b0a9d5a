package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mediadrop/mediadrop/pkg/auth"
	"github.com/mediadrop/mediadrop/pkg/environment"
	"github.com/mediadrop/mediadrop/pkg/intake"
	"github.com/mediadrop/mediadrop/pkg/logging"
	"github.com/mediadrop/mediadrop/pkg/storage"
)

// multipartOverhead is slack added on top of the upload size limit to
// account for multipart boundaries and form fields in the raw body.
const multipartOverhead = 1 << 20

// Server owns the gin engine and the HTTP surface of the service.
type Server struct {
	cfg      *environment.Config
	engine   *gin.Engine
	store    *storage.Store
	pipeline *intake.Pipeline
	logger   *logging.Logger
}

// NewServer wires routes and middleware onto a fresh engine.
func NewServer(cfg *environment.Config, store *storage.Store, pipeline *intake.Pipeline, gate *auth.Gate, logger *logging.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())

	if len(cfg.TrustedProxies) > 0 {
		engine.ForwardedByClientIP = true
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			logger.Error("unable to set trusted proxies", "error", err)
		}
	}

	s := &Server{
		cfg:      cfg,
		engine:   engine,
		store:    store,
		pipeline: pipeline,
		logger:   logger,
	}

	engine.GET("/health", s.handleHealth)
	engine.POST("/upload", gate.Middleware(), s.limitBody, s.handleUpload)
	engine.GET("/files/:name", s.handleServeFile)
	engine.DELETE("/files/:name", gate.Middleware(), s.handleDelete)

	return s
}

// Engine exposes the underlying gin engine, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// limitBody caps the raw request body so an oversized transfer aborts
// instead of buffering to completion.
func (s *Server) limitBody(c *gin.Context) {
	if s.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes+multipartOverhead)
	}
	c.Next()
}
