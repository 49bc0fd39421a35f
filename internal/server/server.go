// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/muhammadolammi/skillsync/internal/metrics"
	"github.com/muhammadolammi/skillsync/internal/pipeline"
	"github.com/sirupsen/logrus"
)

const maxUploadSize = 10 << 20

// Analyzer runs one analysis; *pipeline.Pipeline satisfies it.
type Analyzer interface {
	Run(ctx context.Context, in pipeline.Input) (pipeline.Report, error)
}

type Server struct {
	analyzer Analyzer
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

func New(analyzer Analyzer, m *metrics.Metrics, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{analyzer: analyzer, metrics: m, logger: logger}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.POST("/analyses", s.analyze)
	return r
}

// ListenAndServe blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("http request")
	}
}
