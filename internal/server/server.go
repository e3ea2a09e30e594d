// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/smartstudy/internal/logger"
	"github.com/abhisek/smartstudy/internal/study"
)

// Analyzer is the pipeline entry point the server drives.
type Analyzer interface {
	Submit(ctx context.Context, key, text string) (*study.Package, error)
}

// Config holds server settings.
type Config struct {
	Addr         string
	AllowOrigins []string
	// AnalyzeTimeout bounds one analysis request. Zero means no bound
	// beyond the client connection.
	AnalyzeTimeout time.Duration
}

// DefaultConfig listens on :8080 and allows the local dev front end.
func DefaultConfig() Config {
	return Config{
		Addr: ":8080",
		AllowOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		AnalyzeTimeout: 3 * time.Minute,
	}
}

// Server serves the HTTP API.
type Server struct {
	cfg      Config
	analyzer Analyzer
	log      *logger.Logger
	engine   *gin.Engine
}

// New builds the router. A nil log disables request logging.
func New(cfg Config, analyzer Analyzer, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Server{cfg: cfg, analyzer: analyzer, log: log}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(s.log))
	r.Use(cors.New(cors.Config{
		AllowOrigins: s.cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Authorization", clientIDHeader, requestIDHeader},
		MaxAge:       12 * time.Hour,
	}))

	r.GET("/healthz", s.health)
	api := r.Group("/api")
	{
		api.POST("/analyze", s.analyze)
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	ctx := c.Request.Context()
	if s.cfg.AnalyzeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.AnalyzeTimeout)
		defer cancel()
	}

	pkg, err := s.analyzer.Submit(ctx, clientKey(c), req.Text)
	if err != nil {
		status, code := statusFor(err)
		respondError(c, status, code, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

const clientIDHeader = "X-Client-ID"

// clientKey identifies the submission context. Browsers send a stable
// X-Client-ID per tab; the remote address is the fallback.
func clientKey(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(clientIDHeader)); id != "" {
		return id
	}
	return c.ClientIP()
}
