package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	assistantdomain "github.com/smallbiznis/tariffdesk/internal/assistant/domain"
	"github.com/smallbiznis/tariffdesk/internal/assistant/completion"
	"github.com/smallbiznis/tariffdesk/internal/assistant/stream"
	"github.com/smallbiznis/tariffdesk/internal/config"
	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
	"github.com/smallbiznis/tariffdesk/internal/observability"
	obsmiddleware "github.com/smallbiznis/tariffdesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/tariffdesk/internal/observability/metrics"
	obstracing "github.com/smallbiznis/tariffdesk/internal/observability/tracing"
	"github.com/smallbiznis/tariffdesk/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
		ClientIP:        clientIP,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func registerRoutes(s *Server) {
	s.RegisterAPIRoutes()
	s.RegisterUIRoutes()
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	docsSvc      docsdomain.Service
	assistantSvc assistantdomain.Service
	completion   completion.Client
	sessions     *stream.Sessions
	limiter      ratelimit.RateLimiter
	validate     *Validator
	obsMetrics   *obsmetrics.Metrics
	httpMetrics  *obsmetrics.HTTPMetrics
	log          *zap.Logger
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DocsSvc      docsdomain.Service
	AssistantSvc assistantdomain.Service
	Completion   completion.Client
	Sessions     *stream.Sessions
	Limiter      ratelimit.RateLimiter
	ObsMetrics   *obsmetrics.Metrics     `optional:"true"`
	HTTPMetrics  *obsmetrics.HTTPMetrics `optional:"true"`
	Log          *zap.Logger
}

func NewServer(p ServerParams) *Server {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	sessions := p.Sessions
	if sessions == nil {
		sessions = stream.NewSessions()
	}
	return &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		docsSvc:      p.DocsSvc,
		assistantSvc: p.AssistantSvc,
		completion:   p.Completion,
		sessions:     sessions,
		limiter:      p.Limiter,
		validate:     NewValidator(),
		obsMetrics:   p.ObsMetrics,
		httpMetrics:  p.HTTPMetrics,
		log:          log.Named("http"),
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/docs", s.ListDocs)
	api.POST("/chat", s.ChatRateLimit(), s.Chat)

	api.POST("/pricing", s.ComputePricing)
	api.GET("/pricing/formulas", s.ListPricingFormulas)
	api.POST("/prorata", s.ComputeProrata)
	api.POST("/vat", s.ComputeVAT)
	api.GET("/links", s.ListSmartLinks)
}

// RegisterUIRoutes serves the bundled frontend for every non-API path.
// USE_LEGACY_UI switches to the legacy bundle.
func (s *Server) RegisterUIRoutes() {
	root := s.cfg.UIRoot()
	s.engine.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			AbortWithError(c, ErrNotFound)
			return
		}
		if isAPIPath(c.Request.URL.Path) {
			AbortWithError(c, ErrNotFound)
			return
		}

		// static assets (vite)
		if fileExists(root, c.Request.URL.Path) {
			c.File(filepath.Join(root, filepath.Clean(c.Request.URL.Path)))
			return
		}

		// SPA fallback
		index := filepath.Join(root, "index.html")
		if !fileExists(root, "/index.html") {
			AbortWithError(c, ErrNotFound)
			return
		}
		c.File(index)
	})
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

func fileExists(publicDir, reqPath string) bool {
	clean := filepath.Clean("/" + reqPath)

	// prevent path traversal
	if clean == "." || clean == "/" || clean == ".." {
		return false
	}

	fullPath := filepath.Join(publicDir, clean)

	info, err := os.Stat(fullPath)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
