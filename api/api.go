package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"clickupai/analysis"
	"clickupai/common"
	"clickupai/domain"
	"clickupai/fflag"
	"clickupai/frontend"
	"clickupai/secret_manager"
	"clickupai/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Analyzer runs one analysis pass. *analysis.Pipeline implements it.
type Analyzer interface {
	Run(ctx context.Context, req domain.AnalysisRequest, observer analysis.Observer) (domain.AnalysisResult, error)
}

type Controller struct {
	analyzer  Analyzer
	templates []domain.Template
	upgrader  websocket.Upgrader
}

func NewController(analyzer Analyzer, templates []domain.Template) Controller {
	if templates == nil {
		templates = domain.DefaultTemplates
	}
	return Controller{
		analyzer:  analyzer,
		templates: templates,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// NewControllerFromConfig wires a pipeline from the local config. The
// returned cleanup releases the feature flag client.
func NewControllerFromConfig(cfg common.LocalConfig, secrets secret_manager.SecretManager) (Controller, func(), error) {
	cfg = cfg.WithDefaults()
	flags, err := fflag.NewFFlag(cfg.FlagsFile)
	if err != nil {
		return Controller{}, nil, fmt.Errorf("failed to load feature flags: %w", err)
	}
	pipeline := analysis.NewFromConfig(cfg, secrets, flags)
	return NewController(pipeline, pipeline.Options.Templates), flags.Close, nil
}

// RunServer starts the HTTP server on addr in the background. Callers stop it
// with Shutdown.
func RunServer(addr string) (*http.Server, error) {
	gin.SetMode(gin.ReleaseMode)
	if common.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	ctrl, cleanup, err := NewControllerFromConfig(cfg, secret_manager.DefaultSecretManager())
	if err != nil {
		return nil, err
	}
	allowlist, err := OriginAllowlistFromEnv()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("invalid allowed origins: %w", err)
	}
	router := DefineRoutes(ctrl, allowlist)

	srv := &http.Server{
		Addr:    addr,
		Handler: router.Handler(),
	}
	srv.RegisterOnShutdown(cleanup)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	log.Info().Str("addr", addr).Msg("API server listening")
	return srv, nil
}

func DefineRoutes(ctrl Controller, allowlist OriginAllowlist) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), otelgin.Middleware(telemetry.ServiceName), corsMiddleware(allowlist))
	r.ForwardedByClientIP = true
	r.SetTrustedProxies(nil)
	r.SetHTMLTemplate(frontend.Templates())

	ctrl.upgrader.CheckOrigin = allowlist.CheckOrigin

	r.GET("/", ctrl.IndexHandler)
	r.POST("/analyze", ctrl.AnalyzeFormHandler)
	r.GET("/healthz", ctrl.HealthHandler)
	r.StaticFS("/static", http.FS(frontend.StaticSubdirFs))

	apiRoutes := r.Group("/api/v1")
	apiRoutes.POST("/analyses", ctrl.CreateAnalysisHandler)
	apiRoutes.GET("/use_cases", ctrl.GetUseCasesHandler)
	apiRoutes.GET("/templates", ctrl.GetTemplatesHandler)
	apiRoutes.GET("/schema/analysis", ctrl.GetAnalysisSchemaHandler)

	wsRoutes := r.Group("/ws/v1")
	wsRoutes.GET("/analyze", ctrl.AnalyzeWebsocketHandler)

	return r
}

func (ctrl *Controller) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ErrorHandler responds with the user-facing message for err and its kind.
func (ctrl *Controller) ErrorHandler(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("kind", string(kind)).Msg("Request failed")
	}
	c.JSON(status, gin.H{"error": analysis.UserMessage(err), "kind": kind})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.ErrorKindAuth:
		return http.StatusUnauthorized
	case domain.ErrorKindNotFound:
		return http.StatusNotFound
	case domain.ErrorKindRateLimit:
		return http.StatusTooManyRequests
	case domain.ErrorKindTransient, domain.ErrorKindCanceled:
		return http.StatusServiceUnavailable
	case domain.ErrorKindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger logs requests through zerolog. Query strings are not logged.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("HTTP request")
	}
}
