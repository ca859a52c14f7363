// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	apperrors "talent-intake/internal/common/errors"
	"talent-intake/internal/common/logger"
	"talent-intake/internal/common/observability"
	"talent-intake/internal/intake"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PingFunc reports backing-service health for /healthz.
type PingFunc func(ctx context.Context) error

// Server is the public HTTP surface of the intake pipeline. Every intake
// response is transport-level 200; success/failure lives in the body.
type Server struct {
	engine         *gin.Engine
	pipeline       *intake.Pipeline
	errHandler     *apperrors.ErrorHandler
	obs            *observability.Observability
	logger         logger.Logger
	requestTimeout time.Duration
	pings          map[string]PingFunc
}

func New(
	pipeline *intake.Pipeline,
	obs *observability.Observability,
	log logger.Logger,
	requestTimeout time.Duration,
	pings map[string]PingFunc,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:         engine,
		pipeline:       pipeline,
		errHandler:     apperrors.NewErrorHandler(log),
		obs:            obs,
		logger:         log.WithFields(map[string]interface{}{"component": "http-server"}),
		requestTimeout: requestTimeout,
		pings:          pings,
	}

	engine.POST("/api/v1/applications", s.handleSubmit)
	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestIdentity is the minimal pre-parse used only for log context when
// the pipeline rejects a request.
type requestIdentity struct {
	TenantID string `json:"tenantId"`
	PostID   string `json:"postId"`
}

func (s *Server) handleSubmit(c *gin.Context) {
	start := time.Now()

	raw, err := c.GetRawData()
	if err != nil {
		body := s.errHandler.HandleRequestError(apperrors.NewInternalError(err), "", "")
		c.JSON(http.StatusOK, body)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
	defer cancel()

	resp, err := s.pipeline.Submit(ctx, raw)
	if err != nil {
		var ident requestIdentity
		_ = json.Unmarshal(raw, &ident)

		body := s.errHandler.HandleRequestError(err, ident.TenantID, ident.PostID)
		s.obs.RecordRequest(ctx, "rejected")
		s.obs.RecordDuration(ctx, time.Since(start), "rejected")
		c.JSON(http.StatusOK, body)
		return
	}

	s.obs.RecordRequest(ctx, "accepted")
	s.obs.RecordDuration(ctx, time.Since(start), "accepted")
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.pings))
	for name, ping := range s.pings {
		if err := ping(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks[name] = "ok"
		}
	}

	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
}
