// Package gateway is the composition root: it exposes the HTTP surface,
// authenticates callers against the shared gateway secret, and delegates to
// the order service.
package gateway

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/betbot/bingate/pkg/apperr"
	"github.com/betbot/bingate/pkg/logger"
)

// Config carries the server-side settings.
type Config struct {
	AgentKey string // shared secret for /api/* auth; empty rejects everything
	Env      string // mainnet or testnet, reported by /api/health
}

type Server struct {
	cfg Config
	svc *Service
}

func New(cfg Config, svc *Service) *Server {
	if cfg.AgentKey == "" {
		logger.Warnf("AGENT_KEY is empty; all authenticated endpoints will reject")
	}
	return &Server{cfg: cfg, svc: svc}
}

// Router builds the HTTP surface.
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLog())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/exchangeInfo", s.handleExchangeInfo)
	api.GET("/price", s.handlePrice)

	authed := api.Group("", s.requireAgentKey())
	authed.GET("/balances", s.handleBalances)
	authed.GET("/open-orders", s.handleOpenOrders)
	authed.POST("/order/limit", s.handlePlaceLimit)
	authed.POST("/order/oco", s.handlePlaceOCO)
	authed.DELETE("/order", s.handleCancelOrder)

	return r
}

// requireAgentKey compares the X-Agent-Key header against the configured
// shared secret. No detail about the mismatch is leaked.
func (s *Server) requireAgentKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.AgentKey == "" || c.GetHeader("X-Agent-Key") != s.cfg.AgentKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// requestLog tags every request with an id and logs method, path, status and
// duration.
func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.NewString()
		c.Set("request_id", reqID)
		c.Next()
		logger.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		}).Info("request")
	}
}

// writeErr maps an error to the boundary response. Remote errors with a
// parseable venue body propagate that body verbatim under the venue status.
func writeErr(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if e := apperr.As(err); e != nil {
		if e.Kind == apperr.Remote && len(e.Body) > 0 {
			logger.Warnf("venue error %d: %s", status, string(e.Body))
			c.Data(status, "application/json", e.Body)
			return
		}
		logger.Warnf("request failed: %v", err)
		c.JSON(status, gin.H{"error": e.Msg})
		return
	}
	logger.Errorf("unclassified error: %v", err)
	c.JSON(status, gin.H{"error": "internal error"})
}
