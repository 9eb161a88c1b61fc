package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/betbot/bingate/pkg/apperr"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"env":            s.cfg.Env,
		"base":           s.svc.BaseURL(),
		"time_offset_ms": s.svc.TimeOffsetMS(),
	})
}

func (s *Server) handleExchangeInfo(c *gin.Context) {
	raw, err := s.svc.ExchangeInfo(c.Request.Context(), c.Query("symbol"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (s *Server) handlePrice(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		writeErr(c, apperr.Newf(apperr.Validation, "symbol required"))
		return
	}
	price, err := s.svc.LastPrice(c.Request.Context(), symbol)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "price": price})
}

func (s *Server) handleBalances(c *gin.Context) {
	balances, err := s.svc.Balances(c.Request.Context(), c.Query("assets"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

func (s *Server) handleOpenOrders(c *gin.Context) {
	raw, err := s.svc.OpenOrders(c.Request.Context(), c.Query("symbol"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (s *Server) handlePlaceLimit(c *gin.Context) {
	var req LimitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErr(c, apperr.Wrap(apperr.Validation, err, "invalid body"))
		return
	}
	intent, err := req.Intent()
	if err != nil {
		writeErr(c, err)
		return
	}
	raw, err := s.svc.PlaceLimitOrder(c.Request.Context(), intent)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, okVenue(raw))
}

func (s *Server) handlePlaceOCO(c *gin.Context) {
	var req OCOOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErr(c, apperr.Wrap(apperr.Validation, err, "invalid body"))
		return
	}
	intent, err := req.Intent()
	if err != nil {
		writeErr(c, err)
		return
	}
	raw, err := s.svc.PlaceOCOOrder(c.Request.Context(), intent)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, okVenue(raw))
}

func (s *Server) handleCancelOrder(c *gin.Context) {
	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErr(c, apperr.Wrap(apperr.Validation, err, "invalid body"))
		return
	}
	intent, err := req.Intent()
	if err != nil {
		writeErr(c, err)
		return
	}
	raw, err := s.svc.CancelOrder(c.Request.Context(), intent)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, okVenue(raw))
}

// okVenue wraps a venue response body. An empty venue body still reports
// success.
func okVenue(raw json.RawMessage) gin.H {
	if len(raw) == 0 {
		return gin.H{"ok": true}
	}
	return gin.H{"ok": true, "binance": raw}
}
