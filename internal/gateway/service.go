package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/betbot/bingate/binance/client"
	"github.com/betbot/bingate/binance/types"
	"github.com/betbot/bingate/internal/risk"
	"github.com/betbot/bingate/pkg/apperr"
)

// Service orchestrates guardrails, signing and dispatch for the order
// operations, and shapes the read-side responses. Each operation maps to
// exactly one outbound venue call; nothing is retried.
type Service struct {
	client *client.Client
	guards *risk.Guardrails
}

func NewService(c *client.Client, g *risk.Guardrails) *Service {
	return &Service{client: c, guards: g}
}

// TimeOffsetMS exposes the clock offset for the health endpoint.
func (s *Service) TimeOffsetMS() int64 { return s.client.TimeOffsetMS() }

// BaseURL exposes the venue base URL for the health endpoint.
func (s *Service) BaseURL() string { return s.client.BaseURL() }

// ExchangeInfo proxies the venue symbol metadata, optionally filtered to one
// symbol.
func (s *Service) ExchangeInfo(ctx context.Context, symbol string) (json.RawMessage, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", strings.ToUpper(symbol))
	}
	return s.client.PublicGet(ctx, client.EndpointExchangeInfo, params)
}

// LastPrice returns the venue's last traded price for a symbol.
func (s *Service) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return s.client.LastPrice(ctx, symbol)
}

// Balances fetches the signed account snapshot and shapes it: decimal
// amounts, a computed total, zero balances dropped, optional CSV asset
// filter (case-insensitive).
func (s *Service) Balances(ctx context.Context, assetsCSV string) ([]Balance, error) {
	raw, err := s.client.SignedCall(ctx, http.MethodGet, client.EndpointAccount, nil)
	if err != nil {
		return nil, err
	}
	var account types.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, apperr.Wrap(apperr.Remote, err, "decode account")
	}

	var wanted map[string]bool
	if assetsCSV != "" {
		wanted = make(map[string]bool)
		for _, a := range strings.Split(assetsCSV, ",") {
			if a = strings.ToUpper(strings.TrimSpace(a)); a != "" {
				wanted[a] = true
			}
		}
	}

	out := make([]Balance, 0, len(account.Balances))
	for _, b := range account.Balances {
		asset := strings.ToUpper(b.Asset)
		if wanted != nil && !wanted[asset] {
			continue
		}
		free, err := decimal.NewFromString(b.Free)
		if err != nil {
			return nil, apperr.Wrap(apperr.Remote, err, "parse balance free")
		}
		locked, err := decimal.NewFromString(b.Locked)
		if err != nil {
			return nil, apperr.Wrap(apperr.Remote, err, "parse balance locked")
		}
		if free.IsZero() && locked.IsZero() {
			continue
		}
		out = append(out, Balance{
			Asset:  b.Asset,
			Free:   free,
			Locked: locked,
			Total:  free.Add(locked),
		})
	}
	return out, nil
}

// OpenOrders proxies the signed open-order list, optionally filtered to one
// symbol.
func (s *Service) OpenOrders(ctx context.Context, symbol string) (json.RawMessage, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", strings.ToUpper(symbol))
	}
	return s.client.SignedCall(ctx, http.MethodGet, client.EndpointOpenOrders, params)
}

// PlaceLimitOrder runs the guardrails and dispatches one signed limit order.
// Notional/quantity caps run first and fail closed; the deviation check runs
// second and fails open on price-feed outage. An order that fails either
// check is never dispatched.
func (s *Service) PlaceLimitOrder(ctx context.Context, in LimitOrderIntent) (json.RawMessage, error) {
	if err := s.guards.CheckLimits(in.Symbol, in.Side, in.Price, in.Qty); err != nil {
		return nil, err
	}
	if err := s.guards.CheckPriceDeviation(ctx, in.Symbol, in.Price); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(in.Symbol))
	params.Set("side", string(in.Side))
	params.Set("type", "LIMIT")
	params.Set("timeInForce", string(in.TIF))
	params.Set("quantity", in.Qty.String())
	params.Set("price", in.Price.String())
	params.Set("newOrderRespType", "RESULT")
	if in.ClientID != "" {
		params.Set("newClientOrderId", in.ClientID)
	}
	return s.client.SignedCall(ctx, http.MethodPost, client.EndpointOrder, params)
}

// PlaceOCOOrder runs the guardrails against the limit leg and dispatches one
// signed OCO pair. The intake layer already validated the OCO price
// relation; it is re-checked here so a violating pair can never reach the
// venue through another entry point.
func (s *Service) PlaceOCOOrder(ctx context.Context, in OCOOrderIntent) (json.RawMessage, error) {
	if err := ValidateOCORelation(in.Side, in.Price, in.Stop, in.StopLimit); err != nil {
		return nil, err
	}
	if err := s.guards.CheckLimits(in.Symbol, in.Side, in.Price, in.Quantity); err != nil {
		return nil, err
	}
	if err := s.guards.CheckPriceDeviation(ctx, in.Symbol, in.Price); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(in.Symbol))
	params.Set("side", string(in.Side))
	params.Set("quantity", in.Quantity.String())
	params.Set("price", in.Price.String())
	params.Set("stopPrice", in.Stop.String())
	params.Set("stopLimitPrice", in.StopLimit.String())
	params.Set("stopLimitTimeInForce", string(in.TIF))
	params.Set("newOrderRespType", "RESULT")
	if in.ClientID != "" {
		params.Set("listClientOrderId", in.ClientID)
	}
	return s.client.SignedCall(ctx, http.MethodPost, client.EndpointOrderOCO, params)
}

// CancelOrder dispatches one signed cancel for the identified order.
func (s *Service) CancelOrder(ctx context.Context, in CancelIntent) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(in.Symbol))
	if in.OrderID != 0 {
		params.Set("orderId", strconv.FormatInt(in.OrderID, 10))
	} else {
		params.Set("origClientOrderId", in.ClientOrderID)
	}
	return s.client.SignedCall(ctx, http.MethodDelete, client.EndpointOrder, params)
}
