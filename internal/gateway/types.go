package gateway

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/betbot/bingate/binance/types"
	"github.com/betbot/bingate/pkg/apperr"
)

// LimitOrderRequest is the inbound body for POST /api/order/limit.
type LimitOrderRequest struct {
	Symbol   string          `json:"symbol"`
	Side     string          `json:"side"`
	Price    decimal.Decimal `json:"price"`
	Qty      decimal.Decimal `json:"qty"`
	TIF      string          `json:"tif"`
	ClientID string          `json:"client_id"`
}

// LimitOrderIntent is a validated limit order, immutable once constructed.
type LimitOrderIntent struct {
	Symbol   string
	Side     types.Side
	Price    decimal.Decimal
	Qty      decimal.Decimal
	TIF      types.TimeInForce
	ClientID string
}

// Intent validates the request and returns the order intent.
func (r LimitOrderRequest) Intent() (LimitOrderIntent, error) {
	symbol := strings.TrimSpace(r.Symbol)
	if symbol == "" {
		return LimitOrderIntent{}, apperr.Newf(apperr.Validation, "symbol required")
	}
	side, err := types.ParseSide(r.Side)
	if err != nil {
		return LimitOrderIntent{}, apperr.Wrap(apperr.Validation, err, "side")
	}
	tif, err := types.ParseTimeInForce(r.TIF)
	if err != nil {
		return LimitOrderIntent{}, apperr.Wrap(apperr.Validation, err, "tif")
	}
	if !r.Price.IsPositive() {
		return LimitOrderIntent{}, apperr.Newf(apperr.Validation, "price must be > 0")
	}
	if !r.Qty.IsPositive() {
		return LimitOrderIntent{}, apperr.Newf(apperr.Validation, "qty must be > 0")
	}
	return LimitOrderIntent{
		Symbol:   symbol,
		Side:     side,
		Price:    r.Price,
		Qty:      r.Qty,
		TIF:      tif,
		ClientID: strings.TrimSpace(r.ClientID),
	}, nil
}

// OCOOrderRequest is the inbound body for POST /api/order/oco.
type OCOOrderRequest struct {
	Symbol    string          `json:"symbol"`
	Side      string          `json:"side"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Stop      decimal.Decimal `json:"stop"`
	StopLimit decimal.Decimal `json:"stop_limit"`
	TIF       string          `json:"tif"`
	ClientID  string          `json:"client_id"`
}

// OCOOrderIntent is a validated OCO order pair, immutable once constructed.
type OCOOrderIntent struct {
	Symbol    string
	Side      types.Side
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Stop      decimal.Decimal
	StopLimit decimal.Decimal
	TIF       types.TimeInForce
	ClientID  string
}

// Intent validates the request, including the OCO price relation, and
// returns the order intent.
func (r OCOOrderRequest) Intent() (OCOOrderIntent, error) {
	symbol := strings.TrimSpace(r.Symbol)
	if symbol == "" {
		return OCOOrderIntent{}, apperr.Newf(apperr.Validation, "symbol required")
	}
	side, err := types.ParseSide(r.Side)
	if err != nil {
		return OCOOrderIntent{}, apperr.Wrap(apperr.Validation, err, "side")
	}
	tif, err := types.ParseTimeInForce(r.TIF)
	if err != nil {
		return OCOOrderIntent{}, apperr.Wrap(apperr.Validation, err, "tif")
	}
	for name, v := range map[string]decimal.Decimal{
		"quantity": r.Quantity, "price": r.Price, "stop": r.Stop, "stop_limit": r.StopLimit,
	} {
		if !v.IsPositive() {
			return OCOOrderIntent{}, apperr.Newf(apperr.Validation, "%s must be > 0", name)
		}
	}
	if err := ValidateOCORelation(side, r.Price, r.Stop, r.StopLimit); err != nil {
		return OCOOrderIntent{}, err
	}
	return OCOOrderIntent{
		Symbol:    symbol,
		Side:      side,
		Quantity:  r.Quantity,
		Price:     r.Price,
		Stop:      r.Stop,
		StopLimit: r.StopLimit,
		TIF:       tif,
		ClientID:  strings.TrimSpace(r.ClientID),
	}, nil
}

// ValidateOCORelation checks the price relation an OCO pair must satisfy:
// for SELL, price > stop and stop_limit <= stop; for BUY, price < stop and
// stop_limit >= stop.
func ValidateOCORelation(side types.Side, price, stop, stopLimit decimal.Decimal) error {
	switch side {
	case types.SideSell:
		if !price.GreaterThan(stop) || stopLimit.GreaterThan(stop) {
			return apperr.Newf(apperr.Validation,
				"SELL OCO requires price > stop and stop_limit <= stop")
		}
	case types.SideBuy:
		if !price.LessThan(stop) || stopLimit.LessThan(stop) {
			return apperr.Newf(apperr.Validation,
				"BUY OCO requires price < stop and stop_limit >= stop")
		}
	}
	return nil
}

// CancelOrderRequest is the inbound body for DELETE /api/order.
type CancelOrderRequest struct {
	Symbol        string `json:"symbol"`
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
}

// CancelIntent identifies one order to cancel. When both identifiers were
// supplied, OrderID won and ClientOrderID is empty.
type CancelIntent struct {
	Symbol        string
	OrderID       int64
	ClientOrderID string
}

// Intent validates the request. At least one identifier is required; when
// both are present the numeric orderId takes precedence and only it is
// forwarded to the venue.
func (r CancelOrderRequest) Intent() (CancelIntent, error) {
	symbol := strings.TrimSpace(r.Symbol)
	if symbol == "" {
		return CancelIntent{}, apperr.Newf(apperr.Validation, "symbol required")
	}
	if r.OrderID == 0 && strings.TrimSpace(r.ClientOrderID) == "" {
		return CancelIntent{}, apperr.Newf(apperr.Validation, "provide orderId or clientOrderId")
	}
	intent := CancelIntent{Symbol: symbol}
	if r.OrderID != 0 {
		intent.OrderID = r.OrderID
	} else {
		intent.ClientOrderID = strings.TrimSpace(r.ClientOrderID)
	}
	return intent, nil
}

// Balance is one shaped entry of the balances response.
type Balance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
	Total  decimal.Decimal `json:"total"`
}
