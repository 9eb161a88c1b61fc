// Package types holds the wire types and enums shared with the venue REST API.
package types

import (
	"fmt"
	"strings"
)

// Side is an order direction.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide normalizes and validates an order side.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", fmt.Errorf("invalid side %q (want BUY or SELL)", s)
	}
}

// TimeInForce controls how long an order rests on the book.
type TimeInForce string

const (
	TIFGoodTillCancel    TimeInForce = "GTC"
	TIFImmediateOrCancel TimeInForce = "IOC"
	TIFFillOrKill        TimeInForce = "FOK"
)

// ParseTimeInForce validates a time-in-force value. Empty input defaults to GTC.
func ParseTimeInForce(s string) (TimeInForce, error) {
	v := TimeInForce(strings.ToUpper(strings.TrimSpace(s)))
	if v == "" {
		return TIFGoodTillCancel, nil
	}
	switch v {
	case TIFGoodTillCancel, TIFImmediateOrCancel, TIFFillOrKill:
		return v, nil
	default:
		return "", fmt.Errorf("invalid time in force %q (want GTC, IOC or FOK)", s)
	}
}

// ServerTime is the venue's /api/v3/time payload.
type ServerTime struct {
	ServerTime int64 `json:"serverTime"`
}

// TickerPrice is the venue's /api/v3/ticker/price payload. The price arrives
// as a decimal string.
type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// RawBalance is one entry of the /api/v3/account balances array.
type RawBalance struct {
	Asset  string `json:"asset"`
	Free   string `json:"free"`
	Locked string `json:"locked"`
}

// Account is the subset of the /api/v3/account payload the gateway shapes.
type Account struct {
	Balances []RawBalance `json:"balances"`
}
