package risk

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/betbot/bingate/binance/types"
	"github.com/betbot/bingate/pkg/apperr"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixedPrice(p string) LastPriceFunc {
	return func(ctx context.Context, symbol string) (decimal.Decimal, error) {
		return dec(p), nil
	}
}

func noPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("price feed down")
}

func TestCheckLimits_Notional(t *testing.T) {
	cases := []struct {
		name        string
		maxNotional string
		price, qty  string
		wantErr     bool
	}{
		{"disabled", "0", "1000000", "1000", false},
		{"under", "100", "10", "9", false},
		{"exact boundary passes", "100", "10", "10", false},
		{"over", "100", "10", "10.01", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := New(Limits{MaxNotional: dec(tc.maxNotional)}, noPrice)
			err := g.CheckLimits("BTCUSDT", types.SideBuy, dec(tc.price), dec(tc.qty))
			if tc.wantErr && !apperr.IsKind(err, apperr.LimitExceeded) {
				t.Fatalf("expected limit exceeded, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckLimits_Quantity(t *testing.T) {
	cases := []struct {
		name    string
		maxQty  string
		qty     string
		wantErr bool
	}{
		{"disabled", "0", "1e9", false},
		{"under", "5", "4.999", false},
		{"exact boundary passes", "5", "5", false},
		{"over", "5", "5.001", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := New(Limits{MaxQuantity: dec(tc.maxQty)}, noPrice)
			err := g.CheckLimits("BTCUSDT", types.SideSell, dec("1"), dec(tc.qty))
			if tc.wantErr && !apperr.IsKind(err, apperr.LimitExceeded) {
				t.Fatalf("expected limit exceeded, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckPriceDeviation(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		g := New(Limits{}, noPrice)
		if err := g.CheckPriceDeviation(ctx, "BTCUSDT", dec("100")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("within limit", func(t *testing.T) {
		g := New(Limits{MaxPriceDeviationPct: dec("5")}, fixedPrice("100"))
		if err := g.CheckPriceDeviation(ctx, "BTCUSDT", dec("104")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		g := New(Limits{MaxPriceDeviationPct: dec("5")}, fixedPrice("100"))
		err := g.CheckPriceDeviation(ctx, "BTCUSDT", dec("106"))
		if !apperr.IsKind(err, apperr.LimitExceeded) {
			t.Fatalf("expected limit exceeded, got %v", err)
		}
	})

	t.Run("fail open on feed outage", func(t *testing.T) {
		g := New(Limits{MaxPriceDeviationPct: dec("1")}, noPrice)
		if err := g.CheckPriceDeviation(ctx, "BTCUSDT", dec("999999")); err != nil {
			t.Fatalf("deviation check must pass when price is unavailable, got %v", err)
		}
	})
}
