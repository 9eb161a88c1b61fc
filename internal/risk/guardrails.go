// Package risk holds the pre-trade guardrails that gate every order before it
// is signed or dispatched.
package risk

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/betbot/bingate/binance/types"
	"github.com/betbot/bingate/pkg/apperr"
	"github.com/betbot/bingate/pkg/logger"
)

// Limits are the configured guardrail thresholds.
// Convention: a threshold <= 0 disables the corresponding check.
type Limits struct {
	MaxNotional          decimal.Decimal
	MaxQuantity          decimal.Decimal
	MaxPriceDeviationPct decimal.Decimal
}

// LastPriceFunc looks up the last traded price for a symbol.
type LastPriceFunc func(ctx context.Context, symbol string) (decimal.Decimal, error)

// Guardrails evaluates the configured limits. Limits are immutable after
// construction and the checks keep no state, so a single instance is safe for
// concurrent use.
type Guardrails struct {
	limits    Limits
	lastPrice LastPriceFunc
}

func New(limits Limits, lastPrice LastPriceFunc) *Guardrails {
	return &Guardrails{limits: limits, lastPrice: lastPrice}
}

// CheckLimits rejects orders whose notional (price*qty) or quantity exceed
// the configured caps. Values exactly at a cap pass.
func (g *Guardrails) CheckLimits(symbol string, side types.Side, price, qty decimal.Decimal) error {
	notional := price.Mul(qty)
	if g.limits.MaxNotional.IsPositive() && notional.GreaterThan(g.limits.MaxNotional) {
		return apperr.Newf(apperr.LimitExceeded,
			"notional %s exceeds MAX_NOTIONAL_PER_ORDER=%s", notional, g.limits.MaxNotional)
	}
	if g.limits.MaxQuantity.IsPositive() && qty.GreaterThan(g.limits.MaxQuantity) {
		return apperr.Newf(apperr.LimitExceeded,
			"quantity %s exceeds MAX_QTY_PER_ORDER=%s", qty, g.limits.MaxQuantity)
	}
	return nil
}

// CheckPriceDeviation rejects orders priced too far from the last traded
// price. The check fails open: when the price feed is unavailable it logs and
// passes, so a transient feed outage skips this one check instead of blocking
// trading.
func (g *Guardrails) CheckPriceDeviation(ctx context.Context, symbol string, userPrice decimal.Decimal) error {
	if !g.limits.MaxPriceDeviationPct.IsPositive() {
		return nil
	}
	last, err := g.lastPrice(ctx, symbol)
	if err != nil {
		logger.Warnf("price deviation check skipped for %s: last price unavailable: %v", symbol, err)
		return nil
	}
	if !last.IsPositive() {
		return nil
	}
	deviation := userPrice.Sub(last).Abs().Div(last).Mul(decimal.NewFromInt(100))
	if deviation.GreaterThan(g.limits.MaxPriceDeviationPct) {
		return apperr.Newf(apperr.LimitExceeded,
			"price deviation %s%% > limit %s%% (last=%s)",
			deviation.Round(2), g.limits.MaxPriceDeviationPct, last)
	}
	return nil
}
