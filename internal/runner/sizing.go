package runner

import (
	"context"
	"time"

	"crypto_bot/internal/exchange"
	"crypto_bot/internal/models"
	"crypto_bot/pkg/logger"

	"github.com/shopspring/decimal"
)

// buyQuantity — сколько монет купить: риск на сделку от баланса,
// но не дороже max position size.
func buyQuantity(balance, price float64, risk models.RiskSettings) float64 {
	if balance <= 0 || price <= 0 {
		return 0
	}
	notional := balance * risk.RiskPerTradePct / 100
	if limit := balance * risk.MaxPositionSizePct / 100; risk.MaxPositionSizePct > 0 && notional > limit {
		notional = limit
	}
	return notional / price
}

// adjustQuantity приводит количество к правилам LOT_SIZE.
// Если фильтр получить не удалось — 0, ордер не отправляется.
func (r *Runner) adjustQuantity(ctx context.Context, symbol string, qty float64) decimal.Decimal {
	lot, err := r.ex.LotSize(ctx, symbol)
	if err != nil {
		logger.Error("[ORDER] %s: lot size lookup: %v", symbol, err)
		return decimal.Zero
	}
	return exchange.RoundToLot(decimal.NewFromFloat(qty), lot)
}

func dayKey(t time.Time) string { return t.UTC().Format("2006-01-02") }

func (r *Runner) addRealizedLocked(at time.Time, pnl float64) {
	if d := dayKey(at); d != r.lossDay {
		r.lossDay = d
		r.dayPnL = 0
	}
	r.dayPnL += pnl
}

// dailyLossReached — реализованный убыток за текущие сутки (UTC) достиг лимита.
func (r *Runner) dailyLossReached(balance float64, risk models.RiskSettings) bool {
	if risk.MaxDailyLossPct <= 0 || balance <= 0 {
		return false
	}
	pnl := r.DailyPnL()
	return pnl < 0 && -pnl >= balance*risk.MaxDailyLossPct/100
}

// DailyPnL — реализованный результат за текущие сутки.
func (r *Runner) DailyPnL() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.lossDay != dayKey(r.now()) {
		return 0
	}
	return r.dayPnL
}
