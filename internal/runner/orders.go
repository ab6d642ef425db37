package runner

import (
	"context"
	"fmt"

	"crypto_bot/internal/models"
	"crypto_bot/pkg/logger"
)

func (r *Runner) executeBuy(ctx context.Context, symbol string, price float64) error {
	if _, open := r.position(symbol); open {
		return ErrPositionOpen
	}
	if price <= 0 {
		return fmt.Errorf("invalid price %.8f", price)
	}

	risk := r.RiskSettings()
	bal, err := r.ex.Balance(ctx, "")
	if err != nil {
		return fmt.Errorf("balance: %w", err)
	}
	if r.dailyLossReached(bal.Total(), risk) {
		return ErrDailyLossLimit
	}

	qty := r.adjustQuantity(ctx, symbol, buyQuantity(bal.Total(), price, risk))
	if !qty.IsPositive() {
		logger.Warn("[ORDER] %s: invalid buy quantity, order skipped", symbol)
		return nil
	}

	order, err := r.ex.MarketBuy(ctx, symbol, qty)
	if err != nil {
		return fmt.Errorf("market buy: %w", err)
	}
	if order.ExecutedQty.IsPositive() {
		qty = order.ExecutedQty
	}

	pos := models.Position{
		Symbol:     symbol,
		EntryPrice: price,
		Quantity:   qty,
		OpenedAt:   r.now(),
		StopLoss:   risk.StopLossPrice(price),
		TakeProfit: risk.TakeProfitPrice(price),
		OrderID:    order.OrderID,
	}

	r.mu.Lock()
	r.positions[symbol] = pos
	r.mu.Unlock()

	logger.Info("[ORDER] BUY %s qty=%s @ %.4f SL=%.4f TP=%.4f", symbol, qty, price, pos.StopLoss, pos.TakeProfit)
	r.record(ctx, models.Trade{
		Symbol:   symbol,
		Action:   models.TradeOpen,
		Price:    price,
		Quantity: qty.InexactFloat64(),
		Reason:   "Signal",
		OrderID:  order.OrderID,
		At:       pos.OpenedAt,
	})
	r.notify(ctx, "BUY "+symbol, fmt.Sprintf(
		"🟢 BUY %s\nqty: %s\nprice: %.4f\nSL: %.4f\nTP: %.4f",
		symbol, qty, price, pos.StopLoss, pos.TakeProfit,
	))
	return nil
}

// executeSell закрывает позицию целиком. При ошибке биржи позиция остаётся.
func (r *Runner) executeSell(ctx context.Context, pos models.Position, price float64, reason models.ExitReason) error {
	order, err := r.ex.MarketSell(ctx, pos.Symbol, pos.Quantity)
	if err != nil {
		return fmt.Errorf("market sell (%s): %w", reason, err)
	}

	pnl := pos.PnL(price)
	at := r.now()

	r.mu.Lock()
	delete(r.positions, pos.Symbol)
	r.addRealizedLocked(at, pnl)
	r.mu.Unlock()

	logger.Info("[ORDER] SELL %s qty=%s @ %.4f reason=%s pnl=%.2f", pos.Symbol, pos.Quantity, price, reason, pnl)
	r.record(ctx, models.Trade{
		Symbol:   pos.Symbol,
		Action:   models.TradeClose,
		Price:    price,
		Quantity: pos.Quantity.InexactFloat64(),
		PnL:      pnl,
		Reason:   string(reason),
		OrderID:  order.OrderID,
		At:       at,
	})

	icon := "🔴"
	if pnl > 0 {
		icon = "✅"
	}
	r.notify(ctx, "SELL "+pos.Symbol, fmt.Sprintf(
		"%s SELL %s\nreason: %s\nqty: %s\nentry: %.4f exit: %.4f\nP&L: $%.2f (%.2f%%)",
		icon, pos.Symbol, reason, pos.Quantity, pos.EntryPrice, price, pnl, pos.PnLPct(price),
	))
	return nil
}
