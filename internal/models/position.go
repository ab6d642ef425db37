package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position — открытая позиция по символу, максимум одна на пару.
type Position struct {
	Symbol     string          `json:"symbol"`
	EntryPrice float64         `json:"entry_price"`
	Quantity   decimal.Decimal `json:"quantity"`
	OpenedAt   time.Time       `json:"opened_at"`
	StopLoss   float64         `json:"stop_loss"`
	TakeProfit float64         `json:"take_profit"`
	OrderID    int64           `json:"order_id"`
}

// PnL — нереализованный результат в валюте котировки.
func (p Position) PnL(price float64) float64 {
	return (price - p.EntryPrice) * p.Quantity.InexactFloat64()
}

// PnLPct — изменение цены от входа в процентах.
func (p Position) PnLPct(price float64) float64 {
	if p.EntryPrice == 0 {
		return 0
	}
	return (price - p.EntryPrice) / p.EntryPrice * 100
}
