package models

import "time"

type TradeAction string

const (
	TradeOpen  TradeAction = "OPEN"
	TradeClose TradeAction = "CLOSE"
)

// Trade — запись журнала сделок.
type Trade struct {
	ID       int64       `json:"id"`
	Symbol   string      `json:"symbol"`
	Action   TradeAction `json:"action"`
	Price    float64     `json:"price"`
	Quantity float64     `json:"quantity"`
	PnL      float64     `json:"pnl"`
	Reason   string      `json:"reason"`
	OrderID  int64       `json:"order_id"`
	At       time.Time   `json:"at"`
}
