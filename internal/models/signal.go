package models

type Side string

const (
	SideHold Side = "HOLD"
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Signal — ответ генератора сигналов по одному символу.
type Signal struct {
	Symbol    string
	Side      Side
	BuyVotes  int
	SellVotes int
	Reason    string
}

// ExitReason — почему закрыли позицию.
type ExitReason string

const (
	ExitStopLoss   ExitReason = "Stop Loss"
	ExitTakeProfit ExitReason = "Take Profit"
	ExitTechnical  ExitReason = "Technical Signal"
)
