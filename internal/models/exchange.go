package models

import "github.com/shopspring/decimal"

// LotSize — ограничения LOT_SIZE для количества в ордере.
type LotSize struct {
	MinQty   decimal.Decimal
	MaxQty   decimal.Decimal
	StepSize decimal.Decimal
}

type Balance struct {
	Asset  string  `json:"asset"`
	Free   float64 `json:"free"`
	Locked float64 `json:"locked"`
}

func (b Balance) Total() float64 { return b.Free + b.Locked }

// Order — принятый биржей рыночный ордер.
type Order struct {
	Symbol        string
	OrderID       int64
	ClientOrderID string
	Side          Side
	ExecutedQty   decimal.Decimal
	QuoteQty      decimal.Decimal
	Status        string
}

// AccountInfo — что разрешено ключу на бирже.
type AccountInfo struct {
	CanTrade    bool   `json:"can_trade"`
	CanWithdraw bool   `json:"can_withdraw"`
	CanDeposit  bool   `json:"can_deposit"`
	AccountType string `json:"account_type"`
}
