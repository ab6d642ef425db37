package exchange

import (
	"strings"

	"crypto_bot/internal/models"

	"github.com/shopspring/decimal"
)

// RoundToLot приводит количество к шагу лота: ближайшее кратное шагу,
// обрезка до точности шага, не меньше минимума и не больше максимума.
// Неположительное количество даёт ноль — такой ордер не отправляется.
func RoundToLot(qty decimal.Decimal, lot models.LotSize) decimal.Decimal {
	if !qty.IsPositive() {
		return decimal.Zero
	}

	if lot.StepSize.IsPositive() {
		qty = qty.Div(lot.StepSize).Round(0).Mul(lot.StepSize)
		qty = qty.Truncate(StepPrecision(lot.StepSize))
	}
	if qty.LessThan(lot.MinQty) {
		qty = lot.MinQty
	}
	if lot.MaxQty.IsPositive() && qty.GreaterThan(lot.MaxQty) {
		qty = lot.MaxQty
	}
	return qty
}

// StepPrecision — число знаков после запятой у шага: "0.00100000" -> 3.
func StepPrecision(step decimal.Decimal) int32 {
	s := step.String()
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return int32(len(s) - i - 1)
}
