package exchange

import (
	"testing"

	"crypto_bot/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func lot(minQty, maxQty, step string) models.LotSize {
	return models.LotSize{
		MinQty:   decimal.RequireFromString(minQty),
		MaxQty:   decimal.RequireFromString(maxQty),
		StepSize: decimal.RequireFromString(step),
	}
}

func TestRoundToLot(t *testing.T) {
	btc := lot("0.00001000", "9000.00000000", "0.00001000")

	cases := []struct {
		name string
		qty  string
		lot  models.LotSize
		want string
	}{
		{"snaps to step", "0.001234567", btc, "0.00123"},
		{"rounds to nearest step", "0.001236", btc, "0.00124"},
		{"clamps to minimum", "0.000001", btc, "0.00001"},
		{"caps at maximum", "12000", btc, "9000"},
		{"coarse step", "1.26", lot("0.1", "1000", "0.1"), "1.3"},
		{"integer step", "7.6", lot("1", "1000", "1"), "8"},
		{"min above rounded", "0.04", lot("0.1", "1000", "0.01"), "0.1"},
		{"non-positive", "0", btc, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RoundToLot(decimal.RequireFromString(tc.qty), tc.lot)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestRoundToLot_Properties(t *testing.T) {
	l := lot("0.001", "100", "0.001")
	for _, q := range []string{"0.0001", "0.0015", "0.12345", "3.99999", "57.1234"} {
		got := RoundToLot(decimal.RequireFromString(q), l)
		assert.True(t, got.GreaterThanOrEqual(l.MinQty), q)
		assert.LessOrEqual(t, -got.Exponent(), int32(3), q)
		assert.True(t, got.Mod(l.StepSize).IsZero(), q)
	}
}

func TestStepPrecision(t *testing.T) {
	assert.Equal(t, int32(3), StepPrecision(decimal.RequireFromString("0.00100000")))
	assert.Equal(t, int32(0), StepPrecision(decimal.RequireFromString("1.00000000")))
	assert.Equal(t, int32(5), StepPrecision(decimal.RequireFromString("0.00001")))
}
