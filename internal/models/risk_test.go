package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestRiskSettings(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultRiskSettings().Validate())
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		next, err := DefaultRiskSettings().Apply(RiskUpdate{StopLossPct: ptr(3)})
		require.NoError(t, err)
		assert.Equal(t, 3.0, next.StopLossPct)
		assert.Equal(t, 5.0, next.TakeProfitPct)
		assert.Equal(t, 1.0, next.RiskPerTradePct)
	})

	t.Run("out of range rejected and previous kept", func(t *testing.T) {
		orig := DefaultRiskSettings()
		next, err := orig.Apply(RiskUpdate{TakeProfitPct: ptr(150)})
		assert.ErrorIs(t, err, ErrInvalidRiskSetting)
		assert.Equal(t, orig, next)

		_, err = orig.Apply(RiskUpdate{RiskPerTradePct: ptr(-1)})
		assert.ErrorIs(t, err, ErrInvalidRiskSetting)
	})

	t.Run("levels from entry", func(t *testing.T) {
		r := DefaultRiskSettings()
		assert.InDelta(t, 98.0, r.StopLossPrice(100), 1e-9)
		assert.InDelta(t, 105.0, r.TakeProfitPrice(100), 1e-9)
	})
}

func TestRiskPresets(t *testing.T) {
	assert.Equal(t, []string{"aggr", "mid", "safe"}, PresetKeys())
	for key, p := range RiskPresets {
		require.NoError(t, p.Settings.Validate(), key)

		got, err := RiskSettings{}.Apply(p.Update())
		require.NoError(t, err, key)
		assert.Equal(t, p.Settings, got, key)
	}
}
