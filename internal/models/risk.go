package models

import (
	"errors"
	"fmt"
)

var ErrInvalidRiskSetting = errors.New("invalid risk setting")

// RiskSettings — все поля в процентах, [0, 100].
type RiskSettings struct {
	StopLossPct        float64 `json:"stop_loss_percent"`
	TakeProfitPct      float64 `json:"take_profit_percent"`
	MaxPositionSizePct float64 `json:"max_position_size_percent"`
	MaxDailyLossPct    float64 `json:"max_daily_loss"`
	RiskPerTradePct    float64 `json:"risk_per_trade_percent"`
}

func DefaultRiskSettings() RiskSettings {
	return RiskSettings{
		StopLossPct:        2.0,
		TakeProfitPct:      5.0,
		MaxPositionSizePct: 10.0,
		MaxDailyLossPct:    5.0,
		RiskPerTradePct:    1.0,
	}
}

// RiskUpdate — частичное обновление, nil-поля не трогаем.
type RiskUpdate struct {
	StopLossPct        *float64 `json:"stop_loss_percent,omitempty"`
	TakeProfitPct      *float64 `json:"take_profit_percent,omitempty"`
	MaxPositionSizePct *float64 `json:"max_position_size_percent,omitempty"`
	MaxDailyLossPct    *float64 `json:"max_daily_loss,omitempty"`
	RiskPerTradePct    *float64 `json:"risk_per_trade_percent,omitempty"`
}

func (r RiskSettings) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"stop_loss_percent", r.StopLossPct},
		{"take_profit_percent", r.TakeProfitPct},
		{"max_position_size_percent", r.MaxPositionSizePct},
		{"max_daily_loss", r.MaxDailyLossPct},
		{"risk_per_trade_percent", r.RiskPerTradePct},
	}
	for _, f := range fields {
		if f.v < 0 || f.v > 100 {
			return fmt.Errorf("%w: %s=%.4f out of [0, 100]", ErrInvalidRiskSetting, f.name, f.v)
		}
	}
	return nil
}

// Apply возвращает копию с применённым обновлением; исходные настройки не меняются при ошибке.
func (r RiskSettings) Apply(u RiskUpdate) (RiskSettings, error) {
	next := r
	if u.StopLossPct != nil {
		next.StopLossPct = *u.StopLossPct
	}
	if u.TakeProfitPct != nil {
		next.TakeProfitPct = *u.TakeProfitPct
	}
	if u.MaxPositionSizePct != nil {
		next.MaxPositionSizePct = *u.MaxPositionSizePct
	}
	if u.MaxDailyLossPct != nil {
		next.MaxDailyLossPct = *u.MaxDailyLossPct
	}
	if u.RiskPerTradePct != nil {
		next.RiskPerTradePct = *u.RiskPerTradePct
	}
	if err := next.Validate(); err != nil {
		return r, err
	}
	return next, nil
}

// StopLossPrice / TakeProfitPrice — уровни от цены входа для лонга.
func (r RiskSettings) StopLossPrice(entry float64) float64 {
	return entry * (1 - r.StopLossPct/100)
}

func (r RiskSettings) TakeProfitPrice(entry float64) float64 {
	return entry * (1 + r.TakeProfitPct/100)
}
