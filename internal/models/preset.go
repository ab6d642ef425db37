package models

import "sort"

// RiskPreset — готовый набор риск-настроек, применяется целиком.
type RiskPreset struct {
	Name        string
	Description string
	Settings    RiskSettings
}

var RiskPresets = map[string]RiskPreset{
	"safe": {
		Name:        "🟢 Conservative",
		Description: "Tight stops, small positions",
		Settings: RiskSettings{
			StopLossPct:        1.5,
			TakeProfitPct:      3.0,
			MaxPositionSizePct: 5.0,
			MaxDailyLossPct:    3.0,
			RiskPerTradePct:    0.5,
		},
	},
	"mid": {
		Name:        "🟡 Balanced",
		Description: "Default settings",
		Settings:    DefaultRiskSettings(),
	},
	"aggr": {
		Name:        "🔴 Aggressive",
		Description: "Wide stops and larger positions, experienced users only",
		Settings: RiskSettings{
			StopLossPct:        3.0,
			TakeProfitPct:      8.0,
			MaxPositionSizePct: 20.0,
			MaxDailyLossPct:    10.0,
			RiskPerTradePct:    2.0,
		},
	},
}

// PresetKeys — ключи пресетов в стабильном порядке для подсказок.
func PresetKeys() []string {
	keys := make([]string, 0, len(RiskPresets))
	for k := range RiskPresets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Update — обновление, которое переписывает все поля.
func (p RiskPreset) Update() RiskUpdate {
	s := p.Settings
	return RiskUpdate{
		StopLossPct:        &s.StopLossPct,
		TakeProfitPct:      &s.TakeProfitPct,
		MaxPositionSizePct: &s.MaxPositionSizePct,
		MaxDailyLossPct:    &s.MaxDailyLossPct,
		RiskPerTradePct:    &s.RiskPerTradePct,
	}
}
