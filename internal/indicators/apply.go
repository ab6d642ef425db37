package indicators

import (
	"fmt"
	"math"

	"crypto_bot/internal/models"
)

const (
	RSIWindow       = 14
	BollingerWindow = 20
	BollingerK      = 2.0
	VolumeMAWindow  = 20
)

// Apply считает все индикаторы по свечам и отбрасывает строки,
// где хоть одна колонка ещё на прогреве.
func Apply(candles []models.Candle) ([]models.Bar, error) {
	closes := make([]float64, len(candles))
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		volumes[i] = c.Volume
	}

	rsi := RSI(closes, RSIWindow)
	ema12 := EMA(closes, 12)
	ema26 := EMA(closes, 26)
	macd, macdSignal := MACD(closes, DefaultMACD())

	bb, err := Bollinger(closes, BollingerWindow, BollingerK)
	if err != nil {
		return nil, fmt.Errorf("bollinger: %w", err)
	}
	volMA, err := SMA(volumes, VolumeMAWindow)
	if err != nil {
		return nil, fmt.Errorf("volume ma: %w", err)
	}

	bars := make([]models.Bar, 0, len(candles))
	for i, c := range candles {
		b := models.Bar{
			Candle:     c,
			RSI:        rsi[i],
			EMA12:      ema12[i],
			EMA26:      ema26[i],
			MACD:       macd[i],
			MACDSignal: macdSignal[i],
			BBUpper:    bb.Upper[i],
			BBMiddle:   bb.Middle[i],
			BBLower:    bb.Lower[i],
			VolumeMA:   volMA[i],
		}
		if hasNaN(b) {
			continue
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func hasNaN(b models.Bar) bool {
	for _, v := range []float64{
		b.Close, b.Volume, b.RSI, b.EMA12, b.EMA26, b.MACD, b.MACDSignal,
		b.BBUpper, b.BBMiddle, b.BBLower, b.VolumeMA,
	} {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
