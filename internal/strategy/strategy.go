package strategy

import (
	"fmt"
	"math"

	"crypto_bot/internal/models"
)

// Config — пороги голосования.
type Config struct {
	RSIOversold   float64
	RSIOverbought float64
	VolumeFactor  float64
	BuyVotes      int
	SellVotes     int
}

func DefaultConfig() Config {
	return Config{
		RSIOversold:   30,
		RSIOverbought: 70,
		VolumeFactor:  1.2,
		BuyVotes:      3,
		SellVotes:     2,
	}
}

// Voting — генератор сигналов голосованием условий по последней строке.
type Voting struct {
	cfg Config
}

func NewVoting(cfg Config) *Voting {
	return &Voting{cfg: cfg}
}

// Evaluate не имеет состояния: один и тот же ряд всегда даёт один и тот же сигнал.
func (v *Voting) Evaluate(symbol string, bars []models.Bar) models.Signal {
	sig := models.Signal{Symbol: symbol, Side: models.SideHold}
	if len(bars) < 2 {
		sig.Reason = "not enough data"
		return sig
	}

	latest := bars[len(bars)-1]
	if !finite(latest) {
		sig.Reason = "indicator not ready"
		return sig
	}

	buy := []bool{
		latest.RSI < v.cfg.RSIOversold,
		latest.Close < latest.BBLower,
		latest.MACD > latest.MACDSignal,
		latest.Volume > latest.VolumeMA*v.cfg.VolumeFactor,
	}
	sell := []bool{
		latest.RSI > v.cfg.RSIOverbought,
		latest.Close > latest.BBUpper,
		latest.MACD < latest.MACDSignal,
	}
	sig.BuyVotes = count(buy)
	sig.SellVotes = count(sell)

	switch {
	case sig.BuyVotes >= v.cfg.BuyVotes:
		sig.Side = models.SideBuy
	case sig.SellVotes >= v.cfg.SellVotes:
		sig.Side = models.SideSell
	}
	sig.Reason = fmt.Sprintf("buy %d/%d sell %d/%d rsi=%.2f",
		sig.BuyVotes, len(buy), sig.SellVotes, len(sell), latest.RSI)
	return sig
}

func count(conds []bool) int {
	n := 0
	for _, c := range conds {
		if c {
			n++
		}
	}
	return n
}

func finite(b models.Bar) bool {
	for _, v := range []float64{
		b.Close, b.Volume, b.RSI, b.MACD, b.MACDSignal, b.BBUpper, b.BBLower, b.VolumeMA,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
