package indicators

import "math"

type MACDConfig struct {
	Fast   int
	Slow   int
	Signal int
}

func DefaultMACD() MACDConfig { return MACDConfig{Fast: 12, Slow: 26, Signal: 9} }

// MACD возвращает линию (EMAfast - EMAslow) и сигнальную (EMA от линии).
func MACD(closes []float64, cfg MACDConfig) (line, signal []float64) {
	fast := EMA(closes, cfg.Fast)
	slow := EMA(closes, cfg.Slow)

	line = make([]float64, len(closes))
	for i := range closes {
		if math.IsNaN(fast[i]) || math.IsNaN(slow[i]) {
			line[i] = math.NaN()
			continue
		}
		line[i] = fast[i] - slow[i]
	}
	return line, EMA(line, cfg.Signal)
}
