package indicators

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

type BollingerBands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// SMA — скользящее среднее по окну, NaN пока окно не заполнено.
func SMA(xs []float64, window int) ([]float64, error) {
	out := make([]float64, len(xs))
	for i := range xs {
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}
		m, err := stats.Mean(stats.Float64Data(xs[i+1-window : i+1]))
		if err != nil {
			return nil, fmt.Errorf("failed to calculate mean: %w", err)
		}
		out[i] = m
	}
	return out, nil
}

// Bollinger считает полосы по close: средняя ± k * std (генеральная, ddof=0).
func Bollinger(closes []float64, window int, k float64) (BollingerBands, error) {
	bb := BollingerBands{
		Upper:  make([]float64, len(closes)),
		Middle: make([]float64, len(closes)),
		Lower:  make([]float64, len(closes)),
	}
	for i := range closes {
		if i+1 < window {
			bb.Upper[i], bb.Middle[i], bb.Lower[i] = math.NaN(), math.NaN(), math.NaN()
			continue
		}
		win := stats.Float64Data(closes[i+1-window : i+1])

		mean, err := stats.Mean(win)
		if err != nil {
			return BollingerBands{}, fmt.Errorf("failed to calculate mean: %w", err)
		}
		sd, err := stats.StandardDeviationPopulation(win)
		if err != nil {
			return BollingerBands{}, fmt.Errorf("failed to calculate the standard deviation: %w", err)
		}

		bb.Middle[i] = mean
		bb.Upper[i] = mean + k*sd
		bb.Lower[i] = mean - k*sd
	}
	return bb, nil
}
