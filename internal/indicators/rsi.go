package indicators

import "math"

// RSI по Уайлдеру: средние приросты/потери сглаживаются с alpha = 1/window.
// Если средняя потеря нулевая — RSI = 100.
func RSI(closes []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	up := make([]float64, len(closes))
	down := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			up[i] = d
		} else {
			down[i] = -d
		}
	}

	alpha := 1.0 / float64(window)
	avgUp := ewm(up, alpha, window)
	avgDown := ewm(down, alpha, window)

	out := make([]float64, len(closes))
	for i := range closes {
		switch {
		case math.IsNaN(avgUp[i]) || math.IsNaN(avgDown[i]):
			out[i] = math.NaN()
		case avgDown[i] == 0:
			out[i] = 100
		default:
			out[i] = 100 - 100/(1+avgUp[i]/avgDown[i])
		}
	}
	return out
}
