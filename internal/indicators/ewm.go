package indicators

import "math"

// ewm — экспоненциальное сглаживание без поправки (adjust=false):
// первое валидное значение берётся как есть, дальше v = a*x + (1-a)*v.
// Пока валидных точек меньше minPeriods — NaN. Ведущие NaN пропускаются.
func ewm(xs []float64, alpha float64, minPeriods int) []float64 {
	out := make([]float64, len(xs))
	var value float64
	seen := 0
	for i, x := range xs {
		if math.IsNaN(x) {
			out[i] = math.NaN()
			continue
		}
		if seen == 0 {
			value = x
		} else {
			value = alpha*x + (1-alpha)*value
		}
		seen++
		if seen < minPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = value
	}
	return out
}

// EMA со span-периодом, alpha = 2/(span+1).
func EMA(xs []float64, span int) []float64 {
	if span < 1 {
		span = 1
	}
	return ewm(xs, 2.0/(float64(span)+1), span)
}
