package helper

import (
	"strings"
	"time"
)

// MaxKlines — больше свечей Binance за один запрос не отдаёт.
const MaxKlines = 1000

// интервалы свечей, которые принимает Binance
var binanceIntervals = map[string]struct{}{
	"1m": {}, "3m": {}, "5m": {}, "15m": {}, "30m": {},
	"1h": {}, "2h": {}, "4h": {}, "6h": {}, "8h": {}, "12h": {},
	"1d": {}, "3d": {}, "1w": {}, "1M": {},
}

// NormInterval приводит таймфрейм к виду Binance: "60m" -> "1h", "1D" -> "1d".
// Месяц остаётся "1M", это единственный интервал с заглавной буквой.
func NormInterval(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "1M" {
		return s
	}
	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "60m", "1hr":
		return "1h"
	case "240m":
		return "4h"
	case "24h":
		return "1d"
	case "7d":
		return "1w"
	default:
		return s
	}
}

func ValidInterval(interval string) bool {
	_, ok := binanceIntervals[interval]
	return ok
}

// IntervalDuration — длительность одной свечи. Месяц считаем за 30 дней.
func IntervalDuration(interval string) (time.Duration, bool) {
	if !ValidInterval(interval) {
		return 0, false
	}
	if interval == "1M" {
		return 30 * 24 * time.Hour, true
	}

	unit := interval[len(interval)-1]
	n := 0
	for _, ch := range interval[:len(interval)-1] {
		n = n*10 + int(ch-'0')
	}
	switch unit {
	case 'm':
		return time.Duration(n) * time.Minute, true
	case 'h':
		return time.Duration(n) * time.Hour, true
	case 'd':
		return time.Duration(n) * 24 * time.Hour, true
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, true
	}
	return 0, false
}

// BarsIn — сколько свечей interval помещается в lookback.
func BarsIn(lookback time.Duration, interval string) (int, bool) {
	d, ok := IntervalDuration(interval)
	if !ok || lookback <= 0 {
		return 0, false
	}
	return int(lookback / d), true
}
