package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormInterval(t *testing.T) {
	cases := map[string]string{
		"15m":       "15m",
		" 1H ":      "1h",
		"60m":       "1h",
		"candle4h":  "4h",
		"240m":      "4h",
		"1D":        "1d",
		"1M":        "1M",
		"something": "something",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormInterval(in), in)
	}
}

func TestValidInterval(t *testing.T) {
	assert.True(t, ValidInterval("15m"))
	assert.True(t, ValidInterval("1M"))
	assert.False(t, ValidInterval("1mo"))
	assert.False(t, ValidInterval(NormInterval("10m")))
}

func TestIntervalDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"1m":  time.Minute,
		"15m": 15 * time.Minute,
		"12h": 12 * time.Hour,
		"3d":  72 * time.Hour,
		"1w":  7 * 24 * time.Hour,
		"1M":  30 * 24 * time.Hour,
	}
	for in, want := range cases {
		got, ok := IntervalDuration(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := IntervalDuration("10m")
	assert.False(t, ok)
}

func TestBarsIn(t *testing.T) {
	n, ok := BarsIn(200*time.Hour, "15m")
	assert.True(t, ok)
	assert.Equal(t, 800, n)

	n, _ = BarsIn(200*time.Hour, "1m")
	assert.Greater(t, n, MaxKlines)

	_, ok = BarsIn(0, "1h")
	assert.False(t, ok)
}
