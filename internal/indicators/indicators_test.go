package indicators

import (
	"math"
	"testing"
	"time"

	"crypto_bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

func TestEMA(t *testing.T) {
	t.Run("warmup is NaN", func(t *testing.T) {
		out := EMA(series(5, func(i int) float64 { return float64(i) }), 3)
		assert.True(t, math.IsNaN(out[0]))
		assert.True(t, math.IsNaN(out[1]))
		assert.False(t, math.IsNaN(out[2]))
	})

	t.Run("recursive smoothing", func(t *testing.T) {
		// alpha = 0.5: 1 -> 0.5*2+0.5*1 = 1.5 -> 0.5*3+0.5*1.5 = 2.25
		out := EMA([]float64{1, 2, 3}, 3)
		assert.InDelta(t, 2.25, out[2], 1e-9)
	})

	t.Run("constant series", func(t *testing.T) {
		out := EMA(series(30, func(int) float64 { return 7 }), 12)
		assert.InDelta(t, 7.0, out[29], 1e-9)
	})
}

func TestRSI(t *testing.T) {
	t.Run("only gains gives 100", func(t *testing.T) {
		out := RSI(series(30, func(i int) float64 { return 100 + float64(i) }), 14)
		assert.True(t, math.IsNaN(out[12]))
		assert.Equal(t, 100.0, out[29])
	})

	t.Run("only losses gives 0", func(t *testing.T) {
		out := RSI(series(30, func(i int) float64 { return 100 - float64(i) }), 14)
		assert.InDelta(t, 0.0, out[29], 1e-9)
	})

	t.Run("stays in range", func(t *testing.T) {
		out := RSI(series(100, func(i int) float64 { return 100 + 10*math.Sin(float64(i)/3) }), 14)
		for _, v := range out[14:] {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	})
}

func TestMACD(t *testing.T) {
	closes := series(60, func(i int) float64 { return 100 + float64(i) })
	line, signal := MACD(closes, DefaultMACD())

	assert.True(t, math.IsNaN(line[24]))
	assert.False(t, math.IsNaN(line[25]))
	assert.True(t, math.IsNaN(signal[32]))
	assert.False(t, math.IsNaN(signal[33]))
	// на росте быстрая EMA выше медленной
	assert.Greater(t, line[59], 0.0)
}

func TestBollinger(t *testing.T) {
	t.Run("constant series collapses bands", func(t *testing.T) {
		bb, err := Bollinger(series(25, func(int) float64 { return 50 }), 20, 2)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(bb.Middle[18]))
		assert.Equal(t, 50.0, bb.Middle[19])
		assert.Equal(t, 50.0, bb.Upper[24])
		assert.Equal(t, 50.0, bb.Lower[24])
	})

	t.Run("population deviation", func(t *testing.T) {
		// 1 и 3 чередуются: среднее 2, std = 1
		bb, err := Bollinger(series(20, func(i int) float64 { return float64(1 + 2*(i%2)) }), 20, 2)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, bb.Middle[19], 1e-9)
		assert.InDelta(t, 4.0, bb.Upper[19], 1e-9)
		assert.InDelta(t, 0.0, bb.Lower[19], 1e-9)
	})
}

func TestSMA(t *testing.T) {
	out, err := SMA([]float64{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[0]))
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, out[1:])
}

func TestApply(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 50)
	for i := range candles {
		p := 100 + 5*math.Sin(float64(i)/4)
		candles[i] = models.Candle{
			OpenTime: start.Add(time.Duration(i) * 15 * time.Minute),
			Open:     p,
			High:     p + 1,
			Low:      p - 1,
			Close:    p,
			Volume:   1000 + float64(i),
		}
	}

	bars, err := Apply(candles)
	require.NoError(t, err)

	// самый долгий прогрев у сигнальной линии MACD: 33 строки
	require.Len(t, bars, 17)
	assert.Equal(t, candles[33].OpenTime, bars[0].OpenTime)
	for _, b := range bars {
		assert.False(t, hasNaN(b))
	}

	t.Run("too short history", func(t *testing.T) {
		bars, err := Apply(candles[:20])
		require.NoError(t, err)
		assert.Empty(t, bars)
	})
}
