package models

import "time"

// Candle — один OHLCV-бар биржи.
type Candle struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// Bar — свеча, дополненная колонками индикаторов.
type Bar struct {
	Candle

	RSI        float64
	EMA12      float64
	EMA26      float64
	MACD       float64
	MACDSignal float64
	BBUpper    float64
	BBMiddle   float64
	BBLower    float64
	VolumeMA   float64
}
