package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"crypto_bot/internal/models"
	"crypto_bot/internal/runner"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeTrader struct {
	status   runner.Status
	startErr error
	stopErr  error
	started  int
}

func (f *fakeTrader) Status(context.Context) runner.Status { return f.status }
func (f *fakeTrader) Start(context.Context) error {
	f.started++
	return f.startErr
}
func (f *fakeTrader) Stop() error { return f.stopErr }
func (f *fakeTrader) UpdateRiskSettings(u models.RiskUpdate) (models.RiskSettings, error) {
	next, err := f.status.Risk.Apply(u)
	if err != nil {
		return f.status.Risk, err
	}
	f.status.Risk = next
	return next, nil
}

type fakeHistory struct {
	trades []models.Trade
	err    error
}

func (f fakeHistory) Recent(context.Context, int) ([]models.Trade, error) { return f.trades, f.err }

func TestCommands_Reply(t *testing.T) {
	ctx := context.Background()
	trader := &fakeTrader{status: runner.Status{
		Running:          true,
		TotalBalance:     1000,
		AvailableBalance: 900,
		Risk:             models.DefaultRiskSettings(),
		Positions: map[string]models.Position{
			"ETHUSDT": {Symbol: "ETHUSDT", EntryPrice: 3000, Quantity: decimal.RequireFromString("0.05"), StopLoss: 2940, TakeProfit: 3150},
			"BTCUSDT": {Symbol: "BTCUSDT", EntryPrice: 60000, Quantity: decimal.RequireFromString("0.001"), StopLoss: 58800, TakeProfit: 63000},
		},
	}}
	history := fakeHistory{trades: []models.Trade{{
		Symbol: "BNBUSDT", Action: models.TradeClose, Price: 97, PnL: -1.5,
		Reason: "Stop Loss", At: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	}}}
	c := NewCommands(trader, history)

	t.Run("status", func(t *testing.T) {
		reply, ok := c.Reply(ctx, "status", "")
		assert.True(t, ok)
		assert.Contains(t, reply, "Trading: on")
		assert.Contains(t, reply, "Balance: 1000.00 (free 900.00)")
		assert.Contains(t, reply, "Open positions: 2")
	})

	t.Run("positions sorted", func(t *testing.T) {
		reply, _ := c.Reply(ctx, "positions", "")
		assert.Less(t, strings.Index(reply, "BTCUSDT"), strings.Index(reply, "ETHUSDT"))
		assert.Contains(t, reply, "qty=0.001 @ 60000.00")
	})

	t.Run("risk", func(t *testing.T) {
		reply, _ := c.Reply(ctx, "risk", "")
		assert.Contains(t, reply, "Stop loss: 2.00%")
	})

	t.Run("trades", func(t *testing.T) {
		reply, _ := c.Reply(ctx, "trades", "")
		assert.Contains(t, reply, "05-01 10:30 CLOSE BNBUSDT @ 97.00 P&L -1.50 (Stop Loss)")

		reply, _ = NewCommands(trader, fakeHistory{err: errors.New("db down")}).Reply(ctx, "trades", "")
		assert.Contains(t, reply, "db down")
	})

	t.Run("toggle", func(t *testing.T) {
		reply, _ := c.Reply(ctx, "trading_on", "")
		assert.Equal(t, "▶️ Trading started", reply)
		assert.Equal(t, 1, trader.started)

		trader.stopErr = runner.ErrNotRunning
		reply, _ = c.Reply(ctx, "trading_off", "")
		assert.Contains(t, reply, "not running")
	})

	t.Run("preset", func(t *testing.T) {
		reply, ok := c.Reply(ctx, "preset", " SAFE ")
		assert.True(t, ok)
		assert.Contains(t, reply, "preset applied")
		assert.Contains(t, reply, "Stop loss: 1.50%")
		assert.Equal(t, models.RiskPresets["safe"].Settings, trader.status.Risk)

		reply, _ = c.Reply(ctx, "preset", "")
		assert.Contains(t, reply, "Usage: /preset")
		assert.Less(t, strings.Index(reply, "aggr"), strings.Index(reply, "safe"))
	})

	t.Run("unknown", func(t *testing.T) {
		_, ok := c.Reply(ctx, "moon", "")
		assert.False(t, ok)
	})
}
