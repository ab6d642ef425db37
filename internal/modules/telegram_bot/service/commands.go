package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crypto_bot/internal/models"
	"crypto_bot/internal/runner"
)

const recentTrades = 10

type Trader interface {
	Status(ctx context.Context) runner.Status
	Start(ctx context.Context) error
	Stop() error
	UpdateRiskSettings(u models.RiskUpdate) (models.RiskSettings, error)
}

type TradeHistory interface {
	Recent(ctx context.Context, limit int) ([]models.Trade, error)
}

// Commands отвечает на команды бота из нашего чата.
type Commands struct {
	trader  Trader
	history TradeHistory
}

func NewCommands(trader Trader, history TradeHistory) *Commands {
	return &Commands{trader: trader, history: history}
}

func (c *Commands) Reply(ctx context.Context, command, args string) (string, bool) {
	switch command {
	case "status":
		return formatStatus(c.trader.Status(ctx)), true
	case "positions":
		return formatPositions(c.trader.Status(ctx).Positions), true
	case "risk":
		return formatRiskSettings(c.trader.Status(ctx).Risk), true
	case "trades":
		trades, err := c.history.Recent(ctx, recentTrades)
		if err != nil {
			return "⚠️ Trade history unavailable: " + err.Error(), true
		}
		return formatTrades(trades), true
	case "trading_on":
		if err := c.trader.Start(ctx); err != nil {
			if errors.Is(err, runner.ErrAlreadyRunning) {
				return "ℹ️ Trading is already running", true
			}
			return "⚠️ " + err.Error(), true
		}
		return "▶️ Trading started", true
	case "trading_off":
		if err := c.trader.Stop(); err != nil {
			if errors.Is(err, runner.ErrNotRunning) {
				return "ℹ️ Trading is not running", true
			}
			return "⚠️ " + err.Error(), true
		}
		return "⏹ Trading stopped", true
	case "preset":
		return c.applyPreset(strings.ToLower(strings.TrimSpace(args))), true
	case "help", "start":
		return "Commands: /status /positions /risk /trades /trading_on /trading_off /preset", true
	}
	return "", false
}

func (c *Commands) applyPreset(key string) string {
	p, ok := models.RiskPresets[key]
	if !ok {
		return formatPresets()
	}
	settings, err := c.trader.UpdateRiskSettings(p.Update())
	if err != nil {
		return "⚠️ " + err.Error()
	}
	return fmt.Sprintf("%s preset applied\n\n%s", p.Name, formatRiskSettings(settings))
}
