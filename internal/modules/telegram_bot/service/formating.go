package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"crypto_bot/internal/models"
	"crypto_bot/internal/runner"
)

func formatRiskSettings(rs models.RiskSettings) string {
	return fmt.Sprintf(
		"📉 Risk settings\n\n"+
			"Stop loss: %s%%\n"+
			"Take profit: %s%%\n"+
			"Max position: %s%%\n"+
			"Max daily loss: %s%%\n"+
			"Risk per trade: %s%%\n",
		f2(rs.StopLossPct),
		f2(rs.TakeProfitPct),
		f2(rs.MaxPositionSizePct),
		f2(rs.MaxDailyLossPct),
		f2(rs.RiskPerTradePct),
	)
}

func formatStatus(st runner.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Trading: %s\n", onOff(st.Running))
	if st.BalanceError != "" {
		fmt.Fprintf(&b, "Balance: unavailable (%s)\n", st.BalanceError)
	} else {
		fmt.Fprintf(&b, "Balance: %s (free %s)\n", f2(st.TotalBalance), f2(st.AvailableBalance))
	}
	fmt.Fprintf(&b, "Daily P&L: %s\n", f2(st.DailyPnL))
	fmt.Fprintf(&b, "Open positions: %d\n", len(st.Positions))
	if st.LastCycle != nil {
		fmt.Fprintf(&b, "Last cycle: %s\n", st.LastCycle.UTC().Format(time.RFC3339))
	}
	return b.String()
}

func formatPositions(positions map[string]models.Position) string {
	if len(positions) == 0 {
		return "📭 No open positions"
	}

	symbols := make([]string, 0, len(positions))
	for s := range positions {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var b strings.Builder
	b.WriteString("📊 Open positions:\n")
	for _, s := range symbols {
		p := positions[s]
		fmt.Fprintf(&b, "- %s qty=%s @ %s SL=%s TP=%s\n",
			p.Symbol, p.Quantity, f2(p.EntryPrice), f2(p.StopLoss), f2(p.TakeProfit))
	}
	return b.String()
}

func formatTrades(trades []models.Trade) string {
	if len(trades) == 0 {
		return "📭 No trades yet"
	}
	var b strings.Builder
	b.WriteString("🧾 Recent trades:\n")
	for _, t := range trades {
		fmt.Fprintf(&b, "- %s %s %s @ %s", t.At.UTC().Format("01-02 15:04"), t.Action, t.Symbol, f2(t.Price))
		if t.Action == models.TradeClose {
			fmt.Fprintf(&b, " P&L %s (%s)", f2(t.PnL), t.Reason)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatPresets() string {
	var b strings.Builder
	b.WriteString("Usage: /preset <name>\n\n")
	for _, key := range models.PresetKeys() {
		p := models.RiskPresets[key]
		fmt.Fprintf(&b, "%s %s: %s\n", key, p.Name, p.Description)
	}
	return b.String()
}
