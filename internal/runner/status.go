package runner

import (
	"context"
	"time"

	"crypto_bot/internal/models"
	"crypto_bot/pkg/logger"
)

type Status struct {
	Running          bool                       `json:"is_running"`
	TotalBalance     float64                    `json:"total_balance"`
	AvailableBalance float64                    `json:"available_balance"`
	BalanceError     string                     `json:"balance_error,omitempty"`
	Positions        map[string]models.Position `json:"positions"`
	Risk             models.RiskSettings        `json:"risk_settings"`
	DailyPnL         float64                    `json:"daily_pnl"`
	StartedAt        *time.Time                 `json:"started_at,omitempty"`
	StoppedAt        *time.Time                 `json:"stopped_at,omitempty"`
	LastCycle        *time.Time                 `json:"last_cycle,omitempty"`
}

// Status собирает состояние портфеля. Ошибка баланса не мешает отдать остальное.
func (r *Runner) Status(ctx context.Context) Status {
	st := Status{
		Running:  r.Running(),
		Risk:     r.RiskSettings(),
		DailyPnL: r.DailyPnL(),
	}

	r.mu.RLock()
	st.Positions = make(map[string]models.Position, len(r.positions))
	for k, v := range r.positions {
		st.Positions[k] = v
	}
	st.StartedAt = timePtr(r.startedAt)
	st.StoppedAt = timePtr(r.stoppedAt)
	st.LastCycle = timePtr(r.lastCycle)
	r.mu.RUnlock()

	bal, err := r.ex.Balance(ctx, "")
	if err != nil {
		logger.Error("[RUNNER] status balance: %v", err)
		st.BalanceError = err.Error()
		return st
	}
	st.TotalBalance = bal.Total()
	st.AvailableBalance = bal.Free
	return st
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (r *Runner) RiskSettings() models.RiskSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.risk
}

// UpdateRiskSettings применяет частичное обновление; невалидное целиком отклоняется.
func (r *Runner) UpdateRiskSettings(u models.RiskUpdate) (models.RiskSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := r.risk.Apply(u)
	if err != nil {
		return r.risk, err
	}
	r.risk = next
	logger.Info("[RISK] settings updated: %+v", next)
	return next, nil
}

// LastCycle — время завершения последнего цикла, нулевое до первого.
func (r *Runner) LastCycle() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastCycle
}
