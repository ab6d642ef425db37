package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crypto_bot/internal/models"
	"crypto_bot/internal/notify"
	"crypto_bot/internal/runner"
	"crypto_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrader struct {
	running  bool
	started  time.Time
	risk     models.RiskSettings
	startCtx context.Context
}

func (f *fakeTrader) Status(context.Context) runner.Status {
	st := runner.Status{Running: f.running, Risk: f.risk, TotalBalance: 1000, AvailableBalance: 900}
	if !f.started.IsZero() {
		st.StartedAt = &f.started
	}
	return st
}

func (f *fakeTrader) Start(ctx context.Context) error {
	if f.running {
		return runner.ErrAlreadyRunning
	}
	f.running = true
	f.started = time.Unix(1700000000, 0)
	f.startCtx = ctx
	return nil
}

func (f *fakeTrader) Stop() error {
	if !f.running {
		return runner.ErrNotRunning
	}
	f.running = false
	return nil
}

func (f *fakeTrader) RiskSettings() models.RiskSettings { return f.risk }

func (f *fakeTrader) UpdateRiskSettings(u models.RiskUpdate) (models.RiskSettings, error) {
	next, err := f.risk.Apply(u)
	if err != nil {
		return f.risk, err
	}
	f.risk = next
	return next, nil
}

type fakeHistory struct {
	trades []models.Trade
	limit  int
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]models.Trade, error) {
	f.limit = limit
	return f.trades, nil
}

type fakeChannel struct {
	sent int
	err  error
}

func (f *fakeChannel) Send(context.Context, string, string) error {
	f.sent++
	return f.err
}

type fakeAccount struct {
	info models.AccountInfo
	err  error
}

func (f fakeAccount) Account(context.Context) (models.AccountInfo, error) { return f.info, f.err }

type appCtxKey struct{}

const testToken = "s3cret"

type env struct {
	router  *mux.Router
	trader  *fakeTrader
	history *fakeHistory
	email   *fakeChannel
	token   string
}

func newEnv(configured bool, channels map[string]notify.Notifier) env {
	return newEnvWith(Deps{
		Configured: func() bool { return configured },
		Channels:   channels,
		Account:    fakeAccount{info: models.AccountInfo{CanTrade: true, AccountType: "SPOT"}},
		Token:      testToken,
	})
}

func newEnvWith(d Deps) env {
	logger.InitNop()
	e := env{
		router:  mux.NewRouter(),
		trader:  &fakeTrader{risk: models.DefaultRiskSettings()},
		history: &fakeHistory{},
		token:   d.Token,
	}
	d.AppCtx = context.WithValue(context.Background(), appCtxKey{}, "app")
	d.Trader = e.trader
	d.History = e.history
	NewHandlers(d).Register(e.router)
	return e
}

func (e env) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func TestStatus(t *testing.T) {
	e := newEnv(true, nil)
	code, body := e.do(t, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["is_running"])
	assert.EqualValues(t, 1000, body["total_balance"])
	assert.EqualValues(t, 900, body["available_balance"])
}

func TestRiskSettings(t *testing.T) {
	e := newEnv(true, nil)

	code, body := e.do(t, http.MethodGet, "/api/risk-settings", "")
	require.Equal(t, http.StatusOK, code)
	settings := body["settings"].(map[string]any)
	assert.EqualValues(t, 2, settings["stop_loss_percent"])

	code, body = e.do(t, http.MethodPost, "/api/risk-settings", `{"stop_loss_percent": 3}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 3.0, e.trader.risk.StopLossPct)
	assert.Equal(t, 5.0, e.trader.risk.TakeProfitPct)

	code, body = e.do(t, http.MethodPost, "/api/risk-settings", `{"take_profit_percent": 150}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "take_profit_percent")
	assert.Equal(t, 5.0, e.trader.risk.TakeProfitPct)

	code, _ = e.do(t, http.MethodPost, "/api/risk-settings", `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestToggle(t *testing.T) {
	e := newEnv(true, nil)

	code, body := e.do(t, http.MethodPost, "/api/trading/toggle", `{"action":"start"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	state := body["state"].(map[string]any)
	assert.Equal(t, true, state["is_active"])
	assert.NotNil(t, state["start_time"])
	// цикл живёт на контексте приложения, а не запроса
	assert.Equal(t, "app", e.trader.startCtx.Value(appCtxKey{}))

	code, _ = e.do(t, http.MethodPost, "/api/trading/toggle", `{"action":"start"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, body = e.do(t, http.MethodGet, "/api/trading/toggle", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["state"].(map[string]any)["is_active"])

	code, _ = e.do(t, http.MethodPost, "/api/trading/toggle", `{"action":"stop"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, e.trader.running)

	code, body = e.do(t, http.MethodPost, "/api/trading/toggle", `{"action":"pause"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body["error"])
}

func TestToggle_NotConfigured(t *testing.T) {
	e := newEnv(false, nil)

	code, _ := e.do(t, http.MethodPost, "/api/trading/toggle", `{"action":"start"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, e.trader.running)

	code, body := e.do(t, http.MethodGet, "/api/check-config", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["configured"])
}

func TestTestNotification(t *testing.T) {
	email := &fakeChannel{}
	e := newEnv(true, map[string]notify.Notifier{"email": email})

	code, body := e.do(t, http.MethodPost, "/api/test-notification", `{"type":"email"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 1, email.sent)

	code, body = e.do(t, http.MethodPost, "/api/test-notification", `{"type":"all"}`)
	assert.Equal(t, http.StatusBadGateway, code)
	results := body["results"].(map[string]any)
	assert.Equal(t, "sent", results["email"])
	assert.Equal(t, "not configured", results["telegram"])

	email.err = errors.New("smtp down")
	code, body = e.do(t, http.MethodPost, "/api/test-notification", `{"type":"email"}`)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "error: smtp down", body["results"].(map[string]any)["email"])

	code, _ = e.do(t, http.MethodPost, "/api/test-notification", `{"type":"push"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTrades(t *testing.T) {
	e := newEnv(true, nil)
	e.history.trades = []models.Trade{{ID: 2, Symbol: "BTCUSDT", Action: models.TradeClose}}

	code, body := e.do(t, http.MethodGet, "/api/trades", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 50, e.history.limit)
	assert.Len(t, body["trades"], 1)

	code, _ = e.do(t, http.MethodGet, "/api/trades?limit=10000", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, maxTradesLimit, e.history.limit)

	code, _ = e.do(t, http.MethodGet, "/api/trades?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMethodNotAllowed(t *testing.T) {
	e := newEnv(true, nil)

	code, _ := e.do(t, http.MethodDelete, "/api/status", "")
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	code, _ = e.do(t, http.MethodGet, "/api/test-notification", "")
	assert.Equal(t, http.StatusMethodNotAllowed, code)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuth(t *testing.T) {
	t.Run("wrong token", func(t *testing.T) {
		e := newEnv(true, nil)
		e.token = "guess"

		code, body := e.do(t, http.MethodPost, "/api/trading/toggle", `{"action":"start"}`)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.NotEmpty(t, body["error"])
		assert.False(t, e.trader.running)
	})

	t.Run("missing header", func(t *testing.T) {
		e := newEnv(true, nil)
		e.token = ""

		code, _ := e.do(t, http.MethodPost, "/api/risk-settings", `{"risk_per_trade_percent": 100}`)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, 1.0, e.trader.risk.RiskPerTradePct)
	})

	t.Run("no token configured", func(t *testing.T) {
		e := newEnvWith(Deps{Configured: func() bool { return true }})

		code, body := e.do(t, http.MethodGet, "/api/status", "")
		assert.Equal(t, http.StatusForbidden, code)
		assert.Contains(t, body["error"], "ADMIN_TOKEN")
	})
}

func TestTestConnection(t *testing.T) {
	e := newEnv(true, nil)
	code, body := e.do(t, http.MethodPost, "/api/test-connection", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	account := body["account"].(map[string]any)
	assert.Equal(t, true, account["can_trade"])
	assert.Equal(t, false, account["can_withdraw"])
	assert.Equal(t, "SPOT", account["account_type"])

	e = newEnvWith(Deps{
		Configured: func() bool { return true },
		Account:    fakeAccount{err: errors.New("code=-2015, msg=Invalid API-key")},
		Token:      testToken,
	})
	code, body = e.do(t, http.MethodPost, "/api/test-connection", "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "Invalid API-key")

	e = newEnv(false, nil)
	code, _ = e.do(t, http.MethodPost, "/api/test-connection", "")
	assert.Equal(t, http.StatusBadRequest, code)
}
