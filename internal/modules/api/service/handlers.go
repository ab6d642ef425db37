package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"crypto_bot/internal/models"
	"crypto_bot/internal/notify"
	"crypto_bot/internal/runner"
	"crypto_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/mux"
)

const (
	TestSubject = "🤖 Trading Bot test"
	TestText    = "Test notification: the channel is configured."

	maxTradesLimit = 500
)

type Trader interface {
	Status(ctx context.Context) runner.Status
	Start(ctx context.Context) error
	Stop() error
	RiskSettings() models.RiskSettings
	UpdateRiskSettings(u models.RiskUpdate) (models.RiskSettings, error)
}

type TradeHistory interface {
	Recent(ctx context.Context, limit int) ([]models.Trade, error)
}

// AccountChecker — проверка ключей биржи запросом аккаунта.
type AccountChecker interface {
	Account(ctx context.Context) (models.AccountInfo, error)
}

// Deps — всё, что нужно ручкам. AppCtx — контекст приложения: торговый цикл
// не должен умирать вместе с HTTP-запросом, который его запустил.
type Deps struct {
	AppCtx     context.Context
	Trader     Trader
	History    TradeHistory
	Account    AccountChecker
	Configured func() bool
	Channels   map[string]notify.Notifier
	// Token — bearer-токен админки; пустой закрывает /api/* целиком.
	Token string
}

// Handlers — HTTP-ручки админки поверх раннера.
type Handlers struct {
	appCtx     context.Context
	trader     Trader
	history    TradeHistory
	account    AccountChecker
	configured func() bool
	channels   map[string]notify.Notifier
	token      string
}

func NewHandlers(d Deps) *Handlers {
	return &Handlers{
		appCtx:     d.AppCtx,
		trader:     d.Trader,
		history:    d.History,
		account:    d.Account,
		configured: d.Configured,
		channels:   d.Channels,
		token:      d.Token,
	}
}

// Register вешает ручки полными путями на корневой роутер: у subrouter'а
// mux на чужой метод отвечает 404 вместо 405.
func (h *Handlers) Register(r *mux.Router) {
	routes := []struct {
		path   string
		method string
		fn     http.HandlerFunc
	}{
		{"/api/status", http.MethodGet, h.status},
		{"/api/risk-settings", http.MethodGet, h.getRisk},
		{"/api/risk-settings", http.MethodPost, h.updateRisk},
		{"/api/trading/toggle", http.MethodGet, h.tradingState},
		{"/api/trading/toggle", http.MethodPost, h.toggle},
		{"/api/check-config", http.MethodGet, h.checkConfig},
		{"/api/test-connection", http.MethodPost, h.testConnection},
		{"/api/test-notification", http.MethodPost, h.testNotification},
		{"/api/trades", http.MethodGet, h.trades},
	}
	for _, rt := range routes {
		r.Handle(rt.path, h.authorized(rt.fn)).Methods(rt.method)
	}
}

// authorized пускает только с "Authorization: Bearer <token>".
func (h *Handlers) authorized(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.token == "" {
			writeError(w, http.StatusForbidden, "admin API is disabled: set ADMIN_TOKEN")
			return
		}
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
		next(w, r)
	})
}

func (h *Handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.trader.Status(r.Context()))
}

func (h *Handlers) getRisk(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"settings": h.trader.RiskSettings()})
}

func (h *Handlers) updateRisk(w http.ResponseWriter, r *http.Request) {
	var u models.RiskUpdate
	if err := decode(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	settings, err := h.trader.UpdateRiskSettings(u)
	if err != nil {
		if errors.Is(err, models.ErrInvalidRiskSetting) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Risk settings updated",
		"settings": settings,
	})
}

type tradingState struct {
	IsActive  bool       `json:"is_active"`
	StartTime *time.Time `json:"start_time"`
	StopTime  *time.Time `json:"stop_time"`
}

func (h *Handlers) state(ctx context.Context) tradingState {
	st := h.trader.Status(ctx)
	return tradingState{IsActive: st.Running, StartTime: st.StartedAt, StopTime: st.StoppedAt}
}

func (h *Handlers) tradingState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"state": h.state(r.Context())})
}

func (h *Handlers) toggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var (
		err     error
		message string
	)
	switch req.Action {
	case "start":
		if h.configured != nil && !h.configured() {
			writeError(w, http.StatusBadRequest, "exchange API keys are not configured")
			return
		}
		err = h.trader.Start(h.appCtx)
		message = "Trading started"
	case "stop":
		err = h.trader.Stop()
		message = "Trading stopped"
	default:
		writeError(w, http.StatusBadRequest, "action must be start or stop")
		return
	}

	if err != nil {
		if errors.Is(err, runner.ErrAlreadyRunning) || errors.Is(err, runner.ErrNotRunning) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Info("[API] trading %s", req.Action)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"state":   h.state(r.Context()),
	})
}

func (h *Handlers) testConnection(w http.ResponseWriter, r *http.Request) {
	if h.configured == nil || !h.configured() || h.account == nil {
		writeError(w, http.StatusBadRequest, "exchange API keys are not configured")
		return
	}
	acc, err := h.account.Account(r.Context())
	if err != nil {
		logger.Warn("[API] test connection: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "account": acc})
}

func (h *Handlers) checkConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"configured": h.configured != nil && h.configured()})
}

func (h *Handlers) testNotification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var names []string
	switch req.Type {
	case "email", "telegram":
		names = []string{req.Type}
	case "all":
		names = []string{"email", "telegram"}
	default:
		writeError(w, http.StatusBadRequest, "type must be email, telegram or all")
		return
	}

	results := make(map[string]string, len(names))
	success := true
	for _, name := range names {
		n, ok := h.channels[name]
		if !ok || n == nil {
			results[name] = "not configured"
			success = false
			continue
		}
		if err := n.Send(r.Context(), TestSubject, TestText); err != nil {
			logger.Warn("[API] test notification %s: %v", name, err)
			results[name] = "error: " + err.Error()
			success = false
			continue
		}
		results[name] = "sent"
	}

	code := http.StatusOK
	if !success {
		code = http.StatusBadGateway
	}
	writeJSON(w, code, map[string]any{"success": success, "results": results})
}

func (h *Handlers) trades(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxTradesLimit)
	}

	trades, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		logger.Error("[API] trades: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"trades": trades})
}

func decode(r *http.Request, v any) error {
	return sonic.ConfigDefault.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		logger.Error("[API] encode response: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
