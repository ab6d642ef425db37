package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"crypto_bot/internal/indicators"
	"crypto_bot/internal/models"
	"crypto_bot/pkg/logger"
	"crypto_bot/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

var (
	ErrPositionOpen   = errors.New("position already open")
	ErrDailyLossLimit = errors.New("daily loss limit reached")
	ErrAlreadyRunning = errors.New("trading already running")
	ErrNotRunning     = errors.New("trading not running")
)

type Exchange interface {
	Klines(ctx context.Context, symbol, interval string, since time.Time) ([]models.Candle, error)
	Price(ctx context.Context, symbol string) (float64, error)
	Balance(ctx context.Context, asset string) (models.Balance, error)
	LotSize(ctx context.Context, symbol string) (models.LotSize, error)
	MarketBuy(ctx context.Context, symbol string, qty decimal.Decimal) (models.Order, error)
	MarketSell(ctx context.Context, symbol string, qty decimal.Decimal) (models.Order, error)
}

// PriceCache — свежие цены из стрима; может отсутствовать.
type PriceCache interface {
	Last(symbol string, maxAge time.Duration) (float64, bool)
}

type SignalEngine interface {
	Evaluate(symbol string, bars []models.Bar) models.Signal
}

type Notifier interface {
	Send(ctx context.Context, subject, text string) error
}

type Journal interface {
	Record(ctx context.Context, t models.Trade) error
}

type Config struct {
	Symbols       []string
	Interval      string
	Lookback      time.Duration
	CycleInterval time.Duration
	ErrorBackoff  time.Duration
	PriceMaxAge   time.Duration
	// MinExitProfitPct — минимальная прибыль для выхода по техническому сигналу.
	MinExitProfitPct float64
	Risk             models.RiskSettings
}

func DefaultConfig() Config {
	return Config{
		Symbols:          []string{"BTCUSDT", "ETHUSDT", "BNBUSDT"},
		Interval:         "15m",
		Lookback:         200 * time.Hour,
		CycleInterval:    60 * time.Second,
		ErrorBackoff:     30 * time.Second,
		PriceMaxAge:      10 * time.Second,
		MinExitProfitPct: 0.5,
		Risk:             models.DefaultRiskSettings(),
	}
}

// Runner — торговый цикл: по очереди обходит символы, считает сигнал и торгует.
type Runner struct {
	cfg     Config
	ex      Exchange
	prices  PriceCache
	engine  SignalEngine
	n       Notifier
	journal Journal

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}

	mu        sync.RWMutex
	risk      models.RiskSettings
	positions map[string]models.Position
	startedAt time.Time
	stoppedAt time.Time
	lastCycle time.Time
	lossDay   string
	dayPnL    float64

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool
}

func New(cfg Config, ex Exchange, engine SignalEngine, n Notifier, journal Journal, prices PriceCache) *Runner {
	return &Runner{
		cfg:       cfg,
		ex:        ex,
		prices:    prices,
		engine:    engine,
		n:         n,
		journal:   journal,
		risk:      cfg.Risk,
		positions: make(map[string]models.Position),
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// Start запускает цикл в отдельной горутине.
func (r *Runner) Start(parent context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	r.mu.Lock()
	r.cancel = cancel
	r.done = done
	r.startedAt = r.now()
	r.stoppedAt = time.Time{}
	r.mu.Unlock()

	logger.Info("[RUNNER] ▶️ trading started: symbols=%v interval=%s", r.cfg.Symbols, r.cfg.Interval)
	r.notify(ctx, "Trading started", fmt.Sprintf("▶️ Trading started: %v", r.cfg.Symbols))

	go func() {
		defer close(done)
		r.loop(ctx)
		// цикл мог выйти сам по отмене родительского контекста
		if r.running.CompareAndSwap(true, false) {
			r.mu.Lock()
			r.stoppedAt = r.now()
			r.mu.Unlock()
		}
	}()
	return nil
}

// Stop снимает флаг и ждёт, пока текущая итерация завершится.
func (r *Runner) Stop() error {
	if !r.running.CompareAndSwap(true, false) {
		return ErrNotRunning
	}

	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.stoppedAt = r.now()
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	logger.Info("[RUNNER] ⏹ trading stopped")
	return nil
}

func (r *Runner) Running() bool { return r.running.Load() }

func (r *Runner) loop(ctx context.Context) {
	for r.running.Load() {
		pause := r.cfg.CycleInterval
		if err := r.safeCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("[RUNNER] cycle failed: %v", err)
			pause = r.cfg.ErrorBackoff
		}
		if !r.running.Load() || !r.sleep(ctx, pause) {
			return
		}
	}
}

func (r *Runner) safeCycle(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in cycle: %v", p)
		}
	}()
	return r.Cycle(ctx)
}

// Cycle — один проход по всем символам. Ошибкой цикла считается только
// ситуация, когда не удалось обработать ни один символ.
func (r *Runner) Cycle(ctx context.Context) (err error) {
	span, ctx := tracing.StartSpan(ctx, "runner.cycle", opentracing.Tags{"symbols": len(r.cfg.Symbols)})
	defer func() { tracing.Finish(span, err) }()

	var errs error
	failed := 0
	for _, symbol := range r.cfg.Symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.processSymbol(ctx, symbol); err != nil {
			logger.Error("[RUNNER] %s: %v", symbol, err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", symbol, err))
			failed++
		}
	}

	r.mu.Lock()
	r.lastCycle = r.now()
	r.mu.Unlock()

	if failed > 0 && failed == len(r.cfg.Symbols) {
		return errs
	}
	return nil
}

func (r *Runner) processSymbol(ctx context.Context, symbol string) (err error) {
	span, ctx := tracing.StartSpan(ctx, "runner.symbol", opentracing.Tags{"symbol": symbol})
	defer func() { tracing.Finish(span, err) }()

	candles, err := r.ex.Klines(ctx, symbol, r.cfg.Interval, r.now().Add(-r.cfg.Lookback))
	if err != nil {
		return fmt.Errorf("fetch candles: %w", err)
	}
	bars, err := indicators.Apply(candles)
	if err != nil {
		return fmt.Errorf("indicators: %w", err)
	}

	sig := r.engine.Evaluate(symbol, bars)
	span.SetTag("signal", string(sig.Side))
	logger.Info("[EVAL] %s %s (%s)", symbol, sig.Side, sig.Reason)

	pos, open := r.position(symbol)
	if !open && sig.Side != models.SideBuy {
		return nil
	}

	price, err := r.currentPrice(ctx, symbol)
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}

	if open {
		if reason, ok := r.exitReason(pos, price, sig); ok {
			return r.executeSell(ctx, pos, price, reason)
		}
	}

	if sig.Side == models.SideBuy {
		err := r.executeBuy(ctx, symbol, price)
		switch {
		case errors.Is(err, ErrPositionOpen):
			logger.Info("[RUNNER] %s: position already open, buy skipped", symbol)
			return nil
		case errors.Is(err, ErrDailyLossLimit):
			logger.Warn("[RISK] %s: daily loss limit reached, buy skipped", symbol)
			return nil
		}
		return err
	}
	return nil
}

// currentPrice предпочитает свежую цену из стрима, иначе идёт в REST.
func (r *Runner) currentPrice(ctx context.Context, symbol string) (float64, error) {
	if r.prices != nil {
		if p, ok := r.prices.Last(symbol, r.cfg.PriceMaxAge); ok {
			return p, nil
		}
	}
	return r.ex.Price(ctx, symbol)
}

func (r *Runner) exitReason(pos models.Position, price float64, sig models.Signal) (models.ExitReason, bool) {
	switch {
	case price <= pos.StopLoss:
		return models.ExitStopLoss, true
	case price >= pos.TakeProfit:
		return models.ExitTakeProfit, true
	case sig.Side == models.SideSell && pos.PnLPct(price) > r.cfg.MinExitProfitPct:
		return models.ExitTechnical, true
	}
	return "", false
}

func (r *Runner) position(symbol string) (models.Position, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.positions[symbol]
	return p, ok
}

func (r *Runner) notify(ctx context.Context, subject, text string) {
	if r.n == nil {
		return
	}
	if err := r.n.Send(ctx, subject, text); err != nil {
		logger.Warn("[NOTIFY] %s: %v", subject, err)
	}
}

func (r *Runner) record(ctx context.Context, t models.Trade) {
	if r.journal == nil {
		return
	}
	if err := r.journal.Record(ctx, t); err != nil {
		logger.Warn("[JOURNAL] %s %s: %v", t.Action, t.Symbol, err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
