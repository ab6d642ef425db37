package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crypto_bot/internal/models"
	"crypto_bot/internal/notify"
	"crypto_bot/pkg/logger"

	"go.uber.org/multierr"
)

type Exchange interface {
	LotSize(ctx context.Context, symbol string) (models.LotSize, error)
	Klines(ctx context.Context, symbol, interval string, since time.Time) ([]models.Candle, error)
}

// Warmuper заранее тянет LOT_SIZE и проверяет, что у символов есть свечи.
type Warmuper struct {
	ex Exchange
	n  notify.Notifier

	interval string

	// ограничитель параллелизма, чтобы не упереться в лимиты
	sem chan struct{}
}

func NewWarmuper(ex Exchange, n notify.Notifier, interval string) *Warmuper {
	return &Warmuper{
		ex:       ex,
		n:        n,
		interval: interval,
		sem:      make(chan struct{}, 4),
	}
}

// Warmup возвращает символы, прошедшие проверку, и сводную ошибку по остальным.
func (w *Warmuper) Warmup(ctx context.Context, symbols []string) ([]string, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
		ok   = make(map[string]bool, len(symbols))
	)

	for _, sym := range symbols {
		sym := sym
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.sem <- struct{}{}
			defer func() { <-w.sem }()

			err := w.check(ctx, sym)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("warmup %s: %w", sym, err))
				return
			}
			ok[sym] = true
		}()
	}
	wg.Wait()

	// порядок как в конфиге
	ready := make([]string, 0, len(ok))
	for _, s := range symbols {
		if ok[s] {
			ready = append(ready, s)
		}
	}

	if errs != nil {
		w.send(ctx, fmt.Sprintf("⚠️ Warmup: %d/%d symbols ready\n%v", len(ready), len(symbols), errs))
		return ready, errs
	}
	w.send(ctx, fmt.Sprintf("✅ Warmup finished: %v", ready))
	return ready, nil
}

func (w *Warmuper) check(ctx context.Context, symbol string) error {
	if _, err := w.ex.LotSize(ctx, symbol); err != nil {
		return fmt.Errorf("lot size: %w", err)
	}
	candles, err := w.ex.Klines(ctx, symbol, w.interval, time.Now().Add(-24*time.Hour))
	if err != nil {
		return fmt.Errorf("klines: %w", err)
	}
	if len(candles) == 0 {
		return fmt.Errorf("no %s candles", w.interval)
	}
	return nil
}

func (w *Warmuper) send(ctx context.Context, text string) {
	logger.Info("[BOOT] %s", text)
	if w.n == nil {
		return
	}
	if err := w.n.Send(ctx, "Warmup", text); err != nil {
		logger.Warn("[BOOT] notify: %v", err)
	}
}
