package runner

import (
	"context"
	"errors"

	"crypto_bot/internal/config"
	"crypto_bot/internal/exchange"
	"crypto_bot/internal/journal"
	"crypto_bot/internal/notify"
	"crypto_bot/internal/strategy"
	"crypto_bot/pkg/logger"

	"go.uber.org/fx"
)

// NewFromConfig собирает раннер из зависимостей fx.
func NewFromConfig(
	cfg *config.Config,
	ex *exchange.Binance,
	stream *exchange.PriceStream,
	n notify.Notifier,
	store journal.Store,
) *Runner {
	rc := DefaultConfig()
	rc.Symbols = cfg.Trading.Symbols
	rc.Interval = cfg.Trading.Interval
	rc.Lookback = cfg.Trading.Lookback
	rc.CycleInterval = cfg.Trading.CycleInterval
	rc.ErrorBackoff = cfg.Trading.ErrorBackoff
	rc.Risk = cfg.Risk

	// типизированный nil в интерфейсе сломал бы проверку r.prices != nil
	var prices PriceCache
	if stream != nil {
		prices = stream
	}
	return New(rc, ex, strategy.NewVoting(strategy.DefaultConfig()), n, store, prices)
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewFromConfig, // *Runner
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			r *Runner,
			cfg *config.Config,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					if !cfg.Trading.AutoStart {
						logger.Info("[RUNNER] auto start disabled, waiting for toggle")
						return nil
					}
					if !cfg.Binance.Configured() {
						logger.Warn("[RUNNER] exchange keys are not configured, trading not started")
						return nil
					}
					return r.Start(ctx)
				},
				OnStop: func(_ context.Context) error {
					if err := r.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
						return err
					}
					return nil
				},
			})
		}),
	)
}
