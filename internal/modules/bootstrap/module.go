package bootstrap

import (
	"context"

	"crypto_bot/internal/config"
	"crypto_bot/internal/exchange"
	bootstrap "crypto_bot/internal/modules/bootstrap/service"
	"crypto_bot/internal/notify"
	"crypto_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			func(ex *exchange.Binance, n notify.Notifier, cfg *config.Config) *bootstrap.Warmuper {
				return bootstrap.NewWarmuper(ex, n, cfg.Trading.Interval)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, wu *bootstrap.Warmuper, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					// прогрев не блокирует старт; ошибки только логируем
					go func() {
						ready, err := wu.Warmup(ctx, cfg.Trading.Symbols)
						if err != nil {
							logger.Warn("[BOOT] warmup error: %v", err)
							return
						}
						logger.Info("[BOOT] warmup done: %d symbols", len(ready))
					}()
					return nil
				},
			})
		}),
	)
}
