package exchange

import (
	"context"

	"crypto_bot/internal/config"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("exchange",
		fx.Provide(
			func(cfg config.BinanceConfig) *Binance {
				return NewBinance(Config{
					APIKey:     cfg.APIKey,
					SecretKey:  cfg.SecretKey,
					Testnet:    cfg.Testnet,
					QuoteAsset: cfg.QuoteAsset,
					RPS:        cfg.RPS,
				})
			},
			// стрим цен опционален: nil, если STREAM_PRICES выключен
			func(cfg *config.Config) *PriceStream {
				if !cfg.Binance.StreamPrices {
					return nil
				}
				return NewPriceStream(cfg.Trading.Symbols)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, ps *PriceStream, ctx context.Context) {
			if ps == nil {
				return
			}
			streamCtx, cancel := context.WithCancel(ctx)
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go ps.Run(streamCtx)
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}
