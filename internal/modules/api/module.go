package api

import (
	"context"

	"crypto_bot/internal/config"
	"crypto_bot/internal/exchange"
	"crypto_bot/internal/journal"
	"crypto_bot/internal/modules/api/service"
	"crypto_bot/internal/notify"
	"crypto_bot/internal/runner"
	"crypto_bot/pkg/logger"

	"github.com/gorilla/mux"
	"go.uber.org/fx"
)

// Module вешает /api/* на общий роутер из health.
func Module() fx.Option {
	return fx.Module("api",
		fx.Provide(
			func(
				ctx context.Context,
				r *runner.Runner,
				store journal.Store,
				cfg *config.Config,
				tg *notify.Telegram,
				ex *exchange.Binance,
			) *service.Handlers {
				channels := map[string]notify.Notifier{}
				if cfg.SMTP.Configured() {
					channels["email"] = notify.NewEmail(cfg.SMTP)
				}
				if tg != nil {
					channels["telegram"] = tg
				}
				if cfg.AdminToken == "" {
					logger.Warn("[API] ADMIN_TOKEN is empty, /api/* is disabled")
				}
				return service.NewHandlers(service.Deps{
					AppCtx:     ctx,
					Trader:     r,
					History:    store,
					Account:    ex,
					Configured: cfg.Binance.Configured,
					Channels:   channels,
					Token:      cfg.AdminToken,
				})
			},
		),
		fx.Invoke(func(router *mux.Router, h *service.Handlers) {
			h.Register(router)
		}),
	)
}
