package telegram

import (
	"context"

	"crypto_bot/internal/config"
	"crypto_bot/internal/journal"
	"crypto_bot/internal/modules/telegram_bot/service"
	"crypto_bot/internal/notify"
	"crypto_bot/internal/runner"
	"crypto_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// 1. Бот; без токена и чата — nil, уведомления идут другими каналами
		fx.Provide(
			func(cfg config.TelegramConfig) *notify.Telegram {
				return connectBot(cfg, notify.NewTelegram)
			},
		),

		// 2. Команды бота поверх раннера и журнала
		fx.Provide(
			func(r *runner.Runner, store journal.Store) *service.Commands {
				return service.NewCommands(r, store)
			},
		),

		// Long-polling команд живёт до остановки приложения
		fx.Invoke(
			func(lc fx.Lifecycle, t *notify.Telegram, cmds *service.Commands, ctx context.Context) {
				if t == nil {
					return
				}
				listenCtx, cancel := context.WithCancel(ctx)
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						t.Listen(listenCtx, cmds)
						return nil
					},
					OnStop: func(context.Context) error {
						cancel()
						return nil
					},
				})
			},
		),
	)
}

// connectBot — NewTelegram ходит в сеть (getMe); недоступность Telegram
// не должна мешать торговле, поэтому ошибку только логируем.
func connectBot(cfg config.TelegramConfig, connect func(config.TelegramConfig) (*notify.Telegram, error)) *notify.Telegram {
	if !cfg.Configured() {
		logger.Info("[TG] telegram not configured, skipping")
		return nil
	}
	bot, err := connect(cfg)
	if err != nil {
		logger.Error("[TG] telegram unavailable, running without it: %v", err)
		return nil
	}
	return bot
}
