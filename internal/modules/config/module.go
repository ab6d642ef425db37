package config

import (
	"crypto_bot/internal/config"

	"go.uber.org/fx"
)

// Module отдаёт уже загруженный *config.Config и производные настройки подсистем.
// Загрузка идёт в main до fx: от конфига зависят логгер и трейсер.
func Module(cfg *config.Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
		fx.Provide(
			func(c *config.Config) config.SMTPConfig { return c.SMTP },
			func(c *config.Config) config.TelegramConfig { return c.Telegram },
			func(c *config.Config) config.BinanceConfig { return c.Binance },
		),
	)
}
