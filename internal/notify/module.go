package notify

import (
	"crypto_bot/internal/config"
	"crypto_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module собирает Notifier из настроенных каналов; *Telegram может быть nil.
func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(
			func(smtp config.SMTPConfig, tg *Telegram) Notifier {
				var channels Multi
				if tg != nil {
					channels = append(channels, Logging{Name: "telegram", Next: tg})
				}
				if smtp.Configured() {
					channels = append(channels, Logging{Name: "email", Next: NewEmail(smtp)})
				}
				if len(channels) == 0 {
					logger.Info("[NOTIFY] no channels configured, writing to stdout")
					return NewStdout()
				}
				return channels
			},
		),
	)
}
