package notify

import (
	"context"
	"fmt"
	"io"

	"crypto_bot/internal/config"
)

const (
	EmailTestSubject = "🤖 Trading Bot test - Email"
	EmailTestBody    = "Email configured successfully! The bot can send notifications."
	TelegramTestText = "🤖 Trading Bot test - Telegram configured successfully!"
)

// RunEmailCheck — одна попытка отправить тестовое письмо. Без настроек
// печатает подсказку и в сеть не ходит.
func RunEmailCheck(
	ctx context.Context,
	lookup config.Lookup,
	out io.Writer,
	newSender func(config.SMTPConfig) Notifier,
) error {
	cfg, err := config.LoadSMTP(lookup)
	if err != nil {
		fmt.Fprintf(out, "❌ Configure the SMTP variables in .env.local (%v)\n", err)
		return err
	}

	if err := newSender(cfg).Send(ctx, EmailTestSubject, EmailTestBody); err != nil {
		fmt.Fprintf(out, "❌ Error sending email: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "✅ Email sent successfully!")
	return nil
}

// RunTelegramCheck — то же для Telegram.
func RunTelegramCheck(
	ctx context.Context,
	lookup config.Lookup,
	out io.Writer,
	newSender func(config.TelegramConfig) (Notifier, error),
) error {
	cfg, err := config.LoadTelegram(lookup)
	if err != nil {
		fmt.Fprintf(out, "❌ Configure TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID in .env.local (%v)\n", err)
		return err
	}

	n, err := newSender(cfg)
	if err != nil {
		fmt.Fprintf(out, "❌ Error: %v\n", err)
		return err
	}
	if err := n.Send(ctx, "", TelegramTestText); err != nil {
		fmt.Fprintf(out, "❌ Error: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "✅ Message sent successfully!")
	return nil
}
