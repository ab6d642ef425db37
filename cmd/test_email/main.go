package main

import (
	"context"
	"os"
	"time"

	"crypto_bot/internal/config"
	"crypto_bot/internal/notify"
)

func main() {
	config.LoadDotEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := notify.RunEmailCheck(ctx, os.LookupEnv, os.Stdout, func(cfg config.SMTPConfig) notify.Notifier {
		return notify.NewEmail(cfg)
	})
	if err != nil {
		os.Exit(1)
	}
}
