package main

import (
	"context"
	"log"

	"crypto_bot/internal/config"
	"crypto_bot/internal/exchange"
	"crypto_bot/internal/journal"
	"crypto_bot/internal/modules/api"
	"crypto_bot/internal/modules/bootstrap"
	configModule "crypto_bot/internal/modules/config"
	"crypto_bot/internal/modules/health"
	"crypto_bot/internal/modules/postgres"
	telegram "crypto_bot/internal/modules/telegram_bot"
	"crypto_bot/internal/notify"
	"crypto_bot/internal/runner"
	"crypto_bot/pkg/logger"
	"crypto_bot/pkg/tracing"

	"go.uber.org/fx"
)

const serviceName = "crypto_bot"

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	logger.SetServiceName(serviceName)

	tracing.SetServiceName(serviceName)
	_, closeTracer, err := tracing.InitTracer(cfg.Jaeger)
	if err != nil {
		logger.Fatal("[MAIN] %v", err)
	}
	defer closeTracer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return ctx
			},
		),
		configModule.Module(cfg),
		postgres.Module(),
		journal.Module(),
		exchange.Module(),
		telegram.Module(),
		notify.Module(),
		runner.Module(),
		bootstrap.Module(),
		health.Module(),
		api.Module(),
	)
	app.Run()
}
