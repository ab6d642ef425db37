package postgres

import (
	"context"
	"fmt"

	"crypto_bot/internal/config"
	"crypto_bot/pkg/db"
	"crypto_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module — пул Postgres. Без DATABASE_DSN отдаёт nil и журнал живёт в памяти.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(lc fx.Lifecycle, ctx context.Context, cfg *config.Config) (*db.PgTxManager, error) {
				if cfg.DatabaseDSN == "" {
					logger.Info("[DB] DATABASE_DSN is empty, using in-memory journal")
					return nil, nil
				}

				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DatabaseDSN,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				tm := db.NewPgTxManager(poolMaster)
				lc.Append(fx.Hook{
					OnStop: func(context.Context) error {
						tm.Close()
						return nil
					},
				})
				return tm, nil
			},
		),
	)
}
