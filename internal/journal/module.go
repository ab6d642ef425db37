package journal

import (
	"context"
	"fmt"

	"crypto_bot/pkg/db"

	"go.uber.org/fx"
)

const memoryCapacity = 1000

func Module() fx.Option {
	return fx.Module("journal",
		fx.Provide(
			func(ctx context.Context, tm *db.PgTxManager) (Store, error) {
				if tm == nil {
					return NewMemoryStore(memoryCapacity), nil
				}
				s := NewPgStore(tm)
				if err := s.Migrate(ctx); err != nil {
					return nil, fmt.Errorf("journal migrate: %w", err)
				}
				return s, nil
			},
		),
	)
}
