package journal

import (
	"context"
	"fmt"

	"crypto_bot/internal/models"
	"crypto_bot/pkg/db"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS trades (
	id         BIGSERIAL PRIMARY KEY,
	symbol     TEXT             NOT NULL,
	action     TEXT             NOT NULL,
	price      DOUBLE PRECISION NOT NULL,
	quantity   DOUBLE PRECISION NOT NULL,
	pnl        DOUBLE PRECISION NOT NULL DEFAULT 0,
	reason     TEXT             NOT NULL DEFAULT '',
	order_id   BIGINT           NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ      NOT NULL
)`

	insertTradeSQL = `INSERT INTO trades (symbol, action, price, quantity, pnl, reason, order_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`

	recentTradesSQL = `SELECT id, symbol, action, price, quantity, pnl, reason, order_id, created_at
FROM trades
ORDER BY created_at DESC, id DESC
LIMIT $1`
)

// PgStore — журнал в Postgres через менеджер транзакций.
type PgStore struct {
	db db.TxManager
}

func NewPgStore(tm db.TxManager) *PgStore {
	return &PgStore{db: tm}
}

// Migrate создаёт таблицу, если её ещё нет.
func (s *PgStore) Migrate(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("PgStore.Migrate: %w", err)
		}
	}()
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctxTx, createTableSQL)
		return err
	})
}

func (s *PgStore) Record(ctx context.Context, t models.Trade) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("PgStore.Record: %w", err)
		}
	}()
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		var id int64
		err := tx.QueryRow(ctxTx, insertTradeSQL,
			t.Symbol, string(t.Action), t.Price, t.Quantity, t.PnL, t.Reason, t.OrderID, t.At.UTC(),
		).Scan(&id)
		return err
	})
}

func (s *PgStore) Recent(ctx context.Context, limit int) (out []models.Trade, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("PgStore.Recent: %w", err)
		}
	}()
	if limit <= 0 {
		limit = DefaultLimit
	}

	err = s.db.RunReadOnly(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		rows, err := tx.Query(ctxTx, recentTradesSQL, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				t      models.Trade
				action string
			)
			if err := rows.Scan(&t.ID, &t.Symbol, &action, &t.Price, &t.Quantity,
				&t.PnL, &t.Reason, &t.OrderID, &t.At); err != nil {
				return err
			}
			t.Action = models.TradeAction(action)
			out = append(out, t)
		}
		return rows.Err()
	})
	return out, err
}
