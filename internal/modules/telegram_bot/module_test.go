package telegram

import (
	"errors"
	"testing"

	"crypto_bot/internal/config"
	"crypto_bot/internal/notify"
	"crypto_bot/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestConnectBot(t *testing.T) {
	logger.InitNop()
	cfg := config.TelegramConfig{Token: "123:abc", ChatID: "42"}

	t.Run("not configured", func(t *testing.T) {
		called := false
		bot := connectBot(config.TelegramConfig{}, func(config.TelegramConfig) (*notify.Telegram, error) {
			called = true
			return &notify.Telegram{}, nil
		})
		assert.Nil(t, bot)
		assert.False(t, called)
	})

	t.Run("telegram down does not fail startup", func(t *testing.T) {
		bot := connectBot(cfg, func(config.TelegramConfig) (*notify.Telegram, error) {
			return nil, errors.New("dial tcp: i/o timeout")
		})
		assert.Nil(t, bot)
	})

	t.Run("connected", func(t *testing.T) {
		want := &notify.Telegram{}
		bot := connectBot(cfg, func(config.TelegramConfig) (*notify.Telegram, error) { return want, nil })
		assert.Same(t, want, bot)
	})
}
