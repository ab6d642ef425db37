package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"crypto_bot/internal/config"
	"crypto_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type botAPI interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
}

// Telegram — sendMessage в один чат (числовой id или @канал).
type Telegram struct {
	bot      botAPI
	chatID   int64
	username string
}

func NewTelegram(cfg config.TelegramConfig) (*Telegram, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("telegram: %w", config.ErrNotConfigured)
	}
	b, err := tgbot.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return newTelegram(b, cfg.ChatID)
}

func newTelegram(b botAPI, chat string) (*Telegram, error) {
	t := &Telegram{bot: b}
	if strings.HasPrefix(chat, "@") {
		t.username = chat
		return t, nil
	}
	id, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("telegram: chat id %q is neither a number nor @channel", chat)
	}
	t.chatID = id
	return t, nil
}

func (t *Telegram) message(text string) tgbot.MessageConfig {
	if t.username != "" {
		return tgbot.NewMessageToChannel(t.username, text)
	}
	return tgbot.NewMessage(t.chatID, text)
}

// Send: subject идёт первой строкой.
func (t *Telegram) Send(_ context.Context, subject, text string) error {
	body := text
	if subject != "" && !strings.Contains(text, subject) {
		body = subject + "\n" + text
	}
	if _, err := t.bot.Send(t.message(body)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// ChatMatches — сообщение пришло из нашего чата.
func (t *Telegram) ChatMatches(chat *tgbot.Chat) bool {
	if chat == nil {
		return false
	}
	if t.username != "" {
		// имена в Telegram регистронезависимы
		return strings.EqualFold("@"+chat.UserName, t.username)
	}
	return chat.ID == t.chatID
}

// Commands — источник ответов на команды бота.
type Commands interface {
	Reply(ctx context.Context, command, args string) (string, bool)
}

// Listen — long-polling команд из нашего чата до отмены ctx.
func (t *Telegram) Listen(ctx context.Context, cmds Commands) {
	b, ok := t.bot.(*tgbot.BotAPI)
	if !ok {
		return
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}
	updates := b.GetUpdatesChan(u)

	go func() {
		defer b.StopReceivingUpdates()
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				t.handleUpdate(ctx, upd, cmds)
			}
		}
	}()
}

func (t *Telegram) handleUpdate(ctx context.Context, upd tgbot.Update, cmds Commands) {
	msg := upd.Message
	if msg == nil || !msg.IsCommand() || !t.ChatMatches(msg.Chat) {
		return
	}
	reply, ok := cmds.Reply(ctx, msg.Command(), msg.CommandArguments())
	if !ok {
		reply = "Unknown command. Try /status or /positions"
	}
	if _, err := t.bot.Send(tgbot.NewMessage(msg.Chat.ID, reply)); err != nil {
		logger.Warn("[TG] reply /%s: %v", msg.Command(), err)
	}
}
