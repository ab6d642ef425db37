package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const DefaultSMTPPort = 587

var ErrNotConfigured = errors.New("not configured")

// Lookup — как os.LookupEnv; в тестах подменяется картой.
type Lookup func(key string) (string, bool)

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string
}

// Письма по умолчанию уходят с адреса логина на него же.
func (s *SMTPConfig) fillDefaults() {
	if s.Port == 0 {
		s.Port = DefaultSMTPPort
	}
	if s.From == "" {
		s.From = s.User
	}
	if s.To == "" {
		s.To = s.User
	}
}

func (s SMTPConfig) Configured() bool { return s.Host != "" && s.User != "" && s.Pass != "" }

type TelegramConfig struct {
	Token string
	// ChatID — числовой id или @username канала.
	ChatID string
}

func (t TelegramConfig) Configured() bool { return t.Token != "" && t.ChatID != "" }

func get(lookup Lookup, key string) string {
	v, _ := lookup(key)
	return strings.TrimSpace(v)
}

func missing(names ...string) error {
	return errors.Wrapf(ErrNotConfigured, "set %s in .env.local", strings.Join(names, ", "))
}

// LoadSMTP читает только SMTP_*; без host/user/pass — ErrNotConfigured.
func LoadSMTP(lookup Lookup) (SMTPConfig, error) {
	cfg := SMTPConfig{
		Host: get(lookup, "SMTP_HOST"),
		User: get(lookup, "SMTP_USER"),
		Pass: get(lookup, "SMTP_PASS"),
		From: get(lookup, "SMTP_FROM"),
		To:   get(lookup, "SMTP_TO"),
	}

	var absent []string
	for _, f := range []struct{ name, v string }{
		{"SMTP_HOST", cfg.Host},
		{"SMTP_USER", cfg.User},
		{"SMTP_PASS", cfg.Pass},
	} {
		if f.v == "" {
			absent = append(absent, f.name)
		}
	}
	if len(absent) > 0 {
		return SMTPConfig{}, missing(absent...)
	}

	if p := get(lookup, "SMTP_PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return SMTPConfig{}, errors.Errorf("SMTP_PORT %q is not a valid port", p)
		}
		cfg.Port = port
	}
	cfg.fillDefaults()
	return cfg, nil
}

// LoadTelegram читает TELEGRAM_BOT_TOKEN и TELEGRAM_CHAT_ID.
func LoadTelegram(lookup Lookup) (TelegramConfig, error) {
	cfg := TelegramConfig{
		Token:  get(lookup, "TELEGRAM_BOT_TOKEN"),
		ChatID: get(lookup, "TELEGRAM_CHAT_ID"),
	}
	if !cfg.Configured() {
		return TelegramConfig{}, missing("TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID")
	}
	return cfg, nil
}
