package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"crypto_bot/internal/helper"
	"crypto_bot/internal/models"
	"crypto_bot/internal/secrets"
	"crypto_bot/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	configFilePathENV = "CONFIG_FILE"
	defaultConfigFile = "values_local.yaml"
	configDir         = "configs"
)

type Config struct {
	Binance  BinanceConfig
	Trading  TradingConfig
	Risk     models.RiskSettings
	Telegram TelegramConfig
	SMTP     SMTPConfig

	DatabaseDSN string
	AdminAddr   string
	AdminToken  string // bearer-токен для /api/*
	LogLevel    string
	Jaeger      tracing.Config
}

type BinanceConfig struct {
	APIKey       string
	SecretKey    string
	Testnet      bool
	QuoteAsset   string
	RPS          float64
	StreamPrices bool
}

// Configured — ключи биржи заданы (открытым текстом или расшифрованы).
func (b BinanceConfig) Configured() bool { return b.APIKey != "" && b.SecretKey != "" }

type TradingConfig struct {
	Symbols       []string
	Interval      string
	Lookback      time.Duration
	CycleInterval time.Duration
	ErrorBackoff  time.Duration
	AutoStart     bool
}

// env -> ключ viper
var envBindings = map[string]string{
	"binance.api_key":              "BINANCE_API_KEY",
	"binance.secret_key":           "BINANCE_SECRET_KEY",
	"binance.encrypted_api_key":    "ENCRYPTED_BINANCE_API_KEY",
	"binance.encrypted_secret_key": "ENCRYPTED_BINANCE_SECRET_KEY",
	"binance.encryption_key":       "ENCRYPTION_KEY",
	"binance.testnet":              "BINANCE_TESTNET",
	"binance.quote_asset":          "QUOTE_ASSET",
	"binance.rps":                  "EXCHANGE_RPS",
	"binance.stream_prices":        "STREAM_PRICES",

	"trading.symbols":        "TRADING_SYMBOLS",
	"trading.interval":       "TRADING_INTERVAL",
	"trading.lookback":       "TRADING_LOOKBACK",
	"trading.cycle_interval": "CYCLE_INTERVAL",
	"trading.error_backoff":  "ERROR_BACKOFF",
	"trading.auto_start":     "TRADING_AUTO_START",

	"risk.stop_loss_pct":         "STOP_LOSS_PCT",
	"risk.take_profit_pct":       "TAKE_PROFIT_PCT",
	"risk.max_position_size_pct": "MAX_POSITION_SIZE_PCT",
	"risk.max_daily_loss_pct":    "MAX_DAILY_LOSS_PCT",
	"risk.risk_per_trade_pct":    "RISK_PER_TRADE_PCT",

	"telegram.token":   "TELEGRAM_BOT_TOKEN",
	"telegram.chat_id": "TELEGRAM_CHAT_ID",

	"smtp.host": "SMTP_HOST",
	"smtp.port": "SMTP_PORT",
	"smtp.user": "SMTP_USER",
	"smtp.pass": "SMTP_PASS",
	"smtp.from": "SMTP_FROM",
	"smtp.to":   "SMTP_TO",

	"db_dsn":      "DATABASE_DSN",
	"admin_addr":  "ADMIN_ADDR",
	"admin_token": "ADMIN_TOKEN",
	"log_level":   "LOG_LEVEL",
	"jaeger.host": "JAEGER_HOST",
	"jaeger.port": "JAEGER_PORT",
}

func setDefaults(v *viper.Viper) {
	risk := models.DefaultRiskSettings()

	v.SetDefault("binance.quote_asset", "USDT")
	v.SetDefault("binance.rps", 5.0)
	v.SetDefault("trading.symbols", []string{"BTCUSDT", "ETHUSDT", "BNBUSDT"})
	v.SetDefault("trading.interval", "15m")
	v.SetDefault("trading.lookback", "200h")
	v.SetDefault("trading.cycle_interval", "60s")
	v.SetDefault("trading.error_backoff", "30s")
	v.SetDefault("trading.auto_start", true)
	v.SetDefault("risk.stop_loss_pct", risk.StopLossPct)
	v.SetDefault("risk.take_profit_pct", risk.TakeProfitPct)
	v.SetDefault("risk.max_position_size_pct", risk.MaxPositionSizePct)
	v.SetDefault("risk.max_daily_loss_pct", risk.MaxDailyLossPct)
	v.SetDefault("risk.risk_per_trade_pct", risk.RiskPerTradePct)
	v.SetDefault("smtp.port", DefaultSMTPPort)
	v.SetDefault("admin_addr", "127.0.0.1:8080")
	v.SetDefault("log_level", "info")
}

// LoadDotEnv подтягивает .env.local, затем .env. Уже выставленные переменные не трогаются.
func LoadDotEnv() {
	for _, name := range []string{".env.local", ".env"} {
		_ = godotenv.Load(name)
	}
}

// Load: .env-файлы, затем configs/$CONFIG_FILE (если есть), поверх — переменные окружения.
func Load() (*Config, error) {
	LoadDotEnv()

	v := viper.New()
	setDefaults(v)

	name := os.Getenv(configFilePathENV)
	if name == "" {
		name = defaultConfigFile
	}
	v.SetConfigFile(filepath.Join(configDir, name))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, errors.Wrapf(err, "read config %s", name)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", env)
		}
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Binance: BinanceConfig{
			APIKey:       v.GetString("binance.api_key"),
			SecretKey:    v.GetString("binance.secret_key"),
			Testnet:      v.GetBool("binance.testnet"),
			QuoteAsset:   strings.ToUpper(v.GetString("binance.quote_asset")),
			RPS:          v.GetFloat64("binance.rps"),
			StreamPrices: v.GetBool("binance.stream_prices"),
		},
		Trading: TradingConfig{
			Symbols:       parseSymbols(v.GetStringSlice("trading.symbols")),
			Interval:      helper.NormInterval(v.GetString("trading.interval")),
			Lookback:      v.GetDuration("trading.lookback"),
			CycleInterval: v.GetDuration("trading.cycle_interval"),
			ErrorBackoff:  v.GetDuration("trading.error_backoff"),
			AutoStart:     v.GetBool("trading.auto_start"),
		},
		Risk: models.RiskSettings{
			StopLossPct:        v.GetFloat64("risk.stop_loss_pct"),
			TakeProfitPct:      v.GetFloat64("risk.take_profit_pct"),
			MaxPositionSizePct: v.GetFloat64("risk.max_position_size_pct"),
			MaxDailyLossPct:    v.GetFloat64("risk.max_daily_loss_pct"),
			RiskPerTradePct:    v.GetFloat64("risk.risk_per_trade_pct"),
		},
		Telegram: TelegramConfig{
			Token:  v.GetString("telegram.token"),
			ChatID: v.GetString("telegram.chat_id"),
		},
		SMTP: SMTPConfig{
			Host: v.GetString("smtp.host"),
			Port: v.GetInt("smtp.port"),
			User: v.GetString("smtp.user"),
			Pass: v.GetString("smtp.pass"),
			From: v.GetString("smtp.from"),
			To:   v.GetString("smtp.to"),
		},
		DatabaseDSN: v.GetString("db_dsn"),
		AdminAddr:   v.GetString("admin_addr"),
		AdminToken:  v.GetString("admin_token"),
		LogLevel:    v.GetString("log_level"),
		Jaeger: tracing.Config{
			Host: v.GetString("jaeger.host"),
			Port: v.GetInt("jaeger.port"),
		},
	}
	cfg.SMTP.fillDefaults()

	if err := decryptKeys(&cfg.Binance,
		v.GetString("binance.encrypted_api_key"),
		v.GetString("binance.encrypted_secret_key"),
		v.GetString("binance.encryption_key"),
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decryptKeys расшифровывает ENCRYPTED_* только если открытых ключей нет.
func decryptKeys(b *BinanceConfig, encKey, encSecret, key string) error {
	if b.APIKey != "" && b.SecretKey != "" {
		return nil
	}
	if encKey == "" && encSecret == "" {
		return nil
	}
	if key == "" {
		return errors.New("ENCRYPTED_BINANCE_* set but ENCRYPTION_KEY is empty")
	}

	var err error
	if b.APIKey == "" && encKey != "" {
		if b.APIKey, err = secrets.Decrypt(encKey, key); err != nil {
			return errors.Wrap(err, "decrypt ENCRYPTED_BINANCE_API_KEY")
		}
	}
	if b.SecretKey == "" && encSecret != "" {
		if b.SecretKey, err = secrets.Decrypt(encSecret, key); err != nil {
			return errors.Wrap(err, "decrypt ENCRYPTED_BINANCE_SECRET_KEY")
		}
	}
	return nil
}

// parseSymbols принимает и список, и строку через запятую.
func parseSymbols(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool)
	for _, item := range raw {
		for _, s := range strings.Split(item, ",") {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if len(c.Trading.Symbols) == 0 {
		return errors.New("TRADING_SYMBOLS is empty")
	}
	if !helper.ValidInterval(c.Trading.Interval) {
		return errors.Errorf("TRADING_INTERVAL %q is not a Binance interval", c.Trading.Interval)
	}
	if c.Trading.CycleInterval <= 0 || c.Trading.ErrorBackoff <= 0 || c.Trading.Lookback <= 0 {
		return errors.New("CYCLE_INTERVAL, ERROR_BACKOFF and TRADING_LOOKBACK must be positive")
	}
	// свечи берём одним запросом, окно должно в него влезать
	if bars, _ := helper.BarsIn(c.Trading.Lookback, c.Trading.Interval); bars > helper.MaxKlines {
		return errors.Errorf("TRADING_LOOKBACK %s is %d bars of %s, at most %d fit one request",
			c.Trading.Lookback, bars, c.Trading.Interval, helper.MaxKlines)
	}
	if c.Binance.RPS <= 0 {
		return errors.New("EXCHANGE_RPS must be positive")
	}
	if err := c.Risk.Validate(); err != nil {
		return errors.Wrap(err, "risk settings")
	}
	return nil
}
