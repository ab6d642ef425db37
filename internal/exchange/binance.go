package exchange

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"crypto_bot/internal/helper"
	"crypto_bot/internal/models"
	"crypto_bot/pkg/logger"

	"github.com/adshao/go-binance/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

type Config struct {
	APIKey     string
	SecretKey  string
	Testnet    bool
	QuoteAsset string
	// RPS — сколько REST-запросов в секунду разрешаем себе сами.
	RPS float64
}

// Binance — спотовый клиент поверх go-binance. Все запросы проходят через лимитер.
type Binance struct {
	client  *binance.Client
	limiter *rate.Limiter
	quote   string

	mu   sync.RWMutex
	lots map[string]models.LotSize

	now func() time.Time
}

func NewBinance(cfg Config) *Binance {
	// флаг глобальный в библиотеке, выставляем до создания клиента
	binance.UseTestnet = cfg.Testnet

	rps := cfg.RPS
	if rps <= 0 {
		rps = 5
	}
	quote := cfg.QuoteAsset
	if quote == "" {
		quote = "USDT"
	}

	return &Binance{
		client:  binance.NewClient(cfg.APIKey, cfg.SecretKey),
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		quote:   quote,
		lots:    make(map[string]models.LotSize),
		now:     time.Now,
	}
}

func (b *Binance) QuoteAsset() string { return b.quote }

func (b *Binance) wait(ctx context.Context) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// Klines возвращает самые свежие свечи за окно [since, now], не больше 1000 штук.
// startTime не шлём: с ним Binance отдаёт первые свечи после since, а не последние.
func (b *Binance) Klines(ctx context.Context, symbol, interval string, since time.Time) ([]models.Candle, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}

	end := b.now()
	limit := helper.MaxKlines
	if bars, ok := helper.BarsIn(end.Sub(since), interval); ok {
		// +1 — текущая, ещё не закрытая свеча
		limit = min(bars+1, helper.MaxKlines)
	}

	raw, err := b.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		EndTime(end.UnixMilli()).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("klines %s: %w", symbol, err)
	}

	out := make([]models.Candle, 0, len(raw))
	for _, k := range raw {
		c, err := parseKline(k)
		if err != nil {
			return nil, fmt.Errorf("klines %s: %w", symbol, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseKline(k *binance.Kline) (models.Candle, error) {
	fields := []string{k.Open, k.High, k.Low, k.Close, k.Volume}
	vals := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Candle{}, fmt.Errorf("parse %q: %w", s, err)
		}
		vals[i] = v
	}
	return models.Candle{
		OpenTime: time.UnixMilli(k.OpenTime).UTC(),
		Open:     vals[0],
		High:     vals[1],
		Low:      vals[2],
		Close:    vals[3],
		Volume:   vals[4],
	}, nil
}

// Price — последняя цена по REST-тикеру.
func (b *Binance) Price(ctx context.Context, symbol string) (float64, error) {
	if err := b.wait(ctx); err != nil {
		return 0, err
	}

	prices, err := b.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("ticker %s: %w", symbol, err)
	}
	for _, p := range prices {
		if p.Symbol != "" && p.Symbol != symbol {
			continue
		}
		v, err := strconv.ParseFloat(p.Price, 64)
		if err != nil {
			return 0, fmt.Errorf("ticker %s: parse %q: %w", symbol, p.Price, err)
		}
		return v, nil
	}
	return 0, fmt.Errorf("ticker %s: empty response", symbol)
}

// Balance — остаток по активу спотового аккаунта. Пустой asset — котируемая валюта.
func (b *Binance) Balance(ctx context.Context, asset string) (models.Balance, error) {
	if asset == "" {
		asset = b.quote
	}
	if err := b.wait(ctx); err != nil {
		return models.Balance{}, err
	}

	acc, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return models.Balance{}, fmt.Errorf("account: %w", err)
	}

	bal := models.Balance{Asset: asset}
	for _, row := range acc.Balances {
		if row.Asset != asset {
			continue
		}
		if bal.Free, err = strconv.ParseFloat(row.Free, 64); err != nil {
			return models.Balance{}, fmt.Errorf("account: parse free %q: %w", row.Free, err)
		}
		if bal.Locked, err = strconv.ParseFloat(row.Locked, 64); err != nil {
			return models.Balance{}, fmt.Errorf("account: parse locked %q: %w", row.Locked, err)
		}
		break
	}
	return bal, nil
}

// Account — права ключа; заодно проверяет, что ключи рабочие.
func (b *Binance) Account(ctx context.Context) (models.AccountInfo, error) {
	if err := b.wait(ctx); err != nil {
		return models.AccountInfo{}, err
	}
	acc, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return models.AccountInfo{}, fmt.Errorf("account: %w", err)
	}
	return models.AccountInfo{
		CanTrade:    acc.CanTrade,
		CanWithdraw: acc.CanWithdraw,
		CanDeposit:  acc.CanDeposit,
		AccountType: acc.AccountType,
	}, nil
}

// LotSize читает фильтр LOT_SIZE; ответ кешируется на время жизни процесса.
func (b *Binance) LotSize(ctx context.Context, symbol string) (models.LotSize, error) {
	b.mu.RLock()
	lot, ok := b.lots[symbol]
	b.mu.RUnlock()
	if ok {
		return lot, nil
	}

	if err := b.wait(ctx); err != nil {
		return models.LotSize{}, err
	}
	info, err := b.client.NewExchangeInfoService().Symbol(symbol).Do(ctx)
	if err != nil {
		return models.LotSize{}, fmt.Errorf("exchange info %s: %w", symbol, err)
	}

	for _, s := range info.Symbols {
		if s.Symbol != symbol {
			continue
		}
		f := s.LotSizeFilter()
		if f == nil {
			return models.LotSize{}, fmt.Errorf("exchange info %s: no LOT_SIZE filter", symbol)
		}
		lot, err = parseLot(f.MinQuantity, f.MaxQuantity, f.StepSize)
		if err != nil {
			return models.LotSize{}, fmt.Errorf("exchange info %s: %w", symbol, err)
		}

		b.mu.Lock()
		b.lots[symbol] = lot
		b.mu.Unlock()
		return lot, nil
	}
	return models.LotSize{}, fmt.Errorf("exchange info %s: symbol not found", symbol)
}

func parseLot(minQty, maxQty, step string) (models.LotSize, error) {
	var (
		lot models.LotSize
		err error
	)
	if lot.MinQty, err = decimal.NewFromString(minQty); err != nil {
		return lot, fmt.Errorf("min qty %q: %w", minQty, err)
	}
	if lot.MaxQty, err = decimal.NewFromString(maxQty); err != nil {
		return lot, fmt.Errorf("max qty %q: %w", maxQty, err)
	}
	if lot.StepSize, err = decimal.NewFromString(step); err != nil {
		return lot, fmt.Errorf("step size %q: %w", step, err)
	}
	return lot, nil
}

func (b *Binance) MarketBuy(ctx context.Context, symbol string, qty decimal.Decimal) (models.Order, error) {
	return b.market(ctx, symbol, binance.SideTypeBuy, qty)
}

func (b *Binance) MarketSell(ctx context.Context, symbol string, qty decimal.Decimal) (models.Order, error) {
	return b.market(ctx, symbol, binance.SideTypeSell, qty)
}

func (b *Binance) market(ctx context.Context, symbol string, side binance.SideType, qty decimal.Decimal) (models.Order, error) {
	if !qty.IsPositive() {
		return models.Order{}, fmt.Errorf("order %s %s: non-positive quantity %s", side, symbol, qty)
	}
	if err := b.wait(ctx); err != nil {
		return models.Order{}, err
	}

	clientID := uuid.NewString()
	resp, err := b.client.NewCreateOrderService().
		Symbol(symbol).
		Side(side).
		Type(binance.OrderTypeMarket).
		Quantity(qty.String()).
		NewClientOrderID(clientID).
		Do(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s %s qty=%s: %w", side, symbol, qty, err)
	}

	order := models.Order{
		Symbol:        symbol,
		OrderID:       resp.OrderID,
		ClientOrderID: resp.ClientOrderID,
		Side:          models.Side(side),
		Status:        string(resp.Status),
	}
	// биржа могла не вернуть исполнение (ACK), тогда остаются нули
	if v, err := decimal.NewFromString(resp.ExecutedQuantity); err == nil {
		order.ExecutedQty = v
	}
	if v, err := decimal.NewFromString(resp.CummulativeQuoteQuantity); err == nil {
		order.QuoteQty = v
	}

	logger.Info("[ORDER] %s %s qty=%s id=%d status=%s", side, symbol, qty, order.OrderID, order.Status)
	return order, nil
}
