package exchange

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"crypto_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

const streamBaseURL = "wss://stream.binance.com:9443/stream?streams="

type pricePoint struct {
	price float64
	at    time.Time
}

// PriceStream держит последние цены из miniTicker-стримов в памяти.
type PriceStream struct {
	mu       sync.RWMutex
	prices   map[string]pricePoint
	symbols  []string
	url      string
	wsDialer *websocket.Dialer
	now      func() time.Time
}

func NewPriceStream(symbols []string) *PriceStream {
	streams := make([]string, 0, len(symbols))
	for _, s := range symbols {
		streams = append(streams, strings.ToLower(s)+"@miniTicker")
	}
	return &PriceStream{
		prices:   make(map[string]pricePoint),
		symbols:  symbols,
		url:      streamBaseURL + strings.Join(streams, "/"),
		wsDialer: websocket.DefaultDialer,
		now:      time.Now,
	}
}

func (p *PriceStream) SetPrice(symbol string, price float64, at time.Time) {
	p.mu.Lock()
	p.prices[symbol] = pricePoint{price: price, at: at}
	p.mu.Unlock()
}

// Last отдаёт цену, если она не старше maxAge.
func (p *PriceStream) Last(symbol string, maxAge time.Duration) (float64, bool) {
	p.mu.RLock()
	pt, ok := p.prices[symbol]
	p.mu.RUnlock()
	if !ok || pt.price <= 0 {
		return 0, false
	}
	if p.now().Sub(pt.at) > maxAge {
		return 0, false
	}
	return pt.price, true
}

type combinedFrame struct {
	Stream string `json:"stream"`
	Data   struct {
		// "e" и "E" различаются только регистром; без явного поля "e"
		// декодер кладёт строку типа события в EventTime
		EventType string `json:"e"`
		EventTime int64  `json:"E"`
		Symbol    string `json:"s"`
		Close     string `json:"c"`
	} `json:"data"`
}

// handle разбирает один кадр combined-стрима и обновляет кеш.
func (p *PriceStream) handle(msg []byte) error {
	var frame combinedFrame
	if err := sonic.Unmarshal(msg, &frame); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	if frame.Data.Symbol == "" {
		return nil
	}
	price, err := strconv.ParseFloat(frame.Data.Close, 64)
	if err != nil || price <= 0 {
		return fmt.Errorf("bad price %q for %s", frame.Data.Close, frame.Data.Symbol)
	}

	at := p.now()
	if frame.Data.EventTime > 0 {
		at = time.UnixMilli(frame.Data.EventTime)
	}
	p.SetPrice(frame.Data.Symbol, price, at)
	return nil
}

// Run держит соединение до отмены ctx, переподключаясь с растущей паузой.
func (p *PriceStream) Run(ctx context.Context) {
	if len(p.symbols) == 0 {
		return
	}

	retry := 0
	for {
		logger.Info("[WS] connect %d symbols", len(p.symbols))
		conn, _, err := p.wsDialer.DialContext(ctx, p.url, nil)
		if err != nil {
			retry++
			logger.Warn("[WS] dial error: %v (retry %d)", err, retry)
			if !sleepCtx(ctx, backoff(retry)) {
				return
			}
			continue
		}
		retry = 0

		// при отмене закрываем соединение, чтобы разблокировать ReadMessage
		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				_ = conn.Close()
			case <-done:
			}
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("[WS] read error: %v", err)
				}
				break
			}
			if err := p.handle(msg); err != nil {
				logger.Warn("[WS] %v", err)
			}
		}
		close(done)
		_ = conn.Close()

		if !sleepCtx(ctx, time.Second) {
			return
		}
	}
}

func backoff(retry int) time.Duration {
	d := time.Duration(300*retry) * time.Millisecond
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
