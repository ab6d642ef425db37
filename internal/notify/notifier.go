package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"crypto_bot/pkg/logger"

	"go.uber.org/multierr"
)

// Notifier — канал доставки уведомлений.
type Notifier interface {
	Send(ctx context.Context, subject, text string) error
}

// Stdout — пишет в лог/поток, когда внешних каналов нет.
type Stdout struct {
	mu  sync.Mutex
	out io.Writer
}

func NewStdout() *Stdout { return &Stdout{out: os.Stdout} }

func (s *Stdout) Send(_ context.Context, subject, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.out, "[%s] %s\n", subject, text)
	return err
}

// Multi рассылает во все каналы; ошибки собираются, а не обрывают рассылку.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, subject, text string) error {
	var errs error
	for _, n := range m {
		if err := n.Send(ctx, subject, text); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Logging — оборачивает канал и логирует сбои доставки.
type Logging struct {
	Name string
	Next Notifier
}

func (l Logging) Send(ctx context.Context, subject, text string) error {
	err := l.Next.Send(ctx, subject, text)
	if err != nil {
		logger.Warn("[NOTIFY] %s: %v", l.Name, err)
	}
	return err
}
