package journal

import (
	"context"
	"sync"

	"crypto_bot/internal/models"
)

const DefaultLimit = 50

// Store — журнал исполненных сделок.
type Store interface {
	Record(ctx context.Context, t models.Trade) error
	Recent(ctx context.Context, limit int) ([]models.Trade, error)
}

// MemoryStore — кольцевой буфер последних сделок, живёт до рестарта.
type MemoryStore struct {
	mu     sync.RWMutex
	buf    []models.Trade
	next   int
	full   bool
	lastID int64
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryStore{buf: make([]models.Trade, capacity)}
}

func (m *MemoryStore) Record(_ context.Context, t models.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID++
	t.ID = m.lastID
	m.buf[m.next] = t
	m.next = (m.next + 1) % len(m.buf)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

// Recent — от новых к старым.
func (m *MemoryStore) Recent(_ context.Context, limit int) ([]models.Trade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	size := m.next
	if m.full {
		size = len(m.buf)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]models.Trade, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (m.next - i + len(m.buf)) % len(m.buf)
		out = append(out, m.buf[idx])
	}
	return out, nil
}
