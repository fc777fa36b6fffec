package ports

import (
	"context"

	"github.com/bnema/coremind/internal/domain"
)

// MemoryStore persists timestamp-keyed events. StoreEvent must not return
// before the event is durable.
type MemoryStore interface {
	StoreEvent(ctx context.Context, payload domain.Payload) (domain.EventKey, error)
	LoadAll(ctx context.Context) (map[domain.EventKey]domain.Payload, error)
	Recent(ctx context.Context, n int) ([]domain.Payload, error)
	Get(ctx context.Context, key domain.EventKey) (domain.Payload, error)
	Close() error
}
