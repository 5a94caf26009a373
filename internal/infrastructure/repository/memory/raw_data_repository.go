package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fixture-results/internal/domain/rawdata"
)

type RawDataRepository struct {
	mu    sync.RWMutex
	items map[string]rawdata.Payload
	order []string
}

func NewRawDataRepository() *RawDataRepository {
	return &RawDataRepository{items: make(map[string]rawdata.Payload)}
}

func (r *RawDataRepository) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		key := item.Source + "|" + item.EntityType + "|" + item.EntityKey
		if _, exists := r.items[key]; !exists {
			r.order = append(r.order, key)
		}
		r.items[key] = item
	}
	return nil
}

// List returns payloads in first-write order.
func (r *RawDataRepository) List() []rawdata.Payload {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rawdata.Payload, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.items[key])
	}
	return out
}
