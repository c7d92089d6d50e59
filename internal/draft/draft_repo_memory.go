package draft

import (
	"context"
	"sync"

	"go-payrun/internal/period"
)

type memoryRepository struct {
	mu     sync.RWMutex
	drafts map[period.Key]Draft
	active map[string]period.Key
}

// NewMemoryRepository keeps drafts in process. Drafts do not survive a restart.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		drafts: make(map[period.Key]Draft),
		active: make(map[string]period.Key),
	}
}

func (r *memoryRepository) Get(ctx context.Context, key period.Key) (Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drafts[key]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return d.Clone(), nil
}

func (r *memoryRepository) Put(ctx context.Context, d Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drafts[d.Key] = d.Clone()
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, key period.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.drafts, key)
	return nil
}

func (r *memoryRepository) Active(ctx context.Context, operatorID string) (*period.Key, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.active[operatorID]
	if !ok {
		return nil, nil
	}
	return &key, nil
}

func (r *memoryRepository) SetActive(ctx context.Context, operatorID string, key period.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active[operatorID] = key
	return nil
}

func (r *memoryRepository) ClearActive(ctx context.Context, operatorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.active, operatorID)
	return nil
}
