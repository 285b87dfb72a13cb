package repositories

import (
	"context"
	"sync"

	"github.com/BradenHooton/userboard/internal/models"
)

// MemoryStateRepository is a process-local client state store. Values are
// lost on restart.
type MemoryStateRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{values: make(map[string]string)}
}

func (r *MemoryStateRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[key]
	if !ok {
		return "", models.ErrNotFound
	}
	return value, nil
}

func (r *MemoryStateRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	r.values[key] = value
	r.mu.Unlock()
	return nil
}

func (r *MemoryStateRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.values, key)
	r.mu.Unlock()
	return nil
}
