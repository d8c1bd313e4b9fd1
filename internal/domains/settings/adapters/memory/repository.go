package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps one settings record per operator in memory.
type Repository struct {
	mu       sync.RWMutex
	settings map[string]domain.Settings
}

func NewRepository() *Repository {
	return &Repository{settings: map[string]domain.Settings{}}
}

func (r *Repository) GetSettings(_ context.Context, operatorID string) (domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	settings, ok := r.settings[operatorID]
	if !ok {
		return domain.Settings{}, ports.ErrNotFound
	}
	return settings, nil
}

func (r *Repository) UpdateSettings(_ context.Context, operatorID string, patch domain.Patch) (domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.settings[operatorID]
	if !ok {
		current = domain.Defaults(operatorID)
	}
	next, err := current.Apply(patch)
	if err != nil {
		return domain.Settings{}, err
	}
	r.settings[operatorID] = next
	return next, nil
}
