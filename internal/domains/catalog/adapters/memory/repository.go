package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

type itemKey struct {
	operatorID string
	id         string
}

// Repository is an in-memory catalog persistence adapter.
type Repository struct {
	mu    sync.RWMutex
	items map[itemKey]domain.MenuItem
}

func NewRepository(seed ...domain.MenuItem) *Repository {
	repo := &Repository{items: map[itemKey]domain.MenuItem{}}
	for _, item := range seed {
		repo.items[itemKey{item.OperatorID, item.ID}] = item
	}
	return repo
}

func (r *Repository) ListItems(_ context.Context, operatorID string) ([]domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.MenuItem, 0, len(r.items))
	for key, item := range r.items {
		if key.operatorID == operatorID {
			list = append(list, item)
		}
	}
	slices.SortFunc(list, func(a, b domain.MenuItem) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		return strings.Compare(a.ID, b.ID)
	})
	return list, nil
}

func (r *Repository) UpsertItem(_ context.Context, item domain.MenuItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if item.OperatorID == "" {
		return errors.New("menu item operator is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[itemKey{item.OperatorID, item.ID}] = item
	return nil
}

func (r *Repository) UpdatePosition(_ context.Context, operatorID, id string, position int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := itemKey{operatorID, id}
	item, ok := r.items[key]
	if !ok {
		return ports.ErrNotFound
	}
	item.Position = position
	r.items[key] = item
	return nil
}

func (r *Repository) DeleteItem(_ context.Context, operatorID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := itemKey{operatorID, id}
	if _, ok := r.items[key]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, key)
	return nil
}
