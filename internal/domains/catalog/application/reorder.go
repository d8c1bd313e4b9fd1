package application

import (
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
)

// ReorderEngine applies drag gestures to the local catalog replica. Every call
// is synchronous and visible immediately; persistence is the caller's concern.
type ReorderEngine struct {
	store *domain.Catalog
}

func NewReorderEngine(store *domain.Catalog) *ReorderEngine {
	return &ReorderEngine{store: store}
}

// ApplyMove moves sourceID so it ends at targetIndex and renumbers the whole list.
// Unknown ids and out-of-range targets fail without touching the replica.
func (e *ReorderEngine) ApplyMove(sourceID string, targetIndex int) ([]domain.MenuItem, []domain.PositionChange, error) {
	var changes []domain.PositionChange
	items, err := e.store.Update(func(ordered []domain.MenuItem) ([]domain.MenuItem, error) {
		next, moved, err := domain.Move(ordered, sourceID, targetIndex)
		if err != nil {
			return nil, err
		}
		changes = moved
		return next, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return items, changes, nil
}

// ApplyMoveToSlot moves sourceID into a drop slot between items (0..N).
func (e *ReorderEngine) ApplyMoveToSlot(sourceID string, slot int) ([]domain.MenuItem, []domain.PositionChange, error) {
	var changes []domain.PositionChange
	items, err := e.store.Update(func(ordered []domain.MenuItem) ([]domain.MenuItem, error) {
		target, err := domain.SlotToIndex(domain.IndexOf(ordered, sourceID), slot, len(ordered))
		if err != nil {
			return nil, err
		}
		next, moved, err := domain.Move(ordered, sourceID, target)
		if err != nil {
			return nil, err
		}
		changes = moved
		return next, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return items, changes, nil
}

// Compact renumbers the replica densely, e.g. after a removal left a gap.
func (e *ReorderEngine) Compact() ([]domain.MenuItem, []domain.PositionChange) {
	var changes []domain.PositionChange
	items, _ := e.store.Update(func(ordered []domain.MenuItem) ([]domain.MenuItem, error) {
		changes = domain.Renumber(ordered)
		return ordered, nil
	})
	return items, changes
}

// changedItems picks the items named by changes out of the ordered snapshot.
func changedItems(items []domain.MenuItem, changes []domain.PositionChange) []domain.MenuItem {
	if len(changes) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(changes))
	for _, change := range changes {
		wanted[change.ItemID] = struct{}{}
	}
	out := make([]domain.MenuItem, 0, len(changes))
	for _, item := range items {
		if _, ok := wanted[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out
}
