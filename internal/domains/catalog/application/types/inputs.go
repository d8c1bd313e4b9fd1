package types

import "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"

// ListFilter narrows the ordered view.
type ListFilter struct {
	Category string
}

// CreateItemInput carries the operator's form for a new item; it is appended at the end.
type CreateItemInput struct {
	Name        string
	PriceMinor  int64
	Description string
	Category    string
	ImageRef    string
}

// UpdateItemInput patches an existing item. Nil fields are left as they are.
type UpdateItemInput struct {
	ID          string
	Name        *string
	PriceMinor  *int64
	Description *string
	Category    *string
	ImageRef    *string
}

// MoveItemInput describes a drag gesture. Exactly one of TargetIndex or Slot is set.
type MoveItemInput struct {
	ItemID      string
	TargetIndex *int
	Slot        *int
}

// MoveResult is the optimistic snapshot after a local mutation. WriteBack
// yields exactly one report once persistence has been attempted.
type MoveResult struct {
	Items     []domain.MenuItem
	Changes   []domain.PositionChange
	WriteBack <-chan domain.WriteBackReport
}

// WriteBackInput is the payload handed to a write-back orchestrator.
type WriteBackInput struct {
	OperatorID string
	Reason     string
	Items      []domain.MenuItem
}
