package domain

import (
	"errors"
	"strings"
)

var (
	ErrMissingID              = errors.New("menu item id is required")
	ErrInvalidName            = errors.New("menu item name must not be empty")
	ErrNegativePrice          = errors.New("menu item price must not be negative")
	ErrInvalidPosition        = errors.New("position is outside the catalog range")
	ErrItemNotFound           = errors.New("menu item not found")
	ErrPersistenceWriteFailed = errors.New("persistence write failed")
)

// MenuItem is one entry of an operator's catalog.
type MenuItem struct {
	ID          string
	OperatorID  string
	Name        string
	PriceMinor  int64
	Description string
	Category    string
	ImageRef    string
	Position    int
}

// NewMenuItem validates and constructs a MenuItem at the given position.
func NewMenuItem(id, operatorID, name string, priceMinor int64, position int) (*MenuItem, error) {
	item := &MenuItem{
		ID:         strings.TrimSpace(id),
		OperatorID: strings.TrimSpace(operatorID),
		Name:       strings.TrimSpace(name),
		PriceMinor: priceMinor,
		Position:   position,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate enforces the per-item invariants. Range checks on Position need the
// catalog size and live in Catalog.
func (i *MenuItem) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(i.Name) == "" {
		return ErrInvalidName
	}
	if i.PriceMinor < 0 {
		return ErrNegativePrice
	}
	if i.Position < 0 {
		return ErrInvalidPosition
	}
	return nil
}

// Rename replaces the display name.
func (i *MenuItem) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	i.Name = name
	return nil
}

// Reprice replaces the price in minor units.
func (i *MenuItem) Reprice(priceMinor int64) error {
	if priceMinor < 0 {
		return ErrNegativePrice
	}
	i.PriceMinor = priceMinor
	return nil
}

// InCategory matches categories case-insensitively; an empty filter matches everything.
func (i MenuItem) InCategory(category string) bool {
	category = strings.TrimSpace(category)
	return category == "" || strings.EqualFold(strings.TrimSpace(i.Category), category)
}
