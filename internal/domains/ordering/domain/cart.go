package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingSession       = errors.New("cart session id is required")
	ErrMissingOperator      = errors.New("cart operator id is required")
	ErrMissingItem          = errors.New("cart item id is required")
	ErrInvalidQuantity      = errors.New("cart line quantity must be positive")
	ErrInvalidQuantityDelta = errors.New("quantity delta must not be zero")
	ErrItemNotFound         = errors.New("cart item not found")
	ErrEmptyCart            = errors.New("cart is empty")
)

// Line is one selection in a cart. A line with zero quantity does not exist.
type Line struct {
	ItemID   string
	Quantity int
}

// Cart holds one customer session's lines in insertion order.
type Cart struct {
	SessionID  string
	OperatorID string
	Lines      []Line
	UpdatedAt  time.Time
}

// NewCart constructs an empty cart for a session.
func NewCart(operatorID, sessionID string) (*Cart, error) {
	cart := &Cart{
		SessionID:  strings.TrimSpace(sessionID),
		OperatorID: strings.TrimSpace(operatorID),
	}
	if err := cart.Validate(); err != nil {
		return nil, err
	}
	return cart, nil
}

// Validate checks the cart identity and that every line quantity is positive.
func (c *Cart) Validate() error {
	if c.SessionID == "" {
		return ErrMissingSession
	}
	if c.OperatorID == "" {
		return ErrMissingOperator
	}
	for _, line := range c.Lines {
		if strings.TrimSpace(line.ItemID) == "" {
			return ErrMissingItem
		}
		if line.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Line returns the line for itemID.
func (c *Cart) Line(itemID string) (Line, bool) {
	if i := c.index(itemID); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

// AddOrIncrement creates a line with quantity 1 or bumps an existing one.
func (c *Cart) AddOrIncrement(itemID string) (Line, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return Line{}, ErrMissingItem
	}
	if i := c.index(itemID); i >= 0 {
		c.Lines[i].Quantity++
		return c.Lines[i], nil
	}
	line := Line{ItemID: itemID, Quantity: 1}
	c.Lines = append(c.Lines, line)
	return line, nil
}

// ChangeQuantity adds delta to an existing line. A result at or below zero
// removes the line; the returned line then has Quantity 0.
func (c *Cart) ChangeQuantity(itemID string, delta int) (Line, error) {
	if delta == 0 {
		return Line{}, ErrInvalidQuantityDelta
	}
	i := c.index(strings.TrimSpace(itemID))
	if i < 0 {
		return Line{}, ErrItemNotFound
	}
	next := c.Lines[i].Quantity + delta
	if next <= 0 {
		removed := c.Lines[i]
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		removed.Quantity = 0
		return removed, nil
	}
	c.Lines[i].Quantity = next
	return c.Lines[i], nil
}

// Prune drops lines whose item is no longer offered and returns their ids.
func (c *Cart) Prune(lookup Lookup) []string {
	var dropped []string
	kept := c.Lines[:0]
	for _, line := range c.Lines {
		if _, ok := lookup(line.ItemID); !ok {
			dropped = append(dropped, line.ItemID)
			continue
		}
		kept = append(kept, line)
	}
	c.Lines = kept
	return dropped
}

// Clone returns a deep copy.
func (c Cart) Clone() Cart {
	c.Lines = append([]Line(nil), c.Lines...)
	return c
}

func (c *Cart) index(itemID string) int {
	for i, line := range c.Lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}
