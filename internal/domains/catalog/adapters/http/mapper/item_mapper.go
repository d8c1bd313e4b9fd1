package mapper

import (
	"errors"
	"time"

	catalogtypes "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/money"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/projection"
)

var errPriceConflict = errors.New("only one of price or priceText may be set")

// MenuItem is the HTTP representation of a catalog entry.
type MenuItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	PriceLabel  string `json:"priceLabel"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Position    int    `json:"position"`
}

// ItemMutation captures create and update payloads while preserving field presence.
// PriceText accepts operator-typed amounts such as "Rp15.000".
type ItemMutation struct {
	Name        *string `json:"name,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	PriceText   *string `json:"priceText,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// MoveRequest names either the final index or the drop slot of a drag gesture.
type MoveRequest struct {
	TargetIndex *int `json:"targetIndex,omitempty"`
	Slot        *int `json:"slot,omitempty"`
}

type PositionChange struct {
	ItemID string `json:"itemId"`
	From   int    `json:"from"`
	To     int    `json:"to"`
}

// Catalog is the ordered view plus replica metadata.
type Catalog struct {
	Items    []MenuItem `json:"items"`
	Version  uint64     `json:"version"`
	SyncedAt time.Time  `json:"syncedAt,omitempty"`
}

// MoveResponse is the optimistic result of a reorder or delete.
type MoveResponse struct {
	Items   []MenuItem       `json:"items"`
	Changes []PositionChange `json:"changes"`
}

// FromDomainItem converts a domain item to its transport shape.
func FromDomainItem(item domain.MenuItem) MenuItem {
	return MenuItem{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.PriceMinor,
		PriceLabel:  money.Format(item.PriceMinor),
		Description: item.Description,
		Category:    item.Category,
		ImageURL:    item.ImageRef,
		Position:    item.Position,
	}
}

func FromDomainItems(items []domain.MenuItem) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		out = append(out, FromDomainItem(item))
	}
	return out
}

func FromSnapshot(snapshot projection.Projection[[]domain.MenuItem]) Catalog {
	return Catalog{
		Items:    FromDomainItems(snapshot.Entity),
		Version:  snapshot.Metadata.Version,
		SyncedAt: snapshot.Metadata.SyncedAt,
	}
}

func FromMoveResult(result *catalogtypes.MoveResult) MoveResponse {
	if result == nil {
		return MoveResponse{Items: []MenuItem{}, Changes: []PositionChange{}}
	}
	changes := make([]PositionChange, 0, len(result.Changes))
	for _, change := range result.Changes {
		changes = append(changes, PositionChange{ItemID: change.ItemID, From: change.From, To: change.To})
	}
	return MoveResponse{Items: FromDomainItems(result.Items), Changes: changes}
}

// ToCreateInput maps a creation payload. A missing name is left for the domain to reject.
func ToCreateInput(payload ItemMutation) (catalogtypes.CreateItemInput, error) {
	price, err := resolvePrice(payload)
	if err != nil {
		return catalogtypes.CreateItemInput{}, err
	}
	input := catalogtypes.CreateItemInput{
		Description: deref(payload.Description),
		Category:    deref(payload.Category),
		ImageRef:    deref(payload.ImageURL),
		Name:        deref(payload.Name),
	}
	if price != nil {
		input.PriceMinor = *price
	}
	return input, nil
}

func ToUpdateInput(id string, payload ItemMutation) (catalogtypes.UpdateItemInput, error) {
	price, err := resolvePrice(payload)
	if err != nil {
		return catalogtypes.UpdateItemInput{}, err
	}
	return catalogtypes.UpdateItemInput{
		ID:          id,
		Name:        payload.Name,
		PriceMinor:  price,
		Description: payload.Description,
		Category:    payload.Category,
		ImageRef:    payload.ImageURL,
	}, nil
}

func ToMoveInput(id string, payload MoveRequest) catalogtypes.MoveItemInput {
	return catalogtypes.MoveItemInput{ItemID: id, TargetIndex: payload.TargetIndex, Slot: payload.Slot}
}

func resolvePrice(payload ItemMutation) (*int64, error) {
	switch {
	case payload.Price != nil && payload.PriceText != nil:
		return nil, errPriceConflict
	case payload.Price != nil:
		return payload.Price, nil
	case payload.PriceText != nil:
		value, err := money.Parse(*payload.PriceText)
		if err != nil {
			return nil, err
		}
		return &value, nil
	}
	return nil, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
