package mapper

import (
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/application/types"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/money"
)

// CartLine is the HTTP representation of a priced cart line.
type CartLine struct {
	ItemID        string `json:"itemId"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	UnitPrice     int64  `json:"unitPrice"`
	Subtotal      int64  `json:"subtotal"`
	SubtotalLabel string `json:"subtotalLabel"`
}

// Cart is the HTTP representation of a session cart.
type Cart struct {
	SessionID  string     `json:"sessionId"`
	Lines      []CartLine `json:"lines"`
	ItemCount  int        `json:"itemCount"`
	Total      int64      `json:"total"`
	TotalLabel string     `json:"totalLabel"`
	Pruned     []string   `json:"pruned,omitempty"`
}

type AddItemRequest struct {
	ItemID string `json:"itemId" binding:"required"`
}

type ChangeQuantityRequest struct {
	Delta int `json:"delta"`
}

type CheckoutRequest struct {
	Locale string `json:"locale,omitempty"`
}

type Receipt struct {
	Channel   string `json:"channel"`
	Reference string `json:"reference,omitempty"`
	URL       string `json:"url,omitempty"`
}

type CheckoutResponse struct {
	LeadID      string  `json:"leadId"`
	Destination string  `json:"destination"`
	Message     string  `json:"message"`
	Total       int64   `json:"total"`
	TotalLabel  string  `json:"totalLabel"`
	Receipt     Receipt `json:"receipt"`
	Replayed    bool    `json:"replayed,omitempty"`
}

func FromCartView(view *types.CartView) Cart {
	if view == nil {
		return Cart{Lines: []CartLine{}, TotalLabel: money.Format(0)}
	}
	lines := make([]CartLine, 0, len(view.Lines))
	for _, line := range view.Lines {
		lines = append(lines, CartLine{
			ItemID:        line.ItemID,
			Name:          line.Name,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPriceMinor,
			Subtotal:      line.SubtotalMinor,
			SubtotalLabel: money.Format(line.SubtotalMinor),
		})
	}
	return Cart{
		SessionID:  view.SessionID,
		Lines:      lines,
		ItemCount:  view.ItemCount,
		Total:      view.TotalMinor,
		TotalLabel: money.Format(view.TotalMinor),
		Pruned:     view.Pruned,
	}
}

func ToAddItemInput(sessionID string, req AddItemRequest) types.AddItemInput {
	return types.AddItemInput{SessionID: sessionID, ItemID: req.ItemID}
}

func ToChangeQuantityInput(sessionID, itemID string, req ChangeQuantityRequest) types.ChangeQuantityInput {
	return types.ChangeQuantityInput{SessionID: sessionID, ItemID: itemID, Delta: req.Delta}
}

func ToCheckoutInput(sessionID, idempotencyKey string, req CheckoutRequest) types.CheckoutInput {
	return types.CheckoutInput{SessionID: sessionID, Locale: req.Locale, IdempotencyKey: idempotencyKey}
}

func FromCheckoutResult(result *types.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		LeadID:      result.LeadID,
		Destination: result.Destination,
		Message:     result.Message,
		Total:       result.TotalMinor,
		TotalLabel:  money.Format(result.TotalMinor),
		Receipt: Receipt{
			Channel:   result.Receipt.Channel,
			Reference: result.Receipt.Reference,
			URL:       result.Receipt.URL,
		},
		Replayed: result.Replayed,
	}
}
