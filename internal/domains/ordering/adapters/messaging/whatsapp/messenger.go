package whatsapp

import (
	"context"
	"net/url"
	"strings"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
)

const (
	Channel = "whatsapp"
	// DefaultBaseURL is the click-to-chat endpoint.
	DefaultBaseURL = "https://wa.me/"
)

var _ ports.Messenger = (*Messenger)(nil)

// Messenger hands orders off as click-to-chat links the customer opens to send the message.
type Messenger struct {
	baseURL string
}

func NewMessenger(baseURL string) *Messenger {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Messenger{baseURL: baseURL}
}

func (m *Messenger) Deliver(_ context.Context, delivery domain.Delivery) (domain.Receipt, error) {
	if delivery.Destination == "" {
		return domain.Receipt{}, domain.ErrInvalidDestination
	}
	link := m.baseURL + url.PathEscape(delivery.Destination) + "?text=" + url.QueryEscape(delivery.Message)
	return domain.Receipt{Channel: Channel, URL: link}, nil
}
