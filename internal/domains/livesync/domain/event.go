package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Table names a source of change notifications.
type Table string

const (
	TableMenuItems Table = "menu_items"
	TableSettings  Table = "user_settings"
)

// EventType is the kind of row mutation being announced.
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

var (
	ErrSubscriptionLost = errors.New("change feed subscription lost")
	ErrInvalidEvent     = errors.New("change event is invalid")
)

// Event is a change notification scoped to one operator. NewRow carries the row
// after the change when the transport provides it.
type Event struct {
	Table      Table           `json:"table"`
	Type       EventType       `json:"type"`
	OperatorID string          `json:"operator_id"`
	NewRow     json.RawMessage `json:"new_row,omitempty"`
}

// NewEvent builds an event, marshalling row when it is not nil.
func NewEvent(table Table, eventType EventType, operatorID string, row any) (Event, error) {
	event := Event{Table: table, Type: eventType, OperatorID: operatorID}
	if row != nil {
		raw, err := json.Marshal(row)
		if err != nil {
			return Event{}, fmt.Errorf("marshal %s row: %w", table, err)
		}
		event.NewRow = raw
	}
	return event, event.Validate()
}

// Validate checks the table and type are known and the operator is set.
func (e Event) Validate() error {
	switch e.Table {
	case TableMenuItems, TableSettings:
	default:
		return fmt.Errorf("%w: unknown table %q", ErrInvalidEvent, e.Table)
	}
	switch e.Type {
	case EventInsert, EventUpdate, EventDelete:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	}
	if strings.TrimSpace(e.OperatorID) == "" {
		return fmt.Errorf("%w: operator id missing", ErrInvalidEvent)
	}
	return nil
}

// HasRow reports whether the event carries a non-null row.
func (e Event) HasRow() bool {
	trimmed := strings.TrimSpace(string(e.NewRow))
	return trimmed != "" && trimmed != "null"
}

// Decode parses a wire payload. Event types are lower-cased so trigger output
// such as "UPDATE" is accepted.
func Decode(payload []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	event.Type = EventType(strings.ToLower(string(event.Type)))
	if err := event.Validate(); err != nil {
		return Event{}, err
	}
	return event, nil
}

// Encode renders the wire payload.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}
