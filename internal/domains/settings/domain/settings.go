package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-menu-builder/internal/shared/projection"
)

const (
	TemplateColorful   = "colorful"
	TemplateMinimalist = "minimalist"
	DefaultTemplate    = TemplateColorful
)

var (
	ErrMissingOperator    = errors.New("settings operator id is required")
	ErrEmptyContactNumber = errors.New("contact number must contain digits")
	ErrInvalidTemplate    = errors.New("display template is not supported")
	ErrInvalidRow         = errors.New("settings row is malformed")
)

// Settings is the singleton per-operator configuration read by every customer view.
type Settings struct {
	OperatorID           string
	DefaultContactNumber string
	DisplayTemplate      string
}

// Defaults returns the record served before an operator saved anything.
func Defaults(operatorID string) Settings {
	return Settings{OperatorID: strings.TrimSpace(operatorID), DisplayTemplate: DefaultTemplate}
}

// Patch edits a subset of fields. Nil fields are left unchanged.
type Patch struct {
	DefaultContactNumber *string
	DisplayTemplate      *string
}

func (p Patch) Empty() bool {
	return p.DefaultContactNumber == nil && p.DisplayTemplate == nil
}

// Apply returns a copy with the patch applied. The contact number is reduced to
// its digits and must keep at least one.
func (s Settings) Apply(p Patch) (Settings, error) {
	if strings.TrimSpace(s.OperatorID) == "" {
		return Settings{}, ErrMissingOperator
	}
	next := s
	if p.DefaultContactNumber != nil {
		digits := CleanDigits(*p.DefaultContactNumber)
		if digits == "" {
			return Settings{}, ErrEmptyContactNumber
		}
		next.DefaultContactNumber = digits
	}
	if p.DisplayTemplate != nil {
		template, err := normalizeTemplate(*p.DisplayTemplate)
		if err != nil {
			return Settings{}, err
		}
		next.DisplayTemplate = template
	}
	return next, nil
}

// CleanDigits drops every non-digit rune.
func CleanDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeTemplate(value string) (string, error) {
	switch template := strings.ToLower(strings.TrimSpace(value)); template {
	case TemplateColorful, TemplateMinimalist:
		return template, nil
	default:
		return "", ErrInvalidTemplate
	}
}

// Row is the persisted shape, also carried by change notifications.
type Row struct {
	OperatorID           string `json:"operator_id"`
	DefaultContactNumber string `json:"default_contact_number"`
	DisplayTemplate      string `json:"display_template"`
}

func (s Settings) Row() Row {
	return Row{OperatorID: s.OperatorID, DefaultContactNumber: s.DefaultContactNumber, DisplayTemplate: s.DisplayTemplate}
}

// DecodeRow reads a row announced by the change feed. Unknown columns are ignored.
func DecodeRow(raw json.RawMessage) (Settings, error) {
	var row Row
	if len(raw) == 0 || string(raw) == "null" {
		return Settings{}, ErrInvalidRow
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return Settings{}, errors.Join(ErrInvalidRow, err)
	}
	if strings.TrimSpace(row.OperatorID) == "" {
		return Settings{}, ErrInvalidRow
	}
	settings := Settings{
		OperatorID:           row.OperatorID,
		DefaultContactNumber: CleanDigits(row.DefaultContactNumber),
		DisplayTemplate:      strings.ToLower(strings.TrimSpace(row.DisplayTemplate)),
	}
	if settings.DisplayTemplate == "" {
		settings.DisplayTemplate = DefaultTemplate
	}
	return settings, nil
}

// Holder is the process-local replica of the operator's settings.
type Holder struct {
	mu       sync.RWMutex
	current  Settings
	version  uint64
	syncedAt time.Time
	now      func() time.Time
}

func NewHolder(initial Settings) *Holder {
	return &Holder{current: initial, now: time.Now}
}

// Set replaces the held record wholesale.
func (h *Holder) Set(settings Settings) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = settings
	h.version++
	h.syncedAt = h.now()
}

func (h *Holder) Get() Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

func (h *Holder) Snapshot() projection.Projection[Settings] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return projection.Projection[Settings]{
		Entity:   h.current,
		Metadata: projection.Metadata{Version: h.version, SyncedAt: h.syncedAt},
	}
}
