package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
)

// DefaultCartTTL is how long an untouched cart survives before it is purged.
const DefaultCartTTL = 24 * time.Hour

var _ ports.CartStore = (*CartStore)(nil)

// CartStore persists session carts in PostgreSQL. Caller owns DB lifecycle.
type CartStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewCartStore(db *gorm.DB, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &CartStore{db: db, ttl: ttl, now: time.Now}
}

type lineRecord struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type cartRecord struct {
	OperatorID string       `gorm:"primaryKey;column:operator_id;size:128"`
	SessionID  string       `gorm:"primaryKey;column:session_id;size:128"`
	Lines      []lineRecord `gorm:"column:lines;type:jsonb;serializer:json"`
	ExpiresAt  time.Time    `gorm:"column:expires_at;index"`
	CreatedAt  time.Time    `gorm:"column:created_at"`
	UpdatedAt  time.Time    `gorm:"column:updated_at"`
}

func (cartRecord) TableName() string { return "carts" }

// Load ignores carts past their expiry even before they are purged.
func (s *CartStore) Load(ctx context.Context, operatorID, sessionID string) (*domain.Cart, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record cartRecord
	err := s.db.WithContext(ctx).
		Where("operator_id = ? AND session_id = ? AND expires_at > ?", operatorID, sessionID, s.now()).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	cart := record.toDomain()
	return &cart, nil
}

// Save upserts the cart and pushes its expiry forward.
func (s *CartStore) Save(ctx context.Context, cart domain.Cart) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if err := cart.Validate(); err != nil {
		return err
	}
	record := toRecord(cart)
	record.ExpiresAt = s.now().Add(s.ttl)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "operator_id"}, {Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"lines", "expires_at", "updated_at"}),
		}).
		Create(&record).Error
}

func (s *CartStore) Delete(ctx context.Context, operatorID, sessionID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	sessionID = strings.TrimSpace(sessionID)
	res := s.db.WithContext(ctx).Delete(&cartRecord{}, "operator_id = ? AND session_id = ?", operatorID, sessionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// PurgeExpired removes expired carts and reports how many were dropped. Use for housekeeping or cron.
func (s *CartStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&cartRecord{})
	return res.RowsAffected, res.Error
}

func (s *CartStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres cart store not configured")
	}
	return nil
}

func toRecord(cart domain.Cart) cartRecord {
	lines := make([]lineRecord, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, lineRecord{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	return cartRecord{
		OperatorID: cart.OperatorID,
		SessionID:  cart.SessionID,
		Lines:      lines,
		UpdatedAt:  cart.UpdatedAt,
	}
}

func (r cartRecord) toDomain() domain.Cart {
	lines := make([]domain.Line, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, domain.Line{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	return domain.Cart{
		SessionID:  r.SessionID,
		OperatorID: r.OperatorID,
		Lines:      lines,
		UpdatedAt:  r.UpdatedAt,
	}
}
