package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore persists checkout idempotency keys in PostgreSQL.
type IdempotencyStore struct {
	db *gorm.DB
}

func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	return &IdempotencyStore{db: db}
}

// Get loads a record by key, returning nil when absent.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.CheckoutRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record idempotencyRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record.toPort(), nil
}

// Save inserts the record; an existing key with the same hash is returned,
// otherwise ErrIdempotencyConflict is returned with the stored record.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.CheckoutRecord) (*ports.CheckoutRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	dbRecord := toIdempotencyRecord(record)
	if err := s.db.WithContext(ctx).Create(&dbRecord).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		existing, getErr := s.Get(ctx, record.Key)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, err
		}
		if existing.RequestHash != record.RequestHash {
			return existing, ports.ErrIdempotencyConflict
		}
		return existing, nil
	}
	return dbRecord.toPort(), nil
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	LeadID      string    `gorm:"column:lead_id;size:64"`
	Destination string    `gorm:"column:destination;size:32"`
	Message     string    `gorm:"column:message;type:text"`
	TotalMinor  int64     `gorm:"column:total_minor"`
	Channel     string    `gorm:"column:channel;size:32"`
	Reference   string    `gorm:"column:reference;size:255"`
	URL         string    `gorm:"column:url;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (idempotencyRecord) TableName() string { return "checkout_idempotency_keys" }

func toIdempotencyRecord(rec ports.CheckoutRecord) idempotencyRecord {
	return idempotencyRecord{
		Key:         rec.Key,
		RequestHash: rec.RequestHash,
		LeadID:      rec.LeadID,
		Destination: rec.Destination,
		Message:     rec.Message,
		TotalMinor:  rec.TotalMinor,
		Channel:     rec.Channel,
		Reference:   rec.Reference,
		URL:         rec.URL,
		CreatedAt:   rec.CreatedAt,
	}
}

func (r idempotencyRecord) toPort() *ports.CheckoutRecord {
	return &ports.CheckoutRecord{
		Key:         r.Key,
		RequestHash: r.RequestHash,
		LeadID:      r.LeadID,
		Destination: r.Destination,
		Message:     r.Message,
		TotalMinor:  r.TotalMinor,
		Channel:     r.Channel,
		Reference:   r.Reference,
		URL:         r.URL,
		CreatedAt:   r.CreatedAt,
	}
}
