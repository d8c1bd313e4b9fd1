package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists menu items in PostgreSQL using GORM. Schema is owned by
// the migrations package, which also installs the change-feed trigger.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// menuItemRecord maps a menu item to the menu_items table.
type menuItemRecord struct {
	OperatorID  string    `gorm:"primaryKey;column:operator_id;size:128"`
	ID          string    `gorm:"primaryKey;column:id;size:64"`
	Name        string    `gorm:"column:name"`
	PriceMinor  int64     `gorm:"column:price"`
	Description string    `gorm:"column:description"`
	Category    string    `gorm:"column:category;index"`
	ImageRef    string    `gorm:"column:image_url"`
	Position    int       `gorm:"column:position;index:idx_menu_items_operator_position"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (menuItemRecord) TableName() string { return "menu_items" }

// ListItems returns every item of the operator ordered by position.
func (r *Repository) ListItems(ctx context.Context, operatorID string) ([]domain.MenuItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []menuItemRecord
	if err := r.db.WithContext(ctx).
		Where("operator_id = ?", operatorID).
		Order("position ASC").Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]domain.MenuItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

// UpsertItem inserts or updates a single row. Each call is its own statement so
// a batch of position writes can fail independently.
func (r *Repository) UpsertItem(ctx context.Context, item domain.MenuItem) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := toRecord(item)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "operator_id"}, {Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":        record.Name,
				"price":       record.PriceMinor,
				"description": record.Description,
				"category":    record.Category,
				"image_url":   record.ImageRef,
				"position":    record.Position,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
}

// UpdatePosition touches the position column only, so a late write-back never
// reverts concurrent edits or re-creates a deleted row.
func (r *Repository) UpdatePosition(ctx context.Context, operatorID, id string, position int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&menuItemRecord{}).
		Where("operator_id = ? AND id = ?", operatorID, id).
		Updates(map[string]any{"position": position, "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, operatorID, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("operator_id = ? AND id = ?", operatorID, id).
		Delete(&menuItemRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toRecord(item domain.MenuItem) menuItemRecord {
	return menuItemRecord{
		OperatorID:  item.OperatorID,
		ID:          item.ID,
		Name:        item.Name,
		PriceMinor:  item.PriceMinor,
		Description: item.Description,
		Category:    item.Category,
		ImageRef:    item.ImageRef,
		Position:    item.Position,
	}
}

func (r menuItemRecord) toDomain() domain.MenuItem {
	return domain.MenuItem{
		ID:          r.ID,
		OperatorID:  r.OperatorID,
		Name:        r.Name,
		PriceMinor:  r.PriceMinor,
		Description: r.Description,
		Category:    r.Category,
		ImageRef:    r.ImageRef,
		Position:    r.Position,
	}
}
