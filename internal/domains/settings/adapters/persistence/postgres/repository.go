package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists operator settings in the user_settings table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type settingsRecord struct {
	OperatorID           string    `gorm:"primaryKey;column:operator_id;size:128"`
	DefaultContactNumber string    `gorm:"column:default_contact_number;size:32"`
	DisplayTemplate      string    `gorm:"column:display_template;size:32"`
	CreatedAt            time.Time `gorm:"column:created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (settingsRecord) TableName() string { return "user_settings" }

func (r *Repository) GetSettings(ctx context.Context, operatorID string) (domain.Settings, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Settings{}, err
	}
	var record settingsRecord
	if err := r.db.WithContext(ctx).First(&record, "operator_id = ?", operatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Settings{}, ports.ErrNotFound
		}
		return domain.Settings{}, err
	}
	return record.toDomain(), nil
}

// UpdateSettings reads, patches and writes the row inside one transaction with
// the row locked, so concurrent patches to different fields do not clobber each other.
func (r *Repository) UpdateSettings(ctx context.Context, operatorID string, patch domain.Patch) (domain.Settings, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Settings{}, err
	}
	var saved domain.Settings
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current := domain.Defaults(operatorID)
		var record settingsRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "operator_id = ?", operatorID).Error
		switch {
		case err == nil:
			current = record.toDomain()
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		next, err := current.Apply(patch)
		if err != nil {
			return err
		}
		row := toRecord(next)
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "operator_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"default_contact_number": row.DefaultContactNumber,
				"display_template":       row.DisplayTemplate,
				"updated_at":             gorm.Expr("NOW()"),
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		saved = next
		return nil
	})
	if err != nil {
		return domain.Settings{}, err
	}
	return saved, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres settings repository not configured")
	}
	return nil
}

func toRecord(settings domain.Settings) settingsRecord {
	return settingsRecord{
		OperatorID:           settings.OperatorID,
		DefaultContactNumber: settings.DefaultContactNumber,
		DisplayTemplate:      settings.DisplayTemplate,
	}
}

func (r settingsRecord) toDomain() domain.Settings {
	template := r.DisplayTemplate
	if template == "" {
		template = domain.DefaultTemplate
	}
	return domain.Settings{
		OperatorID:           r.OperatorID,
		DefaultContactNumber: r.DefaultContactNumber,
		DisplayTemplate:      template,
	}
}
