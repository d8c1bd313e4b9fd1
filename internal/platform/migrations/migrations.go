package migrations

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// NotifyChannel is the LISTEN/NOTIFY channel the change feed triggers announce on.
const NotifyChannel = "menu_changes"

const notifyFunction = "notify_menu_change"

// Run applies the schema for the bounded contexts and installs the change feed triggers.
// Adapters never automigrate; the schema is owned here.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&menuItemRecord{},
		&settingsRecord{},
		&cartRecord{},
		&checkoutIdempotencyRecord{},
	); err != nil {
		return err
	}
	return installNotifyTriggers(db)
}

// Menu item schema mirrors the catalog Postgres adapter.
type menuItemRecord struct {
	OperatorID  string    `gorm:"primaryKey;column:operator_id;size:128"`
	ID          string    `gorm:"primaryKey;column:id;size:64"`
	Name        string    `gorm:"column:name;not null"`
	Price       int64     `gorm:"column:price;not null;default:0"`
	Description string    `gorm:"column:description"`
	Category    string    `gorm:"column:category;index"`
	ImageURL    string    `gorm:"column:image_url"`
	Position    int       `gorm:"column:position;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (menuItemRecord) TableName() string { return "menu_items" }

// Settings schema mirrors the settings Postgres adapter.
type settingsRecord struct {
	OperatorID           string    `gorm:"primaryKey;column:operator_id;size:128"`
	DefaultContactNumber string    `gorm:"column:default_contact_number;size:32"`
	DisplayTemplate      string    `gorm:"column:display_template;size:32"`
	CreatedAt            time.Time `gorm:"column:created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (settingsRecord) TableName() string { return "user_settings" }

// Cart schema mirrors the ordering cart store.
type cartRecord struct {
	OperatorID string    `gorm:"primaryKey;column:operator_id;size:128"`
	SessionID  string    `gorm:"primaryKey;column:session_id;size:128"`
	Lines      []byte    `gorm:"column:lines;type:jsonb"`
	ExpiresAt  time.Time `gorm:"column:expires_at;index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (cartRecord) TableName() string { return "carts" }

// Checkout idempotency schema mirrors the ordering idempotency store.
type checkoutIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	LeadID      string    `gorm:"column:lead_id;size:64"`
	Destination string    `gorm:"column:destination;size:32"`
	Message     string    `gorm:"column:message;type:text"`
	TotalMinor  int64     `gorm:"column:total_minor"`
	Channel     string    `gorm:"column:channel;size:32"`
	Reference   string    `gorm:"column:reference;size:255"`
	URL         string    `gorm:"column:url;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
}

func (checkoutIdempotencyRecord) TableName() string { return "checkout_idempotency_keys" }

// Tables whose row changes are announced. Only settings rows travel with the payload;
// catalog changes make every replica reload.
var notifiedTables = []struct {
	name    string
	withRow bool
}{
	{name: "menu_items", withRow: false},
	{name: "user_settings", withRow: true},
}

func installNotifyTriggers(db *gorm.DB) error {
	if err := db.Exec(notifyFunctionSQL()).Error; err != nil {
		return fmt.Errorf("install notify function: %w", err)
	}
	for _, table := range notifiedTables {
		trigger := pq.QuoteIdentifier(table.name + "_notify")
		quotedTable := pq.QuoteIdentifier(table.name)
		if err := db.Exec(fmt.Sprintf("DROP TRIGGER IF EXISTS %s ON %s", trigger, quotedTable)).Error; err != nil {
			return fmt.Errorf("drop trigger on %s: %w", table.name, err)
		}
		create := fmt.Sprintf(
			"CREATE TRIGGER %s AFTER INSERT OR UPDATE OR DELETE ON %s FOR EACH ROW EXECUTE FUNCTION %s(%s)",
			trigger, quotedTable, pq.QuoteIdentifier(notifyFunction), pq.QuoteLiteral(fmt.Sprint(table.withRow)),
		)
		if err := db.Exec(create).Error; err != nil {
			return fmt.Errorf("create trigger on %s: %w", table.name, err)
		}
	}
	return nil
}

func notifyFunctionSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s() RETURNS trigger AS $$
DECLARE
	changed record;
	payload json;
BEGIN
	IF TG_OP = 'DELETE' THEN
		changed := OLD;
	ELSE
		changed := NEW;
	END IF;
	payload := json_build_object(
		'table', TG_TABLE_NAME,
		'type', lower(TG_OP),
		'operator_id', changed.operator_id,
		'new_row', CASE WHEN TG_ARGV[0]::boolean AND TG_OP <> 'DELETE' THEN row_to_json(NEW) ELSE NULL END
	);
	PERFORM pg_notify(%s, payload::text);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`, pq.QuoteIdentifier(notifyFunction), pq.QuoteLiteral(NotifyChannel))
}
