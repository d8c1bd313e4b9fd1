package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
)

// CollectionName holds one document per submitted order.
const CollectionName = "order_leads"

var _ ports.LeadLog = (*LeadLog)(nil)

type collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

// LeadLog appends submitted orders to a MongoDB collection.
type LeadLog struct {
	leads collection
}

func NewLeadLog(db *mongo.Database) *LeadLog {
	if db == nil {
		return &LeadLog{}
	}
	return &LeadLog{leads: db.Collection(CollectionName)}
}

type leadDocument struct {
	ID          string    `bson:"_id"`
	OperatorID  string    `bson:"operator_id"`
	SessionID   string    `bson:"session_id"`
	Destination string    `bson:"destination"`
	Message     string    `bson:"message"`
	TotalMinor  int64     `bson:"total_minor"`
	ItemCount   int       `bson:"item_count"`
	Channel     string    `bson:"channel"`
	Reference   string    `bson:"reference,omitempty"`
	SubmittedAt time.Time `bson:"submitted_at"`
}

func (l *LeadLog) Record(ctx context.Context, lead domain.Lead) error {
	if err := l.ensureCollection(); err != nil {
		return err
	}
	_, err := l.leads.InsertOne(ctx, leadDocument{
		ID:          lead.ID,
		OperatorID:  lead.OperatorID,
		SessionID:   lead.SessionID,
		Destination: lead.Destination,
		Message:     lead.Message,
		TotalMinor:  lead.TotalMinor,
		ItemCount:   lead.ItemCount,
		Channel:     lead.Channel,
		Reference:   lead.Reference,
		SubmittedAt: lead.SubmittedAt,
	})
	return err
}

func (l *LeadLog) Count(ctx context.Context, operatorID string) (int64, error) {
	if err := l.ensureCollection(); err != nil {
		return 0, err
	}
	return l.leads.CountDocuments(ctx, bson.M{"operator_id": operatorID})
}

func (l *LeadLog) ensureCollection() error {
	if l == nil || l.leads == nil {
		return errors.New("mongo lead log not configured")
	}
	return nil
}
