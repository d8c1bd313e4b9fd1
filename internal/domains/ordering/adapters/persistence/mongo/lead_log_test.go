package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
)

type fakeCollection struct {
	inserted []interface{}
	filter   interface{}
}

func (c *fakeCollection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	c.inserted = append(c.inserted, document)
	return &mongo.InsertOneResult{InsertedID: len(c.inserted)}, nil
}

func (c *fakeCollection) CountDocuments(_ context.Context, filter interface{}, _ ...*options.CountOptions) (int64, error) {
	c.filter = filter
	return int64(len(c.inserted)), nil
}

func TestLeadLog_RecordsDocument(t *testing.T) {
	coll := &fakeCollection{}
	log := &LeadLog{leads: coll}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, log.Record(context.Background(), domain.Lead{
		ID:          "lead-1",
		OperatorID:  "op",
		Destination: "6281",
		TotalMinor:  5000,
		ItemCount:   1,
		Channel:     "whatsapp",
		SubmittedAt: at,
	}))

	require.Len(t, coll.inserted, 1)
	doc := coll.inserted[0].(leadDocument)
	assert.Equal(t, "lead-1", doc.ID)
	assert.Equal(t, "whatsapp", doc.Channel)
	assert.Equal(t, at, doc.SubmittedAt)

	n, err := log.Count(context.Background(), "op")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, bson.M{"operator_id": "op"}, coll.filter)
}

func TestLeadLog_WithoutDatabaseFails(t *testing.T) {
	log := NewLeadLog(nil)
	assert.Error(t, log.Record(context.Background(), domain.Lead{ID: "x"}))
}
