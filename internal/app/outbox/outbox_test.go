package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/domain/shared/events"
)

type sliceBox struct{ records []EventRecord }

func (b *sliceBox) Add(_ context.Context, r EventRecord) error {
	b.records = append(b.records, r)
	return nil
}
func (b *sliceBox) Flush(context.Context) error { return nil }

func TestJSONEventEncoder(t *testing.T) {
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	enc := JSONEventEncoder{IDGenerator: func() string { return "evt-1" }, Headers: map[string]string{"source": "test"}}

	rec, err := enc.Encode(catalog.ProductDeleted{ProductID: "p-9", At: at})
	require.NoError(t, err)

	assert.Equal(t, "evt-1", rec.ID)
	assert.Equal(t, "product.deleted", rec.Name)
	assert.Equal(t, "p-9", rec.Aggregate)
	assert.Equal(t, at, rec.OccurredAt)
	assert.Equal(t, "test", rec.Headers["source"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Payload, &body))
	assert.Equal(t, "p-9", body["ProductID"])
}

func TestPublishDrainsAggregate(t *testing.T) {
	box := &sliceBox{}
	var rec events.EventRecorder
	rec.Record(catalog.ProductUpdated{ProductID: "p-1"})
	rec.Record(catalog.ProductDeleted{ProductID: "p-1"})

	require.NoError(t, Publish(context.Background(), box, nil, &rec))
	assert.Len(t, box.records, 2)
	assert.Empty(t, rec.PendingEvents())

	require.NoError(t, RecordDomainEvents(context.Background(), nil, nil, []events.DomainEvent{catalog.ProductUpdated{}}))
}
