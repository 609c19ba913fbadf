package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covenant/pkg/domain"
	"covenant/pkg/platform/events"
	"covenant/pkg/platform/events/store/memory"
	"covenant/pkg/requestcontext"
)

func TestPublisher_EmitPersists(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := events.NewPublisher(store)

	actor := domain.NewIdentityID()
	err := pub.Emit(context.Background(), events.Event{
		Type:   events.EventAssetCreated,
		Ticker: "ACME",
		Actor:  actor,
	})
	require.NoError(t, err)

	stored, err := store.ListByTicker(context.Background(), "ACME")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, events.EventAssetCreated, stored[0].Type)
	assert.Equal(t, actor, stored[0].Actor)
	assert.NotEqual(t, uuid.Nil, stored[0].ID)
}

func TestPublisher_RequiresTypeAndTicker(t *testing.T) {
	pub := events.NewPublisher(memory.NewInMemoryStore())

	err := pub.Emit(context.Background(), events.Event{Ticker: "ACME"})
	require.Error(t, err)

	err = pub.Emit(context.Background(), events.Event{Type: events.EventTransfer})
	require.Error(t, err)
}

func TestPublisher_FailClosed(t *testing.T) {
	pub := events.NewPublisher(failingStore{})

	err := pub.Emit(context.Background(), events.Event{
		Type:   events.EventTransfer,
		Ticker: "ACME",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event persistence failed")
}

func TestPublisher_TimestampFromRequestContext(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := events.NewPublisher(store)

	pinned := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), pinned)

	require.NoError(t, pub.Emit(ctx, events.Event{
		Type:   events.EventAssetFrozen,
		Ticker: "ACME",
	}))

	stored, err := store.ListByTicker(context.Background(), "ACME")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, pinned, stored[0].Timestamp)
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := events.NewPublisher(store)

	custom := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(context.Background(), events.Event{
		Type:      events.EventTransfer,
		Ticker:    "ACME",
		Timestamp: custom,
	}))

	stored, err := store.ListByTicker(context.Background(), "ACME")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, custom, stored[0].Timestamp)
}

type failingStore struct{}

func (failingStore) Append(context.Context, events.Event) error {
	return errors.New("outbox unavailable")
}

func (failingStore) ListByTicker(context.Context, domain.Ticker) ([]events.Event, error) {
	return nil, nil
}
