package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishDispatchesToSubscriber(t *testing.T) {
	bus := NewInMemoryEventBus(nil, zap.NewNop())

	var mu sync.Mutex
	var got []string
	err := bus.Subscribe(TypeQuestCompleted, NewEventHandlerFunc("recorder", func(ctx context.Context, event Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, event.GetEventID())
		return nil
	}))
	require.NoError(t, err)

	giverID := int64(7)
	event := NewQuestCompletedEvent(1, giverID, nil, time.Now())
	require.NoError(t, bus.Publish(context.Background(), event))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, event.GetEventID(), got[0])
}

func TestPublishSkipsUnmatchedTypes(t *testing.T) {
	bus := NewInMemoryEventBus(nil, zap.NewNop())

	called := false
	err := bus.Subscribe(TypeApplicantHired, NewEventHandlerFunc("hired-only", func(ctx context.Context, event Event) error {
		called = true
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), NewQuestDeletedEvent(1, 2, false)))
	assert.False(t, called)
}

func TestPatternSubscriptionMatchesPrefix(t *testing.T) {
	bus := NewInMemoryEventBus(nil, zap.NewNop())

	var mu sync.Mutex
	var types []string
	err := bus.SubscribePattern("quest.*", NewEventHandlerFunc("quest-audit", func(ctx context.Context, event Event) error {
		mu.Lock()
		defer mu.Unlock()
		types = append(types, event.GetEventType())
		return nil
	}))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewApplicantHiredEvent(1, 2, 3, 0, 4)))
	require.NoError(t, bus.Publish(ctx, NewAchievementUnlockedEvent(3, "first_quest_completed")))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{TypeApplicantHired}, types)
}

func TestPublishAsyncProcessedByWorker(t *testing.T) {
	bus := NewInMemoryEventBus(&EventBusConfig{BufferSize: 10, WorkerCount: 1, HandlerTimeout: time.Second}, zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = bus.Stop(ctx)
	}()

	done := make(chan string, 1)
	err := bus.Subscribe(TypeQuesterRated, NewEventHandlerFunc("async", func(ctx context.Context, event Event) error {
		done <- event.GetEventType()
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, bus.PublishAsync(context.Background(), NewQuesterRatedEvent(1, 2, 3, 5)))

	select {
	case got := <-done:
		assert.Equal(t, TypeQuesterRated, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not processed")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(nil, zap.NewNop())

	calls := 0
	handler := NewEventHandlerFunc("once", func(ctx context.Context, event Event) error {
		calls++
		return nil
	})
	require.NoError(t, bus.Subscribe(TypeQuestDeleted, handler))

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewQuestDeletedEvent(1, 2, true)))
	require.NoError(t, bus.Unsubscribe(TypeQuestDeleted, handler))
	require.NoError(t, bus.Publish(ctx, NewQuestDeletedEvent(1, 2, true)))

	assert.Equal(t, 1, calls)
}

func TestStatsCountPublishes(t *testing.T) {
	bus := NewInMemoryEventBus(nil, zap.NewNop())

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewApplicantRejectedEvent(1, 2, 3, 4)))
	require.NoError(t, bus.Publish(ctx, NewApplicantRejectedEvent(1, 5, 6, 4)))

	stats := bus.Stats()
	assert.Equal(t, int64(2), stats.EventsPublished)
	assert.Equal(t, int64(2), stats.EventsProcessed)
	assert.Equal(t, int64(0), stats.EventsFailed)
}
