package eventbus

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus(16)

	var received atomic.Int64
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		received.Add(1)
	})
	require.NoError(t, err)

	err = bus.Publish(context.Background(), &Envelope{
		ID:        "test-1",
		Timestamp: time.Now().UTC(),
		Source:    "test",
		EventType: "world.changed",
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return received.Load() == 1
	}, time.Second, 10*time.Millisecond, "Подписчик должен получить событие")
}

func TestMemoryBus_FilterByType(t *testing.T) {
	bus := NewMemoryBus(16)

	var shapeEvents atomic.Int64
	_, err := bus.Subscribe(context.Background(), Filter{
		Types: []string{"world.shape_changed"},
	}, func(ctx context.Context, ev *Envelope) {
		shapeEvents.Add(1)
	})
	require.NoError(t, err)

	for _, et := range []string{"world.changed", "world.shape_changed", "world.changed"} {
		require.NoError(t, bus.Publish(context.Background(), &Envelope{EventType: et, Source: "test"}))
	}

	assert.Eventually(t, func() bool {
		return shapeEvents.Load() == 1
	}, time.Second, 10*time.Millisecond, "Фильтр должен пропустить только shape_changed")

	// Даём время на ошибочные доставки
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), shapeEvents.Load(), "Остальные типы не должны доставляться")
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(16)

	var received atomic.Int64
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		received.Add(1)
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), &Envelope{EventType: "world.changed"}))
	assert.Eventually(t, func() bool {
		return received.Load() == 1
	}, time.Second, 10*time.Millisecond)

	sub.Unsubscribe()
	require.NoError(t, bus.Publish(context.Background(), &Envelope{EventType: "world.changed"}))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), received.Load(), "После отписки события не доставляются")
}

func TestMemoryBus_Stats(t *testing.T) {
	bus := NewMemoryBus(4)

	for i := 0; i < 3; i++ {
		require.NoError(t, bus.Publish(context.Background(), &Envelope{EventType: "world.changed"}))
	}

	assert.Eventually(t, func() bool {
		return bus.Metrics().Published == 3
	}, time.Second, 10*time.Millisecond, "Published должен учитывать все публикации")
}
