package eventbus

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/annel0/tileworld/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, bus EventBus, f Filter) <-chan *Envelope {
	t.Helper()
	ch := make(chan *Envelope, 64)
	_, err := bus.Subscribe(context.Background(), f, func(_ context.Context, ev *Envelope) {
		ch <- ev
	})
	require.NoError(t, err)
	return ch
}

func TestMemoryBus_DeliversInOrder(t *testing.T) {
	bus := NewMemoryBus(16)
	ch := collect(t, bus, Filter{})

	for i := uint64(1); i <= 5; i++ {
		require.NoError(t, bus.Publish(context.Background(), NewEnvelope("world", "tick", i, nil)))
	}
	bus.Close()

	for i := uint64(1); i <= 5; i++ {
		ev := <-ch
		assert.Equal(t, i, ev.Tick)
	}
	stats := bus.Metrics()
	assert.Equal(t, uint64(5), stats.Published)
	assert.Equal(t, uint64(5), stats.Consumed)
	assert.Zero(t, stats.InFlight)
}

func TestMemoryBus_Filter(t *testing.T) {
	bus := NewMemoryBus(16)
	onlyOver := collect(t, bus, Filter{Types: []string{"world.game_over"}})
	onlyEntity := collect(t, bus, Filter{Sources: []string{"entity"}})

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewEnvelope("world", "player.life_lost", 1, nil)))
	require.NoError(t, bus.Publish(ctx, NewEnvelope("world", "world.game_over", 2, nil)))
	require.NoError(t, bus.Publish(ctx, NewEnvelope("entity", "boss.killed", 3, nil)))
	bus.Close()

	require.Len(t, onlyOver, 1)
	assert.Equal(t, uint64(2), (<-onlyOver).Tick)
	require.Len(t, onlyEntity, 1)
	assert.Equal(t, "boss.killed", (<-onlyEntity).EventType)
}

func TestMemoryBus_DropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewEnvelope("world", "a", 1, nil)))
	<-started // обработчик занят, буфер пуст
	require.NoError(t, bus.Publish(ctx, NewEnvelope("world", "b", 2, nil)))
	require.NoError(t, bus.Publish(ctx, NewEnvelope("world", "c", 3, nil)), "Низкий приоритет отбрасывается без ошибки")

	high := NewEnvelope("world", "d", 4, nil)
	high.Priority = 9
	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Publish(cctx, high), context.DeadlineExceeded)

	close(release)
	bus.Close()
	stats := bus.Metrics()
	assert.Equal(t, uint64(1), stats.Dropped)
	assert.Equal(t, uint64(2), stats.Published)
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	ch := make(chan *Envelope, 4)
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(_ context.Context, ev *Envelope) { ch <- ev })
	require.NoError(t, err)
	sub.Unsubscribe()
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("world", "x", 1, nil)))
	bus.Close()
	assert.Empty(t, ch)
}

func TestMemoryBus_Closed(t *testing.T) {
	bus := NewMemoryBus(4)
	bus.Close()
	bus.Close()

	assert.ErrorIs(t, bus.Publish(context.Background(), NewEnvelope("world", "x", 1, nil)), ErrClosed)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestLoggingListener(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewLoggerWithOptions("events", logging.Options{Level: logging.INFO, Format: "json", Output: &buf})
	require.NoError(t, err)

	bus := NewMemoryBus(4)
	_, err = StartLoggingListener(bus, logger)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("world", "player.item_collected", 7, map[string]string{"item": "apple"})))
	bus.Close()

	out := buf.String()
	assert.True(t, strings.Contains(out, `"msg":"player.item_collected"`), out)
	assert.Contains(t, out, `"item":"apple"`)
	assert.Contains(t, out, `"tick":7`)
}

func TestMetricsExporter(t *testing.T) {
	reg := prometheus.NewRegistry()
	bus := NewMemoryBus(4)
	exp := NewMetricsExporter(bus, reg, time.Hour)
	exp.Start()

	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("world", "x", 1, nil)))
	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("world", "y", 2, nil)))
	bus.Close()
	exp.Stop()

	assert.Equal(t, 2.0, testutil.ToFloat64(exp.published))
	assert.Equal(t, 0.0, testutil.ToFloat64(exp.consumed), "Подписчиков нет")
	assert.Equal(t, 0.0, testutil.ToFloat64(exp.inflight))
}
