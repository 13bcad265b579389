package events_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdash/backend/internal/events"
)

// fakeWriter records messages instead of talking to a broker.
type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

var _ events.MessageWriter = (*fakeWriter)(nil)

// recorder is a Publisher that keeps every event it receives.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
	block  chan struct{}
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) got() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

var at = time.Date(2026, 1, 15, 9, 30, 0, 0, time.FixedZone("WIB", 7*60*60))

func TestNew_StampsUTC(t *testing.T) {
	id := uuid.New()
	e := events.New(events.TripCreated, id, at, map[string]string{"code": "TRP-202601-AAAAA"})

	assert.Equal(t, events.TripCreated, e.Type)
	assert.Equal(t, id, e.EntityID)
	assert.Equal(t, time.UTC, e.OccurredAt.Location())
	assert.True(t, e.OccurredAt.Equal(at))
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := events.NewKafkaPublisher(w)
	id := uuid.New()

	err := p.Publish(context.Background(), events.New(events.VehicleUpdated, id, at, map[string]any{"plate": "B 1234 XY"}))

	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, id.String(), string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "vehicle.updated", string(msg.Headers[0].Value))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "vehicle.updated", body["type"])
	assert.Equal(t, id.String(), body["entity_id"])
	assert.Equal(t, "B 1234 XY", body["payload"].(map[string]any)["plate"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	brokerDown := errors.New("dial tcp: connection refused")
	p := events.NewKafkaPublisher(&fakeWriter{err: brokerDown})

	err := p.Publish(context.Background(), events.New(events.TripDeleted, uuid.New(), at, nil))

	assert.ErrorIs(t, err, brokerDown)
}

func TestLogPublisher_WritesLine(t *testing.T) {
	var buf bytes.Buffer
	p := events.NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))
	id := uuid.New()

	require.NoError(t, p.Publish(context.Background(), events.New(events.DocumentCreated, id, at, nil)))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "event", line["msg"])
	assert.Equal(t, "document.created", line["type"])
	assert.Equal(t, id.String(), line["entity_id"])
}

func TestAsyncPublisher_DeliversInOrderAndDrainsOnClose(t *testing.T) {
	rec := &recorder{}
	p := events.NewAsyncPublisher(rec, quietLogger(), 16, time.Second)

	ids := make([]uuid.UUID, 10)
	for i := range ids {
		ids[i] = uuid.New()
		require.NoError(t, p.Publish(context.Background(), events.New(events.TripCreated, ids[i], at, nil)))
	}
	require.NoError(t, p.Close(context.Background()))

	got := rec.got()
	require.Len(t, got, len(ids))
	for i, e := range got {
		assert.Equal(t, ids[i], e.EntityID)
	}
}

func TestAsyncPublisher_PublishAfterClose(t *testing.T) {
	p := events.NewAsyncPublisher(&recorder{}, quietLogger(), 1, time.Second)
	require.NoError(t, p.Close(context.Background()))
	require.NoError(t, p.Close(context.Background()), "second Close is a no-op")

	err := p.Publish(context.Background(), events.New(events.TripCreated, uuid.New(), at, nil))

	assert.ErrorIs(t, err, events.ErrClosed)
}

func TestAsyncPublisher_QueueFullDrops(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	p := events.NewAsyncPublisher(rec, quietLogger(), 1, time.Second)

	// The first event is taken by the drain goroutine and blocks there; the
	// second fills the buffer. Keep publishing until the queue reports full.
	var full bool
	for range 10 {
		if err := p.Publish(context.Background(), events.New(events.TripCreated, uuid.New(), at, nil)); errors.Is(err, events.ErrQueueFull) {
			full = true
			break
		}
	}
	assert.True(t, full)

	close(rec.block)
	require.NoError(t, p.Close(context.Background()))
}

func TestAsyncPublisher_DownstreamErrorDoesNotStopDrain(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	failing := events.PublisherFunc(func(context.Context, events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return errors.New("broker unavailable")
	})
	p := events.NewAsyncPublisher(failing, quietLogger(), 4, time.Second)

	for range 3 {
		require.NoError(t, p.Publish(context.Background(), events.New(events.VehicleDeleted, uuid.New(), at, nil)))
	}
	require.NoError(t, p.Close(context.Background()))

	assert.Equal(t, 3, calls)
}

func TestAsyncPublisher_NilLoggerUsesDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	failing := events.PublisherFunc(func(context.Context, events.Event) error {
		return errors.New("broker unavailable")
	})
	p := events.NewAsyncPublisher(failing, nil, 1, time.Second)

	require.NoError(t, p.Publish(context.Background(), events.New(events.TripDeleted, uuid.New(), at, nil)))
	require.NoError(t, p.Close(context.Background()))

	assert.Contains(t, buf.String(), "broker unavailable")
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, events.Discard.Publish(context.Background(), events.Event{}))
}
