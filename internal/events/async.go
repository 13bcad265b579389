package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fleetdash/backend/internal/metrics"
)

var (
	// ErrClosed is returned by Publish after Close.
	ErrClosed = errors.New("events: publisher closed")
	// ErrQueueFull is returned when the buffer is full; the event is dropped.
	ErrQueueFull = errors.New("events: queue full")
)

// AsyncPublisher decouples request handling from broker latency: Publish
// enqueues and returns, a single goroutine drains the queue into next in
// order.
type AsyncPublisher struct {
	next    Publisher
	log     *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

// NewAsyncPublisher starts the drain goroutine. size is the queue capacity;
// timeout bounds each delivery to next. A nil log uses slog.Default().
func NewAsyncPublisher(next Publisher, log *slog.Logger, size int, timeout time.Duration) *AsyncPublisher {
	if size < 1 {
		size = 1
	}
	if log == nil {
		log = slog.Default()
	}
	p := &AsyncPublisher{
		next:    next,
		log:     log,
		timeout: timeout,
		queue:   make(chan Event, size),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues e without blocking. ctx is not used for delivery: the
// request that produced the event may finish before it is sent.
func (p *AsyncPublisher) Publish(_ context.Context, e Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}
	select {
	case p.queue <- e:
		return nil
	default:
		metrics.EventsPublishedTotal.WithLabelValues(string(e.Type), "dropped").Inc()
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until the queue is drained or ctx
// is done. It is safe to call more than once.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for e := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := p.next.Publish(ctx, e)
		cancel()

		result := "ok"
		if err != nil {
			result = "error"
			p.log.Error("publish event", "type", string(e.Type), "entity_id", e.EntityID.String(), "error", err)
		}
		metrics.EventsPublishedTotal.WithLabelValues(string(e.Type), result).Inc()
	}
}
