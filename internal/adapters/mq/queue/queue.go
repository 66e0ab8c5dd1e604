// Package queue moves prepared fixture jobs from the orchestrator to the
// simulation workers.
//
// The in-memory bounded queue is enough for a single process; the
// interface leaves room for a broker-backed implementation later.
package queue

import (
	"context"
	"sync"

	"github.com/okian/calcio/internal/domain/model"
	"github.com/okian/calcio/internal/domain/season"
	"github.com/okian/calcio/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity   = 1024
	defaultBufferSize = 1024
)

// Item is one fixture job tagged with its position in the matchday, plus
// the channel its outcome must land on.
type Item struct {
	Index int
	Job   season.Job
	Out   chan<- Outcome
}

// Outcome pairs a simulated result (or its error) with the item index so
// collectors can restore matchday order.
type Outcome struct {
	Index  int
	Result *model.MatchResult
	Err    error
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an item. Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, item Item) bool

	// Dequeue returns a channel receiving items until the queue closes.
	Dequeue(ctx context.Context) <-chan Item

	// Len returns the current number of queued items.
	Len(ctx context.Context) int

	// Close shuts the queue down; no further enqueues succeed.
	Close() error

	// IsClosed reports whether Close has run.
	IsClosed() bool
}

// InMemoryQueue implements Queue over a buffered channel.
type InMemoryQueue struct {
	items      chan Item
	capacity   int
	bufferSize int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultCapacity,
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Item, q.bufferSize)

	metrics.UpdateFixtureQueueSize(0)
	return q
}

// Enqueue adds an item to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, item Item) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}
	if len(q.items) >= q.capacity {
		return false
	}

	select {
	case q.items <- item:
		metrics.UpdateFixtureQueueSize(len(q.items))
		return true
	case <-ctx.Done():
		return false
	default:
		return false
	}
}

// Dequeue returns a channel that receives items as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Item {
	out := make(chan Item)
	go func() {
		defer close(out)
		for item := range q.items {
			select {
			case out <- item:
				metrics.UpdateFixtureQueueSize(len(q.items))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued items.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.items)
}

// Close shuts the queue down.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has run.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
