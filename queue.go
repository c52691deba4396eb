package serialdelay

import (
	"context"
	"sync"
)

// OutputQueue is an unbounded FIFO of decoded device text. It is safe for one
// producer and any number of consumers; each item is delivered once.
type OutputQueue struct {
	mu     sync.Mutex
	items  []string
	notify chan struct{}
}

// NewOutputQueue creates an empty queue
func NewOutputQueue() *OutputQueue {
	return &OutputQueue{notify: make(chan struct{}, 1)}
}

// Put appends a chunk
func (q *OutputQueue) Put(chunk string) {
	q.mu.Lock()
	q.items = append(q.items, chunk)
	q.mu.Unlock()
	q.signal()
}

func (q *OutputQueue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// TryGet removes and returns the oldest chunk without blocking
func (q *OutputQueue) TryGet() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return "", false
	}
	chunk := q.items[0]
	q.items[0] = ""
	q.items = q.items[1:]
	if len(q.items) > 0 {
		// hand the wakeup on to the next waiting consumer
		q.signal()
	}
	return chunk, true
}

// Get blocks until a chunk is available or ctx is done
func (q *OutputQueue) Get(ctx context.Context) (string, error) {
	for {
		if chunk, ok := q.TryGet(); ok {
			return chunk, nil
		}
		select {
		case <-q.notify:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// Drain removes and returns every queued chunk in order
func (q *OutputQueue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil
	return items
}

// Len reports the number of queued chunks
func (q *OutputQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
