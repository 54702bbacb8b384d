package queue

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

type memoryQueue struct {
	mu       sync.Mutex
	pending  []Message
	inflight map[string]Message
	seq      atomic.Int64
	notify   chan struct{}
}

func init() {
	Register("memory", func(args interface{}) (Queue, error) {
		_ = args
		return NewMemoryQueue(), nil
	})
}

// NewMemoryQueue is an in-process queue for local development and tests.
// Received messages move to an in-flight set; Delete acknowledges them, and
// anything left in flight is not redelivered (unlike a real broker).
func NewMemoryQueue() Queue {
	return &memoryQueue{
		inflight: map[string]Message{},
		notify:   make(chan struct{}, 1),
	}
}

func (q *memoryQueue) Send(ctx context.Context, body string) error {
	_ = ctx
	q.mu.Lock()
	receipt := strconv.FormatInt(q.seq.Add(1), 10)
	q.pending = append(q.pending, Message{Body: body, Receipt: receipt})
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

func (q *memoryQueue) Receive(ctx context.Context, max int32, wait time.Duration) ([]Message, error) {
	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	for {
		q.mu.Lock()
		if len(q.pending) > 0 {
			n := int(max)
			if n > len(q.pending) {
				n = len(q.pending)
			}
			batch := make([]Message, n)
			copy(batch, q.pending[:n])
			q.pending = q.pending[n:]
			for _, m := range batch {
				q.inflight[m.Receipt] = m
			}
			q.mu.Unlock()
			return batch, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, nil
		case <-q.notify:
		}
	}
}

func (q *memoryQueue) Delete(ctx context.Context, receipt string) error {
	_ = ctx
	q.mu.Lock()
	delete(q.inflight, receipt)
	q.mu.Unlock()
	return nil
}
