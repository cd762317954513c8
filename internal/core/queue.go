package core

import (
	"sync"
	"time"

	"github.com/hjang25/roomchat/internal/proto"
)

// DefaultDequeueWait is how long an empty Dequeue blocks before giving
// up. The bounded wait lets the consuming goroutine reassess its exit
// conditions without busy-polling and without blocking forever on a
// peer that never sends again.
const DefaultDequeueWait = time.Second

// DeliveryQueue is a per-user FIFO mailbox. Any number of goroutines may
// Enqueue; exactly one goroutine, the owning session, calls Dequeue.
type DeliveryQueue struct {
	mu    sync.Mutex
	msgs  []proto.Message
	avail chan struct{}
	wait  time.Duration
}

// NewDeliveryQueue constructs an empty queue whose Dequeue waits up to
// wait for a message. A non-positive wait falls back to
// DefaultDequeueWait.
func NewDeliveryQueue(wait time.Duration) *DeliveryQueue {
	if wait <= 0 {
		wait = DefaultDequeueWait
	}
	return &DeliveryQueue{
		avail: make(chan struct{}, 1),
		wait:  wait,
	}
}

// Enqueue appends msg to the tail and signals availability. It never
// blocks and never fails.
func (q *DeliveryQueue) Enqueue(msg proto.Message) {
	q.mu.Lock()
	q.msgs = append(q.msgs, msg)
	q.mu.Unlock()

	select {
	case q.avail <- struct{}{}:
	default:
	}
}

// Dequeue removes and returns the front message. With the queue empty it
// blocks until a message arrives or the wait elapses; on timeout it
// returns ok == false, which is not an error.
func (q *DeliveryQueue) Dequeue() (proto.Message, bool) {
	timer := time.NewTimer(q.wait)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if len(q.msgs) > 0 {
			msg := q.msgs[0]
			q.msgs = q.msgs[1:]
			q.mu.Unlock()
			return msg, true
		}
		q.mu.Unlock()

		select {
		case <-q.avail:
			// Recheck under the lock; the signal coalesces
			// multiple enqueues.
		case <-timer.C:
			return proto.Message{}, false
		}
	}
}

// Len reports how many messages are pending.
func (q *DeliveryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.msgs)
}
