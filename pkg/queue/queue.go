package queue

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by Enqueue when the queue has no free capacity.
var ErrQueueFull = errors.New("queue is full")

// Queue is an ordered, bounded queue with a single consumer.
type Queue interface {
	// Enqueue adds an item to the end of the queue without blocking.
	Enqueue(item interface{}) error
	// EnqueueContext waits for free capacity until ctx is done.
	EnqueueContext(ctx context.Context, item interface{}) error
	// Chan returns the receive side of the queue for use in a select.
	Chan() <-chan interface{}
	// Size returns the number of pending items.
	Size() int
	// ReadAllMessages removes and returns every pending item without blocking.
	ReadAllMessages() []interface{}
}
