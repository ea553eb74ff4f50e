package queue

import "context"

// InMemoryQueue implements Queue on top of a buffered channel.
type InMemoryQueue struct {
	ch chan interface{}
}

// NewInMemoryQueue creates a new queue holding at most size items.
func NewInMemoryQueue(size int) *InMemoryQueue {
	return &InMemoryQueue{
		ch: make(chan interface{}, size),
	}
}

func (q *InMemoryQueue) Enqueue(item interface{}) error {
	select {
	case q.ch <- item:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *InMemoryQueue) EnqueueContext(ctx context.Context, item interface{}) error {
	select {
	case q.ch <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *InMemoryQueue) Chan() <-chan interface{} {
	return q.ch
}

func (q *InMemoryQueue) Size() int {
	return len(q.ch)
}

func (q *InMemoryQueue) ReadAllMessages() []interface{} {
	var items []interface{}
	for {
		select {
		case item := <-q.ch:
			items = append(items, item)
		default:
			return items
		}
	}
}
