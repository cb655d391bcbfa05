package worker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Record represents a gateway callback delivered to the worker. It is a
// minimal abstraction keeping the engine decoupled from the concrete Kafka
// consumer while still exposing the data the engine requires.
type Record struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time

	mu       sync.Mutex
	commitFn func(context.Context) error
}

// Commit acknowledges the record's offset. Safe to call more than once;
// only the first call reaches the consumer.
func (r *Record) Commit(ctx context.Context) error {
	if r == nil {
		return errors.New("worker: record is nil")
	}

	r.mu.Lock()
	fn := r.commitFn
	r.commitFn = nil
	r.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (r *Record) setCommitFn(fn func(context.Context) error) {
	r.mu.Lock()
	r.commitFn = fn
	r.mu.Unlock()
}

// Clone returns a deep copy of the record so it can be handed to an
// asynchronous goroutine without data races. The commit binding is shared.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return &Record{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Key:       cloneBytes(r.Key),
		Value:     cloneBytes(r.Value),
		Timestamp: r.Timestamp,
		commitFn:  r.commitFn,
	}
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	clone := make([]byte, len(b))
	copy(clone, b)
	return clone
}
