package usage

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Sink receives usage events off the request path
type Sink interface {
	Record(ctx context.Context, e Event)
}

// Emitter is the request-path side of usage metering
type Emitter interface {
	Emit(e Event) bool
}

// Recorder fans events out to sinks from a single background goroutine.
// Emit never blocks: when the buffer is full the event is dropped.
type Recorder struct {
	events chan Event
	sinks  []Sink
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

var _ Emitter = (*Recorder)(nil)

// NewRecorder starts the delivery goroutine
func NewRecorder(bufferSize int, logger *zap.Logger, sinks ...Sink) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 1
	}

	r := &Recorder{
		events: make(chan Event, bufferSize),
		sinks:  sinks,
		logger: logger,
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

// Emit queues an event and reports whether it was accepted
func (r *Recorder) Emit(e Event) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return false
	}

	select {
	case r.events <- e:
		return true
	default:
		r.logger.Warn("usage event dropped, buffer full",
			zap.String("operation", string(e.Operation)),
			zap.String("user_id", e.UserID),
			zap.String("project_id", e.ProjectID),
		)
		return false
	}
}

// Close stops accepting events and waits for queued ones to be delivered
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.events)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) run() {
	defer close(r.done)

	for e := range r.events {
		for _, sink := range r.sinks {
			r.deliver(sink, e)
		}
	}
}

func (r *Recorder) deliver(sink Sink, e Event) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("usage sink panicked", zap.Any("panic", p))
		}
	}()
	sink.Record(context.Background(), e)
}
