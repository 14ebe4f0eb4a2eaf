package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/constructia/platform-api/internal/core/domain"
)

// Config controls dispatcher buffering behavior.
type Config struct {
	BufferSize int
}

// Dispatcher asynchronously forwards audit events to a sink. It satisfies
// ports.AuditLogger: Log never blocks. When the buffer is full the event is
// counted as dropped rather than stalling the caller.
type Dispatcher struct {
	sink      Sink
	ch        chan domain.AuditEvent
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
	now       func() time.Time
}

func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		sink: sink,
		ch:   make(chan domain.AuditEvent, cfg.BufferSize),
		done: make(chan struct{}),
		now:  time.Now,
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.ch:
			d.sink.Emit(context.Background(), event)
		case <-d.done:
			for {
				select {
				case event := <-d.ch:
					d.sink.Emit(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Log enqueues one audit event. Only action is required; the remaining
// arguments are optional diff context. Safe on a nil or closed dispatcher.
func (d *Dispatcher) Log(_ context.Context, action, table, recordID string, oldData, newData any) {
	if d == nil || d.closed.Load() || action == "" {
		return
	}

	event := domain.AuditEvent{
		ID:        uuid.NewString(),
		Action:    action,
		Table:     table,
		RecordID:  recordID,
		OldData:   oldData,
		NewData:   newData,
		Timestamp: d.now().UTC(),
	}

	select {
	case d.ch <- event:
	case <-d.done:
	default:
		d.dropped.Add(1)
	}
}

// Close drains buffered events and stops the worker. Idempotent.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped reports how many events were discarded due to a full buffer.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
