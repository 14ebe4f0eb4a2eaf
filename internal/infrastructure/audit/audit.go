// Package audit delivers append-only audit events to a sink without ever
// blocking or failing into the calling admin operation.
package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/constructia/platform-api/internal/core/domain"
)

// Sink receives dispatched audit events.
type Sink interface {
	Emit(ctx context.Context, event domain.AuditEvent)
}

// NoOpSink drops audit events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, domain.AuditEvent) {}

// JSONWriterSink writes one JSON object per line. Marshal or write failures
// are swallowed; the audit trail is best-effort by contract.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

func (s *JSONWriterSink) Emit(_ context.Context, event domain.AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

// MultiSink fans an event out to every wrapped sink in order.
type MultiSink []Sink

func (m MultiSink) Emit(ctx context.Context, event domain.AuditEvent) {
	for _, s := range m {
		s.Emit(ctx, event)
	}
}
