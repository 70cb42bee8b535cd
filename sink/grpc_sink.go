package sink

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"task-lab/domain"
	"task-lab/errors"

	"github.com/google/uuid"
)

// GrpcSink is the connection handle of one gRPC stream.
// Producers queue payloads with Send; the stream handler owns the only reader
// and drains the outbox with Pump, which keeps delivery FIFO per connection.
type GrpcSink struct {
	id        string
	outbox    chan domain.Outbound
	done      chan struct{}
	closeOnce sync.Once
	log       *slog.Logger
}

func NewGrpcSink(log *slog.Logger, bufferSize int) *GrpcSink {
	return &GrpcSink{
		id:     uuid.NewString(),
		outbox: make(chan domain.Outbound, bufferSize),
		done:   make(chan struct{}),
		log:    log,
	}
}

func (s *GrpcSink) ID() string { return s.id }

func (s *GrpcSink) Done() <-chan struct{} { return s.done }

// Send queues the payload without blocking.
// A full outbox means the peer can't keep up: the sink is closed and the
// caller treats it as a disconnect.
func (s *GrpcSink) Send(payload domain.Outbound) error {
	select {
	case <-s.done:
		return errors.ErrConnectionClosed
	default:
	}

	select {
	case s.outbox <- payload:
		return nil
	case <-s.done:
		return errors.ErrConnectionClosed
	default:
		s.log.Warn("Outbox full, dropping connection", "connection_id", s.id)
		s.Close()
		return errors.ErrBackpressure
	}
}

// Close is idempotent.
func (s *GrpcSink) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Pump delivers queued payloads through write until the context ends,
// the sink is closed or a write fails.
func (s *GrpcSink) Pump(ctx context.Context, write func(domain.Outbound) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case payload := <-s.outbox:
			// The sink may have been closed while the payload was waiting.
			select {
			case <-s.done:
				return nil
			default:
			}
			if err := write(payload); err != nil {
				s.Close()
				return fmt.Errorf("%w: %v", errors.ErrWrite, err)
			}
		}
	}
}
