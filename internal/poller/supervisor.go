// Package poller keeps the message receive loop alive. The Supervisor owns
// the loop goroutine and its liveness flag; the Monitor watches the flag on
// an independent schedule and starts a replacement loop when it finds the
// flag down and the previous goroutine gone.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"vouch/internal/command"
	"vouch/internal/platform/metrics"
)

// Source is the transport's blocking long-poll primitive. Poll returns the
// next batch of inbound messages, or an empty batch when its internal
// timeout (tens of seconds) elapses with no traffic.
type Source interface {
	Poll(ctx context.Context) ([]command.Message, error)
}

// Handler consumes one inbound message end to end (route + reply).
type Handler interface {
	HandleMessage(ctx context.Context, msg command.Message)
}

// DefaultBackoff is the fixed delay before a faulted loop re-enters polling.
// Fixed rather than exponential: the upstream transport rate-limits
// independently, and a bounded worst-case recovery time matters more here.
const DefaultBackoff = 10 * time.Second

// Supervisor runs the receive loop on its own goroutine, tracks liveness,
// and restarts the loop after a backoff on any fault. It has no terminal
// state short of context cancellation.
type Supervisor struct {
	source  Source
	handler Handler
	backoff time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics

	alive atomic.Bool

	mu   sync.Mutex
	done chan struct{}
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithBackoff overrides the fault backoff delay.
func WithBackoff(d time.Duration) Option {
	return func(s *Supervisor) {
		s.backoff = d
	}
}

// WithMetrics attaches prometheus instruments.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Supervisor) {
		s.metrics = m
	}
}

// NewSupervisor builds a Supervisor; call Start to begin polling.
func NewSupervisor(source Source, handler Handler, logger *slog.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		source:  source,
		handler: handler,
		backoff: DefaultBackoff,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Alive reports whether the receive loop is currently live. Readers may
// observe a briefly stale value; that is acceptable by design.
func (s *Supervisor) Alive() bool {
	return s.alive.Load()
}

// Start spawns the receive loop goroutine unless a previous one is still
// running. The handle check closes the race where a slow-but-alive loop
// would otherwise be doubled by the monitor. Each accepted start is tagged
// with a generation token for log correlation. Reports whether a new loop
// was started.
func (s *Supervisor) Start(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		select {
		case <-s.done:
			// Previous run goroutine has fully exited; safe to replace.
		default:
			return false
		}
	}

	generation := uuid.New().String()
	done := make(chan struct{})
	s.done = done
	go func() {
		defer close(done)
		s.run(ctx, generation)
	}()
	return true
}

func (s *Supervisor) run(ctx context.Context, generation string) {
	s.logger.InfoContext(ctx, "receive loop starting", "generation", generation)
	defer s.setAlive(false)

	for ctx.Err() == nil {
		s.setAlive(true)
		batch, err := s.pollOnce(ctx)
		if err != nil {
			s.setAlive(false)
			if ctx.Err() != nil {
				break
			}
			s.metrics.IncPollRestarts()
			s.logger.WarnContext(ctx, "receive loop fault, restarting after backoff",
				"generation", generation,
				"backoff", s.backoff,
				"error", err,
			)
			select {
			case <-ctx.Done():
			case <-time.After(s.backoff):
			}
			continue
		}

		for _, msg := range batch {
			s.dispatch(ctx, msg)
		}
	}

	s.logger.InfoContext(ctx, "receive loop stopped", "generation", generation)
}

// pollOnce issues one blocking receive, converting a panicking transport
// into an ordinary fault.
func (s *Supervisor) pollOnce(ctx context.Context) (batch []command.Message, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errFromPanic(rec)
		}
	}()
	return s.source.Poll(ctx)
}

// dispatch hands one message to the handler on its own goroutine so a slow
// handler never stalls receiving, and a panicking one never kills the loop.
func (s *Supervisor) dispatch(ctx context.Context, msg command.Message) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.ErrorContext(ctx, "message handler panic",
					"command", msg.Command,
					"panic", rec,
				)
			}
		}()
		s.handler.HandleMessage(ctx, msg)
	}()
}

func (s *Supervisor) setAlive(v bool) {
	s.alive.Store(v)
	s.metrics.SetPollAlive(v)
}

func errFromPanic(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("transport panic: %w", err)
	}
	return fmt.Errorf("transport panic: %v", rec)
}
