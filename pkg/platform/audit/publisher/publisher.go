// Package publisher delivers audit events to a sink, synchronously or through
// a bounded in-process buffer, falling back to a secondary sink while the
// primary is failing.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "dealchecker/pkg/platform/audit"
	"dealchecker/pkg/platform/circuit"
)

var (
	// ErrBufferFull is returned by Emit in async mode when the buffer is saturated.
	ErrBufferFull = errors.New("audit buffer full")
	// ErrClosed is returned by Emit after Close.
	ErrClosed = errors.New("audit publisher closed")
)

type Publisher struct {
	store    audit.Store
	fallback audit.Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *Metrics

	buffer chan audit.Event
	wg     sync.WaitGroup

	// mu guards closed and the buffer send against Close.
	mu     sync.RWMutex
	closed bool
}

type Option func(*Publisher)

// WithAsyncBuffer makes Emit enqueue into a buffer of the given size that a
// single background goroutine drains.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.buffer = make(chan audit.Event, size)
		}
	}
}

// WithFallback sets the sink used while the primary is failing.
func WithFallback(store audit.Store, breaker *circuit.Breaker) Option {
	return func(p *Publisher) {
		p.fallback = store
		p.breaker = breaker
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.fallback != nil && p.breaker == nil {
		p.breaker = circuit.New("audit")
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records event. In async mode it never blocks: a full buffer drops the
// event and returns ErrBufferFull.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	if p.buffer == nil {
		return p.write(ctx, event)
	}
	select {
	case p.buffer <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.IncDropped()
		return ErrBufferFull
	}
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.buffer {
		// Detached from the request: the emitting request may be finished.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.write(ctx, event); err != nil {
			p.logger.Error("audit event lost", "action", event.Action, "deal_id", event.DealID, "error", err)
		}
		cancel()
	}
}

func (p *Publisher) write(ctx context.Context, event audit.Event) error {
	if p.breaker != nil && !p.breaker.Allow() {
		p.metrics.IncFallback()
		return p.fallback.Append(ctx, event)
	}

	err := p.store.Append(ctx, event)
	if err == nil {
		if p.breaker != nil {
			if _, change := p.breaker.RecordSuccess(); change.Closed {
				p.metrics.SetCircuitBreakerState(false)
				p.logger.InfoContext(ctx, "audit sink recovered")
			}
		}
		p.metrics.IncEmitted()
		return nil
	}

	p.metrics.IncPersistFailures()
	if p.fallback == nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	if _, change := p.breaker.RecordFailure(); change.Opened {
		p.metrics.SetCircuitBreakerState(true)
		p.logger.WarnContext(ctx, "audit sink failing, using fallback", "error", err)
	}
	p.metrics.IncFallback()
	if ferr := p.fallback.Append(ctx, event); ferr != nil {
		return errors.Join(err, ferr)
	}
	return nil
}

// Close stops accepting events and drains the buffer. It waits for in-flight
// synchronous writes to finish.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	if p.buffer != nil {
		close(p.buffer)
	}
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}
