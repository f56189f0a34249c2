// Package extension provides the post-reconciliation hook point.
// Handlers run in registration order after every successfully reconciled
// entity; a failing or panicking handler is logged and never stops the
// others or the sync step.
package extension

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.uber.org/multierr"

	"post_syncer/internal/domain"
	"post_syncer/internal/metrics"
)

// Handler post-processes one reconciled entity.
type Handler interface {
	Handle(ctx context.Context, entityID int64, record *domain.RemoteRecord, hc domain.HookContext) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, entityID int64, record *domain.RemoteRecord, hc domain.HookContext) error

func (f HandlerFunc) Handle(ctx context.Context, entityID int64, record *domain.RemoteRecord, hc domain.HookContext) error {
	return f(ctx, entityID, record, hc)
}

type Registry struct {
	mu       sync.RWMutex
	order    []string
	handlers map[string]Handler
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewRegistry(m *metrics.Metrics, logger *slog.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		metrics:  m,
		logger:   logger.With("component", "extensions"),
	}
}

// Register adds a handler. Registering an existing name replaces the
// handler but keeps its original position.
func (r *Registry) Register(name string, h Handler) {
	if h == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.handlers[name] = h
}

// Names returns the registered names in invocation order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// InvokeAll runs every handler. The returned error combines all handler
// failures; it is informational and callers must not abort on it.
func (r *Registry) InvokeAll(ctx context.Context, entityID int64, record *domain.RemoteRecord, hc domain.HookContext) error {
	r.mu.RLock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	handlers := make([]Handler, len(names))
	for i, name := range names {
		handlers[i] = r.handlers[name]
	}
	r.mu.RUnlock()

	var errs error
	for i, h := range handlers {
		if err := r.invoke(ctx, names[i], h, entityID, record, hc); err != nil {
			r.metrics.ExtensionFailed(names[i])
			r.logger.Warn("extension failed",
				"extension", names[i],
				"entity_id", entityID,
				"error", err,
			)
			errs = multierr.Append(errs, fmt.Errorf("extension %s: %w", names[i], err))
		}
	}
	return errs
}

func (r *Registry) invoke(ctx context.Context, name string, h Handler, entityID int64, record *domain.RemoteRecord, hc domain.HookContext) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return h.Handle(ctx, entityID, record, hc)
}
