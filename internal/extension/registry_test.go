package extension

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"post_syncer/internal/domain"
	"post_syncer/internal/metrics"
)

func newRegistry() *Registry {
	return NewRegistry(metrics.New(prometheus.NewRegistry()), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func recorder(calls *[]string, name string, err error) HandlerFunc {
	return func(ctx context.Context, entityID int64, record *domain.RemoteRecord, hc domain.HookContext) error {
		*calls = append(*calls, name)
		return err
	}
}

func TestRegistry_InvokesInRegistrationOrder(t *testing.T) {
	r := newRegistry()
	var calls []string

	r.Register("first", recorder(&calls, "first", nil))
	r.Register("second", recorder(&calls, "second", nil))
	r.Register("third", recorder(&calls, "third", nil))

	err := r.InvokeAll(context.Background(), 1, &domain.RemoteRecord{ID: 9}, domain.HookContext{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestRegistry_ReRegisterKeepsPosition(t *testing.T) {
	r := newRegistry()
	var calls []string

	r.Register("a", recorder(&calls, "a-v1", nil))
	r.Register("b", recorder(&calls, "b", nil))
	r.Register("a", recorder(&calls, "a-v2", nil))

	_ = r.InvokeAll(context.Background(), 1, &domain.RemoteRecord{}, domain.HookContext{})
	assert.Equal(t, []string{"a-v2", "b"}, calls)
	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestRegistry_FailuresDoNotStopOthers(t *testing.T) {
	r := newRegistry()
	var calls []string

	r.Register("broken", recorder(&calls, "broken", errors.New("boom")))
	r.Register("panicky", HandlerFunc(func(ctx context.Context, entityID int64, record *domain.RemoteRecord, hc domain.HookContext) error {
		calls = append(calls, "panicky")
		panic("unexpected nil")
	}))
	r.Register("healthy", recorder(&calls, "healthy", nil))

	err := r.InvokeAll(context.Background(), 1, &domain.RemoteRecord{}, domain.HookContext{})

	assert.Equal(t, []string{"broken", "panicky", "healthy"}, calls)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorContains(t, err, "extension panicky: panic: unexpected nil")
}

func TestRegistry_PassesContext(t *testing.T) {
	r := newRegistry()
	hc := domain.HookContext{SourceURL: "https://src.test/", APINamespace: "wp/v2", TargetType: "post"}

	var gotID int64
	var gotHC domain.HookContext
	r.Register("capture", HandlerFunc(func(ctx context.Context, entityID int64, record *domain.RemoteRecord, c domain.HookContext) error {
		gotID = entityID
		gotHC = c
		return nil
	}))

	require.NoError(t, r.InvokeAll(context.Background(), 77, &domain.RemoteRecord{ID: 3}, hc))
	assert.Equal(t, int64(77), gotID)
	assert.Equal(t, hc, gotHC)
}

func TestRegistry_IgnoresNilHandler(t *testing.T) {
	r := newRegistry()
	r.Register("nil", nil)
	assert.Empty(t, r.Names())
}
