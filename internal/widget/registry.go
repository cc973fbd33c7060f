package widget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/effects"
	"github.com/osse101/BrandishReveal_Go/internal/event"
	"github.com/osse101/BrandishReveal_Go/internal/logger"
	"github.com/osse101/BrandishReveal_Go/internal/metrics"
	"github.com/osse101/BrandishReveal_Go/internal/outcome"
	"github.com/osse101/BrandishReveal_Go/internal/profile"
	"github.com/osse101/BrandishReveal_Go/internal/sse"
	"github.com/osse101/BrandishReveal_Go/internal/wheel"
	"github.com/osse101/BrandishReveal_Go/internal/worker"
)

// ProfileSource resolves the presentation profile of a game
type ProfileSource interface {
	Load(game string) (profile.Profile, error)
}

// Deps are the shared services every widget is built from
type Deps struct {
	Loop     worker.Loop
	Bus      event.Bus
	Hub      *sse.Hub
	Bank     *effects.Bank
	Provider outcome.Provider
	Profiles ProfileSource
	Policy   wheel.Policy // used when a profile sets no sector policy
}

// Registry holds the live widgets in a bounded LRU. A widget that is evicted,
// expires or is removed is closed.
type Registry struct {
	deps  Deps
	cache *expirable.LRU[string, *Widget]
}

// NewRegistry creates a registry of at most size widgets. ttl bounds the
// lifetime of a widget; zero keeps widgets until they are evicted.
func NewRegistry(deps Deps, size int, ttl time.Duration) *Registry {
	r := &Registry{deps: deps}
	r.cache = expirable.NewLRU[string, *Widget](size, r.evicted, ttl)
	return r
}

func (r *Registry) evicted(id string, w *Widget) {
	metrics.ActiveWidgets.Dec()
	if err := w.Close(); err != nil {
		logger.Warn(LogMsgCloseFailed, "widget_id", id, "error", err)
		return
	}
	logger.Debug(LogMsgWidgetEvicted, "widget_id", id)
}

// Create builds a widget and registers it under a new id
func (r *Registry) Create(ctx context.Context, spec Spec) (*Widget, error) {
	id := uuid.NewString()
	w, err := newWidget(id, spec, r.deps)
	if err != nil {
		return nil, err
	}

	metrics.ActiveWidgets.Inc()
	r.cache.Add(id, w)

	logger.FromContext(ctx).Info(LogMsgWidgetCreated, "widget_id", id, "mode", spec.Mode, "game", w.game)
	return w, nil
}

// Get returns a live widget
func (r *Registry) Get(id string) (*Widget, error) {
	w, ok := r.cache.Get(id)
	if !ok {
		return nil, domain.ErrWidgetNotFound
	}
	return w, nil
}

// Exists reports whether id names a live widget without touching its recency
func (r *Registry) Exists(id string) bool {
	return r.cache.Contains(id)
}

// Remove closes and forgets a widget
func (r *Registry) Remove(id string) error {
	if !r.cache.Remove(id) {
		return domain.ErrWidgetNotFound
	}
	return nil
}

// Len returns the number of live widgets
func (r *Registry) Len() int {
	return r.cache.Len()
}

// Close closes every widget
func (r *Registry) Close() {
	r.cache.Purge()
}
