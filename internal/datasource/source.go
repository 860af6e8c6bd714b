// Package datasource supplies historical price bars to the backtester.
package datasource

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/newthinker/algonex/internal/core"
)

// Provider fetches daily bars for a symbol. Bars are returned in the order
// the source holds them; the replay engine validates ordering.
type Provider interface {
	Name() string
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]core.PriceBar, error)
}

// Factory opens a provider from a configured path and table. The returned
// close function is never nil.
type Factory func(path, table string) (Provider, func() error, error)

// Registry manages named provider factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a provider factory under name
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Get retrieves a factory by name
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns registered provider names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open looks up kind and opens its provider. An empty kind means csv.
func (r *Registry) Open(kind, path, table string) (Provider, func() error, error) {
	if kind == "" {
		kind = KindCSV
	}
	f, ok := r.Get(kind)
	if !ok {
		return nil, noop, core.FieldError(core.ErrConfigInvalid, "data.source",
			"unknown data source %q (want one of: %s)", kind, strings.Join(r.Names(), ", "))
	}
	return f(path, table)
}

func noop() error { return nil }

// inRange reports whether t falls in [start, end]. Zero bounds are open.
func inRange(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}
