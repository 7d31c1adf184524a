package singleton

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Constructor builds a new instance for a type identifier.
type Constructor func() (any, error)

// Factory caches at most one live instance per type identifier.
//
// Lookups take the shared read lock only; construction and replacement take
// the exclusive lock and re-check the registry before building, so racing
// first callers observe a single construction. The period between one
// construction and the next forced reinitialization is an epoch: within an
// epoch every caller sees the same instance.
type Factory struct {
	mu        sync.RWMutex
	instances map[string]any
}

// New creates an empty Factory.
func New() *Factory {
	return &Factory{instances: make(map[string]any)}
}

// Option configures a single GetOrCreate call.
type Option func(*options)

type options struct {
	reinit bool
}

// WithReinit forces construction of a new instance, atomically replacing
// any cached one. The replaced instance is closed if it implements
// io.Closer.
func WithReinit() Option {
	return func(o *options) { o.reinit = true }
}

// GetOrCreate returns the instance cached for id, constructing one on first
// request. The constructor runs at most once per epoch; if it fails, no
// entry is installed and the error propagates, leaving the registry
// unchanged so a later call can retry construction.
func (f *Factory) GetOrCreate(id string, ctor Constructor, opts ...Option) (any, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}
	if ctor == nil {
		return nil, ErrNilConstructor
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Fast path: a live entry and no forced replacement.
	if !o.reinit {
		f.mu.RLock()
		inst, ok := f.instances[id]
		f.mu.RUnlock()
		if ok {
			return inst, nil
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Re-check under the exclusive lock: another caller may have won the
	// race and already installed the instance for this epoch.
	if !o.reinit {
		if inst, ok := f.instances[id]; ok {
			return inst, nil
		}
	}

	inst, err := ctor()
	if err != nil {
		return nil, err
	}

	prev, replaced := f.instances[id]
	f.instances[id] = inst

	if replaced {
		if c, ok := prev.(io.Closer); ok {
			_ = c.Close()
		}
	}
	return inst, nil
}

// Get returns the cached instance for id without constructing one.
func (f *Factory) Get(id string) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	inst, ok := f.instances[id]
	return inst, ok
}

// IDs returns the identifiers with live instances, sorted.
func (f *Factory) IDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	ids := make([]string, 0, len(f.instances))
	for id := range f.instances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// For is a typed wrapper around Factory.GetOrCreate. It returns ErrWrongType
// when the cached instance for id was constructed with a different type.
func For[T any](f *Factory, id string, ctor func() (T, error), opts ...Option) (T, error) {
	var zero T

	inst, err := f.GetOrCreate(id, func() (any, error) { return ctor() }, opts...)
	if err != nil {
		return zero, err
	}

	v, ok := inst.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q holds %T", ErrWrongType, id, inst)
	}
	return v, nil
}

// Default is the process-wide factory.
var Default = New()
