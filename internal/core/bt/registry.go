package bt

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zeusync/behave/pkg/generic"
)

// Factory creates a fresh process instance.
type Factory func() Process

type registration struct {
	desc Descriptor
	pool *generic.Pool[Process]
}

// Registry maps process names to factories and pools the instances it hands
// out. It replaces attribute scanning: every process type is registered
// explicitly, usually from a RegisterBuiltins style function.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registration
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registration)}
}

func (r *Registry) Register(desc Descriptor, factory Factory) error {
	if desc.Name == "" || factory == nil {
		return fmt.Errorf("bt: register %q: name and factory are required", desc.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[desc.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateProcess, desc.Name)
	}
	r.entries[desc.Name] = &registration{
		desc: desc,
		pool: generic.NewPoolWithHooks(func() Process { return factory() },
			func(p Process) { p.OnCreate() },
			func(p Process) { p.OnRemove() },
		),
	}
	return nil
}

func (r *Registry) MustRegister(desc Descriptor, factory Factory) {
	if err := r.Register(desc, factory); err != nil {
		panic(err)
	}
}

// Acquire hands out an instance of the named process configured with params.
func (r *Registry) Acquire(name string, params Params) (Process, error) {
	r.mu.Lock()
	e, ok := r.entries[name]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownProcess, name)
	}
	p := e.pool.Get()
	r.mu.Unlock()

	if cfg, ok := p.(Configurable); ok {
		if err := cfg.Configure(params); err != nil {
			r.Release(name, p)
			return nil, fmt.Errorf("bt: configure %s: %w", name, err)
		}
	} else if len(params) > 0 {
		r.Release(name, p)
		return nil, fmt.Errorf("%w: %s takes no parameters", ErrInvalidParam, name)
	}
	return p, nil
}

// Release returns an instance obtained from Acquire.
func (r *Registry) Release(name string, p Process) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		panic(fmt.Sprintf("bt: release of unregistered process %q", name))
	}
	e.pool.Put(p)
}

func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return Descriptor{}, false
	}
	return e.desc, true
}

// Descriptors lists every registration sorted by name.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.Lock()
	out := make([]Descriptor, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.desc)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Stats reports the pool counters of a registration.
func (r *Registry) Stats(name string) (generic.PoolStats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return generic.PoolStats{}, false
	}
	return e.pool.Stats(), true
}
