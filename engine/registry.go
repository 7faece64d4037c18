// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"sort"
	"sync"
)

// Config carries everything a binding needs to initialize the engine.
type Config struct {
	// AssetsPath is the engine's assets directory. Required.
	AssetsPath string

	// ICUDataPath is the engine's ICU data file. Required.
	ICUDataPath string

	// Renderer receives the engine's context-currency callbacks.
	Renderer Renderer

	// Compositor receives the engine's per-frame compositing callbacks.
	Compositor Compositor

	// PlatformTaskRunner receives the engine's platform-thread tasks.
	PlatformTaskRunner TaskRunner

	// LogSink receives engine log messages. May be nil.
	LogSink LogSink
}

// Factory initializes an engine through one concrete binding.
type Factory func(cfg Config) (Engine, error)

// RegistryEntry represents a registered engine binding.
type RegistryEntry struct {
	// Name is the unique identifier for this binding.
	Name string

	// Priority determines selection order (higher = preferred).
	Priority int

	// Factory initializes engine instances.
	Factory Factory

	// Available reports if the binding is usable on this system.
	Available func() bool
}

// Registry manages registered engine bindings. Bindings self-register so
// a native adapter module can plug in without changes here.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

var globalRegistry = &Registry{}

// Register adds a binding to the global registry. A nil available func
// means always available. Re-registering a name replaces the entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// New initializes an engine using the best available binding.
func New(cfg Config) (Engine, error) {
	return globalRegistry.New(cfg)
}

// NewByName initializes an engine using a specific binding.
func NewByName(name string, cfg Config) (Engine, error) {
	return globalRegistry.NewByName(name, cfg)
}

// Available returns the names of all available bindings, highest priority
// first.
func Available() []string {
	return globalRegistry.Available()
}

// Register adds a binding to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Available returns available binding names sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type entry struct {
		name     string
		priority int
	}
	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].priority > entries[j].priority
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// New initializes an engine using the best available binding.
func (r *Registry) New(cfg Config) (Engine, error) {
	available := r.Available()
	if len(available) == 0 {
		return nil, ErrNoBindingAvailable
	}

	var lastErr error
	for _, name := range available {
		e, err := r.NewByName(name, cfg)
		if err == nil {
			return e, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// NewByName initializes an engine using a specific binding.
func (r *Registry) NewByName(name string, cfg Config) (Engine, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BindingNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &BindingUnavailableError{Name: name}
	}
	return entry.Factory(cfg)
}

// ErrNoBindingAvailable is returned when no engine bindings are registered
// or available on the current system.
var ErrNoBindingAvailable = errors.New("engine: no binding available")

// BindingNotFoundError indicates a named binding is not registered.
type BindingNotFoundError struct {
	Name string
}

func (e *BindingNotFoundError) Error() string {
	return "engine: binding not found: " + e.Name
}

// BindingUnavailableError indicates a binding exists but is not available.
type BindingUnavailableError struct {
	Name string
}

func (e *BindingUnavailableError) Error() string {
	return "engine: binding unavailable: " + e.Name
}
