// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package windowing

import (
	"errors"
	"sort"
	"sync"
)

// Factory connects a Client to the display server.
type Factory func() (Client, error)

// RegistryEntry represents a registered windowing backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	Priority int

	// Factory connects clients.
	Factory Factory

	// Available reports if the backend is usable on this system.
	Available func() bool
}

// Registry manages registered windowing backends.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

var globalRegistry = &Registry{}

// Register adds a backend to the global registry. A nil available func
// means always available. Re-registering a name replaces the entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Connect connects using the best available backend.
func Connect() (Client, error) {
	return globalRegistry.Connect()
}

// ConnectByName connects using a specific backend.
func ConnectByName(name string) (Client, error) {
	return globalRegistry.ConnectByName(name)
}

// Available returns the names of all available backends, highest priority
// first.
func Available() []string {
	return globalRegistry.Available()
}

// Register adds a backend to this registry.
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

// Available returns available backend names sorted by priority.
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

// Connect connects using the best available backend.
func (r *Registry) Connect() (Client, error) {
	available := r.Available()
	if len(available) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range available {
		c, err := r.ConnectByName(name)
		if err == nil {
			return c, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// ConnectByName connects using a specific backend.
func (r *Registry) ConnectByName(name string) (Client, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return entry.Factory()
}

// ErrNoBackendAvailable is returned when no windowing backends are
// registered or available on the current system.
var ErrNoBackendAvailable = errors.New("windowing: no backend available")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "windowing: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not
// available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "windowing: backend unavailable: " + e.Name
}
