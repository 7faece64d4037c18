// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/layerhost/engine"
)

// ErrViewNotFound is returned when an operation names an unknown view.
var ErrViewNotFound = errors.New("compositor: view not found")

// View is one engine view and its current logical size.
//
// Size is written from the event-loop thread on configure and read from
// whatever thread the engine presents on. The presented dimensions are
// touched only inside Present and need no locking.
type View struct {
	id engine.ViewID

	mu     sync.RWMutex
	width  uint32
	height uint32

	presentedWidth  uint32
	presentedHeight uint32
}

// NewView returns a view with an initial size.
func NewView(id engine.ViewID, width, height uint32) *View {
	return &View{id: id, width: width, height: height}
}

// ID returns the engine view identifier.
func (v *View) ID() engine.ViewID { return v.id }

// Size returns the view's current logical size.
func (v *View) Size() (width, height uint32) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}

// SetSize records a new logical size.
func (v *View) SetSize(width, height uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = width
	v.height = height
}

// ViewRegistry tracks live views by identifier.
type ViewRegistry struct {
	mu    sync.RWMutex
	views map[engine.ViewID]*View
}

// NewViewRegistry returns an empty registry.
func NewViewRegistry() *ViewRegistry {
	return &ViewRegistry{views: make(map[engine.ViewID]*View)}
}

// Add registers a view. Registering an already-present identifier is a
// programming error and is rejected.
func (r *ViewRegistry) Add(v *View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.views[v.id]; ok {
		return fmt.Errorf("compositor: view %d already registered", v.id)
	}
	r.views[v.id] = v
	return nil
}

// Remove drops a view. Removing an unknown identifier is a no-op.
func (r *ViewRegistry) Remove(id engine.ViewID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, id)
}

// Get returns the view for id.
func (r *ViewRegistry) Get(id engine.ViewID) (*View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrViewNotFound, id)
	}
	return v, nil
}

// Len returns the number of registered views.
func (r *ViewRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}
