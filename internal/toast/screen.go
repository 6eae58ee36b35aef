package toast

import (
	"errors"
	"sort"
	"sync"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/transition"
)

// ErrScreenNotFound is returned when a screen handle no longer resolves.
var ErrScreenNotFound = errors.New("screen not found")

// Screen is a host surface toasts can be mounted on.
type Screen struct {
	ID     model.ScreenID  `json:"id" yaml:"id"`
	Name   string          `json:"name" yaml:"name"`
	Bounds transition.Size `json:"bounds" yaml:"bounds"`
}

// ScreenRegistry resolves screen handles. Descriptors only carry the
// ScreenID; a handle that no longer resolves means the screen is gone.
type ScreenRegistry struct {
	mu        sync.RWMutex
	screens   map[model.ScreenID]Screen
	listeners []func(model.ScreenID)
}

// NewScreenRegistry creates an empty registry.
func NewScreenRegistry() *ScreenRegistry {
	return &ScreenRegistry{
		screens: make(map[model.ScreenID]Screen),
	}
}

// Register adds a screen and returns its handle.
func (r *ScreenRegistry) Register(name string, bounds transition.Size) (model.ScreenID, error) {
	id, err := model.NewID()
	if err != nil {
		return "", err
	}
	sid := model.ScreenID(id)

	r.mu.Lock()
	r.screens[sid] = Screen{ID: sid, Name: name, Bounds: bounds}
	r.mu.Unlock()
	return sid, nil
}

// Resize updates the bounds of a live screen. Toasts already on screen keep
// the geometry they were planned with.
func (r *ScreenRegistry) Resize(id model.ScreenID, bounds transition.Size) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.screens[id]
	if !ok {
		return ErrScreenNotFound
	}
	s.Bounds = bounds
	r.screens[id] = s
	return nil
}

// Close removes a screen and notifies listeners. It returns false if the
// screen was not registered.
func (r *ScreenRegistry) Close(id model.ScreenID) bool {
	r.mu.Lock()
	if _, ok := r.screens[id]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.screens, id)
	listeners := append([]func(model.ScreenID){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(id)
	}
	return true
}

// Lookup resolves a handle.
func (r *ScreenRegistry) Lookup(id model.ScreenID) (Screen, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.screens[id]
	return s, ok
}

// Find resolves a handle or, failing that, a screen name.
func (r *ScreenRegistry) Find(ref string) (Screen, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.screens[model.ScreenID(ref)]; ok {
		return s, true
	}
	for _, s := range r.screens {
		if s.Name == ref {
			return s, true
		}
	}
	return Screen{}, false
}

// Alive reports whether the handle still resolves.
func (r *ScreenRegistry) Alive(id model.ScreenID) bool {
	_, ok := r.Lookup(id)
	return ok
}

// OnClose registers a listener called after a screen is closed.
func (r *ScreenRegistry) OnClose(fn func(model.ScreenID)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Screens returns all live screens sorted by name.
func (r *ScreenRegistry) Screens() []Screen {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Screen, 0, len(r.screens))
	for _, s := range r.screens {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
