package toast

import (
	"github.com/jmylchreest/toastui/internal/model"
)

// Observer receives presentation lifecycle events. Calls are made without
// any presenter or session lock held.
type Observer interface {
	OnQueued(d model.Descriptor)
	OnQueueChanged(depth int)
	OnSkipped(d model.Descriptor, err error)
	OnCancelled(d model.Descriptor)
	OnPresenting(s *Session)
	OnVisible(s *Session)
	OnDismissing(s *Session, reason model.Reason)
	OnDismissed(s *Session, reason model.Reason)
}

// NoopObserver ignores every event. Embed it to implement a subset.
type NoopObserver struct{}

var _ Observer = NoopObserver{}

func (NoopObserver) OnQueued(model.Descriptor)                {}
func (NoopObserver) OnQueueChanged(int)                       {}
func (NoopObserver) OnSkipped(model.Descriptor, error)        {}
func (NoopObserver) OnCancelled(model.Descriptor)             {}
func (NoopObserver) OnPresenting(*Session)                    {}
func (NoopObserver) OnVisible(*Session)                       {}
func (NoopObserver) OnDismissing(*Session, model.Reason)      {}
func (NoopObserver) OnDismissed(*Session, model.Reason)       {}

// MultiObserver fans events out to several observers. A panicking observer
// does not stop the others.
type MultiObserver struct {
	observers []Observer
}

var _ Observer = (*MultiObserver)(nil)

// NewMultiObserver creates a MultiObserver, dropping nil entries.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{observers: filtered}
}

// safeCall calls fn with panic recovery.
func safeCall(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}

func (m *MultiObserver) each(fn func(Observer)) {
	for _, obs := range m.observers {
		safeCall(func() { fn(obs) })
	}
}

// OnQueued forwards the call to all observers.
func (m *MultiObserver) OnQueued(d model.Descriptor) {
	m.each(func(o Observer) { o.OnQueued(d) })
}

// OnQueueChanged forwards the call to all observers.
func (m *MultiObserver) OnQueueChanged(depth int) {
	m.each(func(o Observer) { o.OnQueueChanged(depth) })
}

// OnSkipped forwards the call to all observers.
func (m *MultiObserver) OnSkipped(d model.Descriptor, err error) {
	m.each(func(o Observer) { o.OnSkipped(d, err) })
}

// OnCancelled forwards the call to all observers.
func (m *MultiObserver) OnCancelled(d model.Descriptor) {
	m.each(func(o Observer) { o.OnCancelled(d) })
}

// OnPresenting forwards the call to all observers.
func (m *MultiObserver) OnPresenting(s *Session) {
	m.each(func(o Observer) { o.OnPresenting(s) })
}

// OnVisible forwards the call to all observers.
func (m *MultiObserver) OnVisible(s *Session) {
	m.each(func(o Observer) { o.OnVisible(s) })
}

// OnDismissing forwards the call to all observers.
func (m *MultiObserver) OnDismissing(s *Session, reason model.Reason) {
	m.each(func(o Observer) { o.OnDismissing(s, reason) })
}

// OnDismissed forwards the call to all observers.
func (m *MultiObserver) OnDismissed(s *Session, reason model.Reason) {
	m.each(func(o Observer) { o.OnDismissed(s, reason) })
}
