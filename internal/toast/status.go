package toast

import (
	"time"

	"github.com/jmylchreest/toastui/internal/model"
)

// ToastStatus describes one toast in a status snapshot.
type ToastStatus struct {
	ID        string         `json:"id" yaml:"id"`
	Title     string         `json:"title,omitempty" yaml:"title,omitempty"`
	Message   string         `json:"message" yaml:"message"`
	Style     string         `json:"style,omitempty" yaml:"style,omitempty"`
	Screen    model.ScreenID `json:"screen" yaml:"screen"`
	Length    string         `json:"length" yaml:"length"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`

	// Set for the active toast only.
	State     string        `json:"state,omitempty" yaml:"state,omitempty"`
	Reason    string        `json:"reason,omitempty" yaml:"reason,omitempty"`
	Visible   time.Duration `json:"visible_for,omitempty" yaml:"visible_for,omitempty"`
	Remaining time.Duration `json:"remaining,omitempty" yaml:"remaining,omitempty"`
}

// Status is a point-in-time view of the presenter.
type Status struct {
	Active  *ToastStatus  `json:"active,omitempty" yaml:"active,omitempty"`
	Queued  []ToastStatus `json:"queued" yaml:"queued"`
	Screens []Screen      `json:"screens" yaml:"screens"`
}

// Status returns a snapshot of the active toast and the queue. Cancelled
// toasts still awaiting drain are omitted.
func (p *Presenter) Status() Status {
	p.mu.Lock()
	active := p.active
	queued := p.queue.Snapshot()
	cancelled := make(map[string]struct{}, len(p.cancelled))
	for id := range p.cancelled {
		cancelled[id] = struct{}{}
	}
	now := p.clock.Now()
	p.mu.Unlock()

	st := Status{
		Queued:  make([]ToastStatus, 0, len(queued)),
		Screens: p.screens.Screens(),
	}
	for _, d := range queued {
		if _, ok := cancelled[d.ID]; ok {
			continue
		}
		st.Queued = append(st.Queued, describe(d))
	}

	if active != nil {
		ts := describe(active.desc)
		ts.State = active.State().String()
		if reason, ok := active.Reason(); ok {
			ts.Reason = reason.String()
		}
		if visibleAt := active.VisibleAt(); !visibleAt.IsZero() {
			ts.Visible = now.Sub(visibleAt)
			if active.State() == StateVisible {
				ts.Remaining = max(active.length-ts.Visible, 0)
			}
		}
		st.Active = &ts
	}
	return st
}

func describe(d model.Descriptor) ToastStatus {
	return ToastStatus{
		ID:        d.ID,
		Title:     d.Title,
		Message:   d.Message,
		Style:     d.Style.Name,
		Screen:    d.Screen,
		Length:    d.Length.String(),
		CreatedAt: d.CreatedAt,
	}
}
