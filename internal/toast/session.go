package toast

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toastui/internal/clock"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/transition"
)

// State is a session's position in its lifecycle.
type State int

const (
	StateCreated State = iota
	StatePresenting
	StateVisible
	StateDismissing
	StateDismissed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StatePresenting:
		return "presenting"
	case StateVisible:
		return "visible"
	case StateDismissing:
		return "dismissing"
	case StateDismissed:
		return "dismissed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// sessionDeps is the presenter state a session captures when it is created.
type sessionDeps struct {
	clock     clock.Clock
	animator  transition.Animator
	observer  Observer
	container Container
	screens   *ScreenRegistry
	logger    *slog.Logger
	enter     transition.Timing
	exit      transition.Timing

	// onDismissed runs after the session reaches Dismissed, even if the
	// completion callback panics.
	onDismissed func(*Session)
}

// Session is the live presentation of one descriptor.
type Session struct {
	desc     model.Descriptor
	geometry transition.Geometry
	length   time.Duration
	deps     sessionDeps

	mu sync.Mutex
	// state and the fields below are guarded by mu
	state     State
	reason    model.Reason
	pending   *model.Reason // dismissal requested before presenting began
	timer     clock.Timer
	anim      transition.Handle
	plan      transition.Plan
	planStart time.Time
	visibleAt time.Time
}

func newSession(d model.Descriptor, g transition.Geometry, length time.Duration, deps sessionDeps) *Session {
	return &Session{
		desc:     d,
		geometry: g,
		length:   length,
		deps:     deps,
		state:    StateCreated,
		plan:     transition.PlanEnter(d.PresentDirection, d.Location, g, deps.enter),
	}
}

// ID returns the descriptor ID.
func (s *Session) ID() string { return s.desc.ID }

// Descriptor returns the descriptor being presented.
func (s *Session) Descriptor() model.Descriptor { return s.desc }

// Geometry returns the surface geometry planned at creation.
func (s *Session) Geometry() transition.Geometry { return s.geometry }

// Length returns the resolved visible duration.
func (s *Session) Length() time.Duration { return s.length }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reason returns the dismissal reason once one has been recorded.
func (s *Session) Reason() (model.Reason, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state < StateDismissing {
		return 0, false
	}
	return s.reason, true
}

// VisibleAt returns when the session became fully visible, or the zero time.
func (s *Session) VisibleAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleAt
}

// Frame samples the current animation position for hosts that render frames.
func (s *Session) Frame() transition.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked(s.deps.clock.Now())
}

func (s *Session) frameLocked(now time.Time) transition.Frame {
	switch s.state {
	case StateCreated:
		return s.plan.Initial()
	case StatePresenting, StateDismissing:
		return s.plan.Sample(now.Sub(s.planStart))
	case StateVisible:
		return transition.RestFrame
	default:
		return s.plan.Final()
	}
}

// start moves Created → Presenting and runs the enter animation.
func (s *Session) start() {
	now := s.deps.clock.Now()

	s.mu.Lock()
	if s.state != StateCreated {
		s.mu.Unlock()
		return
	}
	s.state = StatePresenting
	s.planStart = now
	plan := s.plan
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	s.deps.logger.Debug("presenting toast",
		"toast_id", s.desc.ID,
		"direction", s.desc.PresentDirection.String(),
		"duration", plan.Duration,
	)
	s.deps.observer.OnPresenting(s)

	if pending != nil {
		s.requestDismiss(*pending)
		return
	}

	h := s.deps.animator.Run(plan, func(finished bool) {
		if finished {
			s.EnterAnimationComplete()
		}
	})

	s.mu.Lock()
	if s.state == StatePresenting {
		s.anim = h
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	// Dismissed while the animation was being started.
	h.Cancel()
}

// EnterAnimationComplete moves Presenting → Visible and arms the
// auto-dismiss timer. It reports whether the transition happened.
func (s *Session) EnterAnimationComplete() bool {
	now := s.deps.clock.Now()

	s.mu.Lock()
	if s.state != StatePresenting {
		s.mu.Unlock()
		return false
	}
	s.state = StateVisible
	s.anim = nil
	s.visibleAt = now
	s.timer = s.deps.clock.AfterFunc(s.length, s.timeout)
	s.mu.Unlock()

	s.deps.logger.Debug("toast visible", "toast_id", s.desc.ID, "length", s.length)
	s.deps.observer.OnVisible(s)
	return true
}

// Tap records a user tap. Taps while presenting interrupt the enter
// animation; taps after dismissal has begun are ignored.
func (s *Session) Tap() bool {
	return s.requestDismiss(model.ReasonTapped)
}

// Dismiss requests programmatic dismissal.
func (s *Session) Dismiss() bool {
	return s.requestDismiss(model.ReasonDismissed)
}

func (s *Session) timeout() {
	s.requestDismiss(model.ReasonTimedOut)
}

// requestDismiss is the single entry to Dismissing. The first caller to
// observe Presenting or Visible wins; everyone else gets false.
func (s *Session) requestDismiss(reason model.Reason) bool {
	now := s.deps.clock.Now()

	s.mu.Lock()
	switch s.state {
	case StateCreated:
		if s.pending != nil || reason == model.ReasonTimedOut {
			s.mu.Unlock()
			return false
		}
		s.pending = &reason
		s.mu.Unlock()
		return true
	case StatePresenting:
		if reason == model.ReasonTimedOut {
			s.mu.Unlock()
			return false
		}
	case StateVisible:
	default:
		s.mu.Unlock()
		return false
	}

	from := s.frameLocked(now)
	s.state = StateDismissing
	s.reason = reason
	timer, anim := s.timer, s.anim
	s.timer, s.anim = nil, nil

	// An interrupted enter animation exits from where it stopped.
	s.plan = transition.PlanExit(s.desc.DismissDirection, s.desc.Location, s.geometry, s.deps.exit)
	s.plan.From = from.Offset
	s.plan.FromOpacity = from.Opacity
	s.planStart = now
	plan := s.plan
	s.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if anim != nil {
		anim.Cancel()
	}

	s.deps.logger.Debug("dismissing toast", "toast_id", s.desc.ID, "reason", reason.String())
	s.deps.observer.OnDismissing(s, reason)

	if !s.deps.screens.Alive(s.desc.Screen) {
		s.ExitAnimationComplete()
		return true
	}

	h := s.deps.animator.Run(plan, func(finished bool) {
		if finished {
			s.ExitAnimationComplete()
		}
	})

	s.mu.Lock()
	if s.state == StateDismissing {
		s.anim = h
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()
	h.Cancel()
	return true
}

// ExitAnimationComplete moves Dismissing → Dismissed, unmounts the surface
// and invokes the completion callback. It reports whether the transition
// happened.
func (s *Session) ExitAnimationComplete() bool {
	s.mu.Lock()
	if s.state != StateDismissing {
		s.mu.Unlock()
		return false
	}
	s.state = StateDismissed
	anim := s.anim
	s.anim = nil
	reason := s.reason
	s.mu.Unlock()

	if anim != nil {
		anim.Cancel()
	}
	s.finish(reason)
	return true
}

// abort ends the session because its screen went away. No further
// animation runs.
func (s *Session) abort() {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	switch state {
	case StateDismissing:
		s.ExitAnimationComplete()
	case StateDismissed:
	default:
		s.requestDismiss(model.ReasonScreenClosed)
	}
}

func (s *Session) finish(reason model.Reason) {
	defer s.deps.onDismissed(s)

	s.shield("unmount", func() { s.deps.container.Unmount(s) })
	s.deps.observer.OnDismissed(s, reason)

	s.deps.logger.Debug("toast dismissed", "toast_id", s.desc.ID, "reason", reason.String())
	if s.desc.OnComplete != nil {
		s.shield("completion callback", func() { s.desc.OnComplete(reason) })
	}
}

// shield runs fn and logs a recovered panic instead of propagating it.
func (s *Session) shield(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.deps.logger.Error("recovered panic in "+what,
				"toast_id", s.desc.ID,
				"panic", fmt.Sprint(r),
			)
		}
	}()
	fn()
}
