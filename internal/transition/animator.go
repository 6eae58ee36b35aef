package transition

import (
	"sync"
	"time"

	"github.com/jmylchreest/toastui/internal/clock"
)

// Handle controls a running animation.
type Handle interface {
	// Cancel stops the animation early. The completion callback is invoked
	// with finished=false unless the animation already completed.
	Cancel()
	// Elapsed returns how long the animation has been running.
	Elapsed() time.Duration
}

// Animator runs plans and signals their completion.
type Animator interface {
	// Run starts the plan and calls done exactly once, with finished=true
	// when the plan ran to its end and false when it was cancelled.
	Run(plan Plan, done func(finished bool)) Handle
}

// ClockAnimator completes plans after their duration on a Clock. Hosts that
// render frames sample the plan themselves.
type ClockAnimator struct {
	clock clock.Clock
}

// NewClockAnimator creates an animator driven by c.
func NewClockAnimator(c clock.Clock) *ClockAnimator {
	if c == nil {
		c = clock.New()
	}
	return &ClockAnimator{clock: c}
}

// Run implements Animator.
func (a *ClockAnimator) Run(plan Plan, done func(finished bool)) Handle {
	h := &clockHandle{
		clock: a.clock,
		start: a.clock.Now(),
		done:  done,
	}
	h.mu.Lock()
	h.timer = a.clock.AfterFunc(plan.Duration, func() { h.complete(true) })
	h.mu.Unlock()
	return h
}

type clockHandle struct {
	clock clock.Clock
	start time.Time
	done  func(finished bool)

	mu       sync.Mutex
	timer    clock.Timer
	finished bool
}

func (h *clockHandle) complete(finished bool) {
	h.mu.Lock()
	if h.finished {
		h.mu.Unlock()
		return
	}
	h.finished = true
	timer := h.timer
	h.mu.Unlock()

	if !finished && timer != nil {
		timer.Stop()
	}
	if h.done != nil {
		h.done(finished)
	}
}

func (h *clockHandle) Cancel() {
	h.complete(false)
}

func (h *clockHandle) Elapsed() time.Duration {
	return h.clock.Now().Sub(h.start)
}
