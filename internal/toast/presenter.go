package toast

import (
	"log/slog"
	"math"
	"sync"

	"github.com/jmylchreest/toastui/internal/clock"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/textmeasure"
	"github.com/jmylchreest/toastui/internal/transition"
)

// Presenter serializes toasts: at most one session is active at a time and
// queued descriptors are presented in the order they were shown.
type Presenter struct {
	container Container
	screens   *ScreenRegistry
	logger    *slog.Logger

	mu              sync.Mutex
	opts            Options
	clock           clock.Clock
	animator        transition.Animator
	defaultAnimator bool
	measurer        Measurer
	observer        Observer

	queue      *Queue
	cancelled  map[string]struct{}
	presenting bool
	active     *Session
}

// NewPresenter creates a presenter mounting sessions on container.
// A nil registry creates an empty one.
func NewPresenter(container Container, screens *ScreenRegistry, opts Options, logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = slog.Default()
	}
	if screens == nil {
		screens = NewScreenRegistry()
	}
	c := clock.New()

	p := &Presenter{
		container:       container,
		screens:         screens,
		logger:          logger,
		opts:            opts.withDefaults(),
		clock:           c,
		animator:        transition.NewClockAnimator(c),
		defaultAnimator: true,
		measurer:        textmeasure.New(),
		observer:        NoopObserver{},
		queue:           NewQueue(),
		cancelled:       make(map[string]struct{}),
	}
	screens.OnClose(p.screenClosed)
	return p
}

// Screens returns the registry the presenter resolves screens through.
func (p *Presenter) Screens() *ScreenRegistry {
	return p.screens
}

// SetClock replaces the clock. The default animator follows it.
func (p *Presenter) SetClock(c clock.Clock) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = c
	if p.defaultAnimator {
		p.animator = transition.NewClockAnimator(c)
	}
}

// SetAnimator replaces the animator used for new sessions.
func (p *Presenter) SetAnimator(a transition.Animator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.animator = a
	p.defaultAnimator = false
}

// SetMeasurer replaces the text measurer used for geometry.
func (p *Presenter) SetMeasurer(m Measurer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.measurer = m
}

// SetObserver installs lifecycle observers.
func (p *Presenter) SetObserver(observers ...Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observer = NewMultiObserver(observers...)
}

// Options returns the current options.
func (p *Presenter) Options() Options {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts
}

// UpdateOptions applies new options to sessions created from now on.
func (p *Presenter) UpdateOptions(opts Options) {
	p.mu.Lock()
	p.opts = opts.withDefaults()
	p.mu.Unlock()

	p.logger.Debug("presenter options updated",
		"short", opts.ShortLength,
		"long", opts.LongLength,
	)
}

// Show enqueues d with the given length and presents it as soon as no other
// toast is active. It returns the ID the toast is tracked under.
func (p *Presenter) Show(d model.Descriptor, length model.Length) (string, error) {
	d.Length = length
	if err := d.Validate(); err != nil {
		return "", err
	}

	p.mu.Lock()
	if d.ID == "" || p.knownLocked(d.ID) {
		id, err := model.NewID()
		if err != nil {
			p.mu.Unlock()
			return "", err
		}
		d.ID = id
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = p.clock.Now()
	}
	p.queue.Enqueue(d)
	depth := p.queue.Len()
	obs := p.observer
	p.mu.Unlock()

	p.logger.Debug("queued toast",
		"toast_id", d.ID,
		"screen", d.Screen,
		"length", length.String(),
		"queue_size", depth,
	)
	obs.OnQueued(d)
	obs.OnQueueChanged(depth)

	p.tryAdvance()
	return d.ID, nil
}

// knownLocked reports whether id is queued or active.
func (p *Presenter) knownLocked(id string) bool {
	if p.active != nil && p.active.desc.ID == id {
		return true
	}
	_, ok := p.queue.Get(id)
	return ok
}

// tryAdvance presents the queue head if nothing is active. Cancelled
// descriptors and descriptors whose screen is gone are dropped.
func (p *Presenter) tryAdvance() {
	for {
		p.mu.Lock()
		if p.presenting || p.queue.Len() == 0 {
			p.mu.Unlock()
			return
		}
		d, _ := p.queue.Dequeue()
		depth := p.queue.Len()
		obs := p.observer

		if _, ok := p.cancelled[d.ID]; ok {
			delete(p.cancelled, d.ID)
			p.mu.Unlock()
			obs.OnQueueChanged(depth)
			continue
		}

		screen, ok := p.screens.Lookup(d.Screen)
		if !ok {
			p.mu.Unlock()
			p.logger.Debug("skipping toast for closed screen", "toast_id", d.ID, "screen", d.Screen)
			obs.OnQueueChanged(depth)
			p.skipped(obs, d, ErrScreenNotFound)
			continue
		}

		s := p.newSessionLocked(d, screen)
		p.presenting = true
		p.active = s
		p.mu.Unlock()
		obs.OnQueueChanged(depth)

		if err := p.container.Mount(s); err != nil {
			p.logger.Warn("failed to mount toast",
				"toast_id", d.ID,
				"screen", d.Screen,
				"error", err,
			)
			p.release(s)
			p.skipped(obs, d, err)
			continue
		}

		s.start()
		return
	}
}

// skipped reports a descriptor that left the queue without presenting.
func (p *Presenter) skipped(obs Observer, d model.Descriptor, err error) {
	obs.OnSkipped(d, err)
	if d.OnSkip == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("recovered panic in skip callback", "toast_id", d.ID, "panic", r)
		}
	}()
	d.OnSkip(err)
}

func (p *Presenter) newSessionLocked(d model.Descriptor, screen Screen) *Session {
	g := p.geometryLocked(d, screen.Bounds)
	length := d.Length.Resolve(p.opts.ShortLength, p.opts.LongLength)

	return newSession(d, g, length, sessionDeps{
		clock:       p.clock,
		animator:    p.animator,
		observer:    p.observer,
		container:   p.container,
		screens:     p.screens,
		logger:      p.logger,
		enter:       p.opts.Enter,
		exit:        p.opts.Exit,
		onDismissed: p.sessionDismissed,
	})
}

// geometryLocked sizes the surface: a fraction of the screen width, and the
// measured text height plus padding.
func (p *Presenter) geometryLocked(d model.Descriptor, bounds transition.Size) transition.Geometry {
	frac := d.Style.WidthFraction
	if frac == 0 {
		frac = p.opts.WidthFraction
	}
	width := bounds.Width * frac
	textWidth := math.Max(width-2*p.opts.Padding, 1)

	height := 2 * p.opts.Padding
	if d.Title != "" {
		height += p.measurer.MeasuredHeight(d.Title, d.Style.TitleFont(), textWidth)
	}
	if d.Message != "" {
		if d.Title != "" {
			height += p.opts.Spacing
		}
		height += p.measurer.MeasuredHeight(d.Message, d.Style.TextFont(), textWidth)
	}

	return transition.Geometry{
		Screen:  bounds,
		Surface: transition.Size{Width: width, Height: height},
		Margin:  p.opts.Margin,
	}
}

// release clears the active slot if s still holds it.
func (p *Presenter) release(s *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == s {
		p.active = nil
		p.presenting = false
	}
}

// sessionDismissed is the completion coordinator: it frees the slot and
// moves the queue along.
func (p *Presenter) sessionDismissed(s *Session) {
	p.release(s)
	p.tryAdvance()
}

func (p *Presenter) screenClosed(id model.ScreenID) {
	p.mu.Lock()
	s := p.active
	p.mu.Unlock()

	if s != nil && s.desc.Screen == id {
		p.logger.Debug("screen closed under active toast", "toast_id", s.desc.ID, "screen", id)
		s.abort()
	}
}

// Dismiss dismisses the active toast if it belongs to screen.
func (p *Presenter) Dismiss(screen model.ScreenID) bool {
	p.mu.Lock()
	s := p.active
	p.mu.Unlock()

	if s == nil || s.desc.Screen != screen {
		return false
	}
	return s.Dismiss()
}

// DismissActive dismisses the active toast on any screen.
func (p *Presenter) DismissActive() bool {
	p.mu.Lock()
	s := p.active
	p.mu.Unlock()

	if s == nil {
		return false
	}
	return s.Dismiss()
}

// Cancel removes a toast by ID. An active toast is dismissed; a queued one
// is dropped and its completion callback runs with ReasonDismissed.
func (p *Presenter) Cancel(id string) bool {
	p.mu.Lock()
	if s := p.active; s != nil && s.desc.ID == id {
		p.mu.Unlock()
		return s.Dismiss()
	}
	d, ok := p.queue.Get(id)
	if !ok {
		p.mu.Unlock()
		return false
	}
	if _, done := p.cancelled[id]; done {
		p.mu.Unlock()
		return false
	}
	p.cancelled[id] = struct{}{}
	obs := p.observer
	p.mu.Unlock()

	p.logger.Debug("cancelled queued toast", "toast_id", id)
	obs.OnCancelled(d)
	if d.OnComplete != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					p.logger.Error("recovered panic in completion callback", "toast_id", id, "panic", r)
				}
			}()
			d.OnComplete(model.ReasonDismissed)
		}()
	}
	return true
}

// Clear cancels every queued toast and dismisses the active one. It returns
// how many toasts were affected.
func (p *Presenter) Clear() int {
	p.mu.Lock()
	queued := p.queue.Snapshot()
	p.mu.Unlock()

	n := 0
	for _, d := range queued {
		if p.Cancel(d.ID) {
			n++
		}
	}
	if p.DismissActive() {
		n++
	}
	return n
}

// Active returns the active session, or nil.
func (p *Presenter) Active() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Presenting reports whether a toast occupies the active slot.
func (p *Presenter) Presenting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.presenting
}

// QueueLen returns the number of queued toasts, including cancelled ones
// not yet drained.
func (p *Presenter) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}
