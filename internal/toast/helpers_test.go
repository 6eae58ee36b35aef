package toast

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/clock"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/transition"
)

var errMountFailed = errors.New("mount failed")

type fakeContainer struct {
	mu        sync.Mutex
	mounted   []string
	unmounted []string
	failIDs   map[string]bool
	onMount   func(*Session)
}

func newFakeContainer() *fakeContainer {
	return &fakeContainer{failIDs: make(map[string]bool)}
}

func (c *fakeContainer) Mount(s *Session) error {
	c.mu.Lock()
	if c.failIDs[s.ID()] {
		c.mu.Unlock()
		return errMountFailed
	}
	c.mounted = append(c.mounted, s.ID())
	hook := c.onMount
	c.mu.Unlock()

	if hook != nil {
		hook(s)
	}
	return nil
}

func (c *fakeContainer) Unmount(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unmounted = append(c.unmounted, s.ID())
}

func (c *fakeContainer) Mounted() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.mounted...)
}

func (c *fakeContainer) Unmounted() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.unmounted...)
}

// recorder logs lifecycle events as "event:message[:reason]".
type recorder struct {
	NoopObserver
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) OnSkipped(d model.Descriptor, _ error) { r.add("skipped:%s", d.Message) }
func (r *recorder) OnCancelled(d model.Descriptor)        { r.add("cancelled:%s", d.Message) }
func (r *recorder) OnPresenting(s *Session)               { r.add("presenting:%s", s.desc.Message) }
func (r *recorder) OnVisible(s *Session)                  { r.add("visible:%s", s.desc.Message) }
func (r *recorder) OnDismissing(s *Session, reason model.Reason) {
	r.add("dismissing:%s:%s", s.desc.Message, reason)
}
func (r *recorder) OnDismissed(s *Session, reason model.Reason) {
	r.add("dismissed:%s:%s", s.desc.Message, reason)
}

// completions collects completion callback invocations.
type completions struct {
	mu    sync.Mutex
	calls map[string][]model.Reason
}

func newCompletions() *completions {
	return &completions{calls: make(map[string][]model.Reason)}
}

func (c *completions) For(name string) model.CompletionFunc {
	return func(reason model.Reason) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.calls[name] = append(c.calls[name], reason)
	}
}

func (c *completions) Get(name string) []model.Reason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Reason(nil), c.calls[name]...)
}

type harness struct {
	clock     *clock.Fake
	container *fakeContainer
	screens   *ScreenRegistry
	screen    model.ScreenID
	presenter *Presenter
	recorder  *recorder
	done      *completions
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		clock:     clock.NewFake(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)),
		container: newFakeContainer(),
		screens:   NewScreenRegistry(),
		recorder:  &recorder{},
		done:      newCompletions(),
	}
	screen, err := h.screens.Register("main", transition.Size{Width: 400, Height: 800})
	require.NoError(t, err)
	h.screen = screen

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.presenter = NewPresenter(h.container, h.screens, DefaultOptions(), logger)
	h.presenter.SetClock(h.clock)
	h.presenter.SetMeasurer(MeasureFunc(func(string, model.Font, float64) float64 { return 20 }))
	h.presenter.SetObserver(h.recorder)
	return h
}

// show enqueues a toast whose completion is recorded under its message.
func (h *harness) show(t *testing.T, message string, length model.Length, opts ...model.Option) string {
	t.Helper()
	return h.showOn(t, h.screen, message, length, opts...)
}

func (h *harness) showOn(t *testing.T, screen model.ScreenID, message string, length model.Length, opts ...model.Option) string {
	t.Helper()
	opts = append(opts, model.WithCompletion(h.done.For(message)))
	d, err := model.NewDescriptor(screen, message, opts...)
	require.NoError(t, err)
	id, err := h.presenter.Show(d, length)
	require.NoError(t, err)
	return id
}

func (h *harness) activeMessage() string {
	s := h.presenter.Active()
	if s == nil {
		return ""
	}
	return s.Descriptor().Message
}

func (h *harness) activeState() State {
	s := h.presenter.Active()
	if s == nil {
		return StateDismissed
	}
	return s.State()
}
