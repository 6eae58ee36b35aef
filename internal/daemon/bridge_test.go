package daemon

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	godbus "github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/clock"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/transition"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopContainer struct{}

func (nopContainer) Mount(*toast.Session) error { return nil }
func (nopContainer) Unmount(*toast.Session)     {}

type fakeSignaller struct {
	mu      sync.Mutex
	closed  []string
	actions []string
}

func (f *fakeSignaller) CloseWithReason(id uint32, reason dbus.CloseReason) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, fmt.Sprintf("%d:%s", id, reason))
	return nil
}

func (f *fakeSignaller) EmitActionInvoked(id uint32, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, fmt.Sprintf("%d:%s", id, key))
	return nil
}

func (f *fakeSignaller) Closed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.closed...)
}

func (f *fakeSignaller) Actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.actions...)
}

type bridgeHarness struct {
	clock     *clock.Fake
	screens   *toast.ScreenRegistry
	screen    model.ScreenID
	presenter *toast.Presenter
	signals   *fakeSignaller
	bridge    *Bridge
}

func newBridgeHarness(t *testing.T) *bridgeHarness {
	t.Helper()
	h := &bridgeHarness{
		clock:   clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		screens: toast.NewScreenRegistry(),
		signals: &fakeSignaller{},
	}
	screen, err := h.screens.Register("main", transition.Size{Width: 1920, Height: 1080})
	require.NoError(t, err)
	h.screen = screen

	h.presenter = toast.NewPresenter(nopContainer{}, h.screens, toast.DefaultOptions(), discard())
	h.presenter.SetClock(h.clock)
	h.bridge = NewBridge(h.presenter, h.signals, config.DefaultDaemonConfig(), discard())
	h.bridge.SetScreen(screen)
	h.presenter.SetObserver(h.bridge)
	return h
}

// lifetime is how long a short toast takes from presenting to dismissed.
const lifetime = transition.DefaultEnterDuration + model.DefaultShortLength + transition.DefaultExitDuration

func TestBridge_TimeoutReportsExpired(t *testing.T) {
	h := newBridgeHarness(t)

	h.bridge.HandleNotify(&dbus.Notification{AppName: "app", Summary: "Hello", ExpireTimeout: -1}, 1)

	state, ok := h.bridge.States().GetByDBusID(1)
	require.True(t, ok)
	assert.Equal(t, DisplayStatusActive, state.Status)

	h.clock.Advance(lifetime)
	assert.Equal(t, []string{"1:expired"}, h.signals.Closed())
	assert.Equal(t, 0, h.bridge.States().Count())
}

func TestBridge_TapInvokesDefaultAction(t *testing.T) {
	h := newBridgeHarness(t)

	h.bridge.HandleNotify(&dbus.Notification{
		Summary: "Mail",
		Actions: []string{"default", "Open"},
	}, 7)
	require.NotNil(t, h.presenter.Active())
	assert.True(t, h.presenter.Active().Tap())

	h.clock.Advance(transition.DefaultExitDuration)
	assert.Equal(t, []string{"7:default"}, h.signals.Actions())
	assert.Equal(t, []string{"7:dismissed"}, h.signals.Closed())
}

func TestBridge_TapWithoutActionOnlyCloses(t *testing.T) {
	h := newBridgeHarness(t)

	h.bridge.HandleNotify(&dbus.Notification{Summary: "Plain", ExpireTimeout: -1}, 3)
	h.presenter.Active().Tap()
	h.clock.Advance(transition.DefaultExitDuration)

	assert.Empty(t, h.signals.Actions())
	assert.Equal(t, []string{"3:dismissed"}, h.signals.Closed())
}

func TestBridge_CloseQueuedNotification(t *testing.T) {
	h := newBridgeHarness(t)

	h.bridge.HandleNotify(&dbus.Notification{Summary: "first", ExpireTimeout: -1}, 1)
	h.bridge.HandleNotify(&dbus.Notification{Summary: "second", ExpireTimeout: -1}, 2)

	state, ok := h.bridge.States().GetByDBusID(2)
	require.True(t, ok)
	assert.Equal(t, DisplayStatusPending, state.Status)

	h.bridge.HandleClose(2)
	assert.Equal(t, []string{"2:closed"}, h.signals.Closed())

	// Closing again, or closing an unknown ID, does nothing.
	h.bridge.HandleClose(2)
	h.bridge.HandleClose(99)
	assert.Len(t, h.signals.Closed(), 1)

	h.clock.Advance(lifetime)
	assert.Equal(t, []string{"2:closed", "1:expired"}, h.signals.Closed())
	assert.Equal(t, 0, h.presenter.QueueLen())
}

func TestBridge_ReplacementKeepsWireID(t *testing.T) {
	h := newBridgeHarness(t)

	h.bridge.HandleNotify(&dbus.Notification{Summary: "volume 10%", ExpireTimeout: -1}, 5)
	first := h.presenter.Active()
	require.NotNil(t, first)

	h.bridge.HandleNotify(&dbus.Notification{Summary: "volume 20%", ReplacesID: 5, ExpireTimeout: -1}, 5)
	assert.Equal(t, toast.StateDismissing, first.State())

	h.clock.Advance(transition.DefaultExitDuration)
	assert.Empty(t, h.signals.Closed(), "the replaced toast does not close the wire ID")

	active := h.presenter.Active()
	require.NotNil(t, active)
	assert.Equal(t, "volume 20%", active.Descriptor().Title)

	h.clock.Advance(lifetime)
	assert.Equal(t, []string{"5:expired"}, h.signals.Closed())
}

func TestBridge_ScreenClosedReportsUndefined(t *testing.T) {
	h := newBridgeHarness(t)

	h.bridge.HandleNotify(&dbus.Notification{Summary: "active", ExpireTimeout: -1}, 1)
	h.bridge.HandleNotify(&dbus.Notification{Summary: "queued", ExpireTimeout: -1}, 2)

	h.screens.Close(h.screen)
	assert.Equal(t, []string{"1:undefined", "2:undefined"}, h.signals.Closed())
	assert.Equal(t, 0, h.bridge.States().Count())
}

func TestBridge_NoScreen(t *testing.T) {
	h := newBridgeHarness(t)
	h.bridge.SetScreen("")

	h.bridge.HandleNotify(&dbus.Notification{Summary: "lost", ExpireTimeout: -1}, 4)
	assert.Equal(t, []string{"4:undefined"}, h.signals.Closed())
	assert.Nil(t, h.presenter.Active())
}

func TestBridge_Descriptor(t *testing.T) {
	h := newBridgeHarness(t)

	d, err := h.bridge.Descriptor(&dbus.Notification{Summary: "Title", Body: "Body", ExpireTimeout: -1})
	require.NoError(t, err)
	assert.Equal(t, "Title", d.Title)
	assert.Equal(t, "Body", d.Message)
	assert.Equal(t, h.screen, d.Screen)
	assert.Equal(t, model.StyleInfo.Name, d.Style.Name)
	assert.Equal(t, model.LocationTop, d.Location)
	assert.Equal(t, model.LengthShort, d.Length)

	d, err = h.bridge.Descriptor(&dbus.Notification{
		Summary: "Disk full",
		Hints: map[string]godbus.Variant{
			"urgency":         dbus.UrgencyHint(dbus.UrgencyCritical),
			"suppress-sound":  godbus.MakeVariant(true),
			dbus.HintLocation: godbus.MakeVariant("bottom"),
			dbus.HintPresent:  godbus.MakeVariant("left"),
			dbus.HintDismiss:  godbus.MakeVariant("fade"),
		},
		ExpireTimeout: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StyleError.Name, d.Style.Name)
	assert.Equal(t, model.SoundNone, d.Style.Sound)
	assert.Equal(t, model.LocationBottom, d.Location)
	assert.Equal(t, model.DirectionLeft, d.PresentDirection)
	assert.Equal(t, model.DirectionFade, d.DismissDirection)
	assert.Equal(t, model.LengthLong, d.Length)

	d, err = h.bridge.Descriptor(&dbus.Notification{
		Summary: "Saved",
		Hints: map[string]godbus.Variant{
			dbus.HintStyle: godbus.MakeVariant("success"),
			"sound-file":   godbus.MakeVariant("/tmp/ding.wav"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StyleSuccess.Name, d.Style.Name)
	assert.Equal(t, "/tmp/ding.wav", d.Style.Sound)

	_, err = h.bridge.Descriptor(&dbus.Notification{})
	assert.ErrorIs(t, err, model.ErrEmptyMessage)
}

func TestBridge_UpdateConfig(t *testing.T) {
	h := newBridgeHarness(t)

	cfg := config.DefaultDaemonConfig()
	cfg.Display.Location = "bottom"
	cfg.Display.Style = "warning"
	h.bridge.UpdateConfig(cfg)

	d, err := h.bridge.Descriptor(&dbus.Notification{Summary: "x", ExpireTimeout: -1})
	require.NoError(t, err)
	assert.Equal(t, model.LocationBottom, d.Location)
	assert.Equal(t, model.StyleWarning.Name, d.Style.Name)
}

func TestLengthFor(t *testing.T) {
	critical := map[string]godbus.Variant{"urgency": dbus.UrgencyHint(dbus.UrgencyCritical)}

	tests := []struct {
		name     string
		n        *dbus.Notification
		expected model.Length
	}{
		{"server default", &dbus.Notification{ExpireTimeout: -1}, model.LengthShort},
		{"critical default", &dbus.Notification{ExpireTimeout: -1, Hints: critical}, model.LengthLong},
		{"explicit", &dbus.Notification{ExpireTimeout: 1500}, model.Custom(1500 * time.Millisecond)},
		{"never expire", &dbus.Notification{ExpireTimeout: 0}, model.LengthLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LengthFor(tt.n))
		})
	}
}
