package daemon

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/clock"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/dbus"
)

func newTestNotifier() (*InternalNotifier, *clock.Fake, *[]*dbus.Notification) {
	clk := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	sent := &[]*dbus.Notification{}

	n := NewInternalNotifier(discard())
	n.SetClock(clk)
	n.SetNotifyHandler(func(notification *dbus.Notification) uint32 {
		*sent = append(*sent, notification)
		return uint32(len(*sent))
	})
	return n, clk, sent
}

func TestInternalNotifier_RateLimit(t *testing.T) {
	n, clk, sent := newTestNotifier()

	assert.True(t, n.Notify("k", "first", "", NotificationLevelInfo))
	assert.False(t, n.Notify("k", "again", "", NotificationLevelInfo))
	assert.True(t, n.Notify("other", "different key", "", NotificationLevelInfo))

	clk.Advance(DefaultMinInterval)
	assert.True(t, n.Notify("k", "later", "", NotificationLevelInfo))
	assert.Len(t, *sent, 3)
}

func TestInternalNotifier_Levels(t *testing.T) {
	n, _, sent := newTestNotifier()

	n.Notify("a", "info", "", NotificationLevelInfo)
	n.Notify("b", "warning", "", NotificationLevelWarning)
	n.Notify("c", "error", "", NotificationLevelError)
	require.Len(t, *sent, 3)

	assert.Equal(t, dbus.UrgencyLow, (*sent)[0].Urgency())
	assert.Equal(t, "info", (*sent)[0].StyleName())
	assert.Equal(t, dbus.UrgencyNormal, (*sent)[1].Urgency())
	assert.Equal(t, "warning", (*sent)[1].StyleName())
	assert.Equal(t, dbus.UrgencyCritical, (*sent)[2].Urgency())
	assert.Equal(t, "dialog-error", (*sent)[2].AppIcon)
	for _, s := range *sent {
		assert.True(t, s.Transient())
		assert.Equal(t, "toastuid", s.AppName)
	}
}

func TestInternalNotifier_DisabledOrUnwired(t *testing.T) {
	n, _, sent := newTestNotifier()
	n.SetEnabled(false)
	assert.False(t, n.Notify("k", "x", "", NotificationLevelInfo))
	assert.Empty(t, *sent)

	bare := NewInternalNotifier(discard())
	assert.False(t, bare.Notify("k", "x", "", NotificationLevelInfo))
}

func TestInternalNotifier_ThroughBridge(t *testing.T) {
	h := newBridgeHarness(t)
	server := dbus.NewNotificationServer(discard())
	server.SetNotifyHandler(h.bridge.HandleNotify)

	n := NewInternalNotifier(discard())
	n.SetNotifyHandler(server.NotifyInternal)
	n.NotifyConfigError(errors.New("bad curve"))

	active := h.presenter.Active()
	require.NotNil(t, active)
	assert.Equal(t, "Configuration Error", active.Descriptor().Title)
	assert.Contains(t, active.Descriptor().Message, "bad curve")
	assert.Equal(t, "warning", active.Descriptor().Style.Name)
}

func TestReloader_Apply(t *testing.T) {
	h := newBridgeHarness(t)
	n, _, sent := newTestNotifier()

	initial := config.DefaultDaemonConfig()
	r := NewReloader(initial, n, discard())
	r.Presenter(h.presenter)
	r.OnApply(h.bridge.UpdateConfig)

	next := config.DefaultDaemonConfig()
	next.Durations.Short = config.Duration(5 * time.Second)
	next.Display.Location = "bottom"
	r.Apply(next)

	assert.Same(t, next, r.Current())
	assert.Equal(t, 5*time.Second, h.presenter.Options().ShortLength)
	require.Len(t, *sent, 1)
	assert.Equal(t, "Configuration Reloaded", (*sent)[0].Summary)

	r.Fail(errors.New("broken"))
	assert.Same(t, next, r.Current())
	require.Len(t, *sent, 2)
	assert.Equal(t, "Configuration Error", (*sent)[1].Summary)
}
