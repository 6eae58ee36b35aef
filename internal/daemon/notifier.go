package daemon

import (
	"log/slog"
	"sync"
	"time"

	godbus "github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastui/internal/clock"
	"github.com/jmylchreest/toastui/internal/dbus"
)

// NotificationLevel indicates the urgency/severity of an internal notification.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages (low urgency).
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is for warning messages (normal urgency).
	NotificationLevelWarning
	// NotificationLevelError is for error messages (critical urgency).
	NotificationLevelError
)

// DefaultMinInterval is how long the same internal notification is suppressed.
const DefaultMinInterval = 5 * time.Second

// InternalNotifier raises toasts about toastuid's own events.
// Notifications sharing a key are rate limited.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	clock  clock.Clock

	notifyHandler func(notification *dbus.Notification) uint32

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration

	enabled bool
}

// NewInternalNotifier creates a new InternalNotifier.
func NewInternalNotifier(logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		clock:          clock.New(),
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    DefaultMinInterval,
		enabled:        true,
	}
}

// SetNotifyHandler sets the function to call when creating a notification.
// This should be the same path D-Bus notifications take.
func (n *InternalNotifier) SetNotifyHandler(handler func(notification *dbus.Notification) uint32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifyHandler = handler
}

// SetClock replaces the clock used for rate limiting.
func (n *InternalNotifier) SetClock(c clock.Clock) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clock = c
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between duplicate notifications.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify sends an internal notification if not rate-limited.
// It reports whether the notification was sent.
func (n *InternalNotifier) Notify(key, summary, body string, level NotificationLevel) bool {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return false
	}
	handler := n.notifyHandler
	if handler == nil {
		n.mu.Unlock()
		n.logger.Debug("internal notification skipped: no handler", "summary", summary)
		return false
	}

	now := n.clock.Now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal notification rate-limited", "key", key, "summary", summary)
		return false
	}
	n.lastNotifyTime[key] = now
	n.mu.Unlock()

	urgency := dbus.UrgencyNormal
	icon := "dialog-warning"
	style := "warning"
	switch level {
	case NotificationLevelInfo:
		urgency, icon, style = dbus.UrgencyLow, "dialog-information", "info"
	case NotificationLevelError:
		urgency, icon, style = dbus.UrgencyCritical, "dialog-error", "error"
	}

	notification := &dbus.Notification{
		AppName: "toastuid",
		AppIcon: icon,
		Summary: summary,
		Body:    body,
		Hints: map[string]godbus.Variant{
			"urgency":      dbus.UrgencyHint(urgency),
			"category":     godbus.MakeVariant("device"),
			"transient":    godbus.MakeVariant(true),
			dbus.HintStyle: godbus.MakeVariant(style),
		},
		ExpireTimeout: -1,
	}

	n.logger.Debug("sending internal notification", "key", key, "summary", summary, "level", level)
	handler(notification)
	return true
}

// NotifyConfigReloaded sends a notification about config being reloaded.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify(
		"config-reload",
		"Configuration Reloaded",
		"toastuid configuration has been successfully reloaded.",
		NotificationLevelInfo,
	)
}

// NotifyConfigError sends a notification about config validation error.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify(
		"config-error",
		"Configuration Error",
		"Failed to reload configuration: "+err.Error(),
		NotificationLevelWarning,
	)
}

// NotifyStartup sends a notification that the daemon has started.
func (n *InternalNotifier) NotifyStartup(version string) {
	n.Notify(
		"startup",
		"toastuid Started",
		"Toast daemon "+version+" is now running.",
		NotificationLevelInfo,
	)
}

// NotifyAudioError sends a notification about audio playback error.
func (n *InternalNotifier) NotifyAudioError(err error) {
	n.Notify(
		"audio-error",
		"Audio Error",
		"Failed to play notification sound: "+err.Error(),
		NotificationLevelWarning,
	)
}

// NotifyScreenLost sends a notification when the daemon screen goes away.
func (n *InternalNotifier) NotifyScreenLost(name string) {
	n.Notify(
		"screen-lost",
		"Screen Disconnected",
		"Toasts moved off "+name+".",
		NotificationLevelError,
	)
}
