package daemon

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// ErrNoScreen is returned when a notification arrives before any screen
// has been registered.
var ErrNoScreen = errors.New("no screen to present on")

// Signaller reports notification outcomes back to the sender.
type Signaller interface {
	CloseWithReason(id uint32, reason dbus.CloseReason) error
	EmitActionInvoked(id uint32, actionKey string) error
}

// Bridge turns D-Bus notifications into toasts on the daemon screen and
// reports their outcome as NotificationClosed signals. It implements
// toast.Observer to follow pending → active transitions.
type Bridge struct {
	toast.NoopObserver

	presenter *toast.Presenter
	signals   Signaller
	states    *DisplayStateManager
	logger    *slog.Logger

	mu     sync.RWMutex
	screen model.ScreenID
	cfg    *config.DaemonConfig
}

var _ toast.Observer = (*Bridge)(nil)

// NewBridge creates a bridge presenting on p.
func NewBridge(p *toast.Presenter, signals Signaller, cfg *config.DaemonConfig, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}
	return &Bridge{
		presenter: p,
		signals:   signals,
		states:    NewDisplayStateManager(),
		logger:    logger,
		cfg:       cfg,
	}
}

// States returns the ID mapping.
func (b *Bridge) States() *DisplayStateManager {
	return b.states
}

// SetScreen selects the screen new notifications are presented on.
func (b *Bridge) SetScreen(id model.ScreenID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.screen = id
}

// Screen returns the current target screen.
func (b *Bridge) Screen() model.ScreenID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.screen
}

// UpdateConfig applies descriptor defaults to notifications received from now on.
func (b *Bridge) UpdateConfig(cfg *config.DaemonConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg = cfg
}

// Descriptor builds the toast for a notification. Hints override the
// configured display defaults.
func (b *Bridge) Descriptor(n *dbus.Notification) (model.Descriptor, error) {
	b.mu.RLock()
	screen, cfg := b.screen, b.cfg
	b.mu.RUnlock()

	if screen == "" {
		return model.Descriptor{}, ErrNoScreen
	}

	opts := cfg.DescriptorOptions()
	opts = append(opts,
		model.WithTitle(n.Summary),
		model.WithStyle(b.styleFor(n, cfg)),
		model.WithLength(LengthFor(n)),
	)
	if loc, ok := n.Location(); ok {
		opts = append(opts, model.WithLocation(loc))
	}
	if present, dismiss, ok := n.Directions(); ok {
		opts = append(opts, model.WithDirections(present, dismiss))
	}
	return model.NewDescriptor(screen, n.Body, opts...)
}

func (b *Bridge) styleFor(n *dbus.Notification, cfg *config.DaemonConfig) model.Style {
	style, ok := model.StyleByName(n.StyleName())
	if !ok {
		switch n.Urgency() {
		case dbus.UrgencyCritical:
			style = model.StyleError
		default:
			style, _ = model.StyleByName(cfg.Display.Style)
		}
	}
	if f := n.SoundFile(); f != "" {
		style.Sound = f
	}
	if n.SuppressSound() {
		style.Sound = model.SoundNone
	}
	return style
}

// LengthFor maps expire_timeout onto a length policy: -1 uses the short
// default (long for critical urgency), a positive value is taken in
// milliseconds, and 0 ("never expire") keeps the toast up for the long length.
func LengthFor(n *dbus.Notification) model.Length {
	switch {
	case n.ExpireTimeout > 0:
		return model.Custom(time.Duration(n.ExpireTimeout) * time.Millisecond)
	case n.ExpireTimeout == 0:
		return model.LengthLong
	case n.Urgency() == dbus.UrgencyCritical:
		return model.LengthLong
	default:
		return model.LengthShort
	}
}

// HandleNotify queues a notification received with the given wire ID.
// A notification replacing a tracked ID cancels the toast it replaces.
func (b *Bridge) HandleNotify(n *dbus.Notification, id uint32) {
	d, err := b.Descriptor(n)
	if err != nil {
		b.logger.Warn("dropping notification", "dbus_id", id, "app_name", n.AppName, "error", err)
		b.report(id, dbus.CloseReasonUndefined)
		return
	}
	d.OnComplete = b.completion(d.ID, id)

	replaced := b.states.Register(d.ID, id, n.HasAction("default"))

	if _, err := b.presenter.Show(d, d.Length); err != nil {
		b.logger.Warn("failed to queue notification", "dbus_id", id, "error", err)
		b.states.Finish(d.ID, DisplayStatusClosed)
		b.report(id, dbus.CloseReasonUndefined)
		return
	}
	b.logger.Debug("notification queued",
		"dbus_id", id,
		"toast_id", d.ID,
		"app_name", n.AppName,
		"length", d.Length.String(),
	)

	if replaced != "" {
		b.logger.Debug("notification replaced", "dbus_id", id, "toast_id", replaced)
		b.presenter.Cancel(replaced)
	}
}

// HandleClose cancels the toast for a CloseNotification request.
func (b *Bridge) HandleClose(id uint32) {
	toastID, ok := b.states.ToastIDByDBusID(id)
	if !ok {
		return
	}
	if !b.presenter.Cancel(toastID) {
		b.logger.Debug("close requested for finishing toast", "dbus_id", id, "toast_id", toastID)
	}
}

func (b *Bridge) completion(toastID string, dbusID uint32) model.CompletionFunc {
	return func(reason model.Reason) {
		state, owner := b.states.Finish(toastID, statusFor(reason))
		if !owner {
			return
		}
		if reason == model.ReasonTapped && state.HasDefault && b.signals != nil {
			if err := b.signals.EmitActionInvoked(dbusID, "default"); err != nil {
				b.logger.Debug("failed to emit ActionInvoked", "dbus_id", dbusID, "error", err)
			}
		}
		b.report(dbusID, dbus.CloseReasonFor(reason))
	}
}

func (b *Bridge) report(id uint32, reason dbus.CloseReason) {
	if b.signals == nil {
		return
	}
	if err := b.signals.CloseWithReason(id, reason); err != nil {
		b.logger.Debug("failed to emit NotificationClosed", "dbus_id", id, "error", err)
	}
}

func statusFor(reason model.Reason) DisplayStatus {
	switch reason {
	case model.ReasonTimedOut:
		return DisplayStatusExpired
	case model.ReasonTapped:
		return DisplayStatusDismissed
	default:
		return DisplayStatusClosed
	}
}

// OnPresenting marks the notification active.
func (b *Bridge) OnPresenting(s *toast.Session) {
	b.states.SetStatus(s.ID(), DisplayStatusActive)
}

// OnSkipped closes notifications that could not be presented. Skipped
// toasts never run their completion callback.
func (b *Bridge) OnSkipped(d model.Descriptor, _ error) {
	state, owner := b.states.Finish(d.ID, DisplayStatusClosed)
	if owner {
		b.report(state.DBusID, dbus.CloseReasonUndefined)
	}
}
