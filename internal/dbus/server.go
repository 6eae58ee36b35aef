package dbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// DBusInterface is the notification interface name.
	DBusInterface = "org.freedesktop.Notifications"
	// DBusPath is the notification object path.
	DBusPath = "/org/freedesktop/Notifications"
	// DBusBusName is the bus name to claim.
	DBusBusName = "org.freedesktop.Notifications"
)

var errAlreadyRunning = errors.New("notification server already running")

// NotificationHandler turns a received notification into a toast. id is the
// wire ID the sender was given.
type NotificationHandler func(notification *Notification, id uint32)

// CloseHandler cancels the toast behind an open wire ID.
type CloseHandler func(id uint32)

// NotificationServer owns org.freedesktop.Notifications on the session bus
// and hands every notification to the toast presenter.
//
// A wire ID is open from Notify until CloseWithReason reports how its toast
// ended; NotificationClosed is emitted exactly once per ID.
type NotificationServer struct {
	logger *slog.Logger

	mu       sync.Mutex
	conn     *dbus.Conn
	info     ServerInfo
	onNotify NotificationHandler
	onClose  CloseHandler
	open     map[uint32]struct{}
	lastID   uint32
	running  bool
}

// NewNotificationServer creates a server that is not yet on the bus.
func NewNotificationServer(logger *slog.Logger) *NotificationServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationServer{
		logger: logger,
		info:   DefaultServerInfo(),
		open:   make(map[uint32]struct{}),
	}
}

// SetNotifyHandler sets where incoming notifications go.
func (s *NotificationServer) SetNotifyHandler(handler NotificationHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onNotify = handler
}

// SetCloseHandler sets the handler for CloseNotification on open IDs.
func (s *NotificationServer) SetCloseHandler(handler CloseHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = handler
}

// SetServerInfo sets what GetServerInformation reports.
func (s *NotificationServer) SetServerInfo(info ServerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
}

// Start claims the bus name on the session bus.
func (s *NotificationServer) Start() error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return s.StartOn(conn)
}

// StartOn exports the interface and its introspection data on conn, then
// claims the bus name, replacing a running notification daemon if it allows.
func (s *NotificationServer) StartOn(conn *dbus.Conn) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if running {
		return errAlreadyRunning
	}

	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export %s: %w", DBusInterface, err)
	}
	if err := conn.Export(introspect.NewIntrospectable(introspection()), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspection: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s is owned by another notification daemon", DBusBusName)
	}

	s.mu.Lock()
	s.conn = conn
	s.running = true
	s.mu.Unlock()

	s.logger.Info("claimed notification bus name", "name", DBusBusName, "path", DBusPath)
	return nil
}

// Stop gives the bus name back. Open IDs are left to the presenter, which
// still reports their outcome while the connection lives.
func (s *NotificationServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(DBusBusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
	}
	s.logger.Info("released notification bus name", "open", len(s.open))
	return nil
}

// GetCapabilities is the D-Bus method GetCapabilities() -> as.
func (s *NotificationServer) GetCapabilities() ([]string, *dbus.Error) {
	return ServerCapabilities, nil
}

// GetServerInformation is the D-Bus method GetServerInformation() -> (ssss).
func (s *NotificationServer) GetServerInformation() (string, string, string, string, *dbus.Error) {
	s.mu.Lock()
	info := s.info
	s.mu.Unlock()
	return info.Name, info.Vendor, info.Version, info.SpecVersion, nil
}

// Notify is the D-Bus method Notify(susssasa{sv}i) -> u. A replaces_id that
// is still open keeps its wire ID; any other value gets a fresh one.
func (s *NotificationServer) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	n := &Notification{
		AppName:       appName,
		ReplacesID:    replacesID,
		AppIcon:       appIcon,
		Summary:       summary,
		Body:          body,
		Actions:       actions,
		Hints:         hints,
		ExpireTimeout: expireTimeout,
	}
	id := s.deliver(n, replacesID)

	s.logger.Debug("notification received",
		"app_name", appName,
		"replaces_id", replacesID,
		"id", id,
		"expire_timeout", expireTimeout,
	)
	return id, nil
}

// NotifyInternal shows a notification raised by the daemon itself.
func (s *NotificationServer) NotifyInternal(notification *Notification) uint32 {
	return s.deliver(notification, 0)
}

// deliver opens a wire ID for n and passes it to the notify handler.
func (s *NotificationServer) deliver(n *Notification, replacesID uint32) uint32 {
	s.mu.Lock()
	id := replacesID
	if _, ok := s.open[id]; id == 0 || !ok {
		s.lastID++
		if s.lastID == 0 {
			s.lastID = 1
		}
		id = s.lastID
	}
	s.open[id] = struct{}{}
	handler := s.onNotify
	s.mu.Unlock()

	if handler != nil {
		handler(n, id)
	}
	return id
}

// CloseNotification is the D-Bus method CloseNotification(u). Unknown IDs
// are ignored; the outcome is reported later through CloseWithReason.
func (s *NotificationServer) CloseNotification(id uint32) *dbus.Error {
	s.mu.Lock()
	_, ok := s.open[id]
	handler := s.onClose
	s.mu.Unlock()

	s.logger.Debug("close requested", "id", id, "open", ok)
	if ok && handler != nil {
		handler(id)
	}
	return nil
}

// IsActive reports whether id is open.
func (s *NotificationServer) IsActive(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.open[id]
	return ok
}

// markClosed releases id and reports whether it was open.
func (s *NotificationServer) markClosed(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.open[id]; !ok {
		return false
	}
	delete(s.open, id)
	return true
}

func in(name, sig string) introspect.Arg {
	return introspect.Arg{Name: name, Type: sig, Direction: "in"}
}

func out(name, sig string) introspect.Arg {
	return introspect.Arg{Name: name, Type: sig, Direction: "out"}
}

func introspection() *introspect.Node {
	return &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name: DBusInterface,
				Methods: []introspect.Method{
					{Name: "GetCapabilities", Args: []introspect.Arg{out("capabilities", "as")}},
					{Name: "GetServerInformation", Args: []introspect.Arg{
						out("name", "s"), out("vendor", "s"), out("version", "s"), out("spec_version", "s"),
					}},
					{Name: "Notify", Args: []introspect.Arg{
						in("app_name", "s"), in("replaces_id", "u"), in("app_icon", "s"),
						in("summary", "s"), in("body", "s"), in("actions", "as"),
						in("hints", "a{sv}"), in("expire_timeout", "i"), out("id", "u"),
					}},
					{Name: "CloseNotification", Args: []introspect.Arg{in("id", "u")}},
				},
				Signals: []introspect.Signal{
					{Name: "NotificationClosed", Args: []introspect.Arg{{Name: "id", Type: "u"}, {Name: "reason", Type: "u"}}},
					{Name: "ActionInvoked", Args: []introspect.Arg{{Name: "id", Type: "u"}, {Name: "action_key", Type: "s"}}},
				},
			},
		},
	}
}
