package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Client sends notifications to whichever server owns the bus name.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return NewClientOn(conn), nil
}

// NewClientOn wraps an existing connection.
func NewClientOn(conn *dbus.Conn) *Client {
	return &Client{
		conn: conn,
		obj:  conn.Object(DBusBusName, DBusPath),
	}
}

// Notify sends n and returns the ID the server assigned.
func (c *Client) Notify(n *Notification) (uint32, error) {
	hints := n.Hints
	if hints == nil {
		hints = map[string]dbus.Variant{}
	}
	actions := n.Actions
	if actions == nil {
		actions = []string{}
	}

	var id uint32
	call := c.obj.Call(DBusInterface+".Notify", 0,
		n.AppName,
		n.ReplacesID,
		n.AppIcon,
		n.Summary,
		n.Body,
		actions,
		hints,
		n.ExpireTimeout,
	)
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify: %w", err)
	}
	return id, nil
}

// CloseNotification asks the server to close id.
func (c *Client) CloseNotification(id uint32) error {
	if err := c.obj.Call(DBusInterface+".CloseNotification", 0, id).Err; err != nil {
		return fmt.Errorf("close notification %d: %w", id, err)
	}
	return nil
}

// ServerInformation queries the running server.
func (c *Client) ServerInformation() (ServerInfo, error) {
	var info ServerInfo
	err := c.obj.Call(DBusInterface+".GetServerInformation", 0).
		Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion)
	if err != nil {
		return ServerInfo{}, fmt.Errorf("get server information: %w", err)
	}
	return info, nil
}

// Capabilities queries the server capabilities.
func (c *Client) Capabilities() ([]string, error) {
	var caps []string
	if err := c.obj.Call(DBusInterface+".GetCapabilities", 0).Store(&caps); err != nil {
		return nil, fmt.Errorf("get capabilities: %w", err)
	}
	return caps, nil
}

// HintSet builds a hint map from the toastui-specific values. Empty values
// are omitted.
func HintSet(location, style, present, dismiss string) map[string]dbus.Variant {
	hints := make(map[string]dbus.Variant)
	for key, value := range map[string]string{
		HintLocation: location,
		HintStyle:    style,
		HintPresent:  present,
		HintDismiss:  dismiss,
	} {
		if value != "" {
			hints[key] = dbus.MakeVariant(value)
		}
	}
	return hints
}

// UrgencyHint returns a variant for the urgency hint.
func UrgencyHint(level int) dbus.Variant {
	return dbus.MakeVariant(byte(level))
}
