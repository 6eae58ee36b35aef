package dbus

import (
	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastui/internal/model"
)

// CloseReason represents the reason for closing a notification.
// These values are defined by the freedesktop.org notification specification.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification expired (timeout reached).
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the notification was closed via CloseNotification.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is reserved/undefined per the spec.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// CloseReasonFor maps a toast dismissal reason onto the wire reason.
func CloseReasonFor(r model.Reason) CloseReason {
	switch r {
	case model.ReasonTimedOut:
		return CloseReasonExpired
	case model.ReasonTapped:
		return CloseReasonDismissed
	case model.ReasonDismissed:
		return CloseReasonClosed
	default:
		return CloseReasonUndefined
	}
}

// Urgency levels from the urgency hint.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// Hint keys understood beyond the standard set.
const (
	HintLocation = "x-toastui-location"
	HintStyle    = "x-toastui-style"
	HintPresent  = "x-toastui-present"
	HintDismiss  = "x-toastui-dismiss"
)

// Notification represents an incoming D-Bus Notify call.
type Notification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// HasAction reports whether the notification offers the action key.
func (n *Notification) HasAction(key string) bool {
	for i := 0; i+1 < len(n.Actions); i += 2 {
		if n.Actions[i] == key {
			return true
		}
	}
	return false
}

func (n *Notification) stringHint(key string) string {
	if v, ok := n.Hints[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

func (n *Notification) boolHint(key string) bool {
	if v, ok := n.Hints[key]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// Urgency extracts the urgency hint, defaulting to UrgencyNormal.
func (n *Notification) Urgency() int {
	if v, ok := n.Hints["urgency"]; ok {
		switch u := v.Value().(type) {
		case byte:
			return int(u)
		case int32:
			return int(u)
		case uint32:
			return int(u)
		}
	}
	return UrgencyNormal
}

// Category extracts the category hint.
func (n *Notification) Category() string {
	return n.stringHint("category")
}

// SoundFile extracts the sound-file hint.
func (n *Notification) SoundFile() string {
	return n.stringHint("sound-file")
}

// SuppressSound returns true if the suppress-sound hint is set.
func (n *Notification) SuppressSound() bool {
	return n.boolHint("suppress-sound")
}

// Transient returns true if the transient hint is set.
func (n *Notification) Transient() bool {
	return n.boolHint("transient")
}

// Location parses the location hint. ok is false when absent or invalid.
func (n *Notification) Location() (model.Location, bool) {
	s := n.stringHint(HintLocation)
	if s == "" {
		return 0, false
	}
	loc, err := model.ParseLocation(s)
	return loc, err == nil
}

// Directions parses the present and dismiss hints. A missing dismiss hint
// mirrors the present direction.
func (n *Notification) Directions() (present, dismiss model.Direction, ok bool) {
	s := n.stringHint(HintPresent)
	if s == "" {
		return 0, 0, false
	}
	present, err := model.ParseDirection(s)
	if err != nil {
		return 0, 0, false
	}
	dismiss = present
	if d, err := model.ParseDirection(n.stringHint(HintDismiss)); err == nil {
		dismiss = d
	}
	return present, dismiss, true
}

// StyleName extracts the style hint.
func (n *Notification) StyleName() string {
	return n.stringHint(HintStyle)
}

// ServerCapabilities lists the capabilities advertised by toastuid.
var ServerCapabilities = []string{
	"actions",
	"body",
	"icon-static",
	"sound",
	"x-toastui-location",
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "toastuid",
		Vendor:      "toastui",
		Version:     "dev",
		SpecVersion: "1.2",
	}
}
