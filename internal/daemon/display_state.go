package daemon

import (
	"sort"
	"sync"
	"time"
)

// DisplayStatus represents the status of a notification in the display system.
type DisplayStatus int

const (
	// DisplayStatusPending means the notification is queued for display.
	DisplayStatusPending DisplayStatus = iota
	// DisplayStatusActive means the notification is currently displayed.
	DisplayStatusActive
	// DisplayStatusExpired means the notification timed out.
	DisplayStatusExpired
	// DisplayStatusDismissed means the user dismissed the notification.
	DisplayStatusDismissed
	// DisplayStatusClosed means the notification was closed programmatically
	// or its screen went away.
	DisplayStatusClosed
)

// String returns the string representation of DisplayStatus.
func (s DisplayStatus) String() string {
	switch s {
	case DisplayStatusPending:
		return "pending"
	case DisplayStatusActive:
		return "active"
	case DisplayStatusExpired:
		return "expired"
	case DisplayStatusDismissed:
		return "dismissed"
	case DisplayStatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status ends tracking.
func (s DisplayStatus) Terminal() bool {
	return s >= DisplayStatusExpired
}

// DisplayState tracks one D-Bus notification through the presenter.
type DisplayState struct {
	ToastID    string        // The presenter descriptor ID
	DBusID     uint32        // The D-Bus notification ID
	Status     DisplayStatus // Current display status
	HasDefault bool          // The sender offered a "default" action
	CreatedAt  time.Time     // When the notification was received
	ClosedAt   time.Time     // When the notification finished
}

// DisplayStateManager maps between toast IDs and D-Bus IDs. A D-Bus ID is
// owned by the most recently registered toast; replaced toasts keep their
// own entry until they finish but no longer own the wire ID.
type DisplayStateManager struct {
	mu  sync.RWMutex
	now func() time.Time

	byToastID map[string]*DisplayState
	byDBusID  map[uint32]string
}

// NewDisplayStateManager creates a new DisplayStateManager.
func NewDisplayStateManager() *DisplayStateManager {
	return &DisplayStateManager{
		now:       time.Now,
		byToastID: make(map[string]*DisplayState),
		byDBusID:  make(map[uint32]string),
	}
}

// Register starts tracking toastID as the owner of dbusID. It returns the
// toast previously owning dbusID, if any.
func (m *DisplayStateManager) Register(toastID string, dbusID uint32, hasDefault bool) (replaced string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	replaced = m.byDBusID[dbusID]
	m.byToastID[toastID] = &DisplayState{
		ToastID:    toastID,
		DBusID:     dbusID,
		Status:     DisplayStatusPending,
		HasDefault: hasDefault,
		CreatedAt:  m.now(),
	}
	m.byDBusID[dbusID] = toastID
	return replaced
}

// GetByToastID returns a copy of the state for a toast ID.
func (m *DisplayStateManager) GetByToastID(toastID string) (DisplayState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.byToastID[toastID]
	if !ok {
		return DisplayState{}, false
	}
	return *state, true
}

// GetByDBusID returns a copy of the state for the toast owning a D-Bus ID.
func (m *DisplayStateManager) GetByDBusID(dbusID uint32) (DisplayState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	toastID, ok := m.byDBusID[dbusID]
	if !ok {
		return DisplayState{}, false
	}
	return *m.byToastID[toastID], true
}

// ToastIDByDBusID returns the toast ID owning a D-Bus ID.
func (m *DisplayStateManager) ToastIDByDBusID(dbusID uint32) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byDBusID[dbusID]
	return id, ok
}

// SetStatus updates a non-terminal status.
func (m *DisplayStateManager) SetStatus(toastID string, status DisplayStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.byToastID[toastID]; ok && !state.Status.Terminal() {
		state.Status = status
	}
}

// Finish records the final status of toastID and stops tracking it. owner
// reports whether the toast still owned its D-Bus ID, i.e. whether the
// sender should be told it closed.
func (m *DisplayStateManager) Finish(toastID string, status DisplayStatus) (state DisplayState, owner bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byToastID[toastID]
	if !ok {
		return DisplayState{}, false
	}
	s.Status = status
	s.ClosedAt = m.now()
	delete(m.byToastID, toastID)

	if m.byDBusID[s.DBusID] == toastID {
		delete(m.byDBusID, s.DBusID)
		owner = true
	}
	return *s, owner
}

// Active returns the toast IDs currently displayed, sorted.
func (m *DisplayStateManager) Active() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var active []string
	for id, state := range m.byToastID {
		if state.Status == DisplayStatusActive {
			active = append(active, id)
		}
	}
	sort.Strings(active)
	return active
}

// Count returns the number of tracked notifications.
func (m *DisplayStateManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byToastID)
}
