package termhost

import (
	"math"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/textmeasure"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

type mountMsg struct{ session *toast.Session }

type unmountMsg struct{ session *toast.Session }

// eventMsg is a lifecycle line for the event log.
type eventMsg struct{ text string }

// Host is a toast.Container drawing sessions inside a bubbletea program.
// Mount and Unmount may be called from any goroutine; the model applies
// them on the program's update loop. Host also implements toast.Observer
// to feed the event log.
type Host struct {
	toast.NoopObserver

	mu     sync.RWMutex
	sender Sender
}

var (
	_ toast.Container = (*Host)(nil)
	_ toast.Observer  = (*Host)(nil)
)

// NewHost creates a host with no program attached.
func NewHost() *Host {
	return &Host{}
}

// Attach routes messages to s.
func (h *Host) Attach(s Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sender = s
}

func (h *Host) send(msg tea.Msg) bool {
	h.mu.RLock()
	s := h.sender
	h.mu.RUnlock()
	if s == nil {
		return false
	}
	s.Send(msg)
	return true
}

// Mount implements toast.Container.
func (h *Host) Mount(s *toast.Session) error {
	if !h.send(mountMsg{session: s}) {
		return &toast.HostError{Message: "terminal host is not running"}
	}
	return nil
}

// Unmount implements toast.Container.
func (h *Host) Unmount(s *toast.Session) {
	h.send(unmountMsg{session: s})
}

// OnQueued logs a queued toast.
func (h *Host) OnQueued(d model.Descriptor) {
	h.send(eventMsg{text: "queued  " + label(d)})
}

// OnSkipped logs a skipped toast.
func (h *Host) OnSkipped(d model.Descriptor, err error) {
	h.send(eventMsg{text: "skipped " + label(d) + ": " + err.Error()})
}

// OnVisible logs a toast that finished entering.
func (h *Host) OnVisible(s *toast.Session) {
	h.send(eventMsg{text: "visible " + label(s.Descriptor())})
}

// OnDismissed logs a finished toast with its reason.
func (h *Host) OnDismissed(s *toast.Session, reason model.Reason) {
	h.send(eventMsg{text: "done    " + label(s.Descriptor()) + " (" + reason.String() + ")"})
}

func label(d model.Descriptor) string {
	if d.Title != "" {
		return d.Title
	}
	return d.Message
}

// CellMeasurer measures text in terminal cells: one row per wrapped line.
type CellMeasurer struct{}

// MeasuredHeight implements toast.Measurer.
func (CellMeasurer) MeasuredHeight(text string, _ model.Font, maxWidth float64) float64 {
	if text == "" {
		return 0
	}
	return float64(len(textmeasure.Wrap(text, int(math.Floor(maxWidth)))))
}

// Options returns presenter options sized in terminal cells.
func Options() toast.Options {
	opts := toast.DefaultOptions()
	opts.WidthFraction = 0.5
	opts.Margin = 1
	opts.Padding = 1
	opts.Spacing = 0
	return opts
}
