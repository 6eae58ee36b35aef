package termhost

import (
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

// drain returns and forgets everything sent so far.
func (r *recordingSender) drain() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.msgs
	r.msgs = nil
	return out
}

func TestHost_MountWithoutProgram(t *testing.T) {
	h := NewHost()
	err := h.Mount(nil)
	require.Error(t, err)

	var hostErr *toast.HostError
	assert.True(t, errors.As(err, &hostErr))
}

func TestHost_SendsLifecycleMessages(t *testing.T) {
	h := NewHost()
	rec := &recordingSender{}
	h.Attach(rec)

	d, err := model.NewDescriptor("s", "hello", model.WithTitle("Greeting"))
	require.NoError(t, err)
	h.OnQueued(d)
	h.OnSkipped(d, errors.New("boom"))

	msgs := rec.drain()
	require.Len(t, msgs, 2)
	assert.Equal(t, eventMsg{text: "queued  Greeting"}, msgs[0])
	assert.Equal(t, eventMsg{text: "skipped Greeting: boom"}, msgs[1])

	h.Attach(nil)
	h.OnQueued(d)
	assert.Empty(t, rec.drain())
}

func TestCellMeasurer(t *testing.T) {
	m := CellMeasurer{}
	assert.Equal(t, 0.0, m.MeasuredHeight("", model.Font{}, 10))
	assert.Equal(t, 1.0, m.MeasuredHeight("short", model.Font{}, 10))
	assert.Equal(t, 2.0, m.MeasuredHeight("hello there world", model.Font{}, 11.7))
	assert.Equal(t, 2.0, m.MeasuredHeight("one\ntwo", model.Font{}, 40))
}

func TestOptions_CellUnits(t *testing.T) {
	opts := Options()
	assert.Equal(t, 0.5, opts.WidthFraction)
	assert.Equal(t, 1.0, opts.Margin)
	assert.Equal(t, 1.0, opts.Padding)
	assert.Equal(t, 0.0, opts.Spacing)
	assert.Equal(t, toast.DefaultOptions().ShortLength, opts.ShortLength)
}
