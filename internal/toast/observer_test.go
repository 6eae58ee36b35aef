package toast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/toastui/internal/model"
)

type panickyObserver struct{ NoopObserver }

func (panickyObserver) OnQueued(model.Descriptor) { panic("observer failure") }

type countingObserver struct {
	NoopObserver
	queued int
}

func (c *countingObserver) OnQueued(model.Descriptor) { c.queued++ }

func TestMultiObserver_IsolatesPanics(t *testing.T) {
	counter := &countingObserver{}
	m := NewMultiObserver(panickyObserver{}, nil, counter)

	assert.NotPanics(t, func() { m.OnQueued(model.Descriptor{}) })
	assert.Equal(t, 1, counter.queued)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "created", StateCreated.String())
	assert.Equal(t, "dismissing", StateDismissing.String())
	assert.Equal(t, "State(9)", State(9).String())
}
