package transition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/toastui/internal/clock"
)

func TestClockAnimator_CompletesAfterDuration(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	a := NewClockAnimator(c)

	var calls []bool
	h := a.Run(Plan{Duration: 300 * time.Millisecond}, func(finished bool) {
		calls = append(calls, finished)
	})

	c.Advance(200 * time.Millisecond)
	assert.Empty(t, calls)
	assert.Equal(t, 200*time.Millisecond, h.Elapsed())

	c.Advance(100 * time.Millisecond)
	assert.Equal(t, []bool{true}, calls)

	// Cancelling a finished animation does nothing.
	h.Cancel()
	assert.Equal(t, []bool{true}, calls)
}

func TestClockAnimator_Cancel(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	a := NewClockAnimator(c)

	var calls []bool
	h := a.Run(Plan{Duration: time.Second}, func(finished bool) {
		calls = append(calls, finished)
	})

	h.Cancel()
	h.Cancel()
	c.Advance(2 * time.Second)

	assert.Equal(t, []bool{false}, calls)
	assert.Equal(t, 0, c.Pending())
}
