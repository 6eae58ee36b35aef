package toast

import (
	"time"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/transition"
)

// Options tune presentation. Zero fields take the defaults.
type Options struct {
	ShortLength time.Duration
	LongLength  time.Duration

	Enter transition.Timing
	Exit  transition.Timing

	// WidthFraction is used when a style does not set its own.
	WidthFraction float64
	// Margin is the gap between the anchored edge and the surface.
	Margin float64
	// Padding surrounds the text inside the surface.
	Padding float64
	// Spacing separates the title from the message.
	Spacing float64
}

// DefaultOptions returns pixel-oriented defaults.
func DefaultOptions() Options {
	return Options{
		ShortLength:   model.DefaultShortLength,
		LongLength:    model.DefaultLongLength,
		Enter:         transition.DefaultEnterTiming(),
		Exit:          transition.DefaultExitTiming(),
		WidthFraction: 0.9,
		Margin:        16,
		Padding:       12,
		Spacing:       4,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.ShortLength <= 0 {
		o.ShortLength = def.ShortLength
	}
	if o.LongLength <= 0 {
		o.LongLength = def.LongLength
	}
	o.Enter = timingOrDefault(o.Enter, def.Enter)
	o.Exit = timingOrDefault(o.Exit, def.Exit)
	if !(o.WidthFraction > 0 && o.WidthFraction <= 1) {
		o.WidthFraction = def.WidthFraction
	}
	return o
}

// timingOrDefault keeps an explicit zero duration (instant transition) as
// long as a curve was named.
func timingOrDefault(t, def transition.Timing) transition.Timing {
	if t == (transition.Timing{}) {
		return def
	}
	if t.Curve == "" {
		t.Curve = def.Curve
	}
	if t.Duration < 0 {
		t.Duration = 0
	}
	return t
}
