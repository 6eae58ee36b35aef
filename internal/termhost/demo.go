package termhost

import (
	"sync"
	"time"

	"github.com/jmylchreest/toastui/internal/model"
)

type demoToast struct {
	title   string
	message string
	style   model.Style
	loc     model.Location
	present model.Direction
	dismiss model.Direction
	length  model.Length
}

var demoToasts = []demoToast{
	{"Build passed", "All 214 tests green.", model.StyleSuccess,
		model.LocationTop, model.DirectionVertical, model.DirectionVertical, model.LengthShort},
	{"", "Copied to clipboard", model.StyleInfo,
		model.LocationBottom, model.DirectionVertical, model.DirectionFade, model.LengthShort},
	{"Battery low", "12% remaining. Plug in soon.", model.StyleWarning,
		model.LocationTop, model.DirectionLeft, model.DirectionRight, model.LengthLong},
	{"Sync failed", "The remote closed the connection before the upload finished.", model.StyleError,
		model.LocationBottom, model.DirectionRight, model.DirectionLeft, model.LengthLong},
	{"Reminder", "Stand-up in five minutes.", model.StyleInfo,
		model.LocationTop, model.DirectionFade, model.DirectionFade, model.Custom(1500 * time.Millisecond)},
}

// Demo cycles through a fixed set of toasts covering every style,
// location and direction.
type Demo struct {
	mu   sync.Mutex
	next int
}

// Next returns the next demo descriptor for screen.
func (d *Demo) Next(screen model.ScreenID) (model.Descriptor, error) {
	d.mu.Lock()
	t := demoToasts[d.next%len(demoToasts)]
	d.next++
	d.mu.Unlock()

	return model.NewDescriptor(screen, t.message,
		model.WithTitle(t.title),
		model.WithStyle(t.style),
		model.WithLocation(t.loc),
		model.WithDirections(t.present, t.dismiss),
		model.WithLength(t.length),
	)
}
