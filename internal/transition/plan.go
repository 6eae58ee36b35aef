package transition

import (
	"time"

	"github.com/jmylchreest/toastui/internal/model"
)

// Default animation timing.
const (
	DefaultEnterDuration = 300 * time.Millisecond
	DefaultExitDuration  = 250 * time.Millisecond
	DefaultCurve         = CurveEaseInOut
)

// Timing is the duration and easing of one animation.
type Timing struct {
	Duration time.Duration
	Curve    Curve
}

// DefaultEnterTiming returns the timing used for presenting.
func DefaultEnterTiming() Timing {
	return Timing{Duration: DefaultEnterDuration, Curve: DefaultCurve}
}

// DefaultExitTiming returns the timing used for dismissing.
func DefaultExitTiming() Timing {
	return Timing{Duration: DefaultExitDuration, Curve: DefaultCurve}
}

// Plan is the concrete geometry and timing of one enter or exit animation.
type Plan struct {
	Direction   model.Direction
	From        Point
	To          Point
	FromOpacity float64
	ToOpacity   float64
	Duration    time.Duration
	Curve       Curve
}

// Frame is a sampled point of a running plan.
type Frame struct {
	Offset  Point
	Opacity float64
	Done    bool
}

// RestFrame is a fully visible toast at its resting position.
var RestFrame = Frame{Opacity: 1, Done: true}

// PlanEnter computes the presenting animation: from the resolved offset to
// the resting position. Fade keeps the position and ramps opacity 0→1.
func PlanEnter(dir model.Direction, loc model.Location, g Geometry, t Timing) Plan {
	p := Plan{
		Direction:   dir,
		From:        ResolveOffset(dir, loc, g),
		FromOpacity: 1,
		ToOpacity:   1,
		Duration:    t.Duration,
		Curve:       t.Curve,
	}
	if dir == model.DirectionFade {
		p.FromOpacity = 0
	}
	return p
}

// PlanExit computes the dismissing animation, the mirror of PlanEnter.
func PlanExit(dir model.Direction, loc model.Location, g Geometry, t Timing) Plan {
	p := Plan{
		Direction:   dir,
		To:          ResolveOffset(dir, loc, g),
		FromOpacity: 1,
		ToOpacity:   1,
		Duration:    t.Duration,
		Curve:       t.Curve,
	}
	if dir == model.DirectionFade {
		p.ToOpacity = 0
	}
	return p
}

// Sample returns the frame at the given elapsed time.
func (p Plan) Sample(elapsed time.Duration) Frame {
	if p.Duration <= 0 || elapsed >= p.Duration {
		return p.Final()
	}
	if elapsed < 0 {
		elapsed = 0
	}

	k := p.Curve.Apply(float64(elapsed) / float64(p.Duration))
	return Frame{
		Offset: Point{
			X: lerp(p.From.X, p.To.X, k),
			Y: lerp(p.From.Y, p.To.Y, k),
		},
		Opacity: lerp(p.FromOpacity, p.ToOpacity, k),
	}
}

// Initial returns the first frame of the plan.
func (p Plan) Initial() Frame {
	return Frame{Offset: p.From, Opacity: p.FromOpacity}
}

// Final returns the last frame of the plan.
func (p Plan) Final() Frame {
	return Frame{Offset: p.To, Opacity: p.ToOpacity, Done: true}
}

func lerp(a, b, k float64) float64 {
	return a + (b-a)*k
}
