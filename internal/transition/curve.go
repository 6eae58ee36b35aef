package transition

import (
	"fmt"

	"github.com/tanema/gween/ease"
)

// Curve names an easing function.
type Curve string

const (
	CurveLinear    Curve = "linear"
	CurveEaseIn    Curve = "ease-in"
	CurveEaseOut   Curve = "ease-out"
	CurveEaseInOut Curve = "ease-in-out"
)

var curves = map[Curve]ease.TweenFunc{
	CurveLinear:    ease.Linear,
	CurveEaseIn:    ease.InCubic,
	CurveEaseOut:   ease.OutCubic,
	CurveEaseInOut: ease.InOutCubic,
}

// ParseCurve validates a curve name.
func ParseCurve(s string) (Curve, error) {
	c := Curve(s)
	if _, ok := curves[c]; !ok {
		return "", fmt.Errorf("unknown easing curve %q", s)
	}
	return c, nil
}

// Apply maps linear progress in [0,1] to eased progress.
// Unknown curves behave as ease-in-out.
func (c Curve) Apply(progress float64) float64 {
	switch {
	case progress <= 0:
		return 0
	case progress >= 1:
		return 1
	}
	fn, ok := curves[c]
	if !ok {
		fn = curves[CurveEaseInOut]
	}
	return float64(fn(float32(progress), 0, 1, 1))
}
