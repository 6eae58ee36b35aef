// Package transition turns a symbolic direction and location into concrete
// enter and exit animations for a toast surface.
package transition

import (
	"github.com/jmylchreest/toastui/internal/model"
)

// Size is a width and height in host units (pixels or terminal cells).
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Point is an offset from the toast's resting position.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Geometry is the measured layout a plan is computed from. The surface size
// must be known before planning; it is never measured here.
type Geometry struct {
	Screen  Size
	Surface Size
	// Margin is the gap between the anchored edge and the surface.
	Margin float64
}

// ResolveOffset returns the off-screen offset a toast travels from (when
// entering) or to (when leaving) for the given direction and location.
//
// Vertical travel is perpendicular to the anchored edge: a top toast sits
// above the screen (negative Y), a bottom toast below it. Left and right
// travel by the surface width. Fade does not move.
func ResolveOffset(dir model.Direction, loc model.Location, g Geometry) Point {
	switch dir {
	case model.DirectionVertical:
		dist := g.Surface.Height + g.Margin
		if loc == model.LocationBottom {
			return Point{Y: dist}
		}
		return Point{Y: -dist}
	case model.DirectionLeft:
		return Point{X: -g.Surface.Width}
	case model.DirectionRight:
		return Point{X: g.Surface.Width}
	default:
		return Point{}
	}
}
