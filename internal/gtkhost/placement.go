package gtkhost

import (
	"fmt"
	"math"
	"sort"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/transition"
)

// placement converts a frame into layer-shell margins: the distance from
// the anchored edge and from the left edge. Margins may go negative while
// the surface is off screen.
func placement(loc model.Location, g transition.Geometry, f transition.Frame) (edge, left int) {
	x := (g.Screen.Width-g.Surface.Width)/2 + f.Offset.X
	e := g.Margin + f.Offset.Y
	if loc == model.LocationBottom {
		e = g.Margin - f.Offset.Y
	}
	return int(math.Round(e)), int(math.Round(x))
}

// monitorName is the registry name of a monitor: its connector, or its
// index when the compositor reports none.
func monitorName(connector string, index uint) string {
	if connector != "" {
		return connector
	}
	return fmt.Sprintf("monitor-%d", index)
}

// monitorDiff lists how the monitor set changed between two snapshots.
type monitorDiff struct {
	Added   []string
	Resized []string
	Removed []string
}

func diffMonitors(known, current map[string]transition.Size) monitorDiff {
	var d monitorDiff
	for name, size := range current {
		old, ok := known[name]
		switch {
		case !ok:
			d.Added = append(d.Added, name)
		case old != size:
			d.Resized = append(d.Resized, name)
		}
	}
	for name := range known {
		if _, ok := current[name]; !ok {
			d.Removed = append(d.Removed, name)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Resized)
	sort.Strings(d.Removed)
	return d
}

// pickMonitor returns the monitor for a 1-based config index, falling back
// to the first one. Zero selects the first monitor.
func pickMonitor(order []string, index int) (string, bool) {
	if len(order) == 0 {
		return "", false
	}
	if index >= 1 && index <= len(order) {
		return order[index-1], true
	}
	return order[0], true
}
