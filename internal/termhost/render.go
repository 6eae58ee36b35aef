package termhost

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/textmeasure"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/transition"
)

// renderToast draws the session at its current frame. It returns the block
// lines and the screen cell of its top-left corner. A fully transparent
// frame returns no lines.
func renderToast(s *toast.Session, opts toast.Options) (block []string, x, y int) {
	frame := s.Frame()
	if frame.Opacity <= 0 {
		return nil, 0, 0
	}
	d := s.Descriptor()
	g := s.Geometry()

	w := int(math.Round(g.Surface.Width))
	h := int(math.Round(g.Surface.Height))
	pad := int(opts.Padding)
	textW := max(w-2*pad, 1)

	fg := lipgloss.Color(d.Style.Foreground)
	bg := lipgloss.Color(d.Style.Background)
	base := lipgloss.NewStyle().Foreground(fg).Background(bg)

	var content []string
	if d.Title != "" {
		title := base.Bold(true)
		for _, line := range textmeasure.Wrap(d.Title, textW) {
			content = append(content, title.Render(line))
		}
	}
	if d.Message != "" {
		if d.Title != "" {
			for i := 0; i < int(opts.Spacing); i++ {
				content = append(content, "")
			}
		}
		content = append(content, textmeasure.Wrap(d.Message, textW)...)
	}

	box := base.Width(w).Padding(pad, pad)
	if frame.Opacity < 1 {
		box = box.Faint(true)
	}
	block = strings.Split(box.Render(strings.Join(content, "\n")), "\n")

	x, y = restPosition(d.Location, g, w, h)
	x += int(math.Round(frame.Offset.X))
	y += int(math.Round(frame.Offset.Y))
	return block, x, y
}

// restPosition is the top-left cell of a fully visible toast: centred
// horizontally and anchored to the top or bottom edge.
func restPosition(loc model.Location, g transition.Geometry, w, h int) (x, y int) {
	screenW := int(g.Screen.Width)
	screenH := int(g.Screen.Height)
	margin := int(g.Margin)

	x = (screenW - w) / 2
	if loc == model.LocationBottom {
		return x, screenH - margin - h
	}
	return x, margin
}

// hit reports whether cell (cx, cy) falls inside the drawn block.
func hit(block []string, x, y, cx, cy int) bool {
	if len(block) == 0 || cy < y || cy >= y+len(block) {
		return false
	}
	return cx >= x && cx < x+ansi.StringWidth(block[0])
}

// overlay draws block over bg at (x, y), clipping anything outside the
// width × len(bg) area. bg is modified in place.
func overlay(bg, block []string, x, y, width int) []string {
	for i, line := range block {
		row := y + i
		if row < 0 || row >= len(bg) {
			continue
		}
		bw := ansi.StringWidth(line)
		cutL := max(0, -x)
		cutR := min(bw, width-x)
		if cutR <= cutL {
			continue
		}

		seg := ansi.Cut(line, cutL, cutR)
		start := x + cutL
		under := padRight(bg[row], width)
		bg[row] = ansi.Truncate(under, start, "") + seg + ansi.Cut(under, start+cutR-cutL, width)
	}
	return bg
}

func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
