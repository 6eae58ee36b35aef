// Package textmeasure estimates rendered text height without a font
// rasterizer. Glyph advances are approximated from the font size and the
// display width of each rune.
package textmeasure

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jmylchreest/toastui/internal/model"
)

// Ratios relative to the font size.
const (
	AdvanceRatio    = 0.6
	LineHeightRatio = 1.3
)

// Measurer computes rendered text height for a font and width.
type Measurer struct{}

// New returns a Measurer.
func New() *Measurer {
	return &Measurer{}
}

// MeasuredHeight returns the height of text wrapped to maxWidth.
// Empty text measures zero.
func (m *Measurer) MeasuredHeight(text string, font model.Font, maxWidth float64) float64 {
	if text == "" {
		return 0
	}
	size := font.Size
	if size <= 0 {
		size = model.DefaultFont.Size
	}
	advance := size * AdvanceRatio
	if font.Bold {
		advance *= 1.05
	}

	cols := int(math.Floor(maxWidth / advance))
	lines := len(Wrap(text, cols))
	return float64(lines) * size * LineHeightRatio
}

// Wrap breaks text into lines no wider than cols display columns.
// Words longer than a line are split. Explicit newlines are kept.
func Wrap(text string, cols int) []string {
	if cols < 1 {
		cols = 1
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, cols)...)
	}
	return lines
}

func wrapParagraph(para string, cols int) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		line  strings.Builder
		width int
	)
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		width = 0
	}

	for _, word := range words {
		ww := runewidth.StringWidth(word)

		for ww > cols {
			if width > 0 {
				flush()
			}
			head := runewidth.Truncate(word, cols, "")
			if head == "" {
				// A single rune wider than the line.
				head = string([]rune(word)[:1])
			}
			line.WriteString(head)
			flush()
			word = word[len(head):]
			ww = runewidth.StringWidth(word)
		}
		if ww == 0 {
			continue
		}

		switch {
		case width == 0:
			line.WriteString(word)
			width = ww
		case width+1+ww <= cols:
			line.WriteByte(' ')
			line.WriteString(word)
			width += 1 + ww
		default:
			flush()
			line.WriteString(word)
			width = ww
		}
	}
	if width > 0 {
		flush()
	}
	return lines
}
