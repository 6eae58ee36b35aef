package textmeasure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/toastui/internal/model"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		text string
		cols int
		want []string
	}{
		{"fits", "hello world", 20, []string{"hello world"}},
		{"breaks at words", "hello world again", 11, []string{"hello world", "again"}},
		{"splits long word", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"keeps newlines", "a\nb", 10, []string{"a", "b"}},
		{"blank paragraph", "a\n\nb", 10, []string{"a", "", "b"}},
		{"wide runes", "日本語テキスト", 6, []string{"日本語", "テキス", "ト"}},
		{"zero cols clamps", "ab", 0, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.text, tt.cols))
		})
	}
}

func TestMeasuredHeight(t *testing.T) {
	m := New()
	font := model.Font{Size: 10}

	assert.Equal(t, 0.0, m.MeasuredHeight("", font, 100))

	// 10pt font: advance 6, so 70 wide fits 11 columns; line height 13.
	assert.InDelta(t, 13, m.MeasuredHeight("short", font, 70), 0.001)
	assert.InDelta(t, 26, m.MeasuredHeight("hello world again", font, 70), 0.001)

	// Deterministic for identical input.
	a := m.MeasuredHeight("some longer message that wraps", font, 80)
	b := m.MeasuredHeight("some longer message that wraps", font, 80)
	assert.Equal(t, a, b)
}

func TestMeasuredHeight_DefaultFont(t *testing.T) {
	m := New()
	h := m.MeasuredHeight("x", model.Font{}, 500)
	assert.InDelta(t, model.DefaultFont.Size*LineHeightRatio, h, 0.001)
}
