package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDescriptor_Defaults(t *testing.T) {
	d, err := NewDescriptor("screen-1", "saved")
	require.NoError(t, err)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "saved", d.Message)
	assert.Equal(t, ScreenID("screen-1"), d.Screen)
	assert.Equal(t, LocationTop, d.Location)
	assert.Equal(t, DirectionVertical, d.PresentDirection)
	assert.Equal(t, DirectionVertical, d.DismissDirection)
	assert.Equal(t, LengthShort, d.Length)
	assert.Equal(t, "info", d.Style.Name)
	assert.False(t, d.CreatedAt.IsZero())
}

func TestNewDescriptor_Options(t *testing.T) {
	var got Reason = -1
	d, err := NewDescriptor("s", "body",
		WithTitle("Title"),
		WithStyle(StyleError),
		WithLocation(LocationBottom),
		WithDirections(DirectionLeft, DirectionFade),
		WithLength(Custom(1500*time.Millisecond)),
		WithCompletion(func(r Reason) { got = r }),
	)
	require.NoError(t, err)

	assert.Equal(t, "Title", d.Title)
	assert.Equal(t, "error", d.Style.Name)
	assert.Equal(t, LocationBottom, d.Location)
	assert.Equal(t, DirectionLeft, d.PresentDirection)
	assert.Equal(t, DirectionFade, d.DismissDirection)
	assert.Equal(t, 1500*time.Millisecond, d.Length.Resolve(0, 0))

	require.NotNil(t, d.OnComplete)
	d.OnComplete(ReasonTapped)
	assert.Equal(t, ReasonTapped, got)
}

func TestNewDescriptor_UniqueIDs(t *testing.T) {
	a, err := NewDescriptor("s", "a")
	require.NoError(t, err)
	b, err := NewDescriptor("s", "b")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		screen  ScreenID
		message string
		opts    []Option
		wantErr error
	}{
		{
			name:    "valid",
			screen:  "s",
			message: "hello",
		},
		{
			name:   "title only",
			screen: "s",
			opts:   []Option{WithTitle("only a title")},
		},
		{
			name:    "empty message and title",
			screen:  "s",
			wantErr: ErrEmptyMessage,
		},
		{
			name:    "missing screen",
			message: "hello",
			wantErr: ErrMissingScreen,
		},
		{
			name:    "width fraction above one",
			screen:  "s",
			message: "hello",
			opts:    []Option{WithStyle(Style{WidthFraction: 1.2})},
			wantErr: ErrInvalidWidthFraction,
		},
		{
			name:    "negative width fraction",
			screen:  "s",
			message: "hello",
			opts:    []Option{WithStyle(Style{WidthFraction: -0.1})},
			wantErr: ErrInvalidWidthFraction,
		},
		{
			name:    "NaN width fraction",
			screen:  "s",
			message: "hello",
			opts:    []Option{WithStyle(Style{WidthFraction: math.NaN()})},
			wantErr: ErrInvalidWidthFraction,
		},
		{
			name:    "NaN font size",
			screen:  "s",
			message: "hello",
			opts:    []Option{WithStyle(Style{Font: Font{Size: math.NaN()}})},
			wantErr: ErrInvalidStyle,
		},
		{
			name:    "zero custom length",
			screen:  "s",
			message: "hello",
			opts:    []Option{WithLength(Custom(0))},
			wantErr: ErrInvalidLength,
		},
		{
			name:    "unknown location",
			screen:  "s",
			message: "hello",
			opts:    []Option{WithLocation(Location(7))},
			wantErr: ErrInvalidLocation,
		},
		{
			name:    "unknown direction",
			screen:  "s",
			message: "hello",
			opts:    []Option{WithDirections(DirectionFade, Direction(9))},
			wantErr: ErrInvalidDirection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDescriptor(tt.screen, tt.message, tt.opts...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLength_Resolve(t *testing.T) {
	assert.Equal(t, 2*time.Second, LengthShort.Resolve(0, 0))
	assert.Equal(t, 3500*time.Millisecond, LengthLong.Resolve(0, 0))
	assert.Equal(t, time.Second, LengthShort.Resolve(time.Second, 5*time.Second))
	assert.Equal(t, 5*time.Second, LengthLong.Resolve(time.Second, 5*time.Second))
	assert.Equal(t, 42*time.Millisecond, Custom(42*time.Millisecond).Resolve(time.Second, time.Second))
}

func TestParseLength(t *testing.T) {
	l, err := ParseLength("long")
	require.NoError(t, err)
	assert.Equal(t, LengthLong, l)

	l, err = ParseLength("")
	require.NoError(t, err)
	assert.Equal(t, LengthShort, l)

	l, err = ParseLength("750ms")
	require.NoError(t, err)
	assert.Equal(t, Custom(750*time.Millisecond), l)
	assert.Equal(t, "750ms", l.String())

	_, err = ParseLength("-1s")
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = ParseLength("forever")
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestParseEnums(t *testing.T) {
	for _, loc := range []Location{LocationTop, LocationBottom} {
		got, err := ParseLocation(loc.String())
		require.NoError(t, err)
		assert.Equal(t, loc, got)
	}
	for _, dir := range []Direction{DirectionVertical, DirectionLeft, DirectionRight, DirectionFade} {
		got, err := ParseDirection(dir.String())
		require.NoError(t, err)
		assert.Equal(t, dir, got)
	}

	_, err := ParseLocation("middle")
	assert.ErrorIs(t, err, ErrInvalidLocation)
	_, err = ParseDirection("diagonal")
	assert.ErrorIs(t, err, ErrInvalidDirection)

	var loc Location
	require.NoError(t, loc.UnmarshalText([]byte("bottom")))
	assert.Equal(t, LocationBottom, loc)
}

func TestReason_String(t *testing.T) {
	assert.Equal(t, "tapped", ReasonTapped.String())
	assert.Equal(t, "timed-out", ReasonTimedOut.String())
	assert.Equal(t, "dismissed", ReasonDismissed.String())
	assert.Equal(t, "screen-closed", ReasonScreenClosed.String())
	assert.Equal(t, "unknown", Reason(99).String())
}

func TestStyles(t *testing.T) {
	s, ok := StyleByName("warning")
	require.True(t, ok)
	assert.Equal(t, "dialog-warning", s.Icon)

	_, ok = StyleByName("nope")
	assert.False(t, ok)

	assert.Equal(t, []string{"error", "info", "success", "warning"}, StyleNames())

	f := Style{}.TextFont()
	assert.Equal(t, DefaultFont.Size, f.Size)
	assert.True(t, Style{}.TitleFont().Bold)
}
