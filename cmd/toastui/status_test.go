package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/transition"
)

func sampleStatus(now time.Time) toast.Status {
	return toast.Status{
		Active: &toast.ToastStatus{
			ID:        "01ACTIVE",
			Title:     "Build",
			Message:   "passed",
			Style:     "success",
			Screen:    "s1",
			Length:    "short",
			State:     "visible",
			Visible:   1200 * time.Millisecond,
			Remaining: 800 * time.Millisecond,
		},
		Queued: []toast.ToastStatus{
			{ID: "01NEXT", Message: "next up", Length: "long", CreatedAt: now.Add(-3 * time.Minute)},
		},
		Screens: []toast.Screen{
			{ID: "s1", Name: "DP-1", Bounds: transition.Size{Width: 1920, Height: 1080}},
		},
	}
}

func TestFormatStatus(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	out := formatStatus(sampleStatus(now), now)

	assert.Contains(t, out, `Active:  01ACTIVE "Build: passed (success)" [visible]`)
	assert.Contains(t, out, "visible 1.2s, 800ms left")
	assert.Contains(t, out, `1. 01NEXT "next up", long, queued 3 minutes ago`)
	assert.Contains(t, out, "s1  DP-1 (1920x1080)")
}

func TestFormatStatus_Idle(t *testing.T) {
	out := formatStatus(toast.Status{}, time.Now())
	assert.Contains(t, out, "Active:  none")
	assert.Contains(t, out, "Queued:  none")
	assert.NotContains(t, out, "Screens:")
}

func TestWriteStatus_Formats(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	st := sampleStatus(now)

	var buf bytes.Buffer
	require.NoError(t, writeStatus(&buf, st, "json", now))
	var decoded toast.Status
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "01ACTIVE", decoded.Active.ID)

	buf.Reset()
	require.NoError(t, writeStatus(&buf, st, "yaml", now))
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "queued")

	assert.Error(t, writeStatus(&buf, st, "xml", now))
}
