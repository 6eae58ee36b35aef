package metrics

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/clock"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/transition"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func histogram(t *testing.T, h prometheus.Histogram) *dto.Histogram {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram()
}

type nopContainer struct{}

func (nopContainer) Mount(*toast.Session) error { return nil }
func (nopContainer) Unmount(*toast.Session)     {}

func TestObserver_RecordsLifecycle(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	obs := New(WithNow(clk.Now))

	screens := toast.NewScreenRegistry()
	screen, err := screens.Register("main", transition.Size{Width: 100, Height: 100})
	require.NoError(t, err)

	p := toast.NewPresenter(nopContainer{}, screens, toast.DefaultOptions(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.SetClock(clk)
	p.SetObserver(obs)

	for _, msg := range []string{"a", "b", "c"} {
		d, err := model.NewDescriptor(screen, msg)
		require.NoError(t, err)
		_, err = p.Show(d, model.LengthShort)
		require.NoError(t, err)
	}
	assert.Equal(t, 3.0, counterValue(t, obs.queued))
	assert.Equal(t, 1.0, counterValue(t, obs.presented))
	assert.Equal(t, 2.0, gaugeValue(t, obs.depth))

	st := p.Status()
	require.Len(t, st.Queued, 2)
	require.True(t, p.Cancel(st.Queued[1].ID))
	assert.Equal(t, 1.0, counterValue(t, obs.cancelled))

	clk.Advance(transition.DefaultEnterDuration + time.Second)
	require.True(t, p.Dismiss(screen))
	clk.Advance(transition.DefaultExitDuration)

	assert.Equal(t, 1.0, counterValue(t, obs.dismissed.WithLabelValues("dismissed")))
	h := histogram(t, obs.visible)
	assert.Equal(t, uint64(1), h.GetSampleCount())
	assert.InDelta(t, 1.0, h.GetSampleSum(), 1e-9)

	clk.Advance(transition.DefaultEnterDuration + model.DefaultShortLength + transition.DefaultExitDuration)
	assert.Equal(t, 1.0, counterValue(t, obs.dismissed.WithLabelValues("timed-out")))
	assert.Equal(t, 0.0, gaugeValue(t, obs.depth))
	assert.Equal(t, 2.0, counterValue(t, obs.presented))
}

func TestObserver_Handler(t *testing.T) {
	obs := New(WithNamespace("test"))
	obs.OnQueued(model.Descriptor{})

	rec := httptest.NewRecorder()
	obs.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_toasts_queued_total 1")
}
