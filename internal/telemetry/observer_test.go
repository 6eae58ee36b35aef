package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jmylchreest/toastui/internal/clock"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/transition"
)

type nopContainer struct{}

func (nopContainer) Mount(*toast.Session) error { return nil }
func (nopContainer) Unmount(*toast.Session)     {}

func attr(attrs []attribute.KeyValue, key string) string {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.Emit()
		}
	}
	return ""
}

func TestTracingObserver_SessionSpan(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	provider := NewWithExporter(exp)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	clk := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	screens := toast.NewScreenRegistry()
	screen, err := screens.Register("main", transition.Size{Width: 100, Height: 100})
	require.NoError(t, err)

	p := toast.NewPresenter(nopContainer{}, screens, toast.DefaultOptions(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.SetClock(clk)
	p.SetObserver(NewTracingObserver(provider))

	d, err := model.NewDescriptor(screen, "hello", model.WithStyle(model.StyleWarning))
	require.NoError(t, err)
	_, err = p.Show(d, model.LengthShort)
	require.NoError(t, err)

	clk.Advance(transition.DefaultEnterDuration)
	require.True(t, p.Dismiss(screen))
	clk.Advance(transition.DefaultExitDuration)

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "toast.session", span.Name)
	assert.Equal(t, d.ID, attr(span.Attributes, "toastui.toast.id"))
	assert.Equal(t, "warning", attr(span.Attributes, "toastui.style"))
	assert.Equal(t, "dismissed", attr(span.Attributes, "toastui.reason"))

	require.Len(t, span.Events, 2)
	assert.Equal(t, "visible", span.Events[0].Name)
	assert.Equal(t, "dismissing", span.Events[1].Name)
}

func TestTracingObserver_Skipped(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	provider := NewWithExporter(exp)
	obs := NewTracingObserver(provider)

	obs.OnSkipped(model.Descriptor{ID: "x"}, errors.New("screen not found"))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "toast.skipped", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

func TestNew_DisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	p, err := New(context.Background())
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))

	// A disabled provider still yields a usable observer.
	obs := NewTracingObserver(p)
	obs.OnCancelled(model.Descriptor{ID: "y"})
}

func TestTracesURL(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{"http://collector:4318", "http://collector:4318/v1/traces"},
		{"https://collector:4318/", "https://collector:4318/v1/traces"},
		{"http://collector:4318/otlp", "http://collector:4318/otlp/v1/traces"},
		{"localhost:4318", "http://localhost:4318/v1/traces"},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			assert.Equal(t, tt.want, tracesURL(tt.endpoint))
		})
	}
}

func TestNew_ExportsToEndpointURL(t *testing.T) {
	paths := make(chan string, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		paths <- r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", srv.URL)

	p, err := New(context.Background())
	require.NoError(t, err)
	require.True(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "toast.session")
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))

	select {
	case path := <-paths:
		assert.Equal(t, "/v1/traces", path)
	default:
		t.Fatal("no spans were exported")
	}
}
