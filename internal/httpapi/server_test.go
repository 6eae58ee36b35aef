package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/clock"
	"github.com/jmylchreest/toastui/internal/metrics"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/transition"
)

type nopContainer struct{}

func (nopContainer) Mount(*toast.Session) error { return nil }
func (nopContainer) Unmount(*toast.Session)     {}

type apiHarness struct {
	clock     *clock.Fake
	presenter *toast.Presenter
	screen    model.ScreenID
	client    *Client
}

func newAPIHarness(t *testing.T, opts ...Option) *apiHarness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	screens := toast.NewScreenRegistry()
	screen, err := screens.Register("main", transition.Size{Width: 800, Height: 600})
	require.NoError(t, err)

	clk := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	p := toast.NewPresenter(nopContainer{}, screens, toast.DefaultOptions(), logger)
	p.SetClock(clk)

	opts = append([]Option{WithLogger(logger)}, opts...)
	srv := httptest.NewServer(New(p, opts...).Handler())
	t.Cleanup(srv.Close)

	return &apiHarness{
		clock:     clk,
		presenter: p,
		screen:    screen,
		client:    NewClient(srv.URL),
	}
}

func TestShowAndStatus(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	first, err := h.client.Show(ctx, ToastRequest{Title: "Build", Message: "passed", Style: "success"}, false)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Empty(t, first.Reason)

	second, err := h.client.Show(ctx, ToastRequest{Message: "queued", Screen: "main", Length: "long"}, false)
	require.NoError(t, err)

	st, err := h.client.Status(ctx)
	require.NoError(t, err)
	require.NotNil(t, st.Active)
	assert.Equal(t, first.ID, st.Active.ID)
	assert.Equal(t, "success", st.Active.Style)
	assert.Equal(t, "presenting", st.Active.State)
	require.Len(t, st.Queued, 1)
	assert.Equal(t, second.ID, st.Queued[0].ID)
	assert.Equal(t, "long", st.Queued[0].Length)
	require.Len(t, st.Screens, 1)
	assert.Equal(t, "main", st.Screens[0].Name)
}

func TestShowRejectsBadRequests(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  ToastRequest
		want string
	}{
		{"empty", ToastRequest{}, "message"},
		{"style", ToastRequest{Message: "x", Style: "loud"}, "style"},
		{"location", ToastRequest{Message: "x", Location: "middle"}, "location"},
		{"direction", ToastRequest{Message: "x", Present: "up"}, "direction"},
		{"length", ToastRequest{Message: "x", Length: "-1s"}, "length"},
		{"screen", ToastRequest{Message: "x", Screen: "HDMI-9"}, "screen not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.client.Show(ctx, tt.req, false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
	assert.Nil(t, h.presenter.Active())
}

func TestShowWaitReturnsReason(t *testing.T) {
	h := newAPIHarness(t)

	type result struct {
		resp ToastResponse
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := h.client.Show(context.Background(), ToastRequest{Message: "tap me"}, true)
		done <- result{resp, err}
	}()

	require.Eventually(t, func() bool { return h.presenter.Active() != nil }, time.Second, 5*time.Millisecond)
	require.True(t, h.presenter.Active().Tap())
	h.clock.Advance(transition.DefaultExitDuration)

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, "tapped", r.resp.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("waiting show did not return")
	}
}

func TestShowWaitReturnsWhenSkipped(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	side, err := h.presenter.Screens().Register("side", transition.Size{Width: 400, Height: 300})
	require.NoError(t, err)

	_, err = h.client.Show(ctx, ToastRequest{Message: "first"}, false)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := h.client.Show(ctx, ToastRequest{Message: "second", Screen: "side"}, true)
		done <- err
	}()

	require.Eventually(t, func() bool { return h.presenter.QueueLen() == 1 }, time.Second, 5*time.Millisecond)
	require.True(t, h.presenter.Screens().Close(side))
	h.clock.Advance(10 * time.Second)

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not presented")
		assert.Contains(t, err.Error(), toast.ErrScreenNotFound.Error())
	case <-time.After(2 * time.Second):
		t.Fatal("waiting show did not return after its toast was skipped")
	}
	assert.Equal(t, 0, h.presenter.QueueLen())
	assert.False(t, h.presenter.Presenting())
}

func TestCancelAndClear(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	a, err := h.client.Show(ctx, ToastRequest{Message: "a"}, false)
	require.NoError(t, err)
	b, err := h.client.Show(ctx, ToastRequest{Message: "b"}, false)
	require.NoError(t, err)
	_, err = h.client.Show(ctx, ToastRequest{Message: "c"}, false)
	require.NoError(t, err)

	require.NoError(t, h.client.Cancel(ctx, b.ID))
	err = h.client.Cancel(ctx, b.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	st, err := h.client.Status(ctx)
	require.NoError(t, err)
	require.Len(t, st.Queued, 1)
	assert.Equal(t, "c", st.Queued[0].Message)

	n, err := h.client.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	h.clock.Advance(transition.DefaultExitDuration)
	assert.Nil(t, h.presenter.Active())
	assert.NotEqual(t, a.ID, "")
}

func TestDismissEndpoints(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	ok, err := h.client.Dismiss(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok, "nothing to dismiss")

	_, err = h.client.Show(ctx, ToastRequest{Message: "a"}, false)
	require.NoError(t, err)

	ok, err = h.client.Dismiss(ctx, "main")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.client.Dismiss(ctx, "main")
	require.NoError(t, err)
	assert.False(t, ok, "already dismissing")

	_, err = h.client.Dismiss(ctx, "HDMI-9")
	require.Error(t, err)
}

func TestDefaultScreenAndDefaults(t *testing.T) {
	var screen model.ScreenID
	h := newAPIHarness(t,
		WithDefaultScreen(func() model.ScreenID { return screen }),
		WithDescriptorDefaults(func() []model.Option {
			return []model.Option{model.WithLocation(model.LocationBottom)}
		}),
	)
	screen = h.screen

	_, err := h.client.Show(context.Background(), ToastRequest{Message: "bottom"}, false)
	require.NoError(t, err)

	active := h.presenter.Active()
	require.NotNil(t, active)
	assert.Equal(t, h.screen, active.Descriptor().Screen)
	assert.Equal(t, model.LocationBottom, active.Descriptor().Location)

	ok, err := h.client.Dismiss(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMetricsAndHealth(t *testing.T) {
	obs := metrics.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := toast.NewPresenter(nopContainer{}, nil, toast.DefaultOptions(), logger)
	p.SetObserver(obs)

	srv := httptest.NewServer(New(p, WithLogger(logger), WithMetrics(obs.Handler())).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "toastui_queue_depth"))

	resp, err = http.Post(srv.URL+"/v1/toasts", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServeAndShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := toast.NewPresenter(nopContainer{}, nil, toast.DefaultOptions(), logger)

	t.Run("shutdown before serve", func(t *testing.T) {
		s := New(p, WithLogger(logger))
		require.NoError(t, s.Shutdown(context.Background()))

		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- s.Serve(l) }()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("serve started after shutdown")
		}
	})

	t.Run("shutdown while serving", func(t *testing.T) {
		s := New(p, WithLogger(logger))
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- s.Serve(l) }()

		require.Eventually(t, func() bool {
			resp, err := http.Get("http://" + l.Addr().String() + "/healthz")
			if err != nil {
				return false
			}
			resp.Body.Close()
			return resp.StatusCode == http.StatusOK
		}, 2*time.Second, 10*time.Millisecond)

		require.NoError(t, s.Shutdown(context.Background()))
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("serve did not return after shutdown")
		}
	})
}
