// Package main is the entry point for the toastuid toast daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/audio"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/daemon"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/gtkhost"
	"github.com/jmylchreest/toastui/internal/httpapi"
	"github.com/jmylchreest/toastui/internal/metrics"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/telemetry"
	"github.com/jmylchreest/toastui/internal/toast"
)

const (
	appID   = "io.github.jmylchreest.toastuid"
	appName = "toastuid"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to the daemon config file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("toastuid version", version)
		os.Exit(0)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintln(os.Stderr, "invalid log level:", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	os.Exit(run(*configPath, logger))
}

// components is the state shared between the GTK main loop and the
// signal handler.
type components struct {
	host      *gtkhost.Host
	presenter *toast.Presenter
	dbus      *dbus.NotificationServer
	http      *httpapi.Server
	audio     *audio.Manager
	watcher   *config.Watcher
	tracing   *telemetry.Provider
}

func (c *components) stop(logger *slog.Logger) {
	if c.watcher != nil {
		if err := c.watcher.Stop(); err != nil {
			logger.Warn("error stopping config watcher", "error", err)
		}
	}
	if c.presenter != nil {
		c.presenter.Clear()
	}
	if c.http != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := c.http.Shutdown(ctx); err != nil {
			logger.Warn("error stopping http server", "error", err)
		}
		cancel()
	}
	if c.dbus != nil {
		_ = c.dbus.Stop()
	}
	if c.audio != nil {
		c.audio.Stop()
	}
	if c.host != nil {
		c.host.Stop()
	}
	if c.tracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := c.tracing.Shutdown(ctx); err != nil {
			logger.Warn("error flushing traces", "error", err)
		}
		cancel()
	}
}

func run(configPath string, logger *slog.Logger) int {
	logger.Info("starting toastuid", "version", version)

	cfg, err := config.LoadDaemonConfig(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}
	if configPath == "" {
		if configPath, err = config.DaemonConfigPath(); err != nil {
			logger.Warn("failed to get config path", "error", err)
		}
	}

	app := adw.NewApplication(appID, 0)

	var (
		c        components
		stopOnce sync.Once
		running  atomic.Bool
	)
	shutdown := func() {
		stopOnce.Do(func() { c.stop(logger) })
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		glib.IdleAdd(func() {
			if running.Load() {
				shutdown()
			}
			app.Quit()
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		if err := activate(&app.Application, cfg, configPath, &c, logger); err != nil {
			logger.Error("failed to start", "error", err)
			shutdown()
			app.Quit()
			return
		}

		// GTK applications quit when their last window closes.
		keepAlive := gtk.NewWindow()
		keepAlive.SetApplication(&app.Application)
		keepAlive.SetDefaultSize(1, 1)
		keepAlive.SetDecorated(false)
		keepAlive.SetVisible(false)

		logger.Info("toastuid ready", "dbus_interface", dbus.DBusInterface, "listen", cfg.Server.Listen)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		shutdown()
		running.Store(false)
	})

	if status := app.Run(os.Args[:1]); status != 0 {
		logger.Error("application exited with error", "status", status)
		return status
	}
	logger.Info("toastuid stopped")
	return 0
}

// activate wires every component. It runs on the GTK main thread.
func activate(app *gtk.Application, cfg *config.DaemonConfig, configPath string, c *components, logger *slog.Logger) error {
	screens := toast.NewScreenRegistry()

	c.host = gtkhost.NewHost(app, screens, cfg, logger)
	if err := c.host.Start(); err != nil {
		return fmt.Errorf("failed to start display host: %w", err)
	}

	c.presenter = toast.NewPresenter(c.host, screens, cfg.PresenterOptions(), logger)
	c.host.SetCloseAllHandler(func() { c.presenter.Clear() })

	internalNotifier := daemon.NewInternalNotifier(logger)
	reloader := daemon.NewReloader(cfg, internalNotifier, logger)
	reloader.Presenter(c.presenter)
	reloader.OnApply(c.host.UpdateConfig)

	// Control surfaces.
	c.dbus = dbus.NewNotificationServer(logger)
	c.dbus.SetServerInfo(dbus.ServerInfo{
		Name:        appName,
		Vendor:      config.AppName,
		Version:     version,
		SpecVersion: dbus.DefaultServerInfo().SpecVersion,
	})
	bridge := daemon.NewBridge(c.presenter, c.dbus, cfg, logger)
	reloader.OnApply(bridge.UpdateConfig)

	c.audio = audio.NewManager(cfg, logger)
	c.audio.SetErrorCallback(internalNotifier.NotifyAudioError)
	reloader.OnApply(c.audio.UpdateConfig)

	m := metrics.New()

	observers := []toast.Observer{bridge, c.audio, m}
	if tp, err := telemetry.New(context.Background()); err != nil {
		logger.Warn("tracing disabled", "error", err)
	} else if tp.Enabled() {
		c.tracing = tp
		observers = append(observers, telemetry.NewTracingObserver(tp))
	}
	c.presenter.SetObserver(observers...)

	// Follow monitor changes with the default screen.
	var current struct {
		sync.Mutex
		screen toast.Screen
	}
	updateScreen := func() {
		id, ok := c.host.DefaultScreen()
		next, found := screens.Lookup(id)

		current.Lock()
		prev := current.screen
		if ok && found {
			current.screen = next
		}
		current.Unlock()

		if ok && found {
			bridge.SetScreen(id)
		}
		if prev.ID != "" && !screens.Alive(prev.ID) {
			internalNotifier.NotifyScreenLost(prev.Name)
		}
	}
	c.host.SetScreensChangedHandler(updateScreen)
	updateScreen()

	if cfg.Server.DBus {
		c.dbus.SetNotifyHandler(bridge.HandleNotify)
		c.dbus.SetCloseHandler(bridge.HandleClose)
		if err := c.dbus.Start(); err != nil {
			return fmt.Errorf("failed to start D-Bus server: %w", err)
		}
		internalNotifier.SetNotifyHandler(c.dbus.NotifyInternal)
	} else {
		internalNotifier.SetEnabled(false)
	}

	if cfg.Server.Listen != "" {
		opts := []httpapi.Option{
			httpapi.WithLogger(logger),
			httpapi.WithDefaultScreen(bridge.Screen),
			httpapi.WithDescriptorDefaults(func() []model.Option {
				return reloader.Current().DescriptorOptions()
			}),
		}
		if cfg.Server.Metrics {
			opts = append(opts, httpapi.WithMetrics(m.Handler()))
		}
		c.http = httpapi.New(c.presenter, opts...)
		go func() {
			if err := c.http.ListenAndServe(cfg.Server.Listen); err != nil {
				logger.Error("http server failed", "addr", cfg.Server.Listen, "error", err)
			}
		}()
	}

	if configPath != "" {
		w, err := config.NewWatcher(configPath, logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else {
			reloader.Watch(w)
			if err := w.Start(); err != nil {
				logger.Warn("failed to start config watcher", "error", err)
			} else {
				c.watcher = w
			}
		}
	}

	internalNotifier.NotifyStartup(version)
	return nil
}
