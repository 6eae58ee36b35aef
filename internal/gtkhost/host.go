package gtkhost

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"unsafe"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/transition"
)

// UserCSSFile is appended to the generated style sheet when present in the
// config directory.
const UserCSSFile = "toastuid.css"

type monitorEntry struct {
	id      model.ScreenID
	monitor *gdk.Monitor
	size    transition.Size
}

// Host is a toast.Container drawing sessions as layer-shell windows.
// Mount and Unmount may be called from any goroutine; the work is queued
// onto the GTK main loop.
type Host struct {
	app      *gtk.Application
	screens  *toast.ScreenRegistry
	logger   *slog.Logger
	provider *gtk.CSSProvider

	mu         sync.Mutex
	cfg        *config.DaemonConfig
	display    *gdk.Display
	surfaces   map[*toast.Session]*surface
	monitors   map[string]monitorEntry
	order      []string
	onCloseAll func()
	onScreens  func()
}

var _ toast.Container = (*Host)(nil)

// NewHost creates a host. Start must be called on the GTK main thread
// before anything is mounted.
func NewHost(app *gtk.Application, screens *toast.ScreenRegistry, cfg *config.DaemonConfig, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}
	return &Host{
		app:      app,
		screens:  screens,
		logger:   logger,
		cfg:      cfg,
		surfaces: make(map[*toast.Session]*surface),
		monitors: make(map[string]monitorEntry),
	}
}

// SetCloseAllHandler sets the action run for the close-all mouse binding.
func (h *Host) SetCloseAllHandler(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCloseAll = fn
}

// SetScreensChangedHandler is called after monitors were added or removed.
func (h *Host) SetScreensChangedHandler(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onScreens = fn
}

// Start binds the host to the default display, installs the style sheet
// and registers one screen per monitor.
func (h *Host) Start() error {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return &toast.HostError{Message: "no display available"}
	}

	h.mu.Lock()
	h.display = display
	h.mu.Unlock()

	h.provider = gtk.NewCSSProvider()
	gtk.StyleContextAddProviderForDisplay(display, h.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	h.loadCSS()

	h.syncMonitors()
	display.Monitors().ConnectItemsChanged(func(_, _, _ uint) {
		h.syncMonitors()
	})

	h.logger.Info("display host started", "monitors", h.screenCount())
	return nil
}

// Stop closes every open surface.
func (h *Host) Stop() {
	glib.IdleAdd(func() {
		h.mu.Lock()
		surfaces := h.surfaces
		h.surfaces = make(map[*toast.Session]*surface)
		h.mu.Unlock()

		for _, sf := range surfaces {
			sf.close()
		}
	})
}

// UpdateConfig applies a reloaded configuration.
func (h *Host) UpdateConfig(cfg *config.DaemonConfig) {
	h.mu.Lock()
	h.cfg = cfg
	started := h.display != nil
	h.mu.Unlock()

	if started {
		glib.IdleAdd(func() {
			h.loadCSS()
			h.notifyScreens()
		})
	}
}

// Mount implements toast.Container.
func (h *Host) Mount(s *toast.Session) error {
	h.mu.Lock()
	if h.display == nil {
		h.mu.Unlock()
		return &toast.HostError{Message: "display host not started"}
	}
	var monitor *gdk.Monitor
	for _, e := range h.monitors {
		if e.id == s.Descriptor().Screen {
			monitor = e.monitor
			break
		}
	}
	h.mu.Unlock()

	glib.IdleAdd(func() {
		sf := newSurface(h.app, s, monitor, h.logger)
		sf.onClick = h.handleClick

		h.mu.Lock()
		h.surfaces[s] = sf
		h.mu.Unlock()

		sf.show()
		h.logger.Debug("mounted surface", "toast_id", s.ID(), "screen", s.Descriptor().Screen)
	})
	return nil
}

// Unmount implements toast.Container.
func (h *Host) Unmount(s *toast.Session) {
	glib.IdleAdd(func() {
		h.mu.Lock()
		sf := h.surfaces[s]
		delete(h.surfaces, s)
		h.mu.Unlock()

		if sf != nil {
			sf.close()
		}
	})
}

func (h *Host) handleClick(s *toast.Session, button uint) {
	h.mu.Lock()
	action := h.cfg.MouseActionFor(button)
	closeAll := h.onCloseAll
	h.mu.Unlock()

	switch action {
	case config.MouseActionDismiss:
		s.Tap()
	case config.MouseActionCloseAll:
		if closeAll != nil {
			closeAll()
		} else {
			s.Tap()
		}
	case config.MouseActionNone:
	}
}

// DefaultScreen returns the screen of the configured monitor, or of the
// first monitor when that one is absent.
func (h *Host) DefaultScreen() (model.ScreenID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	name, ok := pickMonitor(h.order, h.cfg.Display.Monitor)
	if !ok {
		return "", false
	}
	return h.monitors[name].id, true
}

func (h *Host) screenCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.monitors)
}

func (h *Host) loadCSS() {
	h.mu.Lock()
	padding := h.cfg.Display.Padding
	h.mu.Unlock()

	css := StyleSheet(BuiltinStyles(), padding)
	if dir, err := config.ConfigDir(); err == nil {
		path := filepath.Join(dir, UserCSSFile)
		if data, err := os.ReadFile(path); err == nil {
			css += "\n" + string(data)
			h.logger.Debug("loaded user style sheet", "path", path)
		}
	}
	h.provider.LoadFromString(css)
}

// syncMonitors mirrors the display's monitors into the screen registry.
func (h *Host) syncMonitors() {
	h.mu.Lock()
	display := h.display
	h.mu.Unlock()
	if display == nil {
		return
	}

	list := display.Monitors()
	current := make(map[string]*gdk.Monitor)
	sizes := make(map[string]transition.Size)
	var order []string
	for i := uint(0); i < list.NItems(); i++ {
		mon := wrapMonitor(list.Item(i))
		if mon == nil {
			continue
		}
		name := monitorName(mon.Connector(), i)
		r := mon.Geometry()
		current[name] = mon
		sizes[name] = transition.Size{Width: float64(r.Width()), Height: float64(r.Height())}
		order = append(order, name)
	}

	h.mu.Lock()
	known := make(map[string]transition.Size, len(h.monitors))
	for name, e := range h.monitors {
		known[name] = e.size
	}
	diff := diffMonitors(known, sizes)
	old := h.monitors
	h.mu.Unlock()

	next := make(map[string]monitorEntry, len(current))
	for _, name := range diff.Added {
		id, err := h.screens.Register(name, sizes[name])
		if err != nil {
			h.logger.Warn("failed to register monitor", "monitor", name, "error", err)
			continue
		}
		next[name] = monitorEntry{id: id, monitor: current[name], size: sizes[name]}
		h.logger.Info("monitor added", "monitor", name, "screen", id)
	}
	for name, e := range old {
		if _, ok := current[name]; !ok {
			continue
		}
		e.monitor = current[name]
		e.size = sizes[name]
		next[name] = e
	}
	for _, name := range diff.Resized {
		if err := h.screens.Resize(next[name].id, sizes[name]); err != nil {
			h.logger.Warn("failed to resize monitor", "monitor", name, "error", err)
		}
	}

	h.mu.Lock()
	h.monitors = next
	h.order = order
	h.mu.Unlock()

	// Closing happens last so a replacement default is already registered.
	for _, name := range diff.Removed {
		h.screens.Close(old[name].id)
		h.logger.Info("monitor removed", "monitor", name, "screen", old[name].id)
	}

	if len(diff.Added)+len(diff.Removed) > 0 {
		h.notifyScreens()
	}
}

func (h *Host) notifyScreens() {
	h.mu.Lock()
	fn := h.onScreens
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// wrapMonitor wraps a list item as a gdk.Monitor. gotk4 does not export
// its own wrapper; gdk.Monitor only embeds the object pointer.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}
