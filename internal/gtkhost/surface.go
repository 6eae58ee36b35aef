package gtkhost

import (
	"log/slog"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// frameIntervalMS is the redraw period while a surface is animating.
const frameIntervalMS = 16

// surface is the window presenting one session. It must only be touched on
// the GTK main thread.
type surface struct {
	session *toast.Session
	window  *gtk.Window
	logger  *slog.Logger

	onClick func(s *toast.Session, button uint)

	ticker glib.SourceHandle
	closed bool
}

func newSurface(app *gtk.Application, s *toast.Session, monitor *gdk.Monitor, logger *slog.Logger) *surface {
	d := s.Descriptor()
	g := s.Geometry()

	sf := &surface{session: s, logger: logger}

	sf.window = gtk.NewWindow()
	sf.window.SetApplication(app)
	sf.window.SetDecorated(false)
	sf.window.SetResizable(false)
	sf.window.AddCSSClass("toastui-surface")
	sf.window.SetDefaultSize(int(g.Surface.Width), int(g.Surface.Height))
	sf.window.SetSizeRequest(int(g.Surface.Width), int(g.Surface.Height))

	layershell.InitForWindow(sf.window)
	layershell.SetLayer(sf.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(sf.window, 0)
	layershell.SetKeyboardMode(sf.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(sf.window, "toastui")
	if monitor != nil {
		layershell.SetMonitor(sf.window, monitor)
	}

	edge := layershell.LayerShellEdgeTop
	if d.Location == model.LocationBottom {
		edge = layershell.LayerShellEdgeBottom
	}
	layershell.SetAnchor(sf.window, edge, true)
	layershell.SetAnchor(sf.window, layershell.LayerShellEdgeLeft, true)

	sf.window.SetChild(sf.build(d))
	sf.connectSignals()
	return sf
}

func (sf *surface) build(d model.Descriptor) gtk.Widgetter {
	box := gtk.NewBox(gtk.OrientationHorizontal, 10)
	box.AddCSSClass("toast")
	box.AddCSSClass(styleClass(d.Style))
	box.AddCSSClass(colorSchemeClass())

	if d.Style.Icon != "" {
		icon := gtk.NewImageFromIconName(d.Style.Icon)
		icon.AddCSSClass("toast-icon")
		icon.SetPixelSize(24)
		box.Append(icon)
	}

	text := gtk.NewBox(gtk.OrientationVertical, 4)
	text.SetHExpand(true)
	if d.Title != "" {
		title := gtk.NewLabel(d.Title)
		title.AddCSSClass("toast-title")
		title.SetXAlign(0)
		title.SetWrap(true)
		text.Append(title)
	}
	if d.Message != "" {
		msg := gtk.NewLabel(d.Message)
		msg.AddCSSClass("toast-message")
		msg.SetXAlign(0)
		msg.SetWrap(true)
		msg.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
		text.Append(msg)
	}
	box.Append(text)
	return box
}

func (sf *surface) connectSignals() {
	click := gtk.NewGestureClick()
	click.SetButton(0) // All buttons
	click.ConnectReleased(func(nPress int, x, y float64) {
		if sf.onClick != nil {
			sf.onClick(sf.session, click.CurrentButton())
		}
	})
	sf.window.AddController(click)
}

// show presents the window at its first frame and starts following the
// session's animation.
func (sf *surface) show() {
	sf.apply()
	sf.window.Present()
	sf.ticker = glib.TimeoutAdd(frameIntervalMS, func() bool {
		if sf.closed {
			return false
		}
		sf.apply()
		return true
	})
}

func (sf *surface) apply() {
	d := sf.session.Descriptor()
	frame := sf.session.Frame()
	edgeMargin, left := placement(d.Location, sf.session.Geometry(), frame)

	edge := layershell.LayerShellEdgeTop
	if d.Location == model.LocationBottom {
		edge = layershell.LayerShellEdgeBottom
	}
	layershell.SetMargin(sf.window, edge, edgeMargin)
	layershell.SetMargin(sf.window, layershell.LayerShellEdgeLeft, left)
	sf.window.SetOpacity(frame.Opacity)
}

func (sf *surface) close() {
	if sf.closed {
		return
	}
	sf.closed = true
	if sf.ticker != 0 {
		glib.SourceRemove(sf.ticker)
		sf.ticker = 0
	}
	sf.window.Close()
}

// colorSchemeClass returns "dark" or "light" from the libadwaita style
// manager.
func colorSchemeClass() string {
	if adw.StyleManagerGetDefault().Dark() {
		return "dark"
	}
	return "light"
}
