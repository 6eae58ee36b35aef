package termhost

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/transition"
)

// ScreenName is the name the terminal screen is registered under.
const ScreenName = "terminal"

// RunOptions configures the terminal demo.
type RunOptions struct {
	Config    *config.DaemonConfig
	Observers []toast.Observer
	Logger    *slog.Logger
}

// Run starts an interactive terminal session presenting demo toasts.
func Run(opts RunOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pOpts := Options()
	base := cfg.PresenterOptions()
	pOpts.Enter = base.Enter
	pOpts.Exit = base.Exit
	pOpts.ShortLength = base.ShortLength
	pOpts.LongLength = base.LongLength

	host := NewHost()
	screens := toast.NewScreenRegistry()
	screen, err := screens.Register(ScreenName, transition.Size{Width: 80, Height: 23})
	if err != nil {
		return fmt.Errorf("failed to register screen: %w", err)
	}

	p := toast.NewPresenter(host, screens, pOpts, logger)
	p.SetMeasurer(CellMeasurer{})
	p.SetObserver(append([]toast.Observer{host}, opts.Observers...)...)

	prog := tea.NewProgram(NewModel(p, screen, cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	host.Attach(prog)
	defer host.Attach(nil)

	_, err = prog.Run()
	p.Clear()
	return err
}
