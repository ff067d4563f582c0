package bootstrap

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	trackerinadapter "tracky/internal/modules/tracker/adapter/in"
	trackeroutadapter "tracky/internal/modules/tracker/adapter/out"
	trackerout "tracky/internal/modules/tracker/port/out"
	trackerservice "tracky/internal/modules/tracker/service"
	trackerusecase "tracky/internal/modules/tracker/usecase"
	"tracky/internal/platform/clock"
	"tracky/internal/platform/config"
	"tracky/internal/platform/logging"
	uiapp "tracky/internal/ui/app"
	"tracky/internal/ui/render"
)

type App struct {
	Config     config.Config
	Log        *logrus.Logger
	Renderer   render.Renderer
	TrackerCLI trackerinadapter.CLIHandler

	closers []io.Closer
}

// New wires the tracker module against the backend named in cfg. Logs go to
// logOut so command output on stdout stays clean.
func New(cfg config.Config, logOut io.Writer) (*App, error) {
	log := logging.New(cfg.LogLevel, logOut)
	log.WithFields(logrus.Fields{
		"store": cfg.Backend,
		"path":  cfg.StatePath,
	}).Debug("bootstrap")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	app := &App{Config: cfg, Log: log, Renderer: render.New(cfg.Color, time.Local)}
	store, err := app.newStateStore()
	if err != nil {
		return nil, err
	}

	trackerUC := trackerusecase.NewInteractor(
		trackerservice.NewTrackerService(clock.System()),
		store,
		log.WithField("module", "tracker"),
	)
	app.TrackerCLI = trackerinadapter.NewCLIHandler(trackerUC)
	return app, nil
}

func (a *App) newStateStore() (trackerout.StateStore, error) {
	switch a.Config.Backend {
	case config.BackendJSON:
		return trackeroutadapter.NewJSONStateStore(a.Config.StatePath), nil
	case config.BackendYAML:
		return trackeroutadapter.NewYAMLStateStore(a.Config.StatePath), nil
	case config.BackendSQLite:
		store, err := trackeroutadapter.NewSQLiteStateStore(a.Config.StatePath)
		if err != nil {
			return nil, fmt.Errorf("new sqlite state store: %w", err)
		}
		a.closers = append(a.closers, store)
		return store, nil
	default:
		_, err := config.StatePath(a.Config.DataDir, a.Config.Backend)
		return nil, err
	}
}

// Close releases backend resources such as the SQLite handle.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func RunTUI(app *App) error {
	watcher, err := uiapp.WatchState(app.Config.StatePath)
	if err != nil {
		app.Log.WithError(err).Warn("state watcher disabled")
		watcher = nil
	} else {
		defer func() { _ = watcher.Close() }()
	}
	model := uiapp.NewModel(app.TrackerCLI, app.Renderer, watcher)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
