package app

import (
	"context"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"tab-sender/internal/config"
	"tab-sender/internal/logger"
	"tab-sender/internal/shutdown"
	"tab-sender/internal/views"
)

const (
	AppName         = "Tab Sender"
	AppID           = "com.tabsender.desktop"
	MinWindowWidth  = 400
	MinWindowHeight = 400
)

// selectTimeout bounds parsing a file picked in the dialog.
const selectTimeout = 30 * time.Second

// Application is the desktop front end.
type Application struct {
	fyneApp    fyne.App
	window     fyne.Window
	logger     logger.Logger
	components *Components
	view       *views.MainView
	shutdown   *shutdown.Manager
}

// NewApplication creates the window and connects the view to the controller.
func NewApplication(cfg *config.Config, version string, log logger.Logger) *Application {
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: version,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(MinWindowWidth, MinWindowHeight))
	window.CenterOnScreen()
	window.SetMaster()

	components := Build(cfg, NewKeyboard(cfg, os.Stdout), log)
	view := views.NewMainView(window)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     log,
		components: components,
		view:       view,
		shutdown:   shutdown.NewManager(log, 10*time.Second),
	}

	application.setupHandlers()
	application.setupWindowEvents()
	components.Controller.SetView(view)

	log.Info("Application", "initialization complete", map[string]interface{}{
		"version": version,
		"backend": cfg.Backend,
	})
	return application
}

func (a *Application) setupHandlers() {
	controller := a.components.Controller

	a.view.SetFileSelectedHandler(func(path string) {
		ctx, cancel := context.WithTimeout(a.shutdown.Context(), selectTimeout)
		defer cancel()
		_ = controller.SelectFile(ctx, path)
	})
	a.view.SetStageChangeHandler(func(stage string) {
		_ = controller.SelectStage(stage)
	})
	a.view.SetStartHandler(func() {
		_, _ = controller.StartSending()
	})
	a.view.SetStopHandler(controller.StopSending)
}

func (a *Application) setupWindowEvents() {
	a.shutdown.Register("controller", a.components.Controller)

	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested", nil)
		a.shutdown.Shutdown()
		a.window.Close()
	})
}

// Run shows the window and blocks until it is closed or ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	go func() {
		select {
		case <-ctx.Done():
			a.logger.Info("Application", "context cancelled, initiating shutdown", nil)
			a.shutdown.Shutdown()
			fyne.Do(a.fyneApp.Quit)
		case <-a.shutdown.Done():
		}
	}()

	a.window.Show()
	a.logger.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	a.shutdown.Shutdown()
	return nil
}
