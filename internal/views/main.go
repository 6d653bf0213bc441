package views

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"tab-sender/internal/controllers"
	"tab-sender/internal/models"
	"tab-sender/internal/views/components"
)

// MainView is the desktop window of the application
type MainView struct {
	window      fyne.Window
	toolbar     *components.Toolbar
	statusPanel *components.StatusPanel

	// Event handlers - connected to controller
	fileSelectedHandler func(path string)
	stageChangeHandler  func(string)
	startHandler        func()
	stopHandler         func()
}

var _ controllers.View = (*MainView)(nil)

// NewMainView creates a new main view
func NewMainView(window fyne.Window) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents() {
	stages := make([]string, 0, len(models.Stages))
	for _, s := range models.Stages {
		stages = append(stages, s.String())
	}
	mv.toolbar = components.NewToolbar(stages)
	mv.statusPanel = components.NewStatusPanel()
}

func (mv *MainView) buildLayout() {
	mv.window.SetContent(container.NewPadded(container.NewVBox(
		mv.toolbar.GetContainer(),
		mv.statusPanel.GetContainer(),
	)))
}

func (mv *MainView) setupEventHandlers() {
	mv.toolbar.SetSelectHandler(mv.showFileOpenDialog)

	mv.toolbar.SetStageHandler(func(stage string) {
		if mv.stageChangeHandler != nil {
			mv.stageChangeHandler(stage)
		}
	})

	mv.toolbar.SetStartHandler(func() {
		if mv.startHandler != nil {
			mv.startHandler()
		}
	})

	mv.toolbar.SetStopHandler(func() {
		if mv.stopHandler != nil {
			mv.stopHandler()
		}
	})
}

func (mv *MainView) showFileOpenDialog() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mv.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		if mv.fileSelectedHandler != nil {
			// parsing and its retries stay off the UI thread
			go mv.fileSelectedHandler(path)
		}
	}, mv.window)
	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".txt"}))
	fileDialog.Show()
}

// Event handler setters - called by application wiring

func (mv *MainView) SetFileSelectedHandler(handler func(path string)) {
	mv.fileSelectedHandler = handler
}

func (mv *MainView) SetStageChangeHandler(handler func(string)) {
	mv.stageChangeHandler = handler
}

func (mv *MainView) SetStartHandler(handler func()) {
	mv.startHandler = handler
}

func (mv *MainView) SetStopHandler(handler func()) {
	mv.stopHandler = handler
}

// UI update methods - called by controller, from any goroutine

func (mv *MainView) SetFile(path string) {
	fyne.Do(func() {
		mv.statusPanel.SetFile(path)
	})
}

func (mv *MainView) SetControls(state controllers.ControlState) {
	fyne.Do(func() {
		mv.toolbar.Apply(state.SelectFile, state.ChooseStage, state.Start, state.Stop, state.Stage.String())
	})
}

func (mv *MainView) UpdateStatus(message string) {
	fyne.Do(func() {
		mv.statusPanel.SetMessage(message)
	})
}

func (mv *MainView) UpdateCountdown(text string) {
	fyne.Do(func() {
		mv.statusPanel.SetCountdown(text)
	})
}

// ShowError displays an error dialog captioned with title
func (mv *MainView) ShowError(title string, err error) {
	fyne.Do(func() {
		errorDialog(title, err, mv.window).Show()
	})
}

func errorDialog(title string, err error, parent fyne.Window) dialog.Dialog {
	message := widget.NewLabel(err.Error())
	message.Wrapping = fyne.TextWrapWord
	content := container.NewBorder(nil, nil, widget.NewIcon(theme.ErrorIcon()), nil, message)
	return dialog.NewCustom(title, "OK", content, parent)
}

// ShowWarning displays an information dialog titled as a warning
func (mv *MainView) ShowWarning(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, mv.window)
	})
}
