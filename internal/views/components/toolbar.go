package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the file, stage and send controls
type Toolbar struct {
	container    *fyne.Container
	selectButton *widget.Button
	stageSelect  *widget.Select
	startButton  *widget.Button
	stopButton   *widget.Button

	// Event handlers
	selectHandler func()
	stageHandler  func(string)
	startHandler  func()
	stopHandler   func()

	// suppresses stageHandler while the stage is set programmatically
	applying bool
}

// NewToolbar creates a new toolbar component
func NewToolbar(stages []string) *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents(stages)
	toolbar.buildLayout()
	return toolbar
}

func (t *Toolbar) createComponents(stages []string) {
	t.selectButton = widget.NewButton("Select TXT File", func() {
		if t.selectHandler != nil {
			t.selectHandler()
		}
	})
	t.selectButton.Importance = widget.HighImportance

	t.stageSelect = widget.NewSelect(stages, func(stage string) {
		if t.applying || t.stageHandler == nil {
			return
		}
		t.stageHandler(stage)
	})
	if len(stages) > 0 {
		t.applying = true
		t.stageSelect.SetSelected(stages[0])
		t.applying = false
	}
	t.stageSelect.Disable()

	t.startButton = widget.NewButton("Start Sending", func() {
		if t.startHandler != nil {
			t.startHandler()
		}
	})
	t.startButton.Importance = widget.HighImportance
	t.startButton.Disable()

	t.stopButton = widget.NewButton("Stop", func() {
		if t.stopHandler != nil {
			t.stopHandler()
		}
	})
	t.stopButton.Importance = widget.MediumImportance
	t.stopButton.Disable()
}

func (t *Toolbar) buildLayout() {
	t.container = container.NewVBox(
		t.selectButton,
		t.stageSelect,
		t.startButton,
		t.stopButton,
	)
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}

func (t *Toolbar) SetSelectHandler(handler func()) {
	t.selectHandler = handler
}

func (t *Toolbar) SetStageHandler(handler func(string)) {
	t.stageHandler = handler
}

func (t *Toolbar) SetStartHandler(handler func()) {
	t.startHandler = handler
}

func (t *Toolbar) SetStopHandler(handler func()) {
	t.stopHandler = handler
}

// Apply enables or disables each control. Must run on the fyne thread.
func (t *Toolbar) Apply(selectFile, chooseStage, start, stop bool, stage string) {
	setEnabled(t.selectButton, selectFile)
	setEnabled(t.stageSelect, chooseStage)
	setEnabled(t.startButton, start)
	setEnabled(t.stopButton, stop)

	if stage != "" && t.stageSelect.Selected != stage {
		t.applying = true
		t.stageSelect.SetSelected(stage)
		t.applying = false
	}
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}
