package controllers

import "tab-sender/internal/models"

// ControlState says which user actions are currently available.
type ControlState struct {
	SelectFile  bool
	ChooseStage bool
	Start       bool
	Stop        bool
	Stage       models.Stage
}

// View is the presentation surface driven by MainController. Methods may be
// called from the sequencer worker goroutine; implementations marshal onto
// their own UI thread when they need to.
type View interface {
	SetFile(path string)
	SetControls(state ControlState)
	UpdateStatus(message string)
	UpdateCountdown(text string)
	ShowError(title string, err error)
	ShowWarning(title, message string)
}
