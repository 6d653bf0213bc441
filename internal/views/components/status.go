package components

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type StatusPanel struct {
	container      *fyne.Container
	fileLabel      *widget.Label
	messageLabel   *widget.Label
	countdownLabel *canvas.Text
}

func NewStatusPanel() *StatusPanel {
	fileLabel := widget.NewLabel("No file selected")
	fileLabel.Wrapping = fyne.TextWrapBreak

	messageLabel := widget.NewLabel("")
	messageLabel.Alignment = fyne.TextAlignCenter
	messageLabel.Wrapping = fyne.TextWrapWord

	countdownLabel := canvas.NewText("", color.NRGBA{R: 0xd0, G: 0x20, B: 0x20, A: 0xff})
	countdownLabel.Alignment = fyne.TextAlignCenter
	countdownLabel.TextSize = 16
	countdownLabel.TextStyle = fyne.TextStyle{Bold: true}

	return &StatusPanel{
		container:      container.NewVBox(fileLabel, messageLabel, countdownLabel),
		fileLabel:      fileLabel,
		messageLabel:   messageLabel,
		countdownLabel: countdownLabel,
	}
}

func (sp *StatusPanel) GetContainer() *fyne.Container {
	return sp.container
}

func (sp *StatusPanel) SetFile(path string) {
	sp.fileLabel.SetText("Selected File: " + path)
}

func (sp *StatusPanel) SetMessage(message string) {
	sp.messageLabel.SetText(message)
}

func (sp *StatusPanel) SetCountdown(text string) {
	sp.countdownLabel.Text = text
	sp.countdownLabel.Refresh()
}
