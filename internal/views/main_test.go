package views

import (
	"errors"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// texts collects every label and text string reachable from obj.
func texts(obj fyne.CanvasObject) []string {
	var out []string
	switch o := obj.(type) {
	case *widget.Label:
		out = append(out, o.Text)
	case *canvas.Text:
		out = append(out, o.Text)
	}
	switch o := obj.(type) {
	case *fyne.Container:
		for _, child := range o.Objects {
			out = append(out, texts(child)...)
		}
	case fyne.Widget:
		for _, child := range test.WidgetRenderer(o).Objects() {
			out = append(out, texts(child)...)
		}
	}
	return out
}

func TestErrorDialogKeepsTitle(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewWindow(nil)
	defer w.Close()

	errorDialog("Load failed", errors.New("file is locked"), w).Show()

	top := w.Canvas().Overlays().Top()
	require.NotNil(t, top)
	found := texts(top)
	assert.Contains(t, found, "Load failed")
	assert.Contains(t, found, "file is locked")
}
