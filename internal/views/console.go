package views

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"tab-sender/internal/controllers"
)

// ConsoleView prints controller output as plain lines, for the CLI.
type ConsoleView struct {
	mu  sync.Mutex
	out io.Writer
}

var _ controllers.View = (*ConsoleView)(nil)

func NewConsoleView(out io.Writer) *ConsoleView {
	return &ConsoleView{out: out}
}

func (cv *ConsoleView) println(format string, args ...interface{}) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	fmt.Fprintf(cv.out, format+"\n", args...)
}

func (cv *ConsoleView) SetFile(path string) {
	cv.println("Selected File: %s", path)
}

// SetControls has nothing to show on a terminal.
func (cv *ConsoleView) SetControls(controllers.ControlState) {}

func (cv *ConsoleView) UpdateStatus(message string) {
	for _, line := range strings.Split(message, "\n") {
		cv.println("%s", line)
	}
}

func (cv *ConsoleView) UpdateCountdown(text string) {
	if text == "" {
		return
	}
	cv.println("%s...", text)
}

func (cv *ConsoleView) ShowError(title string, err error) {
	cv.println("%s: %v", title, err)
}

func (cv *ConsoleView) ShowWarning(title, message string) {
	cv.println("%s: %s", title, message)
}
