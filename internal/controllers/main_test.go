package controllers

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tab-sender/internal/extract"
	"tab-sender/internal/keyboard"
	"tab-sender/internal/logger"
	"tab-sender/internal/models"
	"tab-sender/internal/sequencer"
	"tab-sender/internal/services"
)

const bothTables = `AJ Table #0 Stage A - 256 Frequencies
-----
01234 56789
AJ Table #0 Stage N - 256 Frequencies
-----
11111
`

type fakeView struct {
	mu         sync.Mutex
	files      []string
	statuses   []string
	countdowns []string
	controls   []ControlState
	errs       []error
	warnings   []string
	ticked     chan struct{}
}

func newFakeView() *fakeView {
	return &fakeView{ticked: make(chan struct{}, 64)}
}

func (v *fakeView) SetFile(path string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.files = append(v.files, path)
}

func (v *fakeView) SetControls(state ControlState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.controls = append(v.controls, state)
}

func (v *fakeView) UpdateStatus(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, message)
}

func (v *fakeView) UpdateCountdown(text string) {
	v.mu.Lock()
	v.countdowns = append(v.countdowns, text)
	v.mu.Unlock()
	if text != "" {
		select {
		case v.ticked <- struct{}{}:
		default:
		}
	}
}

func (v *fakeView) ShowError(_ string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errs = append(v.errs, err)
}

func (v *fakeView) ShowWarning(_ string, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.warnings = append(v.warnings, message)
}

func (v *fakeView) lastControls() ControlState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.controls[len(v.controls)-1]
}

func (v *fakeView) lastStatus() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.statuses[len(v.statuses)-1]
}

func (v *fakeView) statusList() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.statuses...)
}

func (v *fakeView) errorList() []error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]error(nil), v.errs...)
}

type harness struct {
	controller *MainController
	view       *fakeView
	keys       *keyboard.Recorder
}

func newHarness(t *testing.T, opts sequencer.Options, ctrlOpts ...Option) *harness {
	t.Helper()
	return newHarnessWithParser(t, extract.NewFileParser(1, 0, logger.Nop()), opts, ctrlOpts...)
}

func newHarnessWithParser(t *testing.T, parser services.Parser, opts sequencer.Options, ctrlOpts ...Option) *harness {
	t.Helper()
	keys := keyboard.NewRecorder()
	tables := services.NewTableService(parser, models.NewTableRepository())
	seq := sequencer.New(keys, opts, logger.Nop())
	mc := NewMainController(tables, seq, logger.Nop(), ctrlOpts...)
	view := newFakeView()
	mc.SetView(view)
	t.Cleanup(mc.Shutdown)
	return &harness{controller: mc, view: view, keys: keys}
}

// gatedParser holds Parse until gate is closed, once gate is set.
type gatedParser struct {
	next    services.Parser
	gate    chan struct{}
	entered chan struct{}
}

func (p *gatedParser) Parse(ctx context.Context, path string) (models.Tables, error) {
	if p.gate != nil {
		close(p.entered)
		<-p.gate
	}
	return p.next.Parse(ctx, path)
}

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func waitJob(t *testing.T, job *sequencer.Job) sequencer.Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	outcome, err := job.Wait(ctx)
	require.NoError(t, err)
	return outcome
}

func TestInitialControls(t *testing.T) {
	h := newHarness(t, sequencer.Options{})

	assert.Equal(t, ControlState{SelectFile: true, Stage: models.StageA}, h.view.lastControls())
}

func TestSelectFileWithBothTables(t *testing.T) {
	h := newHarness(t, sequencer.Options{})
	path := writeExport(t, bothTables)

	require.NoError(t, h.controller.SelectFile(context.Background(), path))

	assert.Equal(t, []string{path}, h.view.files)
	assert.Equal(t, "Both Stage A and Stage N tables found.\nSize - Stage A: 2 | Stage N: 1", h.view.lastStatus())
	assert.Equal(t, ControlState{SelectFile: true, ChooseStage: true, Start: true, Stage: models.StageA}, h.view.lastControls())
}

func TestSelectFileWithOnlyStageN(t *testing.T) {
	h := newHarness(t, sequencer.Options{})
	path := writeExport(t, "Stage N - 256 Frequencies\n---\n11111\n")

	require.NoError(t, h.controller.SelectFile(context.Background(), path))

	assert.Equal(t, models.StageN, h.controller.Stage())
	assert.Equal(t, ControlState{SelectFile: true, Start: true, Stage: models.StageN}, h.view.lastControls())
}

func TestSelectFileUnreadable(t *testing.T) {
	h := newHarness(t, sequencer.Options{})

	err := h.controller.SelectFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))

	assert.Equal(t, models.KindResource, models.KindOf(err))
	require.NotEmpty(t, h.view.errorList())
	assert.Equal(t, models.KindResource, models.KindOf(h.view.errorList()[0]))
	assert.False(t, h.view.lastControls().Start)
}

func TestSelectFileWithoutTables(t *testing.T) {
	h := newHarness(t, sequencer.Options{})

	require.NoError(t, h.controller.SelectFile(context.Background(), writeExport(t, "nothing here\n")))

	errs := h.view.errorList()
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "No Stage A or Stage N tables found in the file.")
	assert.False(t, h.view.lastControls().Start)
}

func TestStartSendingCompletes(t *testing.T) {
	h := newHarness(t, sequencer.Options{Countdown: 0, Tick: time.Millisecond})
	require.NoError(t, h.controller.SelectFile(context.Background(), writeExport(t, bothTables)))
	require.NoError(t, h.controller.SelectStage("n"))

	job, err := h.controller.StartSending()
	require.NoError(t, err)
	outcome := waitJob(t, job)

	assert.Equal(t, models.PhaseCompleted, outcome.Phase)
	assert.Equal(t, []keyboard.Action{
		{Kind: keyboard.ActionType, Text: "11.111"},
		{Kind: keyboard.ActionPress, Text: "tab"},
	}, h.keys.Actions())

	statuses := h.view.statusList()
	assert.Equal(t, []string{"Starting in 0 seconds...", "Sending data...", "Done sending data."}, statuses[len(statuses)-3:])
	assert.Equal(t, ControlState{SelectFile: true, ChooseStage: true, Start: true, Stage: models.StageN}, h.view.lastControls())
}

func TestStartingMessageUsesWholeSeconds(t *testing.T) {
	h := newHarness(t, sequencer.Options{Countdown: 10, Tick: time.Second})
	assert.Equal(t, "Starting in 10 seconds...", h.controller.startingMessage())

	h = newHarness(t, sequencer.Options{Countdown: 3, Tick: 100 * time.Millisecond})
	assert.Equal(t, "Starting in 300ms...", h.controller.startingMessage())
}

func TestStartSendingEmptyStage(t *testing.T) {
	h := newHarness(t, sequencer.Options{})
	require.NoError(t, h.controller.SelectFile(context.Background(), writeExport(t, "Stage A - 256 Frequencies\n---\n11111\n")))
	require.NoError(t, h.controller.SelectStage("N"))

	job, err := h.controller.StartSending()

	assert.Nil(t, job)
	var valErr *models.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "No data available for Stage N.", valErr.Message)
	assert.Empty(t, h.keys.Actions())
}

func TestSelectStageRejectsUnknown(t *testing.T) {
	h := newHarness(t, sequencer.Options{})

	err := h.controller.SelectStage("Q")

	assert.Equal(t, models.KindValidation, models.KindOf(err))
	assert.Equal(t, models.StageA, h.controller.Stage())
}

func TestStopSendingDuringCountdown(t *testing.T) {
	h := newHarness(t, sequencer.Options{Countdown: 500, Tick: 10 * time.Millisecond})
	require.NoError(t, h.controller.SelectFile(context.Background(), writeExport(t, bothTables)))

	job, err := h.controller.StartSending()
	require.NoError(t, err)
	<-h.view.ticked

	h.controller.StopSending()
	outcome := waitJob(t, job)

	assert.Equal(t, models.PhaseCancelled, outcome.Phase)
	assert.Empty(t, h.keys.Actions())
	assert.Contains(t, h.view.statusList(), "Stopping...")
	assert.Equal(t, "Sending stopped by user.", h.view.lastStatus())
	assert.True(t, h.view.lastControls().Start)
}

func TestStartSendingWhileRunningWarns(t *testing.T) {
	h := newHarness(t, sequencer.Options{Countdown: 500, Tick: 10 * time.Millisecond})
	require.NoError(t, h.controller.SelectFile(context.Background(), writeExport(t, bothTables)))

	job, err := h.controller.StartSending()
	require.NoError(t, err)

	second, err := h.controller.StartSending()
	assert.Nil(t, second)
	assert.ErrorIs(t, err, models.ErrAlreadyRunning)
	assert.Equal(t, []string{"Already sending data."}, h.view.warnings)

	err = h.controller.SelectFile(context.Background(), writeExport(t, bothTables))
	assert.ErrorIs(t, err, models.ErrAlreadyRunning)

	h.controller.StopSending()
	waitJob(t, job)
}

func TestFileChangeReloadsTables(t *testing.T) {
	h := newHarness(t, sequencer.Options{}, WithFileWatch(10*time.Millisecond))
	path := writeExport(t, "Stage A - 256 Frequencies\n---\n11111\n")
	require.NoError(t, h.controller.SelectFile(context.Background(), path))

	require.NoError(t, os.WriteFile(path, []byte(bothTables), 0o600))

	assert.Eventually(t, func() bool {
		return h.view.lastStatus() == "Both Stage A and Stage N tables found.\nSize - Stage A: 2 | Stage N: 1"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestLoadFinishingDuringJobKeepsStopEnabled(t *testing.T) {
	parser := &gatedParser{next: extract.NewFileParser(1, 0, logger.Nop())}
	h := newHarnessWithParser(t, parser, sequencer.Options{Countdown: 500, Tick: 10 * time.Millisecond})
	require.NoError(t, h.controller.SelectFile(context.Background(), writeExport(t, bothTables)))

	parser.gate = make(chan struct{})
	parser.entered = make(chan struct{})
	second := writeExport(t, bothTables)
	loaded := make(chan error, 1)
	go func() {
		loaded <- h.controller.SelectFile(context.Background(), second)
	}()
	<-parser.entered

	job, err := h.controller.StartSending()
	require.NoError(t, err)
	<-h.view.ticked

	close(parser.gate)
	require.NoError(t, <-loaded)

	assert.True(t, h.controller.sequencer.Busy())
	assert.Equal(t, ControlState{Stop: true, Stage: models.StageA}, h.view.lastControls())

	h.controller.StopSending()
	assert.Equal(t, models.PhaseCancelled, waitJob(t, job).Phase)
	assert.Equal(t, ControlState{SelectFile: true, ChooseStage: true, Start: true, Stage: models.StageA}, h.view.lastControls())
}

func TestIdleFromFinishedJobIgnoredWhileAnotherRuns(t *testing.T) {
	h := newHarness(t, sequencer.Options{Countdown: 500, Tick: 10 * time.Millisecond})
	require.NoError(t, h.controller.SelectFile(context.Background(), writeExport(t, bothTables)))

	first, err := h.controller.StartSending()
	require.NoError(t, err)
	h.controller.StopSending()
	waitJob(t, first)

	second, err := h.controller.StartSending()
	require.NoError(t, err)

	h.controller.PhaseChanged(first, sequencer.Event{Phase: models.PhaseIdle})

	assert.Equal(t, ControlState{Stop: true, Stage: models.StageA}, h.view.lastControls())

	h.controller.StopSending()
	waitJob(t, second)
}
