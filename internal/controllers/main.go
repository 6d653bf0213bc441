package controllers

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"tab-sender/internal/logger"
	"tab-sender/internal/models"
	"tab-sender/internal/sequencer"
	"tab-sender/internal/services"
	"tab-sender/internal/watcher"
)

const component = "MainController"

// reloadTimeout bounds a re-parse triggered by a file change.
const reloadTimeout = 30 * time.Second

// MainController connects the table service and the keystroke sequencer to
// a View.
type MainController struct {
	tables    *services.TableService
	sequencer *sequencer.Controller
	log       logger.Logger

	watchFiles    bool
	watchDebounce time.Duration

	// serializes computing and pushing control state
	controlsMu sync.Mutex

	mu          sync.Mutex
	view        View
	stage       models.Stage
	fileWatcher *watcher.FileWatcher
}

// Option configures a MainController.
type Option func(*MainController)

// WithFileWatch reloads the selected file whenever it changes on disk.
func WithFileWatch(debounce time.Duration) Option {
	return func(mc *MainController) {
		mc.watchFiles = true
		mc.watchDebounce = debounce
	}
}

// NewMainController creates a new main controller
func NewMainController(
	tables *services.TableService,
	seq *sequencer.Controller,
	log logger.Logger,
	opts ...Option,
) *MainController {
	mc := &MainController{
		tables:    tables,
		sequencer: seq,
		log:       log,
		view:      nopView{},
		stage:     models.StageA,
	}
	for _, opt := range opts {
		opt(mc)
	}
	return mc
}

// SetView associates the view with this controller and pushes the initial
// control state.
func (mc *MainController) SetView(view View) {
	mc.mu.Lock()
	mc.view = view
	mc.mu.Unlock()

	mc.applyControls()
}

func (mc *MainController) currentView() View {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.view
}

// Stage returns the selected stage.
func (mc *MainController) Stage() models.Stage {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.stage
}

// SelectFile loads path, evaluates its tables and updates the view.
func (mc *MainController) SelectFile(ctx context.Context, path string) error {
	view := mc.currentView()
	if mc.sequencer.Busy() {
		view.ShowWarning("Warning", "Cannot change the file while sending data.")
		return models.ErrAlreadyRunning
	}

	view.SetFile(path)
	doc, err := mc.tables.Load(ctx, path)
	if err != nil {
		view.ShowError("Error", err)
	}
	mc.evaluate(doc)

	if err == nil {
		mc.watch(doc.Path)
	}
	return err
}

// evaluate chooses the default stage and reports what the file contained.
func (mc *MainController) evaluate(doc models.LoadedDocument) {
	view := mc.currentView()
	av := doc.Tables.Evaluate()

	mc.mu.Lock()
	mc.stage = av.DefaultStage
	mc.mu.Unlock()

	if !av.Any() {
		view.ShowError("Error", errors.New(av.Summary()))
	}
	view.UpdateStatus(av.Summary() + "\n" + doc.Tables.SizeLine())
	mc.applyControls()

	mc.log.Info(component, "tables evaluated", map[string]interface{}{
		"path":    doc.Path,
		"stage_a": doc.Tables.StageA.Len(),
		"stage_n": doc.Tables.StageN.Len(),
		"stage":   av.DefaultStage.String(),
	})
}

// SelectStage changes the stage that StartSending will send.
func (mc *MainController) SelectStage(value string) error {
	stage, err := models.ParseStage(value)
	if err != nil {
		mc.currentView().ShowError("Error", err)
		return err
	}

	mc.mu.Lock()
	mc.stage = stage
	mc.mu.Unlock()
	return nil
}

// StartSending starts a dispatch job for the selected stage.
func (mc *MainController) StartSending() (*sequencer.Job, error) {
	view := mc.currentView()
	if mc.sequencer.Busy() {
		view.ShowWarning("Warning", "Already sending data.")
		return nil, models.ErrAlreadyRunning
	}

	stage := mc.Stage()
	seq, err := mc.tables.Sequence(stage)
	if err != nil {
		view.ShowError("Error", errors.Wrap(err, "invalid stage selected"))
		return nil, err
	}
	if seq.IsEmpty() {
		err := models.NewValidationError("stage", stage, fmt.Sprintf("No data available for Stage %s.", stage))
		view.ShowError("Error", err)
		return nil, err
	}

	view.SetControls(ControlState{Stop: true, Stage: stage})

	job, err := mc.sequencer.Start(seq, mc)
	if err != nil {
		if models.KindOf(err) == models.KindConflict {
			view.ShowWarning("Warning", "Already sending data.")
		} else {
			view.ShowError("Error", err)
		}
		mc.applyControls()
		return nil, err
	}
	// a load that finished between the two calls may have re-enabled Start
	mc.applyControls()

	mc.log.Info(component, "sending started", map[string]interface{}{
		"job":   job.ID().String(),
		"stage": stage.String(),
		"items": seq.Len(),
	})
	return job, nil
}

// StopSending asks the running job to stop.
func (mc *MainController) StopSending() {
	job := mc.sequencer.Active()
	if job == nil {
		return
	}
	mc.sequencer.Cancel(job)

	mc.currentView().UpdateStatus("Stopping...")
	mc.applyControls()
}

// CountdownTick implements sequencer.Reporter.
func (mc *MainController) CountdownTick(_ *sequencer.Job, remaining int) {
	mc.currentView().UpdateCountdown(strconv.Itoa(remaining))
}

// PhaseChanged implements sequencer.Reporter.
func (mc *MainController) PhaseChanged(job *sequencer.Job, event sequencer.Event) {
	view := mc.currentView()

	switch event.Phase {
	case models.PhaseCountingDown:
		view.UpdateStatus(mc.startingMessage())
	case models.PhaseDispatching:
		view.UpdateCountdown("")
		view.UpdateStatus("Sending data...")
	case models.PhaseCompleted:
		view.UpdateStatus("Done sending data.")
	case models.PhaseCancelled:
		view.UpdateStatus("Sending stopped by user.")
	case models.PhaseFailed:
		view.ShowError("Error", errors.Wrap(event.Err, "an error occurred during sending"))
		view.UpdateStatus("Error occurred.")
	case models.PhaseIdle:
		if mc.superseded(job) {
			break
		}
		view.UpdateCountdown("")
		mc.applyControls()
	}

	mc.log.Debug(component, "phase changed", map[string]interface{}{
		"job":   job.ID().String(),
		"phase": event.Phase.String(),
		"sent":  event.Sent,
		"total": event.Total,
	})
}

func (mc *MainController) startingMessage() string {
	opts := mc.sequencer.Options()
	total := time.Duration(opts.Countdown) * opts.Tick
	if total%time.Second == 0 {
		return fmt.Sprintf("Starting in %d seconds...", int(total/time.Second))
	}
	return fmt.Sprintf("Starting in %s...", total)
}

// superseded reports whether another job has started since job finished.
func (mc *MainController) superseded(job *sequencer.Job) bool {
	active := mc.sequencer.Active()
	return active != nil && active != job
}

// applyControls pushes the control state matching the sequencer and the
// current document.
func (mc *MainController) applyControls() {
	mc.controlsMu.Lock()
	defer mc.controlsMu.Unlock()

	mc.currentView().SetControls(mc.controls())
}

// controls keeps everything but Stop disabled while a job runs, and Stop
// too once it has been pressed.
func (mc *MainController) controls() ControlState {
	if job := mc.sequencer.Active(); job != nil {
		return ControlState{Stop: !job.CancelRequested(), Stage: mc.Stage()}
	}

	av := mc.tables.Current().Tables.Evaluate()
	return ControlState{
		SelectFile:  true,
		ChooseStage: av.CanChooseStage(),
		Start:       av.Any(),
		Stage:       mc.Stage(),
	}
}

// watch follows path for changes, replacing any previous watch.
func (mc *MainController) watch(path string) {
	if !mc.watchFiles {
		return
	}

	mc.mu.Lock()
	previous := mc.fileWatcher
	mc.fileWatcher = nil
	mc.mu.Unlock()
	if previous != nil {
		previous.Shutdown()
	}

	fw, err := watcher.New(path, mc.watchDebounce, mc.onFileChanged, mc.log)
	if err != nil {
		mc.log.Warning(component, "cannot watch file", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return
	}

	mc.mu.Lock()
	mc.fileWatcher = fw
	mc.mu.Unlock()
}

func (mc *MainController) onFileChanged(path string) {
	if mc.sequencer.Busy() {
		mc.log.Info(component, "file changed while sending, reload skipped", map[string]interface{}{
			"path": path,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	doc, err := mc.tables.Reload(ctx)
	if err != nil {
		mc.currentView().ShowError("Error", err)
	}
	mc.evaluate(doc)
}

// Shutdown stops any running job and the file watcher.
func (mc *MainController) Shutdown() {
	mc.sequencer.Shutdown()

	mc.mu.Lock()
	fw := mc.fileWatcher
	mc.fileWatcher = nil
	mc.mu.Unlock()
	if fw != nil {
		fw.Shutdown()
	}
}

type nopView struct{}

func (nopView) SetFile(string) {}
func (nopView) SetControls(ControlState) {}
func (nopView) UpdateStatus(string) {}
func (nopView) UpdateCountdown(string) {}
func (nopView) ShowError(string, error) {}
func (nopView) ShowWarning(string, string) {}
