package app

import (
	"io"

	"tab-sender/internal/config"
	"tab-sender/internal/controllers"
	"tab-sender/internal/extract"
	"tab-sender/internal/keyboard"
	"tab-sender/internal/keyboard/robot"
	"tab-sender/internal/logger"
	"tab-sender/internal/models"
	"tab-sender/internal/sequencer"
	"tab-sender/internal/services"
	"tab-sender/internal/watcher"
)

// Components is the wired object graph shared by the GUI and the CLI.
type Components struct {
	Config     *config.Config
	Repository *models.TableRepository
	Tables     *services.TableService
	Keyboard   keyboard.Keyboard
	Sequencer  *sequencer.Controller
	Controller *controllers.MainController
}

// NewKeyboard returns the configured backend wrapped with the per-action
// delay. dryRunOut receives action lines when the dry-run backend is used.
func NewKeyboard(cfg *config.Config, dryRunOut io.Writer) keyboard.Keyboard {
	var kb keyboard.Keyboard
	switch cfg.Backend {
	case config.BackendDryRun:
		kb = keyboard.NewWriter(dryRunOut)
	default:
		kb = robot.New()
	}
	if cfg.KeyDelay > 0 {
		kb = keyboard.NewPaced(kb, cfg.KeyDelay)
	}
	return kb
}

// Build wires models, services, the sequencer and the controller using
// dependency injection.
func Build(cfg *config.Config, kb keyboard.Keyboard, log logger.Logger) *Components {
	repo := models.NewTableRepository()
	parser := extract.NewFileParser(cfg.ReadAttempts, cfg.ReadDelay, log)
	tables := services.NewTableService(parser, repo)

	opts := sequencer.DefaultOptions()
	opts.Countdown = cfg.Countdown
	opts.Tick = cfg.TickInterval
	seq := sequencer.New(kb, opts, log)

	var controllerOpts []controllers.Option
	if cfg.Watch {
		controllerOpts = append(controllerOpts, controllers.WithFileWatch(watcher.DefaultDebounce))
	}
	controller := controllers.NewMainController(tables, seq, log, controllerOpts...)

	log.Debug("Application", "components wired", map[string]interface{}{
		"backend":   cfg.Backend,
		"countdown": cfg.Countdown,
		"watch":     cfg.Watch,
	})

	return &Components{
		Config:     cfg,
		Repository: repo,
		Tables:     tables,
		Keyboard:   kb,
		Sequencer:  seq,
		Controller: controller,
	}
}
