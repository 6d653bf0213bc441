package main

import (
	"os"

	"github.com/spf13/cobra"

	"tab-sender/internal/config"
	"tab-sender/internal/logger"
	"tab-sender/internal/version"
)

var v = config.NewViper()

// Set by PersistentPreRunE before any command runs.
var (
	cfg *config.Config
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tab-sender",
	Short: "Type frequency tables into another application",
	Long: `Tab Sender reads a text export containing "Stage A - 256 Frequencies" and
"Stage N - 256 Frequencies" tables and types every value into whatever
window has keyboard focus, pressing Tab after each one.

Without a subcommand the desktop window is opened.

Every flag can also be set through a TABSENDER_* environment variable,
for example TABSENDER_COUNTDOWN=5 or TABSENDER_KEY_DELAY=50ms.`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = loaded
		log = logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
		return nil
	},
	RunE: runGUI,
}

func init() {
	d := config.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.Int("countdown", d.Countdown, "countdown ticks before typing starts")
	flags.Duration("tick-interval", d.TickInterval, "length of one countdown tick")
	flags.Duration("key-delay", d.KeyDelay, "pause after every typed value and key press")
	flags.String("backend", d.Backend, "keyboard backend: robotgo or dry-run")
	flags.Uint("read-attempts", d.ReadAttempts, "attempts when reading the input file")
	flags.Duration("read-delay", d.ReadDelay, "delay between read attempts")
	flags.String("log-level", d.LogLevel, "log level: debug, info, warn or error")
	flags.String("log-format", d.LogFormat, "log format: console or json")
	flags.Bool("watch", d.Watch, "reload the selected file when it changes")
	if err := config.BindFlags(v, flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(guiCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(versionCmd)
}
