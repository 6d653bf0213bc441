package main

import (
	"github.com/spf13/cobra"

	"tab-sender/internal/app"
	"tab-sender/internal/version"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop window (default)",
	RunE:  runGUI,
}

func runGUI(cmd *cobra.Command, args []string) error {
	application := app.NewApplication(cfg, version.GitRelease, log)
	return application.Run(cmd.Context())
}
