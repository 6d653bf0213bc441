package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tab-sender/internal/app"
	"tab-sender/internal/config"
	"tab-sender/internal/models"
	"tab-sender/internal/views"
)

var (
	sendStage  string
	sendDryRun bool
)

var sendCmd = &cobra.Command{
	Use:   "send <file>",
	Short: "Count down, then type one stage table into the focused window",
	Long: `Parse a text export and type the values of one stage table into the window
that has keyboard focus once the countdown ends. Tab is pressed after every
value. Press Ctrl+C to stop; the value being typed is always finished.

Without --stage, Stage A is sent when present, otherwise Stage N.

Examples:
  tab-sender send export.txt
  tab-sender send export.txt --stage N --countdown 5
  tab-sender send export.txt --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if sendDryRun {
			cfg.Backend = config.BackendDryRun
		}

		c := app.Build(cfg, app.NewKeyboard(cfg, cmd.OutOrStdout()), log)
		defer c.Controller.Shutdown()
		c.Controller.SetView(views.NewConsoleView(cmd.ErrOrStderr()))

		if err := c.Controller.SelectFile(ctx, args[0]); err != nil {
			return err
		}
		if sendStage != "" {
			if err := c.Controller.SelectStage(sendStage); err != nil {
				return err
			}
		}

		job, err := c.Controller.StartSending()
		if err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			select {
			case <-gctx.Done():
				c.Controller.StopSending()
			case <-job.Done():
			}
			return nil
		})
		g.Go(func() error {
			<-job.Done()
			outcome, _ := job.Outcome()
			if outcome.Phase == models.PhaseFailed {
				return outcome.Err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d values sent\n", outcome.Sent, job.Total())
			return nil
		})
		return g.Wait()
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendStage, "stage", "", "stage to send: A or N")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "print the keystrokes instead of typing them")
}
