package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/parcelsim/app"
	"github.com/kilianp07/parcelsim/config"
	"github.com/kilianp07/parcelsim/core/clock"
	"github.com/kilianp07/parcelsim/infra/logger"
)

var (
	untilFlag string
	jsonFlag  bool
	quietFlag bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate the delivery day and print the status report",
	RunE:  runDay,
}

func init() {
	runCmd.Flags().StringVar(&untilFlag, "until", "", "freeze the day at the given time (24h H:MM, between 8:00 and 23:59)")
	runCmd.Flags().BoolVar(&jsonFlag, "json", false, "print the report as JSON")
	runCmd.Flags().BoolVar(&quietFlag, "quiet", false, "suppress per-event progress lines")
	rootCmd.AddCommand(runCmd)
}

func runDay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if untilFlag != "" {
		t, err := time.Parse("15:04", untilFlag)
		if err != nil {
			return fmt.Errorf("parse --until: %w", err)
		}
		cfg.Day.StopAt = clock.At(t.Hour(), t.Minute(), 0).Format("3:04 PM")
		if err := cfg.Day.Validate(); err != nil {
			return fmt.Errorf("--until: %w", err)
		}
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	var progress *progressPrinter
	if !quietFlag {
		progress = startProgress(cmd.OutOrStdout(), svc.Bus())
	}
	if _, err := svc.Run(ctx); err != nil {
		return err
	}
	if progress != nil {
		progress.Stop()
	}

	rep := svc.Report()
	if jsonFlag {
		return rep.WriteJSON(cmd.OutOrStdout())
	}
	return rep.WriteText(cmd.OutOrStdout())
}
