package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"PortSentinel/internal/scheduler"
)

func newMonitorCmd(log zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Continuously monitor the portfolio on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			marketHours, _ := cmd.Flags().GetBool("market-hours")
			runOnStart, _ := cmd.Flags().GetBool("run-on-start")
			return runMonitor(cmd, log, marketHours, runOnStart)
		},
	}

	cmd.Flags().Bool("market-hours", false, "Only run checks during US market hours")
	cmd.Flags().Bool("run-on-start", false, "Run a check immediately on startup")

	return cmd
}

func runMonitor(cmd *cobra.Command, log zerolog.Logger, marketHours, runOnStart bool) error {
	a, err := buildApp(cmd, log)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	marketHoursOnly := marketHours || a.cfg.Schedule.MarketHoursOnly

	sched := scheduler.New(ctx, a.analyzer, a.concentration, a.notifier, a.telegram,
		a.recorder, a.portfolio, marketHoursOnly, log)
	if err := sched.Register(a.cfg.Schedule.CheckCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if runOnStart {
		go func() {
			if _, err := sched.RunNow(); err != nil {
				log.Error().Err(err).Msg("initial check failed")
			}
		}()
	}

	log.Info().Str("cron", a.cfg.Schedule.CheckCron).Msg("monitoring, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	return nil
}
