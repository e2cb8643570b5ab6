package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mobilitydesk/policyfeed/pipeline"
)

func newScheduleCommand() *cobra.Command {
	var cronSpec string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the poll cycle on a cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.Log.Debug)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer logger.Sync()

			p, err := pipeline.New(cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runOnce := func() {
				if _, err := p.Run(ctx); err != nil {
					logger.Error("scheduled run failed", zap.Error(err))
				}
			}

			c := cron.New()
			if _, err := c.AddFunc(cronSpec, runOnce); err != nil {
				return fmt.Errorf("invalid cron expression %q: %w", cronSpec, err)
			}

			logger.Info("scheduler started", zap.String("cron", cronSpec))
			// First cycle immediately; cron handles the rest.
			runOnce()
			c.Start()

			<-ctx.Done()
			logger.Info("scheduler stopping")
			<-c.Stop().Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", "@every 6h", "cron expression for poll runs")
	return cmd
}
