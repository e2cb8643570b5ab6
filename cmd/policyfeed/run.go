package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mobilitydesk/policyfeed/pipeline"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Fetch all feeds once and update the payload",
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

			report, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println("Run completed:")
			fmt.Printf("  Feeds fetched:   %d\n", report.FeedsFetched)
			fmt.Printf("  Feeds unchanged: %d\n", report.FeedsUnchanged)
			fmt.Printf("  Feeds failed:    %d\n", report.FeedsFailed)
			fmt.Printf("  Entries kept:    %d / %d\n", report.EntriesKept, report.EntriesSeen)
			fmt.Printf("  Items published: %d\n", report.ItemsPublished)
			if report.PreservedExisting {
				fmt.Println("  No relevant items; existing output preserved")
			} else {
				fmt.Printf("  Files written:   %d\n", report.FilesWritten)
			}
			return nil
		},
	}
}
