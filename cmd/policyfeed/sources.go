package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mobilitydesk/policyfeed/pipeline"
	"github.com/mobilitydesk/policyfeed/sources"
	"github.com/mobilitydesk/policyfeed/store"
)

func newSourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage feed sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newSourcesListCommand())
	return cmd
}

func newSourcesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured feeds with their fetch state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.Log.Debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			p, err := pipeline.New(cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			stateByURL := map[string]store.FeedState{}
			if st := p.State(); st != nil {
				all, err := st.All()
				if err != nil {
					return err
				}
				for _, fs := range all {
					stateByURL[fs.URL] = fs
				}
			}

			feeds := p.Feeds()
			fmt.Printf("%d feeds configured:\n\n", len(feeds))
			for _, u := range feeds {
				fmt.Printf("  %s\n    %s\n", sources.ResolveName(u), u)
				if fs, ok := stateByURL[u]; ok {
					if fs.LastFetchedAt != nil {
						fmt.Printf("    last fetched: %s\n", fs.LastFetchedAt.Format("2006-01-02 15:04:05 MST"))
					}
					if fs.FetchErrorCount > 0 {
						fmt.Printf("    errors: %d (last: %s)\n", fs.FetchErrorCount, fs.LastError)
					}
				}
			}
			return nil
		},
	}
}
