// Command policyfeed polls RSS/Atom feeds from government and
// education-sector publishers, filters entries through the relevance rules,
// and writes a capped, deduplicated JSON payload for a static site.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mobilitydesk/policyfeed/config"
)

var (
	cfgFile string
	debug   bool

	rootCmd = &cobra.Command{
		Use:   "policyfeed",
		Short: "Policy and student-mobility news tracker",
		Long: `policyfeed polls government, regulator, and sector-media feeds,
keeps entries about visa and immigration policy affecting international
students, and publishes a bounded JSON payload for a static site.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./policyfeed.yaml or ~/.policyfeed/policyfeed.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newScheduleCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newSourcesCommand())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("policyfeed " + version)
		},
	})
}

const version = "1.0.0"

// loadConfig reads configuration and honors the --debug flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Log.Debug = true
	}
	return cfg, nil
}

// newLogger builds the process logger.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	// Load .env early so environment overrides are visible to config.
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
