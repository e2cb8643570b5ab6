package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mobilitydesk/policyfeed/rules"
)

func newCheckCommand() *cobra.Command {
	var (
		title   string
		summary string
		link    string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Classify a single title/summary/url and explain the verdict",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("--title is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ruleset := rules.Default()
			if cfg.Rules.File != "" {
				ruleset, err = rules.Load(cfg.Rules.File)
				if err != nil {
					return err
				}
			}
			classifier := rules.NewClassifier(ruleset)

			doc := rules.NewDoc(title, summary, link)
			decision := classifier.Decide(doc)

			if decision.Accepted {
				fmt.Printf("ACCEPTED (rule: %s)\n", decision.Rule)
				fmt.Printf("Category: %s\n", classifier.Categorize(title, summary))
			} else {
				fmt.Printf("REJECTED (rule: %s)\n", decision.Rule)
			}

			fmt.Println("\nLexicon hits:")
			for _, lex := range []*rules.Lexicon{
				ruleset.Core, ruleset.Actions, ruleset.Mobility,
				ruleset.Edu, ruleset.Policy, ruleset.Excludes,
			} {
				if hits := lex.Hits(doc.Blob); len(hits) > 0 {
					fmt.Printf("  %-14s %s\n", lex.Name+":", strings.Join(hits, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "entry title")
	cmd.Flags().StringVar(&summary, "summary", "", "entry summary")
	cmd.Flags().StringVar(&link, "url", "", "entry link")
	return cmd
}
