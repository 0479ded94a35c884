package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	analyzeDB     string
	analyzeConfig string
	analyzeJSON   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a full analysis session",
	Long: `Builds the configured matrix, trains topics over its cells, assigns
them, optionally merges near-duplicate topics and summarizes every cell.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDB, "db", "newsgrid.db", "sqlite corpus database")
	analyzeCmd.Flags().StringVar(&analyzeConfig, "config", "", "analysis config (YAML)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the report as JSON")
	_ = analyzeCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, analyzeDB, analyzeConfig, logFlagsSet(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	rep, err := s.engine.Analyze(ctx, s.comp)
	if err != nil {
		return err
	}
	view := rep.View()

	if analyzeJSON {
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Session %s: %d cells, %d topics\n\n", view.Session, len(view.Cells), len(view.Topics))
	for _, t := range view.Topics {
		words := make([]string, len(t.Top))
		for i, term := range t.Top {
			words[i] = term.Term
		}
		cmd.Printf("Topic %d: %s\n", t.ID, strings.Join(words, ", "))
	}
	cmd.Println()

	for _, c := range view.Cells {
		cmd.Printf("[%s] %d docs\n", c.Name, c.Total)
		if c.Error != "" {
			cmd.Printf("  error: %s\n", c.Error)
			continue
		}
		for _, sc := range c.Topics {
			cmd.Printf("  topic %d (%.2f)\n", sc.Topic, sc.Prob)
		}
		if c.Summary != nil {
			for _, sent := range c.Summary.Sentences {
				cmd.Printf("  - %s\n", sent.Text)
			}
		}
	}
	return nil
}
