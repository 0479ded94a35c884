package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/newsgrid/internal/corpus"
	"github.com/cognicore/newsgrid/pkg/newsgrid/store/sqlite"
)

var (
	ingestDB   string
	ingestData string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load a JSONL article dump into the corpus database",
	Args:  cobra.NoArgs,
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDB, "db", "newsgrid.db", "sqlite corpus database")
	ingestCmd.Flags().StringVar(&ingestData, "data", "", "JSONL file with one article per line")
	_ = ingestCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	recs, err := corpus.LoadFromJSONL(ingestData)
	if err != nil {
		return err
	}

	st, err := sqlite.OpenSQLite(ctx, ingestDB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	n, err := corpus.Ingest(ctx, st, recs)
	if err != nil {
		return err
	}
	total, err := st.CountArticles(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Stored %d articles (%d in corpus)\n", n, total)
	return nil
}
