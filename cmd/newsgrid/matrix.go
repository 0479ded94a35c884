package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	matrixDB     string
	matrixConfig string
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Print the document counts of every matrix cell",
	Args:  cobra.NoArgs,
	RunE:  runMatrix,
}

func init() {
	matrixCmd.Flags().StringVar(&matrixDB, "db", "newsgrid.db", "sqlite corpus database")
	matrixCmd.Flags().StringVar(&matrixConfig, "config", "", "analysis config (YAML)")
	_ = matrixCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(matrixCmd)
}

func runMatrix(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, matrixDB, matrixConfig, logFlagsSet(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := s.engine.BuildMatrix(ctx, s.comp)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
	header := append([]string{""}, m.ColLabels()...)
	fmt.Fprintln(w, strings.Join(header, "\t")+"\t")
	rowCounts := m.RowDocCounts()
	for r, label := range m.RowLabels() {
		line := []string{label}
		for c := range m.ColLabels() {
			line = append(line, fmt.Sprint(m.Cell(r, c).Total()))
		}
		line = append(line, fmt.Sprintf("(%d)", rowCounts[r]))
		fmt.Fprintln(w, strings.Join(line, "\t")+"\t")
	}
	footer := []string{""}
	for _, n := range m.ColDocCounts() {
		footer = append(footer, fmt.Sprintf("(%d)", n))
	}
	fmt.Fprintln(w, strings.Join(footer, "\t")+"\t")
	return w.Flush()
}

func logFlagsSet(cmd *cobra.Command) bool {
	f := cmd.Flags()
	return f.Changed("log-level") || f.Changed("pretty")
}
