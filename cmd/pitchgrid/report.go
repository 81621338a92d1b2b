package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pitchgrid/pitchgrid/internal/report"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <report-file>",
	Short: "Summarize recorded analysis results",
	Long: `List the pages recorded in a report file written by analyze --report,
with per-page counts of fixed-pitch and proportional rows.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("decision", "", "only list pages with a block carrying this decision")
}

func runReport(cmd *cobra.Command, args []string) error {
	store := report.NewStore(args[0])
	if err := store.Load(); err != nil {
		return err
	}

	decision, _ := cmd.Flags().GetString("decision")
	var results []*report.PageResult
	if decision != "" {
		results = store.PagesByDecision(decision)
	} else {
		for path := range store.Report().Pages {
			results = append(results, store.GetPage(path))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	for _, pr := range results {
		fixed, prop := pr.RowCounts()
		fmt.Printf("%s: %d blocks, %d fixed rows, %d proportional rows (analyzed %s)\n",
			pr.Path, len(pr.Blocks), fixed, prop, pr.AnalyzedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("%d pages recorded\n", len(results))
	return nil
}
