package main

import (
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/pitchgrid/pitchgrid/internal/config"
	"github.com/pitchgrid/pitchgrid/internal/logger"
	"github.com/pitchgrid/pitchgrid/internal/pitch"
	"github.com/pitchgrid/pitchgrid/internal/plot"
	"github.com/pitchgrid/pitchgrid/internal/raster"
	"github.com/pitchgrid/pitchgrid/internal/report"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Run pitch analysis on a page image",
	Long: `Analyze a scanned page image and report, per detected text row,
whether it is fixed-pitch or proportional, with the pitch in pixels for
fixed-pitch rows.

Examples:
  # Analyze a page
  pitchgrid analyze page.png

  # Analyze with an annotated debug render
  pitchgrid analyze page.png --debug-image annotated.png

  # Force the slower word-by-word fitter
  pitchgrid analyze page.png --linear-sync=false

  # Record results in a report file; unchanged images are not re-analyzed
  pitchgrid analyze page.png --report results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("debug-image", "", "write an annotated debug render to this path")
	analyzeCmd.Flags().Bool("linear-sync", true, "use the fast whole-row cell fitter")
	analyzeCmd.Flags().Bool("all-prop", false, "force every row to proportional")
	analyzeCmd.Flags().Bool("whole-doc-fixed", false, "attempt whole-document fixed pitch first")
	analyzeCmd.Flags().Int("veto-power", 5, "vote margin required for a definite block decision")
	analyzeCmd.Flags().Bool("debug-block-stats", false, "log per-block vote tallies")
	analyzeCmd.Flags().String("report", "", "record results in this JSON report file")
	analyzeCmd.Flags().Bool("force", false, "re-analyze even when the report has a fresh result")
}

// applyFlagOverrides lays explicitly set flags over the loaded configuration,
// keeping the flags > env > file > defaults precedence
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.LogLevel, _ = f.GetString("log-level")
	}
	if f.Changed("log-format") {
		cfg.LogFormat, _ = f.GetString("log-format")
	}
	if f.Changed("debug-image") {
		cfg.DebugImage, _ = f.GetString("debug-image")
	}
	if f.Changed("linear-sync") {
		cfg.Tunables.Sync.Linear, _ = f.GetBool("linear-sync")
	}
	if f.Changed("all-prop") {
		cfg.Tunables.Decide.AllProp, _ = f.GetBool("all-prop")
	}
	if f.Changed("whole-doc-fixed") {
		cfg.Tunables.Decide.WholeDocFixed, _ = f.GetBool("whole-doc-fixed")
	}
	if f.Changed("veto-power") {
		cfg.Tunables.Vote.VetoPower, _ = f.GetInt("veto-power")
	}
	if f.Changed("debug-block-stats") {
		cfg.Tunables.Vote.DebugBlockStats, _ = f.GetBool("debug-block-stats")
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	reportPath, _ := cmd.Flags().GetString("report")
	force, _ := cmd.Flags().GetBool("force")

	var store *report.Store
	var hash string
	if reportPath != "" {
		store, err = report.LoadOrCreate(reportPath)
		if err != nil {
			return err
		}
		hash, err = report.HashFile(args[0])
		if err != nil {
			return err
		}
		if !force && !store.NeedsAnalysis(args[0], hash) {
			log.Infow("image unchanged since last analysis", "path", args[0])
			printStored(store.GetPage(args[0]))
			return nil
		}
	}

	pg, err := raster.LoadPage(args[0])
	if err != nil {
		return err
	}

	opts := []pitch.Option{pitch.WithLogger(log.SugaredLogger)}
	var sink *plot.ImageSink
	if cfg.DebugImage != "" {
		img, err := imaging.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to reopen image for debug render: %w", err)
		}
		sink = plot.NewImageSink(img)
		opts = append(opts, pitch.WithSink(sink))
	}

	analyzer := pitch.NewAnalyzer(cfg.Tunables, opts...)
	analyzer.AnalyzePage(pg)

	for bi, block := range pg.Blocks {
		fmt.Printf("block %d: %s", bi, block.Decision)
		if block.FixedPitch > 0 {
			fmt.Printf(" pitch=%.1f", block.FixedPitch)
		}
		fmt.Println()
		for ri, row := range block.Rows {
			fmt.Printf("  row %d: %s", ri, row.Decision)
			if row.FixedPitch > 0 {
				fmt.Printf(" pitch=%.1f cells=%d", row.FixedPitch, len(row.CharCells))
			}
			fmt.Println()
		}
	}

	if store != nil {
		store.AddPage(report.FromPage(args[0], hash, pg))
		if err := store.Save(); err != nil {
			return err
		}
		log.Infow("report updated", "path", reportPath)
	}

	if sink != nil {
		if err := sink.Save(cfg.DebugImage); err != nil {
			return err
		}
		log.Infow("debug render written", "path", cfg.DebugImage)
	}
	return nil
}

// printStored renders a recorded result in the same shape as a fresh run
func printStored(pr *report.PageResult) {
	for bi, block := range pr.Blocks {
		fmt.Printf("block %d: %s", bi, block.Decision)
		if block.Pitch > 0 {
			fmt.Printf(" pitch=%.1f", block.Pitch)
		}
		fmt.Println()
		for ri, row := range block.Rows {
			fmt.Printf("  row %d: %s", ri, row.Decision)
			if row.Pitch > 0 {
				fmt.Printf(" pitch=%.1f cells=%d", row.Pitch, row.Cells)
			}
			fmt.Println()
		}
	}
}
