package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pdfoutline/internal/classify"
	"github.com/dgallion1/pdfoutline/internal/config"
	"github.com/dgallion1/pdfoutline/internal/parser"
	"github.com/dgallion1/pdfoutline/internal/pipeline"
)

var (
	cfgFile        string
	flagInput      string
	flagOutput     string
	flagClassifier string
	flagMarkdown   bool
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "pdfoutline",
	Short: "Batch PDF outline extractor based on font-size statistics",
	Long: `pdfoutline scans a directory of PDF files and writes one JSON outline
per document: the title plus H1/H2/H3 headings with 1-indexed pages.

Heading detection needs no model and no network:
  - the most common font size becomes the body baseline
  - the three largest remaining sizes map to H1, H2 and H3
  - sizes between body and H3 fold into H3 instead of promoting
  - a file that cannot be processed is skipped, never the batch

Examples:
  pdfoutline                                  # /app/input -> /app/output
  pdfoutline --input ./pdfs --output ./out    # explicit directories
  pdfoutline --markdown                       # also emit a markdown TOC`,
	Version:      version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if cfgFile != "" {
			if err := cfg.LoadFile(cfgFile); err != nil {
				return err
			}
		}
		cfg.LoadEnv()

		// Flags win over the file and the environment.
		if cmd.Flags().Changed("input") {
			cfg.InputDir = flagInput
		}
		if cmd.Flags().Changed("output") {
			cfg.OutputDir = flagOutput
		}
		if cmd.Flags().Changed("classifier") {
			cfg.Classifier = flagClassifier
		}
		if cmd.Flags().Changed("markdown") {
			cfg.EmitMarkdown = flagMarkdown
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose = flagVerbose
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		level := slog.LevelInfo
		if cfg.Verbose {
			level = slog.LevelDebug
		}
		log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

		cls, err := classify.ForName(cfg.Classifier, classify.FoldMode(cfg.FoldJitter))
		if err != nil {
			return err
		}

		runner := pipeline.NewRunner(cfg, parser.NewPDFExtractor(log), cls, log)
		_, err = runner.Run(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.Flags().StringVar(&flagInput, "input", "", "input directory (default /app/input)")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "output directory (default /app/output)")
	rootCmd.Flags().StringVar(&flagClassifier, "classifier", "", "heading classifier: sizerank or pattern")
	rootCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "also write a markdown table of contents per document")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
}
