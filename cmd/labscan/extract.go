package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gardar/labscan/pkg/labreport"
	"github.com/gardar/labscan/pkg/ocrinput"
)

var extractCmd = &cobra.Command{
	Use:   "extract <ocr-file>...",
	Short: "Extract lab report fields from OCR output",
	Long: `Extract lab report fields from one or more OCR artifacts.

The artifact format is picked from the file extension (.txt, .hocr/.html,
.tsv, .json for Document AI responses) unless --input-format is given.
Files are processed in parallel, results are printed in argument order. A
single file prints its result, several files print a list of
{source, result} documents.

Examples:
  # Extract from tesseract hOCR
  extract report.hocr

  # Plain text plus word confidences from the TSV of the same scan
  extract --words report.tsv report.txt

  # Batch to YAML
  extract --format yaml --output results.yaml scans/*.hocr`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.String("caption", "", "caption file describing the document image")
	f.String("words", "", "hOCR, TSV or Document AI file with the word confidences")
	f.String("input-format", "", "input format: txt, hocr, tsv or json (default from extension)")
	f.String("format", "", "output format: json or yaml (overrides config)")
	f.StringP("output", "o", "", "output file (default stdout)")
	f.Float64("threshold", 0, "low confidence threshold (overrides config)")
	rootCmd.AddCommand(extractCmd)
}

// Document is the result of one input file
type Document struct {
	Source string           `json:"source" yaml:"source"`
	Result labreport.Result `json:"result" yaml:"result"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate("extract"); err != nil {
		return err
	}

	opts, err := loadOptions(cmd, len(args))
	if err != nil {
		return err
	}
	format := outputFormat(cmd)
	output, _ := cmd.Flags().GetString("output")

	log := zap.L().With(zap.String("command", "extract"))
	extractor := newExtractor(cmd, log)

	docs, err := extractFiles(cmd.Context(), args, opts, extractor, cfg.Extract.Workers)
	if err != nil {
		return err
	}

	for _, d := range docs {
		log.Info("extracted",
			zap.String("source", d.Source),
			zap.Int("resolved", len(d.Result.Resolved())),
			zap.Strings("low_confidence", d.Result.LowConfidenceFlags),
		)
	}

	if len(docs) == 1 {
		return writeOutput(cmd.OutOrStdout(), output, docs[0].Result, format)
	}
	return writeOutput(cmd.OutOrStdout(), output, docs, format)
}

// loadOptions reads the input flags shared by extract and review. Side files
// belong to one document, so they are refused for batches.
func loadOptions(cmd *cobra.Command, files int) (ocrinput.LoadOptions, error) {
	caption, _ := cmd.Flags().GetString("caption")
	words, _ := cmd.Flags().GetString("words")
	inputFormat, _ := cmd.Flags().GetString("input-format")

	if files > 1 && (caption != "" || words != "") {
		return ocrinput.LoadOptions{}, eris.New("--caption and --words need a single input file")
	}
	format, err := ocrinput.ParseFormat(inputFormat)
	if err != nil {
		return ocrinput.LoadOptions{}, err
	}
	return ocrinput.LoadOptions{Format: format, CaptionPath: caption, WordsPath: words}, nil
}

func outputFormat(cmd *cobra.Command) string {
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		return f
	}
	return cfg.Output.Format
}

func newExtractor(cmd *cobra.Command, log *zap.Logger) *labreport.Extractor {
	threshold := cfg.Extract.LowConfidenceThreshold
	if cmd.Flags().Changed("threshold") {
		threshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	return labreport.New(
		labreport.WithLogger(log),
		labreport.WithLowConfidenceThreshold(threshold),
	)
}

// extractFiles loads and extracts every path with at most workers in flight.
// Results keep the order of paths.
func extractFiles(ctx context.Context, paths []string, opts ocrinput.LoadOptions, extractor *labreport.Extractor, workers int) ([]Document, error) {
	if workers < 1 {
		workers = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}

	docs := make([]Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			in, err := ocrinput.Load(path, opts)
			if err != nil {
				return err
			}
			docs[i] = Document{Source: path, Result: extractor.Extract(in)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
