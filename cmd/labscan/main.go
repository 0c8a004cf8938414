// labscan is a command-line tool for extracting patient and test values from
// OCR'd lab reports.
//
// It reads the OCR text of a lab report (plain text, hOCR, tesseract TSV or a
// Google Document AI JSON response), extracts nine fields with a confidence
// score each, and flags the values that need a human check. A review sheet can
// be rendered as PDF for the person confirming the values.
//
// Configuration:
//
// An optional labscan.yaml in the working directory (or the file given with
// --config) holds the settings, every key can be overridden with a LABSCAN_
// environment variable (LABSCAN_EXTRACT_WORKERS=8):
//
//	log:
//	  level: info        # debug, info, warn, error
//	  format: json       # json or console
//	extract:
//	  low_confidence_threshold: 60
//	  workers: 4
//	docai:
//	  project_id: "your-gcp-project-id"
//	  location: "us"
//	  processor_id: "your-processor-id"
//	output:
//	  format: json       # json or yaml
//
// Usage:
//
//	labscan extract report.hocr
//	labscan extract --caption caption.txt report.txt
//	labscan extract --words report.tsv report.txt
//	labscan extract --format yaml --output results.yaml scans/*.hocr
//	labscan review --pdf report.pdf --output review.pdf report.hocr
//	labscan review --images pages/ --output review.pdf report.tsv
//	labscan docai --text report.txt --json report.json report.pdf
//
// Authentication:
//
// The docai command uses the GOOGLE_APPLICATION_CREDENTIALS environment
// variable for authentication with Google Cloud.
package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gardar/labscan/internal/config"
)

var (
	cfg     *config.Config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "labscan",
	Short: "Extract patient and test values from OCR'd lab reports",
	Long: "Extracts patient name, age, gender, lab, referring doctor, blood sugar, HbA1c and " +
		"total cholesterol from the OCR text of a lab report, with a confidence score per field.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./labscan.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
