package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gardar/labscan/pkg/gdocai"
	"github.com/gardar/labscan/pkg/ocrinput"
	"github.com/gardar/labscan/pkg/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review <ocr-file>",
	Short: "Render a PDF review sheet for one lab report",
	Long: `Extract the fields of one lab report and render them into a PDF review
sheet. Low confidence values are printed in red, missing values are marked
for manual entry.

The source document is appended after the sheet: the pages of --pdf, or the
images in --images (PNG and JPEG, sorted by name). A Document AI JSON input
carries its own page images which are used when neither flag is given.

Examples:
  review --pdf report.pdf --output review.pdf report.hocr
  review --images pages/ --output review.pdf report.tsv`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	f := reviewCmd.Flags()
	f.String("caption", "", "caption file describing the document image")
	f.String("words", "", "hOCR, TSV or Document AI file with the word confidences")
	f.String("input-format", "", "input format: txt, hocr, tsv or json (default from extension)")
	f.String("pdf", "", "source PDF appended after the sheet")
	f.String("images", "", "directory of page images appended after the sheet")
	f.String("title", review.DefaultTitle, "sheet title")
	f.StringP("output", "o", "", "output PDF file")
	f.Float64("threshold", 0, "low confidence threshold (overrides config)")
	_ = reviewCmd.MarkFlagRequired("output")
	reviewCmd.MarkFlagsMutuallyExclusive("pdf", "images")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate("review"); err != nil {
		return err
	}
	src := args[0]

	opts, err := loadOptions(cmd, 1)
	if err != nil {
		return err
	}
	in, err := ocrinput.Load(src, opts)
	if err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "review"), zap.String("source", src))
	res := newExtractor(cmd, log).Extract(in)

	title, _ := cmd.Flags().GetString("title")
	renderOpts := review.Options{
		Title:   title,
		Source:  filepath.Base(src),
		Font:    review.DefaultFont,
		Created: time.Now(),
	}

	pdfPath, _ := cmd.Flags().GetString("pdf")
	imagesDir, _ := cmd.Flags().GetString("images")
	switch {
	case pdfPath != "":
		data, err := os.ReadFile(pdfPath)
		if err != nil {
			return eris.Wrapf(err, "read %s", pdfPath)
		}
		renderOpts.SourcePDF = data
	case imagesDir != "":
		images, err := readImages(imagesDir)
		if err != nil {
			return err
		}
		renderOpts.PageImages = images
	default:
		images, err := documentImages(src, opts.Format)
		if err != nil {
			return err
		}
		renderOpts.PageImages = images
	}

	out, err := review.Render(res, renderOpts)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", output)
	}

	log.Info("review sheet written",
		zap.String("output", output),
		zap.Int("resolved", len(res.Resolved())),
		zap.Strings("low_confidence", res.LowConfidenceFlags),
		zap.Int("pages", len(renderOpts.PageImages)),
	)
	return nil
}

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// readImages loads the page images of dir in name order
func readImages(dir string) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, eris.Errorf("no PNG or JPEG images in %s", dir)
	}
	sort.Strings(names)

	images := make([][]byte, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, eris.Wrapf(err, "read %s", name)
		}
		images = append(images, data)
	}
	return images, nil
}

// documentImages returns the page images embedded in a Document AI response,
// nil for every other input
func documentImages(path string, format ocrinput.Format) ([][]byte, error) {
	if format == ocrinput.FormatAuto {
		f, err := ocrinput.DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = f
	}
	if format != ocrinput.FormatDocAI {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	doc, err := gdocai.LoadDocumentJSON(data)
	if err != nil {
		return nil, err
	}
	return gdocai.PageImages(doc), nil
}

