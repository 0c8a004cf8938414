// Package review renders an extraction result into a PDF review sheet for the
// person who confirms the values before they are stored.
//
// The sheet lists every field with its value and confidence. Fields flagged
// as low confidence are printed in red with a REVIEW marker, unresolved fields
// are printed in grey and must be entered manually. The source document can be
// appended after the sheet, either as imported PDF pages or as page images, so
// the reviewer has everything in one file.
package review

import (
	"bytes"
	"fmt"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"github.com/rotisserie/eris"

	"github.com/gardar/labscan/pkg/labreport"
)

// Options control the content of the review sheet
type Options struct {
	Title      string     // Sheet title, DefaultTitle when empty
	Source     string     // Name of the source document printed under the title
	Font       FontConfig // Font of the sheet
	SourcePDF  []byte     // Source document, its pages are appended after the sheet
	PageImages [][]byte   // Page images appended when there is no SourcePDF
	Created    time.Time  // Timestamp printed on the sheet, omitted when zero
}

// FontConfig contains font settings for the sheet
type FontConfig struct {
	Name string  // Core font name (e.g., "Helvetica")
	Size float64 // Body font size in points
}

// DefaultFont is Helvetica, a core font that needs no embedding
var DefaultFont = FontConfig{
	Name: "Helvetica",
	Size: 10,
}

// DefaultTitle is used when Options.Title is empty
const DefaultTitle = "Lab report review"

// Status of a row on the sheet
const (
	StatusOK         = "OK"
	StatusReview     = "REVIEW"
	StatusUnresolved = "enter manually"
)

// Row is one line of the review table
type Row struct {
	Field      labreport.Field
	Label      string
	Value      string
	Confidence string
	Status     string
}

// Rows builds the review table of a result in canonical field order
func Rows(res labreport.Result) []Row {
	fields := labreport.Fields()
	rows := make([]Row, 0, len(fields))
	for _, f := range fields {
		row := Row{Field: f, Label: f.Label(), Value: "-", Confidence: "-", Status: StatusUnresolved}
		if v := res.Value(f); v != "" {
			row.Value = v
			row.Status = StatusOK
			if c, ok := res.FieldConfidence(f); ok {
				row.Confidence = fmt.Sprintf("%.0f", c)
			}
			if res.IsLowConfidence(f) {
				row.Status = StatusReview
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Render draws the review sheet and appends the source document
func Render(res labreport.Result, opts Options) ([]byte, error) {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Font.Name == "" {
		opts.Font = DefaultFont
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(latin1(opts.Title), false)
	pdf.SetCreator("labscan", false)
	pdf.SetAutoPageBreak(true, pageMargin)

	drawSheet(pdf, res, opts)

	switch {
	case len(opts.SourcePDF) > 0:
		if err := appendPDF(pdf, opts.SourcePDF); err != nil {
			return nil, err
		}
	case len(opts.PageImages) > 0:
		if err := appendImages(pdf, opts.PageImages); err != nil {
			return nil, err
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, eris.Wrap(err, "failed to build review sheet")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, eris.Wrap(err, "failed to generate PDF")
	}
	return buf.Bytes(), nil
}
