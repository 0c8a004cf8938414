package review

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/labscan/pkg/labreport"
)

const (
	pageMargin = 40.0
	rowHeight  = 22.0
)

// Column widths of the review table, they add up to the A4 width minus the margins
var columnWidths = [...]float64{170, 185, 70, 90}

var columnTitles = [...]string{"Field", "Value", "Confidence", "Status"}

type rgb struct{ r, g, b int }

var (
	colorText       = rgb{0, 0, 0}
	colorReview     = rgb{200, 30, 30}
	colorUnresolved = rgb{140, 140, 140}
	colorHeaderFill = rgb{230, 230, 230}
	colorReviewFill = rgb{253, 232, 232}
)

// drawSheet draws the first page: title, table and legend
func drawSheet(pdf *fpdf.Fpdf, res labreport.Result, opts Options) {
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	pdf.SetFont(opts.Font.Name, "B", opts.Font.Size*1.6)
	pdf.CellFormat(0, opts.Font.Size*2.4, latin1(opts.Title), "", 1, "L", false, 0, "")

	pdf.SetFont(opts.Font.Name, "", opts.Font.Size)
	if opts.Source != "" {
		pdf.CellFormat(0, rowHeight, latin1("Source: "+opts.Source), "", 1, "L", false, 0, "")
	}
	if !opts.Created.IsZero() {
		pdf.CellFormat(0, rowHeight, "Created: "+opts.Created.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(rowHeight / 2)

	// Header
	pdf.SetFont(opts.Font.Name, "B", opts.Font.Size)
	pdf.SetFillColor(colorHeaderFill.r, colorHeaderFill.g, colorHeaderFill.b)
	for i, title := range columnTitles {
		pdf.CellFormat(columnWidths[i], rowHeight, title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	review := 0
	for _, row := range Rows(res) {
		style, color, fill := "", colorText, false
		switch row.Status {
		case StatusReview:
			style, color, fill = "B", colorReview, true
			review++
		case StatusUnresolved:
			color = colorUnresolved
		}
		pdf.SetFont(opts.Font.Name, style, opts.Font.Size)
		pdf.SetTextColor(color.r, color.g, color.b)
		pdf.SetFillColor(colorReviewFill.r, colorReviewFill.g, colorReviewFill.b)

		cells := [...]string{row.Label, row.Value, row.Confidence, row.Status}
		for i, text := range cells {
			pdf.CellFormat(columnWidths[i], rowHeight, fitText(pdf, latin1(text), columnWidths[i]-6), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetTextColor(colorText.r, colorText.g, colorText.b)
	pdf.SetFont(opts.Font.Name, "I", opts.Font.Size*0.9)
	pdf.Ln(rowHeight / 2)
	resolved := len(res.Resolved())
	summary := fmt.Sprintf("%d of %d fields extracted, %d to review, %d to enter manually.",
		resolved, len(labreport.Fields()), review, len(labreport.Fields())-resolved)
	pdf.MultiCell(0, rowHeight*0.7, summary, "", "L", false)
	pdf.MultiCell(0, rowHeight*0.7, "Confidence is an estimate from the OCR word scores (0-100). "+
		"Values marked REVIEW must be checked against the source document.", "", "L", false)
}

// latin1 converts text to ISO-8859-1 for the core fonts. Characters outside
// the charset are replaced with '?'.
func latin1(s string) string {
	enc := charmap.ISO8859_1.NewEncoder()
	if out, err := enc.String(s); err == nil {
		return out
	}
	buf := make([]rune, 0, len(s))
	for _, r := range s {
		if _, ok := charmap.ISO8859_1.EncodeRune(r); ok {
			buf = append(buf, r)
		} else {
			buf = append(buf, '?')
		}
	}
	out, _ := enc.String(string(buf))
	return out
}

// fitText shortens text with an ellipsis until it fits width
func fitText(pdf *fpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	r := []byte(text)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
