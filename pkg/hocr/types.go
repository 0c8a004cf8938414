package hocr

import "strings"

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Title    string            // Document title
	Language string            // Document language
	Metadata map[string]string // ocr-system and other head metadata
	Pages    []Page            // Pages in the document
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string      // Unique identifier
	PageNumber int         // Page number in document
	ImageName  string      // Source image filename
	BBox       BoundingBox // Page coordinates
	Lines      []Line      // Lines in reading order
}

// Class assign 'ocr_page' to 'Page' struct
func (Page) Class() string { return "ocr_page" }

// Line represents a line of text
// Corresponds to hOCR element with class: 'ocr_line'
type Line struct {
	ID    string      // Unique identifier, empty for words without a line parent
	BBox  BoundingBox // Line coordinates
	Words []Word      // Words in this line
}

// Class assign 'ocr_line' to 'Line' struct
func (Line) Class() string { return "ocr_line" }

// Text joins the words of the line with single spaces
func (l Line) Text() string {
	parts := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		if w.Text != "" {
			parts = append(parts, w.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string      // Unique identifier
	Text       string      // The actual text content
	BBox       BoundingBox // Word coordinates
	Confidence float64     // Recognition confidence (0-100)
	Lang       string      // Language code
}

// Class assign 'ocrx_word' to 'Word' struct
func (Word) Class() string { return "ocrx_word" }

// BoundingBox represents a rectangle in the document
// Used to store hOCR 'bbox' property values
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from coordinates
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{
		X1: x1,
		Y1: y1,
		X2: x2,
		Y2: y2,
	}
}

// Text returns the document text in reading order: one line per hOCR line and
// a blank line between pages.
func (h HOCR) Text() string {
	var b strings.Builder
	for i, page := range h.Pages {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, line := range page.Lines {
			if t := line.Text(); t != "" {
				b.WriteString(t)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// Words returns every word of the document in reading order
func (h HOCR) Words() []Word {
	var out []Word
	for _, page := range h.Pages {
		for _, line := range page.Lines {
			for _, w := range line.Words {
				if w.Text != "" {
					out = append(out, w)
				}
			}
		}
	}
	return out
}
