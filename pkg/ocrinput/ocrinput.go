// Package ocrinput loads OCR artifacts from disk and turns them into lab report
// extraction input.
//
// Supported artifacts are plain text, hOCR (tesseract -c tessedit_create_hocr=1
// or any other hOCR producer), tesseract TSV and Document AI JSON responses.
// The format is picked from the file extension unless it is given explicitly.
package ocrinput

import (
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rotisserie/eris"

	"github.com/gardar/labscan/pkg/gdocai"
	"github.com/gardar/labscan/pkg/hocr"
	"github.com/gardar/labscan/pkg/labreport"
)

// Format is the kind of an OCR artifact
type Format string

const (
	FormatAuto  Format = ""
	FormatText  Format = "txt"
	FormatHOCR  Format = "hocr"
	FormatTSV   Format = "tsv"
	FormatDocAI Format = "json"
)

// LoadOptions tune how an artifact is loaded
type LoadOptions struct {
	Format      Format // Artifact format, detected from the extension when empty
	CaptionPath string // Optional file holding the image caption
	WordsPath   string // Optional hOCR, TSV or Document AI file supplying the words of a text artifact
}

// ParseFormat validates a user supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatText, FormatHOCR, FormatTSV, FormatDocAI:
		return f, nil
	case "text":
		return FormatText, nil
	case "html":
		return FormatHOCR, nil
	case "docai":
		return FormatDocAI, nil
	}
	return "", eris.Errorf("unknown ocr format %q", s)
}

// DetectFormat picks the format of an artifact from its file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		return FormatText, nil
	case ".hocr", ".html", ".htm", ".xhtml":
		return FormatHOCR, nil
	case ".tsv":
		return FormatTSV, nil
	case ".json":
		return FormatDocAI, nil
	}
	return "", eris.Errorf("cannot detect ocr format of %s", path)
}

// Load reads an OCR artifact and its optional caption and words files
func Load(path string, opts LoadOptions) (labreport.Input, error) {
	format := opts.Format
	if format == FormatAuto {
		f, err := DetectFormat(path)
		if err != nil {
			return labreport.Input{}, err
		}
		format = f
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return labreport.Input{}, eris.Wrapf(err, "failed to read %s", path)
	}
	in, err := Parse(data, format)
	if err != nil {
		return labreport.Input{}, eris.Wrapf(err, "failed to load %s", path)
	}

	if opts.WordsPath != "" {
		words, err := loadWords(opts.WordsPath)
		if err != nil {
			return labreport.Input{}, err
		}
		in.Words = words
	}

	if opts.CaptionPath != "" {
		caption, err := os.ReadFile(opts.CaptionPath)
		if err != nil {
			return labreport.Input{}, eris.Wrapf(err, "failed to read caption %s", opts.CaptionPath)
		}
		in.Caption = strings.TrimSpace(string(caption))
	}

	return in, nil
}

// Parse converts the content of an artifact of the given format
func Parse(data []byte, format Format) (labreport.Input, error) {
	switch format {
	case FormatText:
		return labreport.Input{Text: string(data)}, nil

	case FormatHOCR:
		doc, err := hocr.ParseHOCR(data)
		if err != nil {
			return labreport.Input{}, err
		}
		return labreport.Input{Text: doc.Text(), Words: fromHOCR(doc.Words())}, nil

	case FormatTSV:
		text, words, err := ParseTSV(data)
		if err != nil {
			return labreport.Input{}, err
		}
		return labreport.Input{Text: text, Words: words}, nil

	case FormatDocAI:
		doc, err := gdocai.LoadDocumentJSON(data)
		if err != nil {
			return labreport.Input{}, err
		}
		return FromDocument(doc), nil
	}
	return labreport.Input{}, eris.Errorf("unsupported ocr format %q", format)
}

// FromDocument converts a Document AI response. The text falls back to the
// joined tokens when the response carries none.
func FromDocument(doc *documentaipb.Document) labreport.Input {
	words := fromTokens(gdocai.Tokens(doc))
	text := gdocai.Text(doc)
	if strings.TrimSpace(text) == "" {
		text = joinWords(words)
	}
	return labreport.Input{Text: text, Words: words}
}

func loadWords(path string) ([]labreport.Word, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatText {
		return nil, eris.Errorf("words file %s has no word confidences", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read words %s", path)
	}
	in, err := Parse(data, format)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to load words %s", path)
	}
	return in.Words, nil
}

func fromHOCR(words []hocr.Word) []labreport.Word {
	out := make([]labreport.Word, 0, len(words))
	for _, w := range words {
		out = append(out, labreport.Word{
			Text:       w.Text,
			Confidence: w.Confidence,
			BBox:       labreport.BoundingBox(w.BBox),
		})
	}
	return out
}

func fromTokens(tokens []gdocai.Token) []labreport.Word {
	out := make([]labreport.Word, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, labreport.Word{
			Text:       t.Text,
			Confidence: t.Confidence,
			BBox:       labreport.BoundingBox(t.BBox),
		})
	}
	return out
}

func joinWords(words []labreport.Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}
