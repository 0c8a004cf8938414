package gdocai

import (
	"strings"
	"unicode"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/labscan/pkg/hocr"
)

// Token is one recognized word of a Document AI response
type Token struct {
	Text       string           // Token text without the trailing break
	Confidence float64          // Recognition confidence (0-100)
	BBox       hocr.BoundingBox // Position in page pixels
	PageNumber int              // Page number (1-based)
}

// Text returns the full text of the document
func Text(doc *documentaipb.Document) string {
	if doc == nil {
		return ""
	}
	return doc.GetText()
}

// Tokens returns every token of the document in page order
func Tokens(doc *documentaipb.Document) []Token {
	if doc == nil {
		return nil
	}
	var out []Token
	for i, page := range doc.GetPages() {
		pageNum := int(page.GetPageNumber())
		if pageNum == 0 {
			pageNum = i + 1
		}
		for _, tok := range page.GetTokens() {
			txt := textFromLayout(tok.GetLayout(), doc.GetText())
			// Trim trailing whitespace if the token has a detected break
			if tok.GetDetectedBreak().GetType() != documentaipb.Document_Page_Token_DetectedBreak_TYPE_UNSPECIFIED {
				txt = strings.TrimRightFunc(txt, unicode.IsSpace)
			}
			txt = strings.TrimSpace(txt)
			if txt == "" {
				continue
			}
			out = append(out, Token{
				Text:       txt,
				Confidence: float64(tok.GetLayout().GetConfidence()) * 100,
				BBox:       boundingBox(tok.GetLayout(), page.GetDimension()),
				PageNumber: pageNum,
			})
		}
	}
	return out
}

// PageImages returns the page images included in the response, in page order.
// Pages without an image are skipped.
func PageImages(doc *documentaipb.Document) [][]byte {
	var out [][]byte
	for _, page := range doc.GetPages() {
		if content := page.GetImage().GetContent(); len(content) > 0 {
			out = append(out, content)
		}
	}
	return out
}

// textFromLayout extracts text from a layout's text anchor segments
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	runes := []rune(fullText)
	result := strings.Builder{}
	totalRunes := len(runes)

	for _, seg := range layout.TextAnchor.TextSegments {
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > totalRunes {
			end = totalRunes
		}
		if start > end {
			start = end
		}
		result.WriteString(string(runes[start:end]))
	}
	return result.String()
}

// boundingBox converts a layout polygon into page pixels. Normalized vertices
// are scaled by the page dimension, absolute vertices are used as they are.
func boundingBox(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) hocr.BoundingBox {
	poly := layout.GetBoundingPoly()
	if nv := poly.GetNormalizedVertices(); len(nv) >= 4 && dim != nil {
		return hocr.NewBoundingBox(
			float64(nv[0].GetX()*dim.GetWidth()),
			float64(nv[0].GetY()*dim.GetHeight()),
			float64(nv[2].GetX()*dim.GetWidth()),
			float64(nv[2].GetY()*dim.GetHeight()),
		)
	}
	if v := poly.GetVertices(); len(v) >= 4 {
		return hocr.NewBoundingBox(
			float64(v[0].GetX()), float64(v[0].GetY()),
			float64(v[2].GetX()), float64(v[2].GetY()),
		)
	}
	return hocr.BoundingBox{}
}
