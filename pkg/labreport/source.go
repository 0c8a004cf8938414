package labreport

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Line is one trimmed, non-empty line of the source text
type Line struct {
	Text   string // Line content without surrounding whitespace
	Offset int    // Byte offset of Text in the source text
}

// PositionedWord is an OCR word with its location in the source text.
// Position is -1 when the word could not be located.
type PositionedWord struct {
	Word
	Position int
}

// Source is the read-only view of one document shared by all matchers
type Source struct {
	Text  string           // Caption and OCR text combined
	Lines []Line           // Trimmed, non-empty lines of Text
	Words []PositionedWord // OCR words located in Text
}

// NewSource normalizes the input and builds the combined text, its lines and
// the located OCR words.
func NewSource(in Input) *Source {
	text := normalizeText(in.Text)
	caption := strings.TrimSpace(normalizeText(in.Caption))

	// Caption goes first, OCR text provides the precise values
	combined := text
	ocrStart := 0
	if caption != "" {
		combined = caption + "\n" + text
		ocrStart = len(caption) + 1
	}

	return &Source{
		Text:  combined,
		Lines: splitLines(combined),
		Words: locateWords(combined, ocrStart, in.Words),
	}
}

// Window returns the text around [start, end) extended by pad bytes on each side
func (s *Source) Window(start, end, pad int) string {
	lo := start - pad
	if lo < 0 {
		lo = 0
	}
	hi := end + pad
	if hi > len(s.Text) {
		hi = len(s.Text)
	}
	if lo >= hi {
		return ""
	}
	return s.Text[lo:hi]
}

// normalizeText makes OCR output safe to match against: valid UTF-8, NFKC
// compatibility forms (full-width digits, ligatures) and unix line breaks with
// page breaks turned into newlines.
func normalizeText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, " ")
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\f", "\n")
	return s
}

// splitLines splits text into trimmed, non-empty lines keeping their offsets
func splitLines(text string) []Line {
	var lines []Line
	start := 0
	for start <= len(text) {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += start
		}
		raw := text[start:end]
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			lead := strings.Index(raw, trimmed)
			lines = append(lines, Line{Text: trimmed, Offset: start + lead})
		}
		start = end + 1
	}
	return lines
}

// locateWords finds every word in the text with a forward scan starting at
// the OCR part of the text, so repeated words map to successive occurrences.
func locateWords(text string, from int, words []Word) []PositionedWord {
	if len(words) == 0 {
		return nil
	}
	out := make([]PositionedWord, 0, len(words))
	cursor := from
	for _, w := range words {
		w.Text = strings.TrimSpace(normalizeText(w.Text))
		pw := PositionedWord{Word: w, Position: -1}
		if w.Text != "" {
			pos := indexFold(text, w.Text, cursor)
			if pos < 0 {
				pos = indexFold(text, w.Text, 0)
			}
			if pos >= 0 {
				pw.Position = pos
				cursor = pos + len(w.Text)
			}
		}
		out = append(out, pw)
	}
	return out
}

// indexFold is a case-insensitive strings.Index starting at byte offset from
func indexFold(s, sub string, from int) int {
	if sub == "" || from < 0 {
		return -1
	}
	for i := from; i+len(sub) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
