// Package labreport extracts a structured medical record from the OCR text of a
// diagnostic lab report.
//
// The input is the raw text produced by an OCR engine, the per-word confidence
// scores of that engine and, optionally, a free-text caption produced by an
// image captioning model. The output is a Result holding nine fields together
// with a 0-100 confidence per resolved field and the list of fields that should
// be reviewed by a human.
//
// Extraction is a pure function of its input. It never returns an error: a
// field that cannot be recovered is left empty and carries no confidence.
//
// Key Types:
//
// - Word: one recognized word with its confidence and bounding box
// - Input: OCR text, OCR words and optional caption for one document
// - Result: the extracted fields, confidences and low confidence flags
// - Strategy: a named, ordered way of finding one field in the text
// - Matcher: the ordered strategy chain of one field
//
// Main Functions:
//
// - Extract: runs the default Extractor over one document
// - New: builds an Extractor with custom options
// - EstimateConfidence: scores a candidate value against the OCR words
//
// Processing happens in three passes over the combined caption and OCR text.
// The tabular pass walks the lines top to bottom and tries every unresolved
// field on each line, including a short lookahead for values printed below
// their label. The narrative pass runs looser whole-text patterns for fields
// still unresolved. The cleanup pass normalizes and re-validates the values.
package labreport

import (
	"strings"

	"go.uber.org/zap"
)

var defaultExtractor = New()

// Extract runs the default Extractor over the given OCR text, OCR words and caption.
// The caption may be empty.
func Extract(text string, words []Word, caption string) Result {
	return defaultExtractor.Extract(Input{Text: text, Words: words, Caption: caption})
}

// Extractor runs the field matchers over lab report text.
// An Extractor holds no per-document state and is safe for concurrent use.
type Extractor struct {
	threshold float64
	logger    *zap.Logger
	matchers  []Matcher
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for debug traces of resolved fields.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLowConfidenceThreshold sets the confidence below which a resolved field
// is flagged for review.
func WithLowConfidenceThreshold(threshold float64) Option {
	return func(e *Extractor) {
		if threshold >= 0 && threshold <= 100 {
			e.threshold = threshold
		}
	}
}

// New creates an Extractor. Without options it flags fields below
// DefaultLowConfidenceThreshold and does not log.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		threshold: DefaultLowConfidenceThreshold,
		logger:    zap.NewNop(),
		matchers:  Matchers(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract converts one document into a Result.
func (e *Extractor) Extract(in Input) Result {
	src := NewSource(in)
	rec := newRecord()

	if strings.TrimSpace(src.Text) == "" {
		return rec.result(e.threshold)
	}

	// Pass 1: line by line, favouring label/value pairs of tabular layouts
	for i := range src.Lines {
		for _, m := range e.matchers {
			if rec.resolved(m.Field) {
				continue
			}
			for _, s := range m.Strategies {
				if s.Scope != LineScope {
					continue
				}
				if c, ok := s.Match(src, i); ok {
					e.accept(rec, src, m.Field, s.Name, c)
					break
				}
			}
		}
	}

	// Pass 2: whole-text fallbacks for narrative layouts
	for _, m := range e.matchers {
		if rec.resolved(m.Field) {
			continue
		}
		for _, s := range m.Strategies {
			if s.Scope != TextScope {
				continue
			}
			if c, ok := s.Match(src, -1); ok {
				e.accept(rec, src, m.Field, s.Name, c)
				break
			}
		}
	}

	// Pass 3: cleanup
	normalizeRecord(rec, src)

	return rec.result(e.threshold)
}

// accept records a candidate and its side value, if any, with their confidence.
func (e *Extractor) accept(rec *record, src *Source, field Field, strategy string, c Candidate) {
	conf := EstimateConfidence(c.Raw, c.Offset, src.Words)
	rec.set(field, ExtractedField{
		Value:      c.Value,
		Confidence: conf,
		Raw:        c.Raw,
		Offset:     c.Offset,
		Strategy:   strategy,
	})
	e.logger.Debug("field resolved",
		zap.String("field", string(field)),
		zap.String("strategy", strategy),
		zap.Int("offset", c.Offset),
		zap.Float64("confidence", conf),
	)

	if c.Side == nil || rec.resolved(c.Side.Field) {
		return
	}
	sideConf := EstimateConfidence(c.Side.Raw, c.Side.Offset, src.Words)
	rec.set(c.Side.Field, ExtractedField{
		Value:      c.Side.Value,
		Confidence: sideConf,
		Raw:        c.Side.Raw,
		Offset:     c.Side.Offset,
		Strategy:   strategy,
	})
	e.logger.Debug("field resolved as side value",
		zap.String("field", string(c.Side.Field)),
		zap.String("strategy", strategy),
		zap.Float64("confidence", sideConf),
	)
}
