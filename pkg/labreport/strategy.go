package labreport

import (
	"regexp"
	"strings"
)

// Scope tells the orchestrator in which pass a strategy runs
type Scope int

const (
	// LineScope strategies run in the tabular pass, once per line
	LineScope Scope = iota
	// TextScope strategies run in the narrative pass over the whole text
	TextScope
)

func (s Scope) String() string {
	if s == TextScope {
		return "text"
	}
	return "line"
}

// Candidate is an accepted match of one strategy
type Candidate struct {
	Value  string     // Normalized field value
	Raw    string     // Substring of the source text the value was read from
	Offset int        // Byte offset of Raw in the source text
	Side   *SideValue // Value of another field found by the same pattern
}

// SideValue is a second field resolved by the pattern of another field,
// such as the gender in "Age/Sex: 45/M".
type SideValue struct {
	Field  Field
	Value  string
	Raw    string
	Offset int
}

// Strategy is one way of finding a field. Match is called with the index of
// the current line for LineScope strategies and with -1 for TextScope ones,
// and returns only candidates that passed all validation.
type Strategy struct {
	Name  string
	Scope Scope
	Match func(src *Source, line int) (Candidate, bool)
}

// Matcher is the ordered strategy chain of one field. The first strategy that
// accepts a candidate wins.
type Matcher struct {
	Field      Field
	Strategies []Strategy
}

// Matchers returns the strategy chains of all fields in canonical field order
func Matchers() []Matcher {
	return []Matcher{
		{Field: PatientName, Strategies: patientNameStrategies()},
		{Field: Age, Strategies: ageStrategies()},
		{Field: Gender, Strategies: genderStrategies()},
		{Field: LabName, Strategies: labNameStrategies()},
		{Field: DoctorName, Strategies: doctorNameStrategies()},
		{Field: BloodSugarFasting, Strategies: fastingSugarStrategies()},
		{Field: BloodSugarPP, Strategies: ppSugarStrategies()},
		{Field: HbA1c, Strategies: hba1cStrategies()},
		{Field: TotalCholesterol, Strategies: cholesterolStrategies()},
	}
}

// cleanFunc turns a raw capture into a field value, or rejects it
type cleanFunc func(raw string) (string, bool)

// lineCapture accepts the first match of re on the current line whose capture
// group 1 survives clean.
func lineCapture(name string, re *regexp.Regexp, clean cleanFunc) Strategy {
	return Strategy{
		Name:  name,
		Scope: LineScope,
		Match: func(src *Source, i int) (Candidate, bool) {
			if i < 0 || i >= len(src.Lines) {
				return Candidate{}, false
			}
			ln := src.Lines[i]
			return firstCapture(ln.Text, ln.Offset, re, clean)
		},
	}
}

// textCapture accepts the first match of re in the whole text whose capture
// group 1 survives clean.
func textCapture(name string, re *regexp.Regexp, clean cleanFunc) Strategy {
	return Strategy{
		Name:  name,
		Scope: TextScope,
		Match: func(src *Source, _ int) (Candidate, bool) {
			return firstCapture(src.Text, 0, re, clean)
		},
	}
}

// nextLineCapture accepts a value printed on one of the lines following a
// line made only of the label.
func nextLineCapture(name string, label *regexp.Regexp, clean cleanFunc) Strategy {
	return Strategy{
		Name:  name,
		Scope: LineScope,
		Match: func(src *Source, i int) (Candidate, bool) {
			if i < 0 || i >= len(src.Lines) || !label.MatchString(src.Lines[i].Text) {
				return Candidate{}, false
			}
			for _, ln := range lookahead(src, i) {
				if v, ok := clean(ln.Text); ok {
					return narrowCandidate(v, ln.Text, ln.Offset), true
				}
			}
			return Candidate{}, false
		},
	}
}

// lookaheadLines is how many lines below a label are searched for its value
const lookaheadLines = 3

func lookahead(src *Source, i int) []Line {
	end := i + 1 + lookaheadLines
	if end > len(src.Lines) {
		end = len(src.Lines)
	}
	if i+1 >= end {
		return nil
	}
	return src.Lines[i+1 : end]
}

func firstCapture(text string, base int, re *regexp.Regexp, clean cleanFunc) (Candidate, bool) {
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if len(m) < 4 || m[2] < 0 {
			continue
		}
		raw := text[m[2]:m[3]]
		if v, ok := clean(raw); ok {
			return narrowCandidate(v, raw, base+m[2]), true
		}
	}
	return Candidate{}, false
}

// narrowCandidate points Raw at the value itself when the value is a plain
// substring of the capture, so label words around it do not count as evidence.
func narrowCandidate(value, raw string, offset int) Candidate {
	if idx := strings.Index(raw, value); idx >= 0 {
		return Candidate{Value: value, Raw: value, Offset: offset + idx}
	}
	return Candidate{Value: value, Raw: raw, Offset: offset}
}
