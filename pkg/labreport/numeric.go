package labreport

import (
	"regexp"
	"strconv"
	"strings"
)

// valueGate validates a numeric capture found at offset in the source text
type valueGate func(src *Source, raw string, offset int) bool

// numericRange is the plausibility range of a numeric field, bounds included
type numericRange struct {
	Min, Max float64
}

func (r numericRange) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var (
	sugarRange       = numericRange{Min: 50, Max: 500}
	hba1cRange       = numericRange{Min: 3.0, Max: 15.0}
	cholesterolRange = numericRange{Min: 100, Max: 400}
	ageRange         = numericRange{Min: 18, Max: 150}
)

func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// rangeGate accepts values inside r
func rangeGate(r numericRange) valueGate {
	return func(_ *Source, raw string, _ int) bool {
		v, ok := parseNumber(raw)
		return ok && r.contains(v)
	}
}

// labelledNumber reads the first number following each label match on the
// current line. value must capture the number in group 1 and is matched
// against the text right after the label.
func labelledNumber(name string, label, value *regexp.Regexp, gate valueGate) Strategy {
	return Strategy{
		Name:  name,
		Scope: LineScope,
		Match: func(src *Source, i int) (Candidate, bool) {
			if i < 0 || i >= len(src.Lines) {
				return Candidate{}, false
			}
			ln := src.Lines[i]
			for _, lm := range label.FindAllStringIndex(ln.Text, -1) {
				rest := ln.Text[lm[1]:]
				m := value.FindStringSubmatchIndex(rest)
				if m == nil || m[2] < 0 {
					continue
				}
				raw := rest[m[2]:m[3]]
				offset := ln.Offset + lm[1] + m[2]
				if gate(src, raw, offset) {
					return Candidate{Value: raw, Raw: raw, Offset: offset}, true
				}
			}
			return Candidate{}, false
		},
	}
}

// labelThenValue handles table layouts where the label has no value on its
// own line and the value is printed alone on one of the following lines.
func labelThenValue(name string, label, value, bare *regexp.Regexp, gate valueGate) Strategy {
	return Strategy{
		Name:  name,
		Scope: LineScope,
		Match: func(src *Source, i int) (Candidate, bool) {
			if i < 0 || i >= len(src.Lines) {
				return Candidate{}, false
			}
			matches := label.FindAllStringIndex(src.Lines[i].Text, -1)
			if len(matches) == 0 {
				return Candidate{}, false
			}
			rest := src.Lines[i].Text[matches[len(matches)-1][1]:]
			if value.MatchString(rest) {
				return Candidate{}, false
			}
			for _, ln := range lookahead(src, i) {
				m := bare.FindStringSubmatchIndex(ln.Text)
				if m == nil || m[2] < 0 {
					continue
				}
				raw := ln.Text[m[2]:m[3]]
				offset := ln.Offset + m[2]
				if gate(src, raw, offset) {
					return Candidate{Value: raw, Raw: raw, Offset: offset}, true
				}
			}
			return Candidate{}, false
		},
	}
}

// narrativeNumber accepts the first match of re in the whole text whose
// group 1 passes the gate.
func narrativeNumber(name string, re *regexp.Regexp, gate valueGate) Strategy {
	return Strategy{
		Name:  name,
		Scope: TextScope,
		Match: func(src *Source, _ int) (Candidate, bool) {
			for _, m := range re.FindAllStringSubmatchIndex(src.Text, -1) {
				if len(m) < 4 || m[2] < 0 {
					continue
				}
				if truncatedNumber(src.Text, m[2], m[3]) {
					continue
				}
				raw := src.Text[m[2]:m[3]]
				if gate(src, raw, m[2]) {
					return Candidate{Value: raw, Raw: raw, Offset: m[2]}, true
				}
			}
			return Candidate{}, false
		},
	}
}

// truncatedNumber reports whether text[start:end] is cut out of a longer
// number, as "120" is of "1200".
func truncatedNumber(text string, start, end int) bool {
	return isDigit(text, start-1) || isDigit(text, end)
}

func isDigit(text string, i int) bool {
	return i >= 0 && i < len(text) && text[i] >= '0' && text[i] <= '9'
}
