package labreport

import (
	"regexp"
	"strings"
)

var (
	ageSexPattern = regexp.MustCompile(`(?i)age\s*/\s*(?:sex|gender)\s*[:\-]?\s*(\d{1,3})\s*(?:y(?:ea)?rs?|y)?\.?\s*/?\s*(m|f|male|female)\b`)
	sexAgePattern = regexp.MustCompile(`(?i)(?:sex|gender)\s*/\s*age\s*[:\-]?\s*(m|f|male|female)\s*/\s*(\d{1,3})`)
	ageLabel      = regexp.MustCompile(`(?i)\bage\s*[:\-]?\s*(\d{1,3})\s*(?:y(?:ea)?rs?\b|y\b|years?\b)?`)
	ageOnlyLabel  = regexp.MustCompile(`(?i)^age(?:\s*/\s*(?:sex|gender))?\s*[:\-]?$`)
	ageBare       = regexp.MustCompile(`(?i)^(\d{1,3})\s*(?:y(?:ea)?rs?|y|years?)?\.?(?:\s*/\s*(m|f|male|female))?$`)
	ageNarrative  = regexp.MustCompile(`(?i)\b(\d{2,3})\s*(?:years?|yrs?)\b(?:\s*(?:old)?\s*[/,]?\s*(male|female|m|f)\b)?`)
)

// normalizeGender maps m/f/male/female to MALE or FEMALE
func normalizeGender(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male":
		return "MALE", true
	case "f", "female":
		return "FEMALE", true
	}
	return "", false
}

// ageCandidate builds an age candidate with an optional gender side value from
// a submatch index slice. ageGroup and genderGroup are capture group numbers,
// genderGroup 0 means the pattern has none. Plausibility is not checked here:
// a labelled age is taken as written and re-checked in the cleanup pass.
func ageCandidate(text string, base int, m []int, ageGroup, genderGroup int) (Candidate, bool) {
	as, ae := m[2*ageGroup], m[2*ageGroup+1]
	if as < 0 || truncatedNumber(text, as, ae) {
		return Candidate{}, false
	}
	raw := text[as:ae]
	if _, ok := parseNumber(raw); !ok {
		return Candidate{}, false
	}
	c := Candidate{Value: raw, Raw: raw, Offset: base + as}
	if genderGroup > 0 && len(m) > 2*genderGroup+1 {
		gs, ge := m[2*genderGroup], m[2*genderGroup+1]
		if gs >= 0 {
			if g, ok := normalizeGender(text[gs:ge]); ok {
				c.Side = &SideValue{Field: Gender, Value: g, Raw: text[gs:ge], Offset: base + gs}
			}
		}
	}
	return c, true
}

func plausibleAge(v string) bool {
	n, ok := parseNumber(v)
	return ok && ageRange.contains(n)
}

// agePattern matches re on the current line, or over the whole text for
// TextScope. Narrative matches are loose, so only an adult age is accepted
// there.
func agePattern(name string, scope Scope, re *regexp.Regexp, ageGroup, genderGroup int) Strategy {
	return Strategy{
		Name:  name,
		Scope: scope,
		Match: func(src *Source, i int) (Candidate, bool) {
			text, base := src.Text, 0
			if scope == LineScope {
				if i < 0 || i >= len(src.Lines) {
					return Candidate{}, false
				}
				text, base = src.Lines[i].Text, src.Lines[i].Offset
			}
			for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
				c, ok := ageCandidate(text, base, m, ageGroup, genderGroup)
				if ok && (scope == LineScope || plausibleAge(c.Value)) {
					return c, true
				}
			}
			return Candidate{}, false
		},
	}
}

// ageNextLine reads "45 Yrs / M" printed below a lone "Age" or "Age/Sex" label
func ageNextLine() Strategy {
	return Strategy{
		Name:  "age-next-line",
		Scope: LineScope,
		Match: func(src *Source, i int) (Candidate, bool) {
			if i < 0 || i >= len(src.Lines) || !ageOnlyLabel.MatchString(src.Lines[i].Text) {
				return Candidate{}, false
			}
			for _, ln := range lookahead(src, i) {
				m := ageBare.FindStringSubmatchIndex(ln.Text)
				if m == nil {
					continue
				}
				if c, ok := ageCandidate(ln.Text, ln.Offset, m, 1, 2); ok {
					return c, true
				}
			}
			return Candidate{}, false
		},
	}
}

// ageStrategies finds the patient age. The combined "Age/Sex" forms come first
// because they resolve the gender as well.
func ageStrategies() []Strategy {
	return []Strategy{
		agePattern("age-sex", LineScope, ageSexPattern, 1, 2),
		agePattern("sex-age", LineScope, sexAgePattern, 2, 1),
		agePattern("age-label", LineScope, ageLabel, 1, 0),
		ageNextLine(),
		agePattern("age-narrative", TextScope, ageNarrative, 1, 2),
	}
}
