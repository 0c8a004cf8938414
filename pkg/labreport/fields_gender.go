package labreport

import "regexp"

var (
	genderLabel     = regexp.MustCompile(`(?i)\b(?:sex|gender)\s*[:\-]\s*(male|female|m|f)\b`)
	genderNextLabel = regexp.MustCompile(`(?i)^(?:sex|gender)\s*[:\-]?$`)
	genderBare      = regexp.MustCompile(`(?i)^(male|female|m|f)$`)
	genderAfterAge  = regexp.MustCompile(`(?i)\b\d{1,3}\s*(?:y|yrs?|years?)?\s*/\s*(m|f|male|female)\b`)
	genderToken     = regexp.MustCompile(`(?i)\b(male|female)\b`)
)

func cleanGender(raw string) (string, bool) {
	return normalizeGender(raw)
}

// genderBareCapture accepts a bare gender line below a lone "Sex" label
func genderBareCapture(line string) (string, bool) {
	m := genderBare.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return normalizeGender(m[1])
}

// genderStrategies finds the gender when the age matcher did not resolve it
// as a side value. The single letters M and F are only trusted next to a label
// or an age.
func genderStrategies() []Strategy {
	return []Strategy{
		lineCapture("gender-label", genderLabel, cleanGender),
		nextLineCapture("gender-next-line", genderNextLabel, genderBareCapture),
		textCapture("gender-after-age", genderAfterAge, cleanGender),
		textCapture("gender-token", genderToken, cleanGender),
	}
}
