package labreport

import (
	"regexp"
	"strings"
)

const hba1cLabelExpr = `(?:\bhb\s*a\s*[1il]\s*c\b|\bglyc(?:ated|osylated|osated)\s+ha?emoglobin\b)`

var (
	hba1cLabel = regexp.MustCompile(`(?i)` + hba1cLabelExpr)
	hba1cValue = regexp.MustCompile(`^[^0-9\n]{0,40}?(\d{1,2}(?:\.\d{1,2})?)(?:[^0-9.]|$)`)
	hba1cBare  = regexp.MustCompile(`^(\d{1,2}(?:\.\d{1,2})?)\s*%?$`)
	hba1cProse = regexp.MustCompile(`(?i)` + hba1cLabelExpr + `[^%\n]{0,80}?(\d{1,2}\.\d{1,2})\s*%`)

	// Words around a number that mark it as part of a reference range
	rangeContext = regexp.MustCompile(`(?i)\b(?:to|range|diabetic|control|normal|reference|ref|target|goal|between|upto|up to|below|above|non-diabetic|pre-diabetic|good|fair|poor)\b`)
)

// hba1cBoundaryWindow is how far around a value range words are searched
const hba1cBoundaryWindow = 50

// Values printed as reference range limits in HbA1c interpretation tables
var hba1cBoundaries = []float64{4.0, 6.0, 8.0}

func isHbA1cBoundary(v float64) bool {
	for _, b := range hba1cBoundaries {
		if v == b {
			return true
		}
	}
	return false
}

// hba1cGate accepts values in the HbA1c range. A value equal to a common
// range limit is rejected when range words surround it.
func hba1cGate(src *Source, raw string, offset int) bool {
	v, ok := parseNumber(raw)
	if !ok || !hba1cRange.contains(v) {
		return false
	}
	if !isHbA1cBoundary(v) {
		return true
	}
	around := src.Window(offset, offset+len(raw), hba1cBoundaryWindow)
	return !rangeContext.MatchString(strings.ToLower(around))
}

// hba1cStrategies finds the HbA1c percentage
func hba1cStrategies() []Strategy {
	return []Strategy{
		labelledNumber("hba1c-inline", hba1cLabel, hba1cValue, hba1cGate),
		labelThenValue("hba1c-next-line", hba1cLabel, hba1cValue, hba1cBare, hba1cGate),
		narrativeNumber("hba1c-narrative", hba1cProse, hba1cGate),
	}
}
