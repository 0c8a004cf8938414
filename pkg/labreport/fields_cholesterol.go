package labreport

import (
	"regexp"
	"strings"
)

var (
	cholesterolLabel = regexp.MustCompile(`(?i)(?:\btotal\s*cholest(?:e)?rol\b|\bserum\s*cholest(?:e)?rol\b|\bs\.\s*cholest(?:e)?rol\b|\bcholest(?:e)?rol\s*[,\-]?\s*(?:total|serum)\b|^cholest(?:e)?rol\b)`)
	cholesterolValue = regexp.MustCompile(`^[^0-9\n]{0,40}?(\d{2,3}(?:\.\d+)?)(?:[^0-9.]|$)`)
	cholesterolBare  = regexp.MustCompile(`(?i)^(\d{2,3}(?:\.\d+)?)\s*(?:mg\s*/\s*d\s*l|mg\s*%)?\.?$`)
	cholesterolProse = regexp.MustCompile(`(?i)\bcholest(?:e)?rol\b[^0-9\n]{0,40}?(\d{3}(?:\.\d+)?)`)

	// Lipoprotein fractions reported next to the total
	fractionPrefix = regexp.MustCompile(`(?i)\b(?:v?ldl|hdl)[\s\-]*$`)
)

// cholesterolProseGate rejects narrative matches that belong to HDL, LDL or
// VLDL cholesterol.
func cholesterolProseGate(src *Source, raw string, offset int) bool {
	if !rangeGate(cholesterolRange)(src, raw, offset) {
		return false
	}
	label := strings.LastIndex(strings.ToLower(src.Text[:offset]), "cholest")
	if label < 0 {
		return true
	}
	start := label - 12
	if start < 0 {
		start = 0
	}
	return !fractionPrefix.MatchString(src.Text[start:label])
}

// cholesterolStrategies finds the total cholesterol in mg/dl. A bare
// "Cholesterol" label only counts at the start of a line so "HDL Cholesterol"
// rows are skipped.
func cholesterolStrategies() []Strategy {
	gate := rangeGate(cholesterolRange)
	return []Strategy{
		labelledNumber("cholesterol-inline", cholesterolLabel, cholesterolValue, gate),
		labelThenValue("cholesterol-next-line", cholesterolLabel, cholesterolValue, cholesterolBare, gate),
		narrativeNumber("cholesterol-narrative", cholesterolProse, cholesterolProseGate),
	}
}
