package labreport

import "regexp"

const refPrefix = `(?i)\bref(?:erred)?\.?\s*(?:by\b\.?|dr\b\.?|doctor\b)\s*[:\-.]?\s*(?:dr\b\.?\s*)?[:\-]?\s*`

var (
	refSelf         = regexp.MustCompile(refPrefix + `(self)\b`)
	refDoctor       = regexp.MustCompile(refPrefix + `([A-Za-z][A-Za-z .',]{2,100})`)
	doctorLabel     = regexp.MustCompile(`(?i)\b(?:doctor|consultant|physician)(?:'?s)?(?:\s*name)?\s*[:\-]\s*(?:dr\b\.?\s*)?(self\b|[A-Za-z][A-Za-z .',]{2,100})`)
	doctorTitled    = regexp.MustCompile(`(?i)\bdr\b\.?\s*([A-Za-z][A-Za-z.']*(?:\s+[A-Za-z][A-Za-z.']*){0,3})`)
	doctorOnlyLabel = regexp.MustCompile(`(?i)^(?:ref(?:erred)?\.?\s*(?:by)?\.?(?:\s*dr\.?)?|doctor(?:'?s)?(?:\s*name)?|consultant|referring\s+(?:doctor|physician))\s*[:\-.]?$`)
	doctorProse     = regexp.MustCompile(`(?i)\b(?:dr|doctor)\b\.?[ \t]*[:\-]?[ \t]*([A-Za-z][A-Za-z.']*(?:[ \t]+[A-Za-z][A-Za-z.']*){0,3})`)
)

// cleanSelf accepts only the self-referral literal, skipping length and
// stoplist checks
func cleanSelf(string) (string, bool) {
	return SelfReferred, true
}

// doctorNameStrategies finds the referring doctor. A self referral is checked
// first so "Ref. By: Dr. SELF" never yields a doctor called "SELF".
func doctorNameStrategies() []Strategy {
	return []Strategy{
		lineCapture("ref-self", refSelf, cleanSelf),
		lineCapture("ref-by", refDoctor, cleanDoctor),
		lineCapture("doctor-label", doctorLabel, cleanDoctor),
		lineCapture("dr-title", doctorTitled, cleanDoctor),
		nextLineCapture("doctor-next-line", doctorOnlyLabel, cleanDoctor),
		textCapture("doctor-narrative", doctorProse, cleanDoctor),
	}
}
