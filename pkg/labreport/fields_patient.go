package labreport

import "regexp"

const honorific = `(?:(?:mr|mrs|ms|miss|master|smt|shri|baby)(?:\.\s*|\s+))?`

var (
	patientNameLabel = regexp.MustCompile(`(?i)\bpatient(?:'?s)?\s*name\s*[:\-.]?\s*` + honorific + `([A-Za-z][A-Za-z .']{1,60})`)
	plainNameLabel   = regexp.MustCompile(`(?i)^(?:pt\.?\s*)?name\s*[:\-.]?\s*` + honorific + `([A-Za-z][A-Za-z .']{1,60})`)
	honorificLine    = regexp.MustCompile(`(?i)^(?:mr|mrs|ms|miss|master|smt|shri)(?:\.\s*|\s+)([A-Za-z][A-Za-z .']{1,60})`)
	nameOnlyLabel    = regexp.MustCompile(`(?i)^(?:patient(?:'?s)?\s*)?name\s*[:\-.]?$`)
	honorificProse   = regexp.MustCompile(`(?i)\b(?:mr|mrs|ms|miss)(?:\.\s*|\s+)([A-Za-z][A-Za-z.']*(?:[ \t]+[A-Za-z][A-Za-z.']*){0,3})`)
)

// patientNameStrategies finds the patient name. The explicit "Patient Name"
// label beats a bare "Name" label, which beats a line opening with an
// honorific.
func patientNameStrategies() []Strategy {
	return []Strategy{
		lineCapture("patient-name-label", patientNameLabel, cleanName),
		lineCapture("name-label", plainNameLabel, cleanName),
		lineCapture("honorific-line", honorificLine, cleanName),
		nextLineCapture("name-next-line", nameOnlyLabel, cleanName),
		textCapture("honorific-narrative", honorificProse, cleanName),
	}
}
