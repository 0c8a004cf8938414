package labreport

import "regexp"

var (
	labUnitOf    = regexp.MustCompile(`(?i)\b(a\s+unit\s+of\s+[A-Za-z&.' ]{2,80}?\blaborator(?:y|ies))\b`)
	labLabel     = regexp.MustCompile(`(?i)\b(?:lab(?:oratory)?\s*name|performed\s+at|processed\s+at)\s*[:\-]\s*([A-Za-z][A-Za-z0-9&.,' \-]{4,100})`)
	labSuffix    = regexp.MustCompile(`(?i)([A-Za-z][A-Za-z&.' \-]{1,60}\s(?:laborator(?:y|ies)|diagnostics?|hospitals?|centre|center|clinics?|labs|path\s*labs?))\b`)
	labOnlyLabel = regexp.MustCompile(`(?i)^(?:lab(?:oratory)?\s*name|performed\s+at|processed\s+at)\s*[:\-]?$`)
	labProse     = regexp.MustCompile(`(?i)\b(?:at|by|from)[ \t]+([A-Za-z][A-Za-z&.' ]{2,60}[ \t](?:labs?|laborator(?:y|ies)|diagnostics?))\b`)
)

// labNameStrategies finds the laboratory. "A Unit of ... Laboratories"
// letterheads are tried before explicit labels because the label often holds
// only the branch name.
func labNameStrategies() []Strategy {
	return []Strategy{
		lineCapture("lab-unit-of", labUnitOf, cleanLab),
		lineCapture("lab-label", labLabel, cleanLab),
		lineCapture("lab-suffix", labSuffix, cleanLab),
		nextLineCapture("lab-next-line", labOnlyLabel, cleanLab),
		textCapture("lab-narrative", labProse, cleanLab),
	}
}
