package labreport

import "regexp"

var (
	fastingLabel = regexp.MustCompile(`(?i)(?:\bfasting\s*(?:blood\s*|plasma\s*)?(?:sugar|glucose)\b|\b(?:blood\s*|plasma\s*)?(?:sugar|glucose)\s*[,\-]?\s*\(?\s*fasting\s*\)?|\bf\.?\s*b\.?\s*s\b|\bbl\.?\s*sugar\s*\(\s*f\s*\)|\b(?:sugar|glucose)\s*\(\s*f\s*\))`)
	ppLabel      = regexp.MustCompile(`(?i)(?:\bpost\s*-?\s*prandial\b(?:\s*(?:blood\s*|plasma\s*)?(?:sugar|glucose)\b)?|\bp\.?\s*p\.?\s*b\.?\s*s\b|\b(?:blood\s*|plasma\s*)?(?:sugar|glucose)\s*\(\s*p\.?\s*p\.?\s*\)|\bbl\.?\s*sugar\s*\(\s*p\.?\s*p\.?\s*\)|\b(?:sugar|glucose)\s*[,\-]?\s*pp\b|\bpp\s*(?:blood\s*)?(?:sugar|glucose)\b)`)

	// The first number after the label, skipping fasting and post meal
	// durations such as "2 hrs"
	sugarValue = regexp.MustCompile(`(?i)^(?:[^0-9\n]|\d\s*(?:hrs?|hours?)\b){0,40}?(\d{2,3}(?:\.\d+)?)(?:[^0-9.]|$)`)
	sugarBare  = regexp.MustCompile(`(?i)^(\d{2,3}(?:\.\d+)?)\s*(?:mg\s*/\s*d\s*l|mg\s*%)?\.?$`)

	fastingProse = regexp.MustCompile(`(?i)\b(?:fasting|fbs)\b[^0-9]{0,60}?(\d{2,3}(?:\.\d+)?)`)
	ppProse      = regexp.MustCompile(`(?i)(?:post\s*-?\s*prandial|ppbs|\bpp\b)[^0-9]{0,40}?(\d{2,3}(?:\.\d+)?)`)
)

// fastingSugarStrategies finds the fasting blood sugar in mg/dl
func fastingSugarStrategies() []Strategy {
	gate := rangeGate(sugarRange)
	return []Strategy{
		labelledNumber("fasting-inline", fastingLabel, sugarValue, gate),
		labelThenValue("fasting-next-line", fastingLabel, sugarValue, sugarBare, gate),
		narrativeNumber("fasting-narrative", fastingProse, gate),
	}
}

// ppSugarStrategies finds the post prandial blood sugar in mg/dl
func ppSugarStrategies() []Strategy {
	gate := rangeGate(sugarRange)
	return []Strategy{
		labelledNumber("pp-inline", ppLabel, sugarValue, gate),
		labelThenValue("pp-next-line", ppLabel, sugarValue, sugarBare, gate),
		narrativeNumber("pp-narrative", ppProse, gate),
	}
}
