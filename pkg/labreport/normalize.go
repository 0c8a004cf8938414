package labreport

import (
	"regexp"
	"strings"
)

// VignashLabName is the canonical name of the Vignash group laboratories
const VignashLabName = "A Unit of Vignash Group of Laboratories"

// suffixGap is what may separate a lab name from its suffix: punctuation and
// spaces with at most one line break
const suffixGap = `^[ \t.,:\-]*(?:\r?\n[ \t.,:\-]*)?`

var (
	vignashGroup = regexp.MustCompile(`(?i)vignash\s+group`)

	// Lab name suffixes OCR often prints on the line below the name
	labNameSuffixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)` + suffixGap + `(renal\s+and\s+vascular\s+centre)\b`),
		regexp.MustCompile(`(?i)` + suffixGap + `(hospitals)\b`),
	}
)

// normalizeRecord is the cleanup pass: whitespace is collapsed, string fields
// are validated again, known lab name defects are repaired and an implausible
// age gets one more try with the "Age/Sex" pattern.
func normalizeRecord(rec *record, src *Source) {
	for _, f := range allFields {
		if ef, ok := rec.get(f); ok {
			ef.Value = collapseSpace(ef.Value)
			rec.set(f, ef)
		}
	}

	revalidate(rec, PatientName, validName)
	revalidate(rec, DoctorName, validDoctor)
	revalidate(rec, LabName, validLab)

	repairVignash(rec, src)
	repairLabSuffix(rec, src)
	recheckAge(rec, src)
}

func revalidate(rec *record, f Field, valid func(string) bool) {
	if ef, ok := rec.get(f); ok && !valid(ef.Value) {
		rec.clear(f)
	}
}

// repairVignash replaces a missing or truncated Vignash lab name with the
// canonical one.
func repairVignash(rec *record, src *Source) {
	loc := vignashGroup.FindStringIndex(src.Text)
	if loc == nil {
		return
	}
	if ef, ok := rec.get(LabName); ok && strings.Contains(strings.ToLower(ef.Value), "laborator") {
		return
	}
	raw := src.Text[loc[0]:loc[1]]
	rec.set(LabName, ExtractedField{
		Value:      VignashLabName,
		Confidence: EstimateConfidence(raw, loc[0], src.Words),
		Raw:        raw,
		Offset:     loc[0],
		Strategy:   "vignash-repair",
	})
}

// repairLabSuffix appends a known suffix printed right after the lab name,
// on the same line or the next one, when the value lacks it.
func repairLabSuffix(rec *record, src *Source) {
	ef, ok := rec.get(LabName)
	if !ok || ef.Offset < 0 {
		return
	}
	end := ef.Offset + len(ef.Raw)
	if end > len(src.Text) {
		return
	}
	rest := src.Text[end:]
	for _, re := range labNameSuffixes {
		m := re.FindStringSubmatchIndex(rest)
		if m == nil {
			continue
		}
		suffix := strings.ToUpper(collapseSpace(rest[m[2]:m[3]]))
		if !strings.Contains(strings.ToUpper(ef.Value), suffix) {
			ef.Value = ef.Value + " " + suffix
		}
		rest = rest[m[1]:]
	}
	rec.set(LabName, ef)
}

// recheckAge drops an age outside the adult range unless the "Age/Sex"
// pattern finds a plausible one elsewhere in the text.
func recheckAge(rec *record, src *Source) {
	ef, ok := rec.get(Age)
	if !ok {
		return
	}
	if plausibleAge(ef.Value) {
		return
	}
	rec.clear(Age)
	for _, m := range ageSexPattern.FindAllStringSubmatchIndex(src.Text, -1) {
		c, ok := ageCandidate(src.Text, 0, m, 1, 2)
		if !ok || !plausibleAge(c.Value) {
			continue
		}
		rec.set(Age, ExtractedField{
			Value:      c.Value,
			Confidence: EstimateConfidence(c.Raw, c.Offset, src.Words),
			Raw:        c.Raw,
			Offset:     c.Offset,
			Strategy:   "age-recheck",
		})
		if c.Side != nil && !rec.resolved(Gender) {
			rec.set(Gender, ExtractedField{
				Value:      c.Side.Value,
				Confidence: EstimateConfidence(c.Side.Raw, c.Side.Offset, src.Words),
				Raw:        c.Side.Raw,
				Offset:     c.Side.Offset,
				Strategy:   "age-recheck",
			})
		}
		return
	}
}
