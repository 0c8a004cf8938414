package labreport

import "strings"

const (
	// NeutralConfidence is returned when the OCR engine supplied no words at all
	NeutralConfidence = 50.0

	// NoEvidenceConfidence is returned when no word supports the candidate
	NoEvidenceConfidence = 30.0

	// ProximityWindow is the distance in bytes within which a word counts as
	// near a candidate
	ProximityWindow = 50

	// DefaultLowConfidenceThreshold flags fields scoring below it
	DefaultLowConfidenceThreshold = 60.0
)

// EstimateConfidence scores a candidate found at position in the source text.
//
// Words whose text overlaps the candidate (one contains the other, ignoring
// case) are preferred; their mean confidence is the score. Without overlap the
// mean confidence of the words within ProximityWindow of position is used.
// The result is a heuristic in [0, 100], not a probability.
func EstimateConfidence(candidate string, position int, words []PositionedWord) float64 {
	if len(words) == 0 {
		return NeutralConfidence
	}

	c := strings.ToLower(strings.TrimSpace(candidate))
	if c != "" {
		var overlap []float64
		for _, w := range words {
			t := strings.ToLower(w.Text)
			if t == "" {
				continue
			}
			if strings.Contains(c, t) || strings.Contains(t, c) {
				overlap = append(overlap, w.Confidence)
			}
		}
		if len(overlap) > 0 {
			return clampConfidence(mean(overlap))
		}
	}

	var near []float64
	for _, w := range words {
		if w.Position < 0 {
			continue
		}
		d := w.Position - position
		if d < 0 {
			d = -d
		}
		if d <= ProximityWindow {
			near = append(near, w.Confidence)
		}
	}
	if len(near) > 0 {
		return clampConfidence(mean(near))
	}

	return NoEvidenceConfidence
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func clampConfidence(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
