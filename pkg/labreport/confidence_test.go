package labreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func word(text string, conf float64, pos int) PositionedWord {
	return PositionedWord{Word: Word{Text: text, Confidence: conf}, Position: pos}
}

func TestEstimateConfidence(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		position  int
		words     []PositionedWord
		want      float64
	}{
		{
			name:      "no words is neutral",
			candidate: "98",
			want:      NeutralConfidence,
		},
		{
			name:      "word equal to candidate",
			candidate: "98",
			words:     []PositionedWord{word("98", 90, 0), word("mg/dl", 70, 3)},
			want:      90,
		},
		{
			name:      "words inside candidate are averaged",
			candidate: "JOHN DOE",
			words:     []PositionedWord{word("john", 80, 0), word("DOE", 60, 5)},
			want:      70,
		},
		{
			name:      "word containing candidate",
			candidate: "5.6",
			words:     []PositionedWord{word("5.6%", 88, 0)},
			want:      88,
		},
		{
			name:      "overlap wins over proximity",
			candidate: "45",
			position:  10,
			words:     []PositionedWord{word("Age", 20, 8), word("45/M", 75, 200)},
			want:      75,
		},
		{
			name:      "nearby words when nothing overlaps",
			candidate: "5.6",
			position:  7,
			words:     []PositionedWord{word("HbA1c", 80, 0), word("Page", 10, 200)},
			want:      80,
		},
		{
			name:      "unlocated words take no part in proximity",
			candidate: "5.6",
			position:  7,
			words:     []PositionedWord{word("HbA1c", 80, -1)},
			want:      NoEvidenceConfidence,
		},
		{
			name:      "no evidence",
			candidate: "5.6",
			position:  0,
			words:     []PositionedWord{word("Page", 90, 300)},
			want:      NoEvidenceConfidence,
		},
		{
			name:      "clamped to 100",
			candidate: "98",
			words:     []PositionedWord{word("98", 140, 0)},
			want:      100,
		},
		{
			name:      "clamped to 0",
			candidate: "98",
			words:     []PositionedWord{word("98", -5, 0)},
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateConfidence(tt.candidate, tt.position, tt.words)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
