package labreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource_CaptionFirst(t *testing.T) {
	src := NewSource(Input{
		Text:    "HbA1c 5.6\n",
		Caption: "  HbA1c report  ",
		Words:   []Word{{Text: "HbA1c", Confidence: 91}, {Text: "5.6", Confidence: 85}},
	})

	assert.Equal(t, "HbA1c report\nHbA1c 5.6\n", src.Text)
	require.Len(t, src.Lines, 2)
	assert.Equal(t, Line{Text: "HbA1c report", Offset: 0}, src.Lines[0])
	assert.Equal(t, Line{Text: "HbA1c 5.6", Offset: 13}, src.Lines[1])

	// OCR words are located in the OCR part, not in the caption
	require.Len(t, src.Words, 2)
	assert.Equal(t, 13, src.Words[0].Position)
	assert.Equal(t, 19, src.Words[1].Position)
}

func TestNewSource_Normalization(t *testing.T) {
	src := NewSource(Input{Text: "FBS ９８\r\nPage 1\fPage 2"})

	assert.Equal(t, "FBS 98\nPage 1\nPage 2", src.Text)
	require.Len(t, src.Lines, 3)
	assert.Equal(t, "Page 2", src.Lines[2].Text)
}

func TestSplitLines_SkipsBlankLines(t *testing.T) {
	lines := splitLines("  Name: A B \n\n   \nAge: 40")
	require.Len(t, lines, 2)
	assert.Equal(t, Line{Text: "Name: A B", Offset: 2}, lines[0])
	assert.Equal(t, Line{Text: "Age: 40", Offset: 18}, lines[1])
}

func TestLocateWords(t *testing.T) {
	words := locateWords("5.6 and 5.6 again", 0, []Word{
		{Text: "5.6"}, {Text: "AND"}, {Text: "5.6"}, {Text: "missing"}, {Text: " "},
	})

	require.Len(t, words, 5)
	assert.Equal(t, 0, words[0].Position)
	assert.Equal(t, 4, words[1].Position)
	assert.Equal(t, 8, words[2].Position)
	assert.Equal(t, -1, words[3].Position)
	assert.Equal(t, -1, words[4].Position)
}

func TestSourceWindow(t *testing.T) {
	src := &Source{Text: "0123456789"}

	assert.Equal(t, "234567", src.Window(4, 6, 2))
	assert.Equal(t, "0123", src.Window(1, 2, 2))
	assert.Equal(t, "789", src.Window(9, 10, 2))
	assert.Equal(t, "", src.Window(20, 21, 2))
}
