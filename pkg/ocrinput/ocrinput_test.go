package ocrinput

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/labscan/pkg/labreport"
)

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t2480\t3508\t-1\t\n" +
	"4\t1\t1\t1\t1\t0\t100\t100\t800\t50\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t100\t100\t200\t50\t96.5\tFasting\n" +
	"5\t1\t1\t1\t1\t2\t320\t100\t180\t50\t93\tSugar:\n" +
	"5\t1\t1\t1\t1\t3\t520\t100\t80\t50\t88\t98\n" +
	"5\t1\t1\t1\t2\t1\t100\t200\t200\t50\t71\tHbA1c\n" +
	"5\t1\t1\t1\t2\t2\t320\t200\t80\t50\t64\t5.6%\n" +
	"5\t1\t2\t1\t1\t1\t100\t900\t80\t50\t-1\t \n" +
	"5\t1\t2\t1\t1\t2\t100\t900\t80\t50\t90\tPage\n"

const sampleHOCR = `<html><body><div class="ocr_page" title="bbox 0 0 100 100">` +
	`<span class="ocr_line"><span class="ocrx_word" title="bbox 1 2 3 4; x_wconf 91">HbA1c</span> ` +
	`<span class="ocrx_word" title="bbox 5 2 9 4; x_wconf 67">5.6%</span></span></div></body></html>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestParseTSV(t *testing.T) {
	text, words, err := ParseTSV([]byte(sampleTSV))
	require.NoError(t, err)

	assert.Equal(t, "Fasting Sugar: 98\nHbA1c 5.6%\n\nPage\n", text)
	require.Len(t, words, 6)
	assert.Equal(t, labreport.Word{
		Text:       "Fasting",
		Confidence: 96.5,
		BBox:       labreport.BoundingBox{X1: 100, Y1: 100, X2: 300, Y2: 150},
	}, words[0])
	assert.Equal(t, "Page", words[5].Text)
}

func TestParseTSV_Errors(t *testing.T) {
	_, _, err := ParseTSV([]byte("5\t1\t1\t1\t1\t1\t0\t0\t1\t1\t90\tx\n"))
	assert.Error(t, err, "missing header")

	bad := strings.Replace(sampleTSV, "96.5", "high", 1)
	_, _, err = ParseTSV([]byte(bad))
	assert.Error(t, err, "bad conf")
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"report.txt":   FormatText,
		"report.HOCR":  FormatHOCR,
		"report.html":  FormatHOCR,
		"report.tsv":   FormatTSV,
		"report.json":  FormatDocAI,
		"dir/scan.htm": FormatHOCR,
	}
	for path, want := range tests {
		got, err := DetectFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := DetectFormat("report.pdf")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" HTML ")
	require.NoError(t, err)
	assert.Equal(t, FormatHOCR, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("text with caption", func(t *testing.T) {
		txt := writeFile(t, dir, "report.txt", "HbA1c: 5.6%\n")
		caption := writeFile(t, dir, "caption.txt", "  a lab report  \n")

		in, err := Load(txt, LoadOptions{CaptionPath: caption})
		require.NoError(t, err)
		assert.Equal(t, "HbA1c: 5.6%\n", in.Text)
		assert.Equal(t, "a lab report", in.Caption)
		assert.Empty(t, in.Words)
	})

	t.Run("text with words sidecar", func(t *testing.T) {
		txt := writeFile(t, dir, "ocr.txt", "HbA1c 5.6%")
		words := writeFile(t, dir, "ocr.hocr", sampleHOCR)

		in, err := Load(txt, LoadOptions{WordsPath: words})
		require.NoError(t, err)
		assert.Equal(t, "HbA1c 5.6%", in.Text)
		require.Len(t, in.Words, 2)
		assert.Equal(t, 67.0, in.Words[1].Confidence)
	})

	t.Run("hocr", func(t *testing.T) {
		p := writeFile(t, dir, "scan.hocr", sampleHOCR)

		in, err := Load(p, LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, "HbA1c 5.6%\n", in.Text)
		require.Len(t, in.Words, 2)
		assert.Equal(t, labreport.BoundingBox{X1: 1, Y1: 2, X2: 3, Y2: 4}, in.Words[0].BBox)
	})

	t.Run("tsv with explicit format", func(t *testing.T) {
		p := writeFile(t, dir, "scan.out", sampleTSV)

		in, err := Load(p, LoadOptions{Format: FormatTSV})
		require.NoError(t, err)
		assert.Len(t, in.Words, 6)

		res := labreport.Extract(in.Text, in.Words, in.Caption)
		assert.Equal(t, "5.6", res.HbA1c)
		conf, ok := res.FieldConfidence(labreport.HbA1c)
		require.True(t, ok)
		assert.InDelta(t, 64, conf, 1e-9)
	})

	t.Run("document ai json", func(t *testing.T) {
		p := writeFile(t, dir, "scan.json", `{"text":"FBS 98\n","pages":[{"pageNumber":1,"tokens":[`+
			`{"layout":{"textAnchor":{"textSegments":[{"endIndex":"4"}]},"confidence":0.9}},`+
			`{"layout":{"textAnchor":{"textSegments":[{"startIndex":"4","endIndex":"7"}]},"confidence":0.75}}]}]}`)

		in, err := Load(p, LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, "FBS 98\n", in.Text)
		require.Len(t, in.Words, 2)
		assert.Equal(t, "98", in.Words[1].Text)
		assert.InDelta(t, 75, in.Words[1].Confidence, 0.01)
	})

	t.Run("missing caption is an error", func(t *testing.T) {
		txt := writeFile(t, dir, "plain.txt", "x")
		_, err := Load(txt, LoadOptions{CaptionPath: filepath.Join(dir, "nope.txt")})
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.txt"), LoadOptions{})
		assert.Error(t, err)
	})

	t.Run("text words file rejected", func(t *testing.T) {
		txt := writeFile(t, dir, "a.txt", "x")
		_, err := Load(txt, LoadOptions{WordsPath: txt})
		assert.Error(t, err)
	})
}
