package ocrinput

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/gardar/labscan/pkg/labreport"
)

// tesseract TSV layout: level page_num block_num par_num line_num word_num
// left top width height conf text
const (
	tsvColumns   = 12
	tsvWordLevel = 5
)

type tsvLine struct {
	page, block, par, line int
}

// ParseTSV reads tesseract TSV output. Word rows with a confidence of -1 are
// skipped. The text is rebuilt the way tesseract prints it: one line per
// line_num, a blank line between paragraphs and pages.
func ParseTSV(data []byte) (string, []labreport.Word, error) {
	rows := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if len(rows) == 0 || !strings.HasPrefix(strings.TrimSpace(rows[0]), "level") {
		return "", nil, eris.New("tsv header is missing")
	}

	var (
		b       strings.Builder
		words   []labreport.Word
		current tsvLine
		started bool
	)
	for i, row := range rows[1:] {
		if strings.TrimSpace(row) == "" {
			continue
		}
		cols := strings.Split(row, "\t")
		if len(cols) < tsvColumns {
			continue
		}
		n, err := atoiAll(cols[:10])
		if err != nil {
			return "", nil, eris.Wrapf(err, "tsv row %d", i+2)
		}
		if n[0] != tsvWordLevel {
			continue
		}
		conf, err := strconv.ParseFloat(strings.TrimSpace(cols[10]), 64)
		if err != nil {
			return "", nil, eris.Wrapf(err, "tsv row %d: bad conf", i+2)
		}
		text := strings.TrimSpace(strings.Join(cols[11:], "\t"))
		if conf < 0 || text == "" {
			continue
		}

		key := tsvLine{page: n[1], block: n[2], par: n[3], line: n[4]}
		switch {
		case !started:
			started = true
		case key.page != current.page || key.block != current.block || key.par != current.par:
			b.WriteString("\n\n")
		case key.line != current.line:
			b.WriteString("\n")
		default:
			b.WriteString(" ")
		}
		current = key
		b.WriteString(text)

		left, top, width, height := float64(n[6]), float64(n[7]), float64(n[8]), float64(n[9])
		words = append(words, labreport.Word{
			Text:       text,
			Confidence: conf,
			BBox: labreport.BoundingBox{
				X1: left,
				Y1: top,
				X2: left + width,
				Y2: top + height,
			},
		})
	}
	if started {
		b.WriteString("\n")
	}
	return b.String(), words, nil
}

func atoiAll(cols []string) ([]int, error) {
	out := make([]int, len(cols))
	for i, c := range cols {
		v, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
