package review

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"regexp"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"github.com/rotisserie/eris"
)

// Page objects of a PDF, "/Type /Pages" tree nodes excluded
var pageObject = regexp.MustCompile(`/Type\s*/Page\b[^s]`)

// countPDFPages estimates the page count from the raw page objects
func countPDFPages(data []byte) int {
	return len(pageObject.FindAllIndex(data, -1))
}

// appendPDF imports every page of src after the sheet, each in its own layer
func appendPDF(pdf *fpdf.Fpdf, src []byte) (err error) {
	if !bytes.HasPrefix(bytes.TrimSpace(src), []byte("%PDF")) {
		return eris.New("source document is not a PDF")
	}
	n := countPDFPages(src)
	if n == 0 {
		return eris.New("source PDF has no pages")
	}

	// gofpdi panics on documents it cannot parse
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("failed to import source PDF: %v", r)
		}
	}()

	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(src))
	w, _ := pdf.GetPageSize()
	for i := 1; i <= n; i++ {
		pdf.AddPage()
		tpl := importer.ImportPageFromStream(pdf, &rs, i, "/MediaBox")
		layer := pdf.AddLayer(fmt.Sprintf("Source (Page %d)", i), true)
		pdf.BeginLayer(layer)
		importer.UseImportedTemplate(pdf, tpl, 0, 0, w, 0)
		pdf.EndLayer()
	}
	return nil
}

// appendImages adds one page per image, scaled to fit inside the margins
func appendImages(pdf *fpdf.Fpdf, images [][]byte) error {
	pageW, pageH := pdf.GetPageSize()
	maxW, maxH := pageW-2*pageMargin, pageH-2*pageMargin

	for i, data := range images {
		if len(data) == 0 {
			return eris.Errorf("image %d is empty", i+1)
		}
		imageType, err := detectImageType(data)
		if err != nil {
			return eris.Wrapf(err, "image %d has invalid format", i+1)
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil || cfg.Width == 0 || cfg.Height == 0 {
			return eris.Errorf("image %d has no dimensions", i+1)
		}

		scale := maxW / float64(cfg.Width)
		if s := maxH / float64(cfg.Height); s < scale {
			scale = s
		}
		w, h := float64(cfg.Width)*scale, float64(cfg.Height)*scale

		pdf.SetAutoPageBreak(false, 0)
		pdf.AddPage()
		name := fmt.Sprintf("page%d", i)
		opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		layer := pdf.AddLayer(fmt.Sprintf("Source (Page %d)", i+1), true)
		pdf.BeginLayer(layer)
		pdf.ImageOptions(name, (pageW-w)/2, (pageH-h)/2, w, h, false, opts, 0, "")
		pdf.EndLayer()
	}
	return nil
}

// detectImageType tries to figure out whether the data is PNG, JPEG, etc.
func detectImageType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", eris.Wrap(err, "failed to decode image config")
	}
	return strings.ToUpper(format), nil
}
