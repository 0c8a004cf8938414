package hocr

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// Classes tesseract uses for text lines
var lineClasses = []string{"ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat"}

// ParseHOCR converts raw hOCR data into a structured HOCR object.
func ParseHOCR(data []byte) (HOCR, error) {
	result := HOCR{Metadata: make(map[string]string)}

	decoded, err := decode(data)
	if err != nil {
		return result, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return result, eris.Wrap(err, "failed to parse hOCR html")
	}

	extractDocumentMeta(&result, doc)

	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			result.Pages = append(result.Pages, processPage(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(doc)

	if len(result.Pages) == 0 {
		return result, eris.New("no ocr_page elements found in hOCR data")
	}
	return result, nil
}

// decode converts ISO-8859-1 hOCR to UTF-8 based on the declared charset
func decode(data []byte) ([]byte, error) {
	lower := bytes.ToLower(data)
	idx := bytes.Index(lower, []byte("charset="))
	if idx < 0 {
		return data, nil
	}
	snippet := string(lower[idx+len("charset="):])
	if len(snippet) > 20 {
		snippet = snippet[:20]
	}
	fields := strings.FieldsFunc(snippet, func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == ' ' || r == '/'
	})
	if len(fields) == 0 {
		return data, nil
	}
	switch fields[0] {
	case "iso-8859-1", "latin1", "latin-1", "windows-1252":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to decode %s", fields[0])
		}
		return decoded, nil
	}
	return data, nil
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title has no complete bbox property
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	bbox, ok := ParseTitle(title)["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}
	var coords [4]float64
	for i := range coords {
		v, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		coords[i] = v
	}
	result := NewBoundingBox(coords[0], coords[1], coords[2], coords[3])
	return &result
}

// extractDocumentMeta reads the title, language and ocr-* meta tags
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := getAttrVal(n, "lang"); lang != "" {
					result.Language = lang
				} else if lang := getAttrVal(n, "xml:lang"); lang != "" {
					result.Language = lang
				}
			case "title":
				if n.FirstChild != nil {
					result.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name, content := getAttrVal(n, "name"), getAttrVal(n, "content")
				if strings.HasPrefix(name, "ocr-") && content != "" {
					result.Metadata[name] = content
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

// processPage extracts page information and its lines. Words that have no
// line parent are grouped into one line per parent element.
func processPage(n *html.Node) Page {
	page := Page{ID: getAttrVal(n, "id")}
	if title := getAttrVal(n, "title"); title != "" {
		if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
			page.BBox = *bbox
		}
		props := ParseTitle(title)
		if image, ok := props["image"]; ok && len(image) > 0 {
			page.ImageName = strings.Trim(image[0], `"`)
		}
		if ppageno, ok := props["ppageno"]; ok && len(ppageno) > 0 {
			page.PageNumber, _ = strconv.Atoi(ppageno[0])
		}
	}

	var looseParent *html.Node
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch {
			case isLine(node):
				page.Lines = append(page.Lines, processLine(node))
				looseParent = nil
				return
			case hasClass(node, "ocrx_word"):
				w := processWord(node)
				if looseParent != node.Parent || len(page.Lines) == 0 {
					page.Lines = append(page.Lines, Line{})
					looseParent = node.Parent
				}
				last := &page.Lines[len(page.Lines)-1]
				last.Words = append(last.Words, w)
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c)
	}
	return page
}

// processLine extracts line information and its words
func processLine(n *html.Node) Line {
	line := Line{ID: getAttrVal(n, "id")}
	if bbox := ParseBoundingBoxFromTitle(getAttrVal(n, "title")); bbox != nil {
		line.BBox = *bbox
	}

	var extractWords func(*html.Node)
	extractWords = func(node *html.Node) {
		if node.Type == html.ElementNode && hasClass(node, "ocrx_word") {
			line.Words = append(line.Words, processWord(node))
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			extractWords(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractWords(c)
	}
	return line
}

// processWord extracts the text, bbox, x_wconf and language of a word
func processWord(n *html.Node) Word {
	word := Word{
		ID:   getAttrVal(n, "id"),
		Lang: getAttrVal(n, "lang"),
		Text: extractTextContent(n),
	}
	title := getAttrVal(n, "title")
	if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
		word.BBox = *bbox
	}
	props := ParseTitle(title)
	if conf, ok := props["x_wconf"]; ok && len(conf) > 0 {
		word.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}
	if lang, ok := props["lang"]; ok && len(lang) > 0 {
		word.Lang = lang[0]
	}
	return word
}

// extractTextContent gets all text from a node and its children
func extractTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(extractTextContent(c))
	}
	return strings.TrimSpace(b.String())
}

func isLine(n *html.Node) bool {
	for _, c := range lineClasses {
		if hasClass(n, c) {
			return true
		}
	}
	return false
}

// hasClass reports whether the class attribute lists class
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}
