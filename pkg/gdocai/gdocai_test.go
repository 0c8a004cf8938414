package gdocai

import (
	"context"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/labscan/pkg/hocr"
)

func anchor(start, end int64) *documentaipb.Document_TextAnchor {
	return &documentaipb.Document_TextAnchor{
		TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: start, EndIndex: end}},
	}
}

func token(start, end int64, conf float32, x1, y1, x2, y2 float32, brk bool) *documentaipb.Document_Page_Token {
	tok := &documentaipb.Document_Page_Token{
		Layout: &documentaipb.Document_Page_Layout{
			TextAnchor: anchor(start, end),
			Confidence: conf,
			BoundingPoly: &documentaipb.BoundingPoly{
				NormalizedVertices: []*documentaipb.NormalizedVertex{
					{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2},
				},
			},
		},
	}
	if brk {
		tok.DetectedBreak = &documentaipb.Document_Page_Token_DetectedBreak{
			Type: documentaipb.Document_Page_Token_DetectedBreak_SPACE,
		}
	}
	return tok
}

func sampleDocument() *documentaipb.Document {
	text := "HbA1c 5.6%\n"
	return &documentaipb.Document{
		Text: text,
		Pages: []*documentaipb.Document_Page{{
			PageNumber: 1,
			Dimension:  &documentaipb.Document_Page_Dimension{Width: 1000, Height: 2000},
			Tokens: []*documentaipb.Document_Page_Token{
				token(0, 6, 0.97, 0.1, 0.1, 0.2, 0.15, true),
				token(6, 11, 0.5, 0.25, 0.1, 0.3, 0.15, true),
			},
			Image: &documentaipb.Document_Page_Image{Content: []byte{0x89, 'P', 'N', 'G'}},
		}},
	}
}

func TestTokens(t *testing.T) {
	tokens := Tokens(sampleDocument())
	require.Len(t, tokens, 2)

	assert.Equal(t, "HbA1c", tokens[0].Text)
	assert.InDelta(t, 97, tokens[0].Confidence, 0.01)
	assert.Equal(t, 1, tokens[0].PageNumber)
	assert.InDelta(t, 100, tokens[0].BBox.X1, 0.01)
	assert.InDelta(t, 300, tokens[0].BBox.Y2, 0.01)

	assert.Equal(t, "5.6%", tokens[1].Text)
	assert.InDelta(t, 50, tokens[1].Confidence, 0.01)
}

func TestTokens_AbsoluteVertices(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "98",
		Pages: []*documentaipb.Document_Page{{
			Tokens: []*documentaipb.Document_Page_Token{{
				Layout: &documentaipb.Document_Page_Layout{
					TextAnchor: anchor(0, 2),
					Confidence: 0.8,
					BoundingPoly: &documentaipb.BoundingPoly{
						Vertices: []*documentaipb.Vertex{{X: 1, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 4}, {X: 1, Y: 4}},
					},
				},
			}},
		}},
	}

	tokens := Tokens(doc)
	require.Len(t, tokens, 1)
	assert.Equal(t, hocr.NewBoundingBox(1, 2, 3, 4), tokens[0].BBox)
	assert.Equal(t, 1, tokens[0].PageNumber)
}

func TestTextFromLayout_ClampsSegments(t *testing.T) {
	layout := &documentaipb.Document_Page_Layout{TextAnchor: anchor(4, 99)}
	assert.Equal(t, "é 5.6", textFromLayout(layout, "HbA é 5.6"))
	assert.Equal(t, "", textFromLayout(nil, "text"))
}

func TestTextAndPageImages(t *testing.T) {
	doc := sampleDocument()
	assert.Equal(t, "HbA1c 5.6%\n", Text(doc))
	assert.Equal(t, "", Text(nil))

	images := PageImages(doc)
	require.Len(t, images, 1)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, images[0])
}

func TestLoadDocumentJSON(t *testing.T) {
	js, err := ToJSON(sampleDocument())
	require.NoError(t, err)

	doc, err := LoadDocumentJSON([]byte(js))
	require.NoError(t, err)
	assert.Equal(t, "HbA1c 5.6%\n", doc.GetText())
	assert.Len(t, Tokens(doc), 2)

	wrapped, err := ToJSON(&documentaipb.ProcessResponse{Document: sampleDocument()})
	require.NoError(t, err)
	doc, err = LoadDocumentJSON([]byte(wrapped))
	require.NoError(t, err)
	assert.Equal(t, "HbA1c 5.6%\n", doc.GetText())

	_, err = LoadDocumentJSON([]byte("not json"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{ProjectID: "p", Location: "eu", ProcessorID: "x"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "projects/p/locations/eu/processors/x", cfg.ProcessorName())
	assert.Equal(t, "eu-documentai.googleapis.com:443", cfg.Endpoint())

	err := (&Config{Location: "us"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project_id")
	assert.Contains(t, err.Error(), "processor_id")

	var missing *Config
	assert.Error(t, missing.Validate())
}

func TestProcessDocument_RejectsBadInput(t *testing.T) {
	_, err := ProcessDocument(context.Background(), []byte("%PDF"), MimePDF, &Config{})
	assert.Error(t, err)

	_, err = ProcessDocument(context.Background(), nil, MimePDF, &Config{ProjectID: "p", Location: "us", ProcessorID: "x"})
	assert.Error(t, err)
}

func TestMimeTypeFor(t *testing.T) {
	tests := map[string]string{
		"scan.pdf":  MimePDF,
		"scan.PNG":  MimePNG,
		"a/b.jpeg":  MimeJPEG,
		"photo.jpg": MimeJPEG,
		"fax.tif":   MimeTIFF,
		"fax.tiff":  MimeTIFF,
	}
	for path, want := range tests {
		got, err := MimeTypeFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := MimeTypeFor("report.docx")
	assert.Error(t, err)
}
