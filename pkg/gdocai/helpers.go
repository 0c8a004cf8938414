package gdocai

import (
	"encoding/json"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rotisserie/eris"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ToJSON converts various types to a pretty-printed JSON string
// It handles both protocol buffer messages and regular Go structs
func ToJSON(data interface{}) (string, error) {
	switch v := data.(type) {
	case proto.Message:
		jsonData, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(v)
		if err != nil {
			return "", eris.Wrap(err, "failed to marshal proto message")
		}
		return string(jsonData), nil

	default:
		jsonData, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", eris.Wrap(err, "failed to marshal value")
		}
		return string(jsonData), nil
	}
}

// LoadDocumentJSON decodes a Document AI response saved as JSON, either the
// Document itself or the full ProcessResponse wrapping it.
func LoadDocumentJSON(data []byte) (*documentaipb.Document, error) {
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}

	var resp documentaipb.ProcessResponse
	if err := opts.Unmarshal(data, &resp); err == nil && resp.GetDocument() != nil {
		return resp.GetDocument(), nil
	}

	var doc documentaipb.Document
	if err := opts.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "failed to decode Document AI json")
	}
	return &doc, nil
}
