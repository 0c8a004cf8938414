package gdocai

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rotisserie/eris"
	"google.golang.org/api/option"
)

// Supported MIME types of raw documents
const (
	MimePDF  = "application/pdf"
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeTIFF = "image/tiff"
)

// MimeTypeFor picks the MIME type of a document from its file extension
func MimeTypeFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return MimePDF, nil
	case ".png":
		return MimePNG, nil
	case ".jpg", ".jpeg":
		return MimeJPEG, nil
	case ".tif", ".tiff":
		return MimeTIFF, nil
	}
	return "", eris.Errorf("unsupported document type %q", filepath.Ext(path))
}

// ProcessDocument sends document bytes to Google Document AI for processing
// and returns the raw Document proto response
func ProcessDocument(ctx context.Context, content []byte, mimeType string, cfg *Config) (*documentaipb.Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, eris.New("document is empty")
	}
	if mimeType == "" {
		mimeType = MimePDF
	}

	opts := []option.ClientOption{option.WithEndpoint(cfg.Endpoint())}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create Document AI client")
	}
	defer client.Close()

	req := &documentaipb.ProcessRequest{
		Name: cfg.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeType,
			},
		},
		SkipHumanReview: true,
	}

	resp, err := client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to process document with %s", cfg.ProcessorName())
	}
	return resp.GetDocument(), nil
}
