// Package gdocai runs documents through a Google Document AI OCR processor and
// converts the response into the text and word list lab report extraction
// consumes.
//
// A response can come straight from the API (ProcessDocument) or from a JSON
// dump saved by an earlier run (LoadDocumentJSON), so a document only has to
// be sent to Document AI once.
//
// Main Functions:
//
// - ProcessDocument: Sends a document to Google Document AI for processing
// - LoadDocumentJSON: Reads a Document AI response saved as JSON
// - Text: The full text of a document
// - Tokens: The recognized words with their confidence and position
// - PageImages: The page images Document AI returns with the response
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS environment variable
package gdocai

import "github.com/rotisserie/eris"

// Config identifies the Document AI processor to use
type Config struct {
	ProjectID   string // Google Cloud project ID
	Location    string // Processor location, "us" or "eu"
	ProcessorID string // Processor ID
}

// Validate checks that every processor coordinate is set
func (c *Config) Validate() error {
	if c == nil {
		return eris.New("document ai config is missing")
	}
	var missing []string
	if c.ProjectID == "" {
		missing = append(missing, "project_id")
	}
	if c.Location == "" {
		missing = append(missing, "location")
	}
	if c.ProcessorID == "" {
		missing = append(missing, "processor_id")
	}
	if len(missing) > 0 {
		return eris.Errorf("document ai config is missing %v", missing)
	}
	return nil
}

// ProcessorName returns the resource name of the processor
func (c *Config) ProcessorName() string {
	return "projects/" + c.ProjectID + "/locations/" + c.Location + "/processors/" + c.ProcessorID
}

// Endpoint returns the regional API endpoint of the processor
func (c *Config) Endpoint() string {
	return c.Location + "-documentai.googleapis.com:443"
}
