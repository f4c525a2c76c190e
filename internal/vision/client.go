// Package vision wraps the Google Cloud Vision REST API for full-document
// text detection and translates its annotation tree into the structured
// document model.
package vision

import (
	"context"
	"fmt"

	vision "google.golang.org/api/vision/v1"
)

// Annotator is the OCR collaborator contract: one page image in, one
// annotation tree out. A service-level error for the page surfaces as a
// returned error; a page with no detectable text yields a nil annotation.
type Annotator interface {
	DetectDocumentText(ctx context.Context, imageBase64 string) (*vision.TextAnnotation, error)
}

// Client is the production Annotator backed by the Vision images.annotate
// endpoint with DOCUMENT_TEXT_DETECTION, which is multi-column aware.
type Client struct {
	service *vision.Service
}

// NewClient builds a Vision client using Application Default Credentials.
func NewClient(ctx context.Context) (*Client, error) {
	service, err := vision.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vision service: %w", err)
	}
	return &Client{service: service}, nil
}

// DetectDocumentText sends one base64-encoded page image for detection.
func (c *Client) DetectDocumentText(ctx context.Context, imageBase64 string) (*vision.TextAnnotation, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image: &vision.Image{Content: imageBase64},
				Features: []*vision.Feature{
					{Type: "DOCUMENT_TEXT_DETECTION"},
				},
			},
		},
	}

	resp, err := c.service.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("images.annotate call failed: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil, fmt.Errorf("images.annotate returned no responses")
	}

	annotated := resp.Responses[0]
	if annotated.Error != nil {
		return nil, fmt.Errorf("vision service error (code %d): %s", annotated.Error.Code, annotated.Error.Message)
	}
	return annotated.FullTextAnnotation, nil
}
