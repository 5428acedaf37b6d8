package service

import (
	"context"
	"errors"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/IshratJahanEkra/BodyId/config"
)

var (
	// ErrOCRNotConfigured is returned by the constructor when Vision
	// credentials are missing.
	ErrOCRNotConfigured = errors.New("OCR service is not configured")

	// ErrNoTextFound is returned when the vision API detects no readable text.
	ErrNoTextFound = errors.New("no readable text found in the image")
)

// TextExtractor extracts plain text from an image.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

type visionExtractor struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionExtractor builds a TextExtractor backed by the Google Cloud Vision
// text detection API.
func NewVisionExtractor(ctx context.Context, cfg config.VisionConfig) (TextExtractor, error) {
	if cfg.CredentialsFile == "" {
		return nil, ErrOCRNotConfigured
	}

	client, err := vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, err
	}

	return &visionExtractor{client: client}, nil
}

func (e *visionExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	resp, err := e.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{Content: image},
			Features: []*visionpb.Feature{{
				Type:       visionpb.Feature_TEXT_DETECTION,
				MaxResults: 1,
			}},
		}},
	})
	if err != nil {
		return "", err
	}

	if len(resp.GetResponses()) == 0 {
		return "", ErrNoTextFound
	}

	result := resp.GetResponses()[0]
	if result.GetError() != nil {
		return "", errors.New(result.GetError().GetMessage())
	}

	annotations := result.GetTextAnnotations()
	if len(annotations) == 0 {
		return "", ErrNoTextFound
	}

	// The first annotation carries the full detected text.
	text := strings.TrimSpace(annotations[0].GetDescription())
	if text == "" {
		return "", ErrNoTextFound
	}

	return text, nil
}
