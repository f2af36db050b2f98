// Package google implements vision.Labeler with the Cloud Vision API.
package google

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// Labeler runs LABEL_DETECTION through a shared ImageAnnotatorClient.
type Labeler struct {
	client    *vision.ImageAnnotatorClient
	maxLabels int32
}

// New dials the Cloud Vision API. The client is created once and reused
// across requests.
func New(ctx context.Context, maxLabels int32, opts ...option.ClientOption) (*Labeler, error) {
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}
	return &Labeler{client: client, maxLabels: maxLabels}, nil
}

// Labels annotates a single image and returns its label descriptions.
func (l *Labeler) Labels(ctx context.Context, image []byte) ([]string, error) {
	resp, err := l.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{Content: image},
			Features: []*visionpb.Feature{{
				Type:       visionpb.Feature_LABEL_DETECTION,
				MaxResults: l.maxLabels,
			}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("label detection: %w", err)
	}
	if len(resp.GetResponses()) == 0 {
		return []string{}, nil
	}

	res := resp.GetResponses()[0]
	if e := res.GetError(); e != nil && e.GetCode() != 0 {
		return nil, fmt.Errorf("label detection: %s (code %d)", e.GetMessage(), e.GetCode())
	}

	labels := make([]string, 0, len(res.GetLabelAnnotations()))
	for _, ann := range res.GetLabelAnnotations() {
		labels = append(labels, strings.ToLower(ann.GetDescription()))
	}

	slog.Debug("label detection complete", "labels", len(labels))
	return labels, nil
}

// Close releases the underlying gRPC connection.
func (l *Labeler) Close() error { return l.client.Close() }
