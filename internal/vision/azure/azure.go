// Package azure implements vision.Captioner with the Azure Computer Vision
// v3.0 "describe" operation.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nadzzz/aigateway/internal/config"
)

// Captioner posts images to the describe endpoint.
type Captioner struct {
	endpoint        string
	subscriptionKey string
	client          *http.Client
}

// New creates a new Azure captioner from config.
func New(cfg config.AzureConfig) *Captioner {
	return &Captioner{
		endpoint:        strings.TrimRight(cfg.Endpoint, "/"),
		subscriptionKey: cfg.SubscriptionKey,
		client:          &http.Client{},
	}
}

// Captions describes the image bytes, or imageURL when image is empty.
func (c *Captioner) Captions(ctx context.Context, image []byte, imageURL string) ([]string, error) {
	var (
		body        io.Reader
		contentType string
	)
	if len(image) > 0 {
		body = bytes.NewReader(image)
		contentType = "application/octet-stream"
	} else {
		payload, err := json.Marshal(map[string]string{"url": imageURL})
		if err != nil {
			return nil, fmt.Errorf("marshalling describe request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/vision/v3.0/describe", body)
	if err != nil {
		return nil, fmt.Errorf("creating describe request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("describe request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("describe failed (status %d): %s", resp.StatusCode, respBody)
	}

	var result struct {
		Description struct {
			Captions []struct {
				Text       string  `json:"text"`
				Confidence float64 `json:"confidence"`
			} `json:"captions"`
		} `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding describe response: %w", err)
	}

	captions := make([]string, 0, len(result.Description.Captions))
	for _, caption := range result.Description.Captions {
		captions = append(captions, caption.Text)
	}

	slog.Debug("caption generation complete", "captions", len(captions))
	return captions, nil
}

// Close is a no-op; the HTTP client holds no dedicated resources.
func (c *Captioner) Close() error { return nil }
