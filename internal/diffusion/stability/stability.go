// Package stability implements diffusion.Generator with the Stability AI
// REST API (v1 image-to-image).
package stability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/nadzzz/aigateway/internal/config"
)

// maxImageBytes bounds how much of a generated image is read back.
const maxImageBytes = 32 << 20

// Generator calls /v1/generation/{engine}/image-to-image.
type Generator struct {
	baseURL       string
	apiKey        string
	engine        string
	imageStrength float64
	client        *http.Client
}

// New creates a new Stability generator from config.
func New(cfg config.StabilityConfig) *Generator {
	strength := cfg.ImageStrength
	if strength <= 0 || strength >= 1 {
		strength = 0.35
	}
	return &Generator{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		engine:        cfg.Engine,
		imageStrength: strength,
		client:        &http.Client{},
	}
}

// ImageToImage uploads image as the init image and returns the first PNG
// artifact.
func (g *Generator) ImageToImage(ctx context.Context, image []byte, prompt string) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("init_image", "init.png")
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("writing image: %w", err)
	}
	_ = writer.WriteField("init_image_mode", "IMAGE_STRENGTH")
	_ = writer.WriteField("image_strength", strconv.FormatFloat(g.imageStrength, 'f', -1, 64))
	_ = writer.WriteField("text_prompts[0][text]", prompt)
	_ = writer.WriteField("samples", "1")
	writer.Close()

	url := fmt.Sprintf("%s/v1/generation/%s/image-to-image", g.baseURL, g.engine)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "image/png")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image-to-image request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("image-to-image failed (status %d): %s", resp.StatusCode, respBody)
	}

	png, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading generated image: %w", err)
	}

	slog.Debug("image-to-image complete", "engine", g.engine, "bytes", len(png))
	return png, nil
}
