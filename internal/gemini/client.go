package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"model-studio/internal/studio"
)

const (
	defaultModel       = "gemini-2.5-flash-image"
	defaultAspectRatio = "3:4"
)

type Options struct {
	APIKey      string
	BaseURL     string
	APIVersion  string
	Model       string
	AspectRatio string
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// Client sends a directive plus reference images to the Gemini image model.
type Client struct {
	models      models
	model       string
	aspectRatio string
	logger      *zap.Logger
}

// models is the part of *genai.Models the client uses.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini: API key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimSpace(opts.BaseURL),
			APIVersion: strings.TrimSpace(opts.APIVersion),
		},
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newWithModels(client.Models, opts), nil
}

func newWithModels(m models, opts Options) *Client {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	aspectRatio := strings.TrimSpace(opts.AspectRatio)
	if aspectRatio == "" {
		aspectRatio = defaultAspectRatio
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		models:      m,
		model:       model,
		aspectRatio: aspectRatio,
		logger:      logger,
	}
}

// GenerateImage returns the first inline image of the first candidate.
func (c *Client) GenerateImage(ctx context.Context, prompt string, images []studio.Image) (studio.Image, error) {
	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		mime := img.MimeType
		if mime == "" {
			mime = http.DetectContentType(img.Data)
		}
		parts = append(parts, genai.NewPartFromBytes(img.Data, mime))
	}
	parts = append(parts, genai.NewPartFromText(prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		ImageConfig:        &genai.ImageConfig{AspectRatio: c.aspectRatio},
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil && isUnknownFieldError(err, "imageConfig") {
		c.logger.Warn("imageConfig rejected, retrying without it", zap.String("model", c.model))
		config.ImageConfig = nil
		resp, err = c.models.GenerateContent(ctx, c.model, contents, config)
	}
	if err != nil {
		return studio.Image{}, fmt.Errorf("gemini generate content: %w", err)
	}

	img, ok := firstInlineImage(resp)
	if !ok {
		c.logger.Warn("response carried no image",
			zap.String("model", c.model),
			zap.String("text", firstText(resp)),
		)
		return studio.Image{}, studio.ErrGenerationFailed
	}
	return img, nil
}

func firstInlineImage(resp *genai.GenerateContentResponse) (studio.Image, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return studio.Image{}, false
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return studio.Image{}, false
	}
	for _, p := range cand.Content.Parts {
		if p == nil || p.InlineData == nil || len(p.InlineData.Data) == 0 {
			continue
		}
		mime := p.InlineData.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return studio.Image{Data: p.InlineData.Data, MimeType: mime}, true
	}
	return studio.Image{}, false
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.Text != "" {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

func isUnknownFieldError(err error, field string) bool {
	message := err.Error()
	return strings.Contains(message, "Unknown name") && strings.Contains(message, field)
}
