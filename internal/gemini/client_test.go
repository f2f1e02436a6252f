package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"model-studio/internal/studio"
)

type call struct {
	model    string
	contents []*genai.Content
	config   genai.GenerateContentConfig
}

type fakeModels struct {
	calls     []call
	responses []*genai.GenerateContentResponse
	errs      []error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	i := len(f.calls)
	f.calls = append(f.calls, call{model: model, contents: contents, config: *config})
	var resp *genai.GenerateContentResponse
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return resp, err
}

func imageResponse(data []byte, mime string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{
			{Text: "here you go"},
			{InlineData: &genai.Blob{Data: data, MIMEType: mime}},
		}},
	}}}
}

func TestGenerateImage_BuildsRequest(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{imageResponse([]byte("img"), "image/png")}}
	c := newWithModels(fake, Options{})

	img, err := c.GenerateImage(context.Background(), "DIRECTIVE", []studio.Image{
		{Data: []byte("front"), MimeType: "image/jpeg"},
		{Data: []byte("back"), MimeType: "image/webp"},
	})
	require.NoError(t, err)
	assert.Equal(t, studio.Image{Data: []byte("img"), MimeType: "image/png"}, img)

	require.Len(t, fake.calls, 1)
	got := fake.calls[0]
	assert.Equal(t, defaultModel, got.model)
	assert.Equal(t, []string{"IMAGE", "TEXT"}, got.config.ResponseModalities)
	require.NotNil(t, got.config.ImageConfig)
	assert.Equal(t, "3:4", got.config.ImageConfig.AspectRatio)

	require.Len(t, got.contents, 1)
	parts := got.contents[0].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, "image/jpeg", parts[0].InlineData.MIMEType)
	assert.Equal(t, []byte("back"), parts[1].InlineData.Data)
	assert.Equal(t, "DIRECTIVE", parts[2].Text)
}

func TestGenerateImage_RetriesWithoutImageConfig(t *testing.T) {
	fake := &fakeModels{
		errs:      []error{errors.New(`Invalid JSON payload received. Unknown name "imageConfig" at 'generation_config'`), nil},
		responses: []*genai.GenerateContentResponse{nil, imageResponse([]byte("img"), "")},
	}
	c := newWithModels(fake, Options{Model: "custom-model", AspectRatio: "1:1"})

	img, err := c.GenerateImage(context.Background(), "p", []studio.Image{{Data: []byte("front")}})
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)

	require.Len(t, fake.calls, 2)
	assert.Equal(t, "custom-model", fake.calls[0].model)
	assert.Equal(t, "1:1", fake.calls[0].config.ImageConfig.AspectRatio)
	assert.Nil(t, fake.calls[1].config.ImageConfig)
}

func TestGenerateImage_OtherErrorsAreNotRetried(t *testing.T) {
	boom := errors.New("quota exceeded")
	fake := &fakeModels{errs: []error{boom}}
	c := newWithModels(fake, Options{})

	_, err := c.GenerateImage(context.Background(), "p", nil)
	require.ErrorIs(t, err, boom)
	assert.Len(t, fake.calls, 1)
}

func TestGenerateImage_NoImage(t *testing.T) {
	tests := map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"text only": {Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "I cannot do that"}}},
		}}},
		"empty inline data": {Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "image/png"}}}},
		}}},
	}

	for name, resp := range tests {
		t.Run(name, func(t *testing.T) {
			fake := &fakeModels{responses: []*genai.GenerateContentResponse{resp}}
			_, err := newWithModels(fake, Options{}).GenerateImage(context.Background(), "p", nil)
			require.ErrorIs(t, err, studio.ErrGenerationFailed)
		})
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Options{})
	require.Error(t, err)
}
