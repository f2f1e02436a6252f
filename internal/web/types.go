package web

import "model-studio/internal/studio"

type apiError struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// GenerateResponse is the success body of POST /api/generate-image.
type GenerateResponse struct {
	ImageBase64 string       `json:"imageBase64"`
	MimeType    string       `json:"mimeType"`
	PromptUsed  string       `json:"promptUsed"`
	Provider    string       `json:"provider"`
	RequestID   string       `json:"requestId"`
	Debug       studio.Debug `json:"debug"`
}

// DirectiveResponse is the success body of POST /api/directive.
type DirectiveResponse struct {
	PromptUsed string       `json:"promptUsed"`
	RequestID  string       `json:"requestId"`
	Debug      studio.Debug `json:"debug"`
}
