package web

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"model-studio/internal/studio"
)

const provider = "gemini"

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeText(w, http.StatusOK, "Model Studio backend is running")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, err := s.readRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		s.logger.Warn("no free generation slot", zap.String("request_id", req.ID), zap.Error(err))
		writeError(w, r, http.StatusServiceUnavailable, "Server is busy, try again later.")
		return
	}
	defer s.sem.Release(1)

	res, err := s.studio.Generate(ctx, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		ImageBase64: base64.StdEncoding.EncodeToString(res.Image.Data),
		MimeType:    res.Image.MimeType,
		PromptUsed:  res.Directive.Prompt(),
		Provider:    provider,
		RequestID:   req.ID,
		Debug:       studio.NewDebug(res.Directive),
	})
}

func (s *Server) handleDirective(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, err := s.readRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.studio.Preview(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DirectiveResponse{
		PromptUsed: res.Prompt(),
		RequestID:  req.ID,
		Debug:      studio.NewDebug(res),
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classifyError(err)
	fields := []zap.Field{
		zap.String("request_id", requestIDFrom(r.Context())),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
	} else {
		s.logger.Info("request rejected", fields...)
	}
	writeError(w, r, status, message)
}

func classifyError(err error) (int, string) {
	var formErr *formError
	switch {
	case errors.As(err, &formErr):
		return http.StatusBadRequest, formErr.message
	case studio.IsValidation(err):
		return http.StatusBadRequest, studio.UserMessage(err)
	case errors.Is(err, studio.ErrGenerationFailed):
		return http.StatusBadGateway, studio.UserMessage(err)
	}
	return http.StatusInternalServerError, studio.UserMessage(err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, apiError{Error: message, RequestID: requestIDFrom(r.Context())})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("content-type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
