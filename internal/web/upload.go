package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"golang.org/x/sync/errgroup"

	"model-studio/internal/directive"
	"model-studio/internal/studio"
)

const (
	fieldPrimaryImage   = "referenceImage"
	fieldSecondaryImage = "referenceImage2"
)

// formError is a malformed upload; it maps to 400 with its own message.
type formError struct {
	message string
	err     error
}

func (e *formError) Error() string {
	if e.err == nil {
		return e.message
	}
	return fmt.Sprintf("%s: %v", e.message, e.err)
}

func (e *formError) Unwrap() error { return e.err }

// readRequest parses the form and reads both reference images concurrently.
// Non-multipart forms are accepted; they simply carry no images.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (studio.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return studio.Request{}, &formError{message: "Invalid multipart form.", err: err}
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	req := studio.Request{
		ID:         requestIDFrom(r.Context()),
		Selections: directive.RawInput(r.PostForm).Clone(),
	}

	var g errgroup.Group
	g.Go(func() error {
		img, err := readFormImage(r.MultipartForm, fieldPrimaryImage)
		req.Primary = img
		return err
	})
	g.Go(func() error {
		img, err := readFormImage(r.MultipartForm, fieldSecondaryImage)
		req.Secondary = img
		return err
	})
	if err := g.Wait(); err != nil {
		return studio.Request{}, &formError{message: "Failed to read uploaded image.", err: err}
	}

	return req, nil
}

func readFormImage(form *multipart.Form, field string) (*studio.Image, error) {
	if form == nil || len(form.File[field]) == 0 {
		return nil, nil
	}
	header := form.File[field][0]

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &studio.Image{
		Data:     data,
		MimeType: studio.DetectMimeType(header.Header.Get("Content-Type"), data),
	}, nil
}
