package studio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"model-studio/internal/directive"
)

// Image is one uploaded or generated picture.
type Image struct {
	Data     []byte
	MimeType string
}

func (i *Image) present() bool {
	return i != nil && len(i.Data) > 0
}

// Generator renders an image from a directive and the reference images, in
// order: primary first, secondary (if any) second.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string, images []Image) (Image, error)
}

type Request struct {
	ID         string
	Primary    *Image
	Secondary  *Image
	Selections directive.RawInput
}

func (r Request) Mode() directive.Mode {
	return directive.ParseMode(r.Selections.First(directive.KeyGenerationMode))
}

type Result struct {
	Image     Image
	Directive directive.Result
}

type Options struct {
	Assembler    *directive.Assembler
	Generator    Generator
	Logger       *zap.Logger
	MaxAttempts  int
	RetryBackoff time.Duration
}

type Service struct {
	assembler    *directive.Assembler
	generator    Generator
	logger       *zap.Logger
	maxAttempts  int
	retryBackoff time.Duration
}

func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	assembler := opts.Assembler
	if assembler == nil {
		assembler = directive.NewAssembler(directive.Options{})
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	backoff := opts.RetryBackoff
	if backoff < 0 {
		backoff = 0
	}

	return &Service{
		assembler:    assembler,
		generator:    opts.Generator,
		logger:       logger,
		maxAttempts:  maxAttempts,
		retryBackoff: backoff,
	}
}

func (s *Service) Strictness() directive.Strictness {
	return s.assembler.Strictness()
}

// Generate validates the request, compiles the directive and asks the
// generator for an image.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	if !req.Primary.present() {
		return Result{}, ErrMissingPrimaryImage
	}
	compiled, err := s.Preview(req)
	if err != nil {
		return Result{}, err
	}
	if s.generator == nil {
		return Result{}, errors.New("studio: generator is not configured")
	}

	images := []Image{*req.Primary}
	if req.Secondary.present() {
		images = append(images, *req.Secondary)
	}

	img, err := s.generate(ctx, req.ID, compiled.Prompt(), images)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("image generated",
		zap.String("request_id", req.ID),
		zap.String("mime_type", img.MimeType),
		zap.Int("bytes", len(img.Data)),
	)

	return Result{Image: img, Directive: compiled}, nil
}

// Preview compiles the directive without calling the generator. The primary
// image is optional here; the secondary one is still required in
// MODEL_REFERENCE_BASED mode.
func (s *Service) Preview(req Request) (directive.Result, error) {
	mode := req.Mode()
	hasSecondary := req.Secondary.present()
	if mode.RequiresSecondary() && !hasSecondary {
		return directive.Result{}, ErrMissingSecondaryImage
	}

	compiled := s.assembler.Compile(req.Selections, mode, hasSecondary)

	s.logger.Info("directive compiled",
		zap.String("request_id", req.ID),
		zap.String("mode", string(compiled.Mode)),
		zap.String("strictness", string(compiled.Strictness)),
		zap.Strings("changed_fields", compiled.ChangedFieldNames()),
		zap.Strings("sections", compiled.Document.Names()),
	)
	s.logger.Debug("directive text",
		zap.String("request_id", req.ID),
		zap.String("prompt", compiled.Prompt()),
	)

	return compiled, nil
}

func (s *Service) generate(ctx context.Context, requestID, prompt string, images []Image) (Image, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		img, err := s.generator.GenerateImage(ctx, prompt, images)
		if err == nil && !img.present() {
			err = ErrGenerationFailed
		}
		if err == nil {
			return img, nil
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return Image{}, fmt.Errorf("generate image: %w", ctxErr)
		}
		s.logger.Warn("generation attempt failed",
			zap.String("request_id", requestID),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.maxAttempts),
			zap.Error(err),
		)
		if attempt == s.maxAttempts {
			break
		}
		if err := sleep(ctx, time.Duration(attempt)*s.retryBackoff); err != nil {
			return Image{}, fmt.Errorf("generate image: %w", err)
		}
	}
	return Image{}, fmt.Errorf("generate image after %d attempt(s): %w", s.maxAttempts, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
