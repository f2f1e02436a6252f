package web

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"model-studio/internal/directive"
	"model-studio/internal/studio"
)

const (
	defaultRequestTimeout = 180 * time.Second
	defaultMaxUpload      = 20 << 20
)

// Studio is the pipeline the HTTP handlers drive.
type Studio interface {
	Generate(ctx context.Context, req studio.Request) (studio.Result, error)
	Preview(req studio.Request) (directive.Result, error)
}

type Options struct {
	Studio         Studio
	Logger         *zap.Logger
	MaxConcurrent  int
	RequestTimeout time.Duration
	MaxUploadBytes int64
}

type Server struct {
	studio         Studio
	logger         *zap.Logger
	sem            *semaphore.Weighted
	requestTimeout time.Duration
	maxUploadBytes int64
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}

	return &Server{
		studio:         opts.Studio,
		logger:         logger,
		sem:            semaphore.NewWeighted(int64(maxConcurrent)),
		requestTimeout: timeout,
		maxUploadBytes: maxUpload,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/generate-image", s.handleGenerate)
	mux.HandleFunc("/api/directive", s.handleDirective)

	return withRequestID(withLogging(withRecover(withCORS(mux), s.logger), s.logger))
}
