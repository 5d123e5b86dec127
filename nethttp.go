package nethttp

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/nethttp/client"
	"github.com/adamwoolhether/nethttp/client/download"
)

// Downloader saves a response body as a file and returns where it went.
type Downloader interface {
	Download(ctx context.Context, data []byte, mimeType, fileName string) (string, error)
}

// Opener shows a response body in a viewer and returns the file it wrote.
type Opener interface {
	Open(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Service issues calls and owns the header scopes and subscription
// groups they use. It is safe for concurrent use.
type Service struct {
	client     *client.Client
	baseURL    string
	logger     *slog.Logger
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	downloader Downloader
	opener     Opener
	headers    *headerRegistry
	groups     *groupRegistry
}

// New creates a Service. Without options it has no default base URL,
// so every call must name one.
func New(optFns ...Option) (*Service, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying service option: %w", err)
		}
	}

	s := &Service{
		client:     opts.client,
		baseURL:    opts.baseURL,
		logger:     slog.Default(),
		tracer:     noop.NewTracerProvider().Tracer("no-op tracer"),
		propagator: otel.GetTextMapPropagator(),
		downloader: opts.downloader,
		opener:     opts.opener,
		headers:    newHeaderRegistry(),
		groups:     newGroupRegistry(),
	}

	if opts.logger != nil {
		s.logger = opts.logger
	}
	if opts.tracer != nil {
		s.tracer = opts.tracer
	}
	if opts.propagator != nil {
		s.propagator = opts.propagator
	}

	if s.client == nil {
		clientOpts := opts.clientOpts
		if opts.logger != nil {
			clientOpts = slices.Concat([]client.Option{client.WithLogger(opts.logger)}, clientOpts)
		}

		c, err := client.Build(clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("building client: %w", err)
		}
		s.client = c
	}

	if s.downloader == nil {
		saver, err := download.NewSaver(opts.downloadDir, s.logger)
		if err != nil {
			return nil, fmt.Errorf("building downloader: %w", err)
		}
		s.downloader = saver
	}

	if s.opener == nil {
		opener, err := download.NewOpener("", s.logger)
		if err != nil {
			return nil, fmt.Errorf("building opener: %w", err)
		}
		s.opener = opener
	}

	s.headers.add(globalScope, opts.globalHeaders)
	for _, uh := range opts.urlHeaders {
		s.headers.add(scopeFor(uh.url), uh.header)
	}

	return s, nil
}

// BaseURL returns the default base URL, or "" when none is set.
func (s *Service) BaseURL() string {
	return s.baseURL
}

// Close cancels every grouped call and drops every header scope.
// Ungrouped calls keep running until they finish or are cancelled.
func (s *Service) Close() {
	s.groups.clearAll()
	s.headers.clearAll()
}
