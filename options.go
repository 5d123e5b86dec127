package nethttp

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/nethttp/client"
)

// Option is a functional option for configuring a [Service] via [New].
type Option func(*options) error
type options struct {
	baseURL       string
	client        *client.Client
	clientOpts    []client.Option
	logger        *slog.Logger
	tracer        trace.Tracer
	propagator    propagation.TextMapPropagator
	downloader    Downloader
	opener        Opener
	downloadDir   string
	globalHeaders http.Header
	urlHeaders    []urlHeaders
}

type urlHeaders struct {
	url    string
	header http.Header
}

// WithBaseURL sets the base URL used by calls that do not name one.
func WithBaseURL(baseURL string) Option {
	return func(o *options) error {
		if baseURL == "" {
			return errors.New("base URL must not be empty")
		}
		o.baseURL = baseURL
		return nil
	}
}

// WithClient replaces the transport built by the service.
// It takes precedence over [WithClientOptions].
func WithClient(c *client.Client) Option {
	return func(o *options) error {
		if c == nil {
			return errors.New("client must not be nil")
		}
		o.client = c
		return nil
	}
}

// WithClientOptions configures the transport built by the service.
// It may be given more than once.
func WithClientOptions(opts ...client.Option) Option {
	return func(o *options) error {
		o.clientOpts = append(o.clientOpts, opts...)
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Service] and the
// transport it builds.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithTracer injects the tracer used to open one client span per call.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		o.tracer = tracer
		return nil
	}
}

// WithPropagator sets how trace context is written into outgoing
// headers. The default is the global otel propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(o *options) error {
		if p == nil {
			return errors.New("propagator must not be nil")
		}
		o.propagator = p
		return nil
	}
}

// WithDownloader replaces what saves bodies of calls with download options.
func WithDownloader(d Downloader) Option {
	return func(o *options) error {
		if d == nil {
			return errors.New("downloader must not be nil")
		}
		o.downloader = d
		return nil
	}
}

// WithOpener replaces what opens bodies of calls with open file options.
func WithOpener(op Opener) Option {
	return func(o *options) error {
		if op == nil {
			return errors.New("opener must not be nil")
		}
		o.opener = op
		return nil
	}
}

// WithDownloadDir sets the directory of the default downloader.
func WithDownloadDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return errors.New("download dir must not be empty")
		}
		o.downloadDir = dir
		return nil
	}
}

// WithGlobalHeaders registers headers sent with every call.
func WithGlobalHeaders(h http.Header) Option {
	return func(o *options) error {
		if o.globalHeaders == nil {
			o.globalHeaders = make(http.Header)
		}
		overwrite(o.globalHeaders, h)
		return nil
	}
}

// WithURLHeaders registers headers sent with calls to baseURL.
func WithURLHeaders(baseURL string, h http.Header) Option {
	return func(o *options) error {
		if baseURL == "" {
			return errors.New("header base URL must not be empty")
		}
		o.urlHeaders = append(o.urlHeaders, urlHeaders{url: baseURL, header: h})
		return nil
	}
}

// CallOption configures a single verb call.
type CallOption func(*callOptions)
type callOptions struct {
	group GroupKey
}

// WithGroup registers the call's subscription under key, so that
// [Service.ClearSubscriptions] cancels it.
func WithGroup(key GroupKey) CallOption {
	return func(o *callOptions) {
		o.group = key
	}
}
