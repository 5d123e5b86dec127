package client

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"

	"github.com/adamwoolhether/nethttp/client/throttle"
)

// Client wraps the std-lib *http.Client and turns each request into a
// sequence of lifecycle events.
//
// Cookies are not managed by the underlying *http.Client. They are
// read from and stored into the Client's jar only for exchanges that
// ask for credentials.
type Client struct {
	c         *http.Client
	jar       http.CookieJar
	anyStatus bool
	logger    *slog.Logger
}

// Build creates a Client with the given options. Without options it
// uses [http.DefaultTransport] and a public-suffix aware cookie jar.
func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	hc := &http.Client{}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}

	client := &Client{
		c:         hc,
		jar:       hc.Jar,
		anyStatus: opts.anyStatus,
		logger:    slog.Default(),
	}
	hc.Jar = nil

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.jar != nil {
		client.jar = opts.jar
	}

	if client.jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		client.jar = jar
	}

	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case hc.Transport != nil:
		transport = hc.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	hc.Transport = transport

	return client, nil
}

// Jar returns the cookie jar used for credentialed exchanges.
func (c *Client) Jar() http.CookieJar {
	return c.jar
}

// item is a single value crossing from the exchange goroutine to the
// iterating goroutine. last marks the terminal value.
type item struct {
	ev   Event
	err  error
	last bool
}

// Exchange returns the lifecycle of one request as a lazy sequence.
// Nothing is sent until the sequence is ranged over. A successful
// exchange yields [Sent], [HeaderReceived], any progress events and
// finally [ResponseReceived], then ends. A failed exchange yields a
// *[TransportError] as its last value. Stopping the iteration early
// aborts the request.
func (c *Client) Exchange(ctx context.Context, method, rawURL string, opts Options) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		items := make(chan item)
		go c.run(ctx, method, rawURL, opts, items)

		for {
			select {
			case it := <-items:
				if !yield(it.ev, it.err) || it.last {
					return
				}
			case <-ctx.Done():
				yield(nil, &TransportError{Method: method, URL: rawURL, Err: ctx.Err()})
				return
			}
		}
	}
}

// run executes the request, publishing events on items. Every send
// gives up once ctx ends, so nothing blocks after the consumer leaves.
func (c *Client) run(ctx context.Context, method, rawURL string, opts Options, items chan<- item) {
	send := func(it item) bool {
		select {
		case items <- it:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(err error) {
		send(item{err: &TransportError{Method: method, URL: rawURL, Err: err}, last: true})
	}

	req, err := newRequest(ctx, method, rawURL, opts)
	if err != nil {
		fail(err)
		return
	}

	if opts.ReportProgress && req.Body != nil && req.Body != http.NoBody {
		total := req.ContentLength
		if total == 0 {
			total = -1
		}
		req.Body = &progressReader{
			r:     req.Body,
			total: total,
			report: func(loaded, total int64) {
				send(item{ev: UploadProgress{Loaded: loaded, Total: total}})
			},
		}
	}

	if opts.WithCredentials {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}

	if !send(item{ev: Sent{Method: method, URL: req.URL.String()}}) {
		return
	}

	resp, err := c.c.Do(req)
	if err != nil {
		fail(fmt.Errorf("exec http do: %w", err))
		return
	}

	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			c.logger.Debug("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if opts.WithCredentials {
		c.jar.SetCookies(resp.Request.URL, resp.Cookies())
	}

	if !c.anyStatus && !Successful(resp.StatusCode) {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		fail(statusError(resp, b))
		return
	}

	finalURL := resp.Request.URL.String()
	header := HeaderReceived{StatusCode: resp.StatusCode, URL: finalURL, Header: resp.Header.Clone()}
	if !send(item{ev: header}) {
		return
	}

	var body io.Reader = resp.Body
	if opts.ReportProgress {
		body = &progressReader{
			r:     resp.Body,
			total: resp.ContentLength,
			report: func(loaded, total int64) {
				send(item{ev: DownloadProgress{Loaded: loaded, Total: total}})
			},
		}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		fail(fmt.Errorf("reading body: %w", err))
		return
	}

	send(item{
		ev: ResponseReceived{
			StatusCode: resp.StatusCode,
			URL:        finalURL,
			Header:     resp.Header.Clone(),
			Body:       data,
		},
		last: true,
	})
}
