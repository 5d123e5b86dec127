package throttle

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// limiter is an http.RoundTripper, holding every request until the
// token bucket admits it.
type limiter struct {
	bucket *rate.Limiter
	cfg    Config
	next   http.RoundTripper
	logFn  func() *slog.Logger
}

// NewRoundTripper wraps next so outbound requests share one token
// bucket. logFn is resolved per request, so the logger may be set
// after the transport is built. A nil logger disables the wait logs.
func NewRoundTripper(rps, burst int, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	cfg := Config{RPS: rps, Burst: burst}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if next == nil {
		next = http.DefaultTransport
	}
	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	l := &limiter{
		bucket: rate.NewLimiter(rate.Limit(rps), burst),
		cfg:    cfg,
		next:   next,
		logFn:  logFn,
	}

	return l, nil
}

func (l *limiter) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	if l.bucket.Allow() {
		return l.next.RoundTrip(r)
	}

	logger := l.logFn()
	if logger != nil {
		logger.Info("throttle tokens exhausted", "method", r.Method, "url", r.URL.Redacted(), "rate", l.cfg.RPS, "burst", l.cfg.Burst)
	}

	start := time.Now()
	if err := l.bucket.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if logger != nil {
		logger.Info("throttle wait complete", "method", r.Method, "url", r.URL.Redacted(), "waited", time.Since(start).String())
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return l.next.RoundTrip(r)
}
