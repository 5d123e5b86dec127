// Package throttle provides an [http.RoundTripper] that rate-limits
// outbound requests with the token bucket from [golang.org/x/time/rate].
//
// Requests within the burst pass straight through. Beyond it they
// block until a token frees up or the request context ends:
//
//	rt, err := throttle.NewRoundTripper(10, 5, func() *slog.Logger { return slog.Default() }, http.DefaultTransport)
//	hc := &http.Client{Transport: rt}
package throttle
