package nethttp

import (
	"cmp"
	"context"
	"net/http"

	"github.com/adamwoolhether/nethttp/client"
)

// Get issues a GET call. It returns once the call is dispatched; the
// outcome arrives through cb. The error is non-nil only when the call
// could not be built, in which case nothing was sent.
//
// ctx is handed to the transport as the request context. Cancelling it
// fails the call with OnError, while [Subscription.Cancel] ends it
// silently.
func Get[T any](ctx context.Context, s *Service, req *Request, cb *Callbacks[T], opts ...CallOption) (*Subscription, error) {
	if req == nil {
		req = &Request{}
	}

	return call(ctx, s, http.MethodGet, req, req, nil, cb, opts)
}

// Delete issues a DELETE call. See [Get].
func Delete[T any](ctx context.Context, s *Service, req *Request, cb *Callbacks[T], opts ...CallOption) (*Subscription, error) {
	if req == nil {
		req = &Request{}
	}

	return call(ctx, s, http.MethodDelete, req, req, nil, cb, opts)
}

// Post issues a POST call carrying req.Body. See [Get].
func Post[T any](ctx context.Context, s *Service, req *RequestWithBody, cb *Callbacks[T], opts ...CallOption) (*Subscription, error) {
	return withBody(ctx, s, http.MethodPost, req, cb, opts)
}

// Put issues a PUT call carrying req.Body. See [Get].
func Put[T any](ctx context.Context, s *Service, req *RequestWithBody, cb *Callbacks[T], opts ...CallOption) (*Subscription, error) {
	return withBody(ctx, s, http.MethodPut, req, cb, opts)
}

// Patch issues a PATCH call carrying req.Body. See [Get].
func Patch[T any](ctx context.Context, s *Service, req *RequestWithBody, cb *Callbacks[T], opts ...CallOption) (*Subscription, error) {
	return withBody(ctx, s, http.MethodPatch, req, cb, opts)
}

func withBody[T any](ctx context.Context, s *Service, method string, req *RequestWithBody, cb *Callbacks[T], opts []CallOption) (*Subscription, error) {
	if req == nil {
		req = &RequestWithBody{}
	}

	return call(ctx, s, method, &req.Request, req, req.Body, cb, opts)
}

// call builds everything a call needs synchronously, registers its
// subscription and hands it to dispatch.
func call[T any](ctx context.Context, s *Service, method string, req *Request, validated any, body any, cb *Callbacks[T], optFns []CallOption) (*Subscription, error) {
	var co callOptions
	for _, opt := range optFns {
		opt(&co)
	}

	if err := Validate(validated); err != nil {
		return nil, err
	}

	rt := cmp.Or(req.ResponseType, ResponseJSON)
	if err := checkResponseType[T](rt); err != nil {
		return nil, err
	}

	baseURL, url, err := s.buildURL(req)
	if err != nil {
		return nil, err
	}

	opts := buildOptions(s.headers, baseURL, req, cb)
	opts.Body = body

	sub := newSubscription(ctx)
	s.groups.register(co.group, sub)

	ex := exchange[T]{
		method:       method,
		url:          url,
		responseType: rt,
		sideEffects:  req.Options,
		opts:         opts,
		cb:           cb,
	}
	go dispatch(s, sub, ex)

	return sub, nil
}

// exchange is everything dispatch needs to drive one call.
type exchange[T any] struct {
	method       string
	url          string
	responseType ResponseType
	sideEffects  RequestOptions
	opts         client.Options
	cb           *Callbacks[T]
}
