package nethttp

import "errors"

var (
	// ErrInvalidBaseURL is returned by a verb when neither the request
	// nor the service defines a base URL.
	ErrInvalidBaseURL = errors.New("invalid base URL")
	// ErrInvalidRoute is returned by a verb when a route segment is not
	// a scalar.
	ErrInvalidRoute = errors.New("invalid route segment")
	// ErrResponseTypeMismatch is returned by a verb when the callback
	// body type cannot hold what the response type produces.
	ErrResponseTypeMismatch = errors.New("response type mismatch")
	// ErrDecodeBody is delivered to OnError when a JSON body does not
	// decode into the callback type.
	ErrDecodeBody = errors.New("decoding response body")
)
