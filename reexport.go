package nethttp

import "github.com/adamwoolhether/nethttp/client"

// ResponseType selects how a response body is decoded.
type ResponseType = client.ResponseType

const (
	// ResponseJSON decodes the body into the callback type. It is the default.
	ResponseJSON = client.ResponseJSON
	// ResponseBlob delivers a [Blob] carrying the response Content-Type.
	ResponseBlob = client.ResponseBlob
	// ResponseText delivers the body as a string.
	ResponseText = client.ResponseText
	// ResponseArrayBuffer delivers the raw body as a []byte.
	ResponseArrayBuffer = client.ResponseArrayBuffer
)

type (
	// Blob is raw body data together with its media type.
	Blob = client.Blob
	// TransportError wraps every failure delivered to OnError by the transport.
	TransportError = client.TransportError
	// UnexpectedStatusError reports a response outside the 2xx range.
	UnexpectedStatusError = client.UnexpectedStatusError
)

var (
	ErrUnexpectedStatusCode = client.ErrUnexpectedStatusCode
	ErrAuthFailure          = client.ErrAuthFailure
)
