package nethttp

import "net/http"

// Request describes one call. It is read but never modified by the
// verbs, so a value may be reused across calls.
type Request struct {
	// BaseURL overrides the service's default base URL. One trailing
	// slash is dropped.
	BaseURL string `json:"base_url"`
	// Controller is the first path segment after the base URL.
	Controller string `json:"controller"`
	// Routes are appended in order, each formatted with fmt.Sprint.
	// A segment must be a string, bool, number or fmt.Stringer; anything
	// else, nil included, fails the verb with ErrInvalidRoute. Segments
	// are not escaped.
	Routes []any `json:"routes"`
	// QueryParams are encoded in slice order. A slice or array value
	// repeats the key once per element.
	QueryParams Params `json:"query_params" validate:"dive"`
	// Headers take precedence over URL-scoped and global headers.
	Headers         http.Header    `json:"headers"`
	WithCredentials bool           `json:"with_credentials"`
	ResponseType    ResponseType   `json:"response_type" validate:"omitempty,oneof=json blob text arraybuffer"`
	Options         RequestOptions `json:"options"`
}

// RequestWithBody is a [Request] carrying a payload, used by
// [Post], [Put] and [Patch].
//
// Body is sent as is when it is an io.Reader, as text/plain when it is
// a string, as application/octet-stream when it is a []byte, with its
// own type when it is a [Blob], form encoded when it is url.Values
// and JSON encoded otherwise.
type RequestWithBody struct {
	Request
	Body any `json:"body" validate:"-"`
}

// RequestOptions turns on side effects run once the body arrives.
type RequestOptions struct {
	Download *DownloadOptions `json:"download"`
	OpenFile *OpenFileOptions `json:"open_file"`
}

// DownloadOptions saves the response body as a file.
// MimeType defaults to application/octet-stream and FileName to "file".
type DownloadOptions struct {
	MimeType string `json:"mime_type" validate:"omitempty,mediatype"`
	FileName string `json:"file_name" validate:"omitempty,basename"`
}

// OpenFileOptions opens the response body in the platform viewer.
// MimeType defaults to text/plain.
type OpenFileOptions struct {
	MimeType string `json:"mime_type" validate:"omitempty,mediatype"`
}

// Param is one query key with a scalar or slice value.
type Param struct {
	Key   string `json:"key" validate:"required"`
	Value any    `json:"value"`
}

// Params keeps query keys in the order they were given.
type Params []Param

// HeaderResponse describes a response once its headers have arrived.
// URL is the final URL after redirects.
type HeaderResponse struct {
	Success bool
	URL     string
	Status  int
	Header  http.Header
}

// Response is a [HeaderResponse] together with the decoded body.
type Response[T any] struct {
	HeaderResponse
	Body T
}
