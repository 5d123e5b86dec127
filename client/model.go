package client

import (
	"net/http"
	"net/url"
	"strings"
)

// ResponseType tells the caller how a response body is meant to be read.
type ResponseType string

const (
	ResponseJSON        ResponseType = "json"
	ResponseBlob        ResponseType = "blob"
	ResponseText        ResponseType = "text"
	ResponseArrayBuffer ResponseType = "arraybuffer"
)

// Blob is raw body data together with its media type. As a request
// body its Type becomes the Content-Type.
type Blob struct {
	Type string
	Data []byte
}

// Options is the per-exchange bundle handed to [Client.Exchange].
type Options struct {
	Body            any
	ResponseType    ResponseType
	ReportProgress  bool
	Params          Params
	Header          http.Header
	WithCredentials bool
}

// Param is one encoded query pair.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query pairs. Keys may repeat.
type Params []Param

// Encode renders the pairs as a query string, keeping their order.
func (p Params) Encode() string {
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}

	return b.String()
}

// /////////////////////////////////////////////////////////////////
// Lifecycle events

// Event is one step of an exchange. The concrete types are [Sent],
// [HeaderReceived], [UploadProgress], [DownloadProgress] and
// [ResponseReceived].
type Event interface {
	event()
}

// Sent is emitted once the request is handed to the round tripper.
type Sent struct {
	Method string
	URL    string
}

// HeaderReceived carries the status line and headers before the body is read.
type HeaderReceived struct {
	StatusCode int
	URL        string
	Header     http.Header
}

// UploadProgress reports the request bytes written so far.
// Total is -1 when the length is unknown.
type UploadProgress struct {
	Loaded int64
	Total  int64
}

// DownloadProgress reports the response bytes read so far.
// Total is -1 when the length is unknown.
type DownloadProgress struct {
	Loaded int64
	Total  int64
}

// ResponseReceived is the final event of a successful exchange.
type ResponseReceived struct {
	StatusCode int
	URL        string
	Header     http.Header
	Body       []byte
}

func (Sent) event()             {}
func (HeaderReceived) event()   {}
func (UploadProgress) event()   {}
func (DownloadProgress) event() {}
func (ResponseReceived) event() {}

// Successful reports whether code is in the 2xx range.
func Successful(code int) bool {
	return code >= 200 && code < 300
}
