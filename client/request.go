package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	acceptAny  = "*/*"
	acceptJSON = "application/json, text/plain, */*"
	acceptText = "text/plain, */*"
)

// newRequest instantiates an *http.Request for an exchange. Content-Type
// is inferred from the body unless the caller set one, and Accept
// defaults according to the expected response type.
func newRequest(ctx context.Context, method, rawURL string, opts Options) (*http.Request, error) {
	body, contentType, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, withQuery(rawURL, opts.Params), body)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for k, v := range opts.Header {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", accept(opts.ResponseType))
	}

	return req, nil
}

// withQuery appends the encoded params, respecting a query the URL
// may already carry.
func withQuery(rawURL string, params Params) string {
	q := params.Encode()
	if q == "" {
		return rawURL
	}

	idx := strings.IndexByte(rawURL, '?')
	switch {
	case idx == -1:
		return rawURL + "?" + q
	case idx == len(rawURL)-1 || strings.HasSuffix(rawURL, "&"):
		return rawURL + q
	default:
		return rawURL + "&" + q
	}
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return b, "", nil
	case []byte:
		return bytes.NewReader(b), "application/octet-stream", nil
	case string:
		return strings.NewReader(b), "text/plain", nil
	case Blob:
		return bytes.NewReader(b.Data), b.Type, nil
	case url.Values:
		return strings.NewReader(b.Encode()), "application/x-www-form-urlencoded;charset=UTF-8", nil
	}

	var payload bytes.Buffer
	if err := json.NewEncoder(&payload).Encode(body); err != nil {
		return nil, "", fmt.Errorf("encoding request payload: %w", err)
	}

	return &payload, "application/json", nil
}

func accept(rt ResponseType) string {
	switch rt {
	case ResponseText:
		return acceptText
	case ResponseBlob, ResponseArrayBuffer:
		return acceptAny
	default:
		return acceptJSON
	}
}
