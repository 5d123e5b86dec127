package nethttp

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"

	"github.com/adamwoolhether/nethttp/client"
)

// buildURL resolves the base URL and appends the controller and routes.
// The returned base URL is the header scope consulted for the call.
func (s *Service) buildURL(req *Request) (baseURL, url string, err error) {
	baseURL = cmp.Or(req.BaseURL, s.baseURL)
	if baseURL == "" {
		return "", "", fmt.Errorf("%w: define one with WithBaseURL or in the request", ErrInvalidBaseURL)
	}
	baseURL = trimSlash(baseURL)

	var b strings.Builder
	b.WriteString(baseURL)

	if req.Controller != "" {
		b.WriteByte('/')
		b.WriteString(req.Controller)
	}

	for i, route := range req.Routes {
		if !scalar(route) {
			return "", "", fmt.Errorf("%w: routes[%d] is %T", ErrInvalidRoute, i, route)
		}
		b.WriteByte('/')
		fmt.Fprint(&b, route)
	}

	return baseURL, b.String(), nil
}

// scalar reports whether v has a natural single-segment string form.
func scalar(v any) bool {
	if _, ok := v.(fmt.Stringer); ok {
		return true
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// trimSlash drops exactly one trailing slash.
func trimSlash(u string) string {
	return strings.TrimSuffix(u, "/")
}

// buildQueryParams flattens the request params into encoded pairs.
// It returns nil when the request carries none.
func buildQueryParams(req *Request) client.Params {
	if req.QueryParams == nil {
		return nil
	}

	params := make(client.Params, 0, len(req.QueryParams))
	for _, p := range req.QueryParams {
		v := reflect.ValueOf(p.Value)
		switch {
		case !v.IsValid():
			params = append(params, client.Param{Key: p.Key})
		case (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && v.Type().Elem().Kind() != reflect.Uint8:
			for i := range v.Len() {
				params = append(params, client.Param{Key: p.Key, Value: fmt.Sprint(v.Index(i).Interface())})
			}
		default:
			params = append(params, client.Param{Key: p.Key, Value: paramString(p.Value)})
		}
	}

	return params
}

func paramString(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}

	return fmt.Sprint(v)
}

// buildOptions assembles the transport options for a call.
func buildOptions[T any](headers *headerRegistry, baseURL string, req *Request, cb *Callbacks[T]) client.Options {
	return client.Options{
		ResponseType:    cmp.Or(req.ResponseType, ResponseJSON),
		ReportProgress:  cb.reportsProgress(),
		Params:          buildQueryParams(req),
		Header:          headers.merged(baseURL, req.Headers),
		WithCredentials: req.WithCredentials,
	}
}
