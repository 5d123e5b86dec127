package nethttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"

	"github.com/adamwoolhether/nethttp/client"
)

// produced is the Go type each response type decodes into. JSON is
// absent since it decodes into any type.
var produced = map[ResponseType]reflect.Type{
	ResponseText:        reflect.TypeFor[string](),
	ResponseArrayBuffer: reflect.TypeFor[[]byte](),
	ResponseBlob:        reflect.TypeFor[Blob](),
}

// checkResponseType fails when T cannot hold the value rt produces.
func checkResponseType[T any](rt ResponseType) error {
	want, ok := produced[rt]
	if !ok {
		return nil
	}

	got := reflect.TypeFor[T]()
	if got == want || (got.Kind() == reflect.Interface && want.Implements(got)) {
		return nil
	}

	return fmt.Errorf("%w: %s responses produce %v, callbacks expect %v", ErrResponseTypeMismatch, rt, want, got)
}

// decodeBody converts a raw body into T according to rt.
// An empty JSON body yields the zero T.
func decodeBody[T any](rt ResponseType, resp client.ResponseReceived) (T, error) {
	var v T

	var raw any
	switch rt {
	case ResponseText:
		raw = string(resp.Body)
	case ResponseArrayBuffer:
		raw = resp.Body
	case ResponseBlob:
		raw = Blob{Type: resp.Header.Get("Content-Type"), Data: resp.Body}
	default:
		if len(bytes.TrimSpace(resp.Body)) == 0 {
			return v, nil
		}
		if err := json.Unmarshal(resp.Body, &v); err != nil {
			return v, fmt.Errorf("%w: %w", ErrDecodeBody, err)
		}
		return v, nil
	}

	v, ok := raw.(T)
	if !ok {
		return v, fmt.Errorf("%w: %s responses produce %T", ErrResponseTypeMismatch, rt, raw)
	}

	return v, nil
}

func headerResponse(status int, url string, h http.Header) HeaderResponse {
	return HeaderResponse{
		Success: client.Successful(status),
		URL:     url,
		Status:  status,
		Header:  h,
	}
}
