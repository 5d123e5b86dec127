package nethttp

import (
	"net/http"
	"sync"
)

// globalScope is the scope key of headers sent with every call.
const globalScope = "*"

// headerRegistry holds headers per scope. A scope is either
// globalScope or a base URL without its trailing slash. Empty scopes
// are never stored.
type headerRegistry struct {
	mu     sync.Mutex
	scopes map[string]http.Header
}

func newHeaderRegistry() *headerRegistry {
	return &headerRegistry{scopes: make(map[string]http.Header)}
}

func (r *headerRegistry) add(scope string, h http.Header) {
	if len(h) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dst, ok := r.scopes[scope]
	if !ok {
		dst = make(http.Header, len(h))
		r.scopes[scope] = dst
	}
	overwrite(dst, h)
}

func (r *headerRegistry) remove(scope string, keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.scopes[scope]
	if !ok {
		return
	}

	for _, k := range keys {
		h.Del(k)
	}

	if len(h) == 0 {
		delete(r.scopes, scope)
	}
}

func (r *headerRegistry) clear(scope string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.scopes, scope)
}

func (r *headerRegistry) clearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.scopes)
}

// get returns a copy of one scope, or nil when it does not exist.
func (r *headerRegistry) get(scope string) http.Header {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.scopes[scope].Clone()
}

func (r *headerRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.scopes)
}

// merged layers the global scope, the scope of baseURL and the request
// headers, each replacing the values of keys set by the one before.
// It returns nil when no layer sets anything.
func (r *headerRegistry) merged(baseURL string, req http.Header) http.Header {
	out := make(http.Header)

	r.mu.Lock()
	overwrite(out, r.scopes[globalScope])
	overwrite(out, r.scopes[baseURL])
	r.mu.Unlock()

	overwrite(out, req)

	if len(out) == 0 {
		return nil
	}

	return out
}

// overwrite copies every key of src into dst under its canonical name,
// replacing what dst held for that key.
func overwrite(dst, src http.Header) {
	for k, v := range src {
		dst[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}
}

// scopeFor normalises a URL into its scope key.
func scopeFor(url string) string {
	return trimSlash(url)
}

// /////////////////////////////////////////////////////////////////
// Service header management

// AddHeadersToURL merges h into the headers sent to baseURL, replacing
// keys that already exist.
func (s *Service) AddHeadersToURL(baseURL string, h http.Header) {
	s.headers.add(scopeFor(baseURL), h)
}

// AddGlobalHeaders merges h into the headers sent with every call.
func (s *Service) AddGlobalHeaders(h http.Header) {
	s.headers.add(globalScope, h)
}

// RemoveHeadersFromURL deletes keys from the headers of baseURL.
// The scope disappears with its last key.
func (s *Service) RemoveHeadersFromURL(baseURL string, keys ...string) {
	s.headers.remove(scopeFor(baseURL), keys...)
}

// RemoveGlobalHeaders deletes keys from the global headers.
func (s *Service) RemoveGlobalHeaders(keys ...string) {
	s.headers.remove(globalScope, keys...)
}

// ClearHeadersFromURL drops every header of baseURL.
func (s *Service) ClearHeadersFromURL(baseURL string) {
	s.headers.clear(scopeFor(baseURL))
}

// ClearGlobalHeaders drops every global header.
func (s *Service) ClearGlobalHeaders() {
	s.headers.clear(globalScope)
}

// ClearAllHeaders drops every scope.
func (s *Service) ClearAllHeaders() {
	s.headers.clearAll()
}

// HeadersForURL returns a copy of the headers registered for baseURL,
// or nil when there are none.
func (s *Service) HeadersForURL(baseURL string) http.Header {
	return s.headers.get(scopeFor(baseURL))
}

// GlobalHeaders returns a copy of the global headers, or nil when
// there are none.
func (s *Service) GlobalHeaders() http.Header {
	return s.headers.get(globalScope)
}
