package client_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/nethttp/client"
	"github.com/adamwoolhether/nethttp/client/throttle"
)

const successRespBody = `{"body":"success"}`

// collect drains an exchange, returning its events and terminal error.
func collect(ctx context.Context, t *testing.T, c *client.Client, method, url string, opts client.Options) ([]client.Event, error) {
	t.Helper()

	var events []client.Event
	for ev, err := range c.Exchange(ctx, method, url, opts) {
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}

	return events, nil
}

func kinds(events []client.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, fmt.Sprintf("%T", ev))
	}

	return out
}

func newClient(t *testing.T, opts ...client.Option) *client.Client {
	t.Helper()

	c, err := client.Build(opts...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return c
}

func TestClient_WithUserAgent(t *testing.T) {
	expUA := "TestUserAgent/1.0"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != expUA {
			t.Errorf("exp User-Agent %q, got %q", expUA, got)
		}
	}))
	defer ts.Close()

	c := newClient(t, client.WithThrottle(100, 10), client.WithUserAgent(expUA))

	if _, err := collect(t.Context(), t, c, http.MethodGet, ts.URL, client.Options{}); err != nil {
		t.Errorf("exp no error, got %v", err)
	}
}

func TestClient_OptionValidation(t *testing.T) {
	tests := map[string]struct {
		opt    client.Option
		expErr error
	}{
		"nil client":       {opt: client.WithClient(nil)},
		"nil transport":    {opt: client.WithTransport(nil)},
		"nil jar":          {opt: client.WithCookieJar(nil)},
		"negative timeout": {opt: client.WithTimeout(-time.Second)},
		"zero throttle":    {opt: client.WithThrottle(0, 1), expErr: throttle.ErrMustNotBeZero},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := client.Build(tc.opt)
			if err == nil {
				t.Fatal("exp error, got nil")
			}
			if tc.expErr != nil && !errors.Is(err, tc.expErr) {
				t.Errorf("exp %v, got %v", tc.expErr, err)
			}
		})
	}
}

func TestClient_WithClientNotMutated(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}

	_ = newClient(t, client.WithClient(hc), client.WithTimeout(time.Second), client.WithNoFollowRedirects())

	if hc.Timeout != time.Minute {
		t.Errorf("exp caller's timeout untouched, got %v", hc.Timeout)
	}
	if hc.CheckRedirect != nil {
		t.Error("exp caller's CheckRedirect untouched")
	}
	if hc.Transport != nil {
		t.Error("exp caller's Transport untouched")
	}
}

func TestExchange_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		fmt.Fprint(w, successRespBody)
	}))
	defer ts.Close()

	c := newClient(t)

	events, err := collect(t.Context(), t, c, http.MethodGet, ts.URL+"/items", client.Options{})
	if err != nil {
		t.Fatalf("exp no error, got %v", err)
	}

	exp := []string{"client.Sent", "client.HeaderReceived", "client.ResponseReceived"}
	if diff := cmp.Diff(exp, kinds(events)); diff != "" {
		t.Fatalf("events mismatch (-exp +got):\n%s", diff)
	}

	sent := events[0].(client.Sent)
	if sent.Method != http.MethodGet || sent.URL != ts.URL+"/items" {
		t.Errorf("exp sent GET %s, got %s %s", ts.URL+"/items", sent.Method, sent.URL)
	}

	resp := events[2].(client.ResponseReceived)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("exp status 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != successRespBody {
		t.Errorf("exp body %q, got %q", successRespBody, resp.Body)
	}
	if resp.Header.Get("X-Test") != "yes" {
		t.Errorf("exp X-Test header, got %v", resp.Header)
	}
}

func TestExchange_RequestShape(t *testing.T) {
	tests := map[string]struct {
		opts      client.Options
		url       string
		expQuery  string
		expType   string
		expAccept string
		expBody   string
	}{
		"json body": {
			opts:      client.Options{Body: map[string]string{"a": "b"}},
			expType:   "application/json",
			expAccept: "application/json, text/plain, */*",
			expBody:   `{"a":"b"}` + "\n",
		},
		"text body and text response": {
			opts:      client.Options{Body: "hello", ResponseType: client.ResponseText},
			expType:   "text/plain",
			expAccept: "text/plain, */*",
			expBody:   "hello",
		},
		"blob body": {
			opts:      client.Options{Body: client.Blob{Type: "image/png", Data: []byte{1, 2}}, ResponseType: client.ResponseBlob},
			expType:   "image/png",
			expAccept: "*/*",
			expBody:   "\x01\x02",
		},
		"caller content type wins": {
			opts: client.Options{
				Body:   "x=1",
				Header: http.Header{"Content-Type": {"application/x-custom"}, "Accept": {"text/csv"}},
			},
			expType:   "application/x-custom",
			expAccept: "text/csv",
			expBody:   "x=1",
		},
		"params repeat keys": {
			opts:      client.Options{Params: client.Params{{Key: "id", Value: "1"}, {Key: "id", Value: "2"}}},
			expQuery:  "id=1&id=2",
			expAccept: "application/json, text/plain, */*",
		},
		"params join existing query": {
			opts:      client.Options{Params: client.Params{{Key: "b", Value: "2"}}},
			url:       "?a=1",
			expQuery:  "a=1&b=2",
			expAccept: "application/json, text/plain, */*",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.RawQuery; got != tc.expQuery {
					t.Errorf("exp query %q, got %q", tc.expQuery, got)
				}
				if got := r.Header.Get("Content-Type"); got != tc.expType {
					t.Errorf("exp Content-Type %q, got %q", tc.expType, got)
				}
				if got := r.Header.Get("Accept"); got != tc.expAccept {
					t.Errorf("exp Accept %q, got %q", tc.expAccept, got)
				}
				b, _ := io.ReadAll(r.Body)
				if string(b) != tc.expBody {
					t.Errorf("exp body %q, got %q", tc.expBody, b)
				}
			}))
			defer ts.Close()

			c := newClient(t)

			if _, err := collect(t.Context(), t, c, http.MethodPost, ts.URL+tc.url, tc.opts); err != nil {
				t.Errorf("exp no error, got %v", err)
			}
		})
	}
}

func TestExchange_UnexpectedStatus(t *testing.T) {
	tests := map[string]struct {
		status  int
		expAuth bool
	}{
		"not found":    {status: http.StatusNotFound},
		"server error": {status: http.StatusInternalServerError},
		"unauthorized": {status: http.StatusUnauthorized, expAuth: true},
		"forbidden":    {status: http.StatusForbidden, expAuth: true},
		"not modified": {status: http.StatusNotModified},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				if tc.status != http.StatusNotModified {
					fmt.Fprint(w, "nope")
				}
			}))
			defer ts.Close()

			c := newClient(t)

			events, err := collect(t.Context(), t, c, http.MethodGet, ts.URL, client.Options{})
			if diff := cmp.Diff([]string{"client.Sent"}, kinds(events)); diff != "" {
				t.Errorf("events mismatch (-exp +got):\n%s", diff)
			}

			if !errors.Is(err, client.ErrUnexpectedStatusCode) {
				t.Fatalf("exp ErrUnexpectedStatusCode, got %v", err)
			}
			if errors.Is(err, client.ErrAuthFailure) != tc.expAuth {
				t.Errorf("exp auth failure %t, got %v", tc.expAuth, err)
			}

			var statusErr *client.UnexpectedStatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("exp *UnexpectedStatusError, got %T", err)
			}
			if statusErr.StatusCode != tc.status {
				t.Errorf("exp status %d, got %d", tc.status, statusErr.StatusCode)
			}

			var transportErr *client.TransportError
			if !errors.As(err, &transportErr) {
				t.Fatalf("exp *TransportError, got %T", err)
			}
			if transportErr.Method != http.MethodGet {
				t.Errorf("exp method GET, got %s", transportErr.Method)
			}
		})
	}
}

func TestExchange_ErrorBodyCapped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, strings.Repeat("x", 16<<10))
	}))
	defer ts.Close()

	c := newClient(t)

	_, err := collect(t.Context(), t, c, http.MethodGet, ts.URL, client.Options{})

	var statusErr *client.UnexpectedStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("exp *UnexpectedStatusError, got %v", err)
	}
	if len(statusErr.Body) != 4<<10 {
		t.Errorf("exp error body capped at %d, got %d", 4<<10, len(statusErr.Body))
	}
}

func TestExchange_WithAnyStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		fmt.Fprint(w, "short and stout")
	}))
	defer ts.Close()

	c := newClient(t, client.WithAnyStatus())

	events, err := collect(t.Context(), t, c, http.MethodGet, ts.URL, client.Options{})
	if err != nil {
		t.Fatalf("exp no error, got %v", err)
	}

	last, ok := events[len(events)-1].(client.ResponseReceived)
	if !ok {
		t.Fatalf("exp final ResponseReceived, got %T", events[len(events)-1])
	}
	if last.StatusCode != http.StatusTeapot {
		t.Errorf("exp status %d, got %d", http.StatusTeapot, last.StatusCode)
	}
}

func TestExchange_Progress(t *testing.T) {
	payload := strings.Repeat("p", 64<<10)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Length", fmt.Sprint(len(payload)))
		fmt.Fprint(w, payload)
	}))
	defer ts.Close()

	c := newClient(t)

	events, err := collect(t.Context(), t, c, http.MethodPost, ts.URL, client.Options{
		Body:           payload,
		ReportProgress: true,
	})
	if err != nil {
		t.Fatalf("exp no error, got %v", err)
	}

	var (
		lastUp, lastDown client.Event
		sawHeaders       bool
	)
	for _, ev := range events {
		switch ev := ev.(type) {
		case client.UploadProgress:
			if sawHeaders {
				t.Error("exp upload progress before headers")
			}
			lastUp = ev
		case client.HeaderReceived:
			sawHeaders = true
		case client.DownloadProgress:
			if !sawHeaders {
				t.Error("exp download progress after headers")
			}
			lastDown = ev
		}
	}

	n := int64(len(payload))
	if diff := cmp.Diff(client.UploadProgress{Loaded: n, Total: n}, lastUp); diff != "" {
		t.Errorf("upload progress mismatch (-exp +got):\n%s", diff)
	}
	if diff := cmp.Diff(client.DownloadProgress{Loaded: n, Total: n}, lastDown); diff != "" {
		t.Errorf("download progress mismatch (-exp +got):\n%s", diff)
	}
	if _, ok := events[len(events)-1].(client.ResponseReceived); !ok {
		t.Errorf("exp ResponseReceived last, got %T", events[len(events)-1])
	}
}

func TestExchange_NoProgressByDefault(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, successRespBody)
	}))
	defer ts.Close()

	c := newClient(t)

	events, err := collect(t.Context(), t, c, http.MethodPut, ts.URL, client.Options{Body: "data"})
	if err != nil {
		t.Fatalf("exp no error, got %v", err)
	}

	exp := []string{"client.Sent", "client.HeaderReceived", "client.ResponseReceived"}
	if diff := cmp.Diff(exp, kinds(events)); diff != "" {
		t.Errorf("events mismatch (-exp +got):\n%s", diff)
	}
}

func TestExchange_Credentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			return
		}

		c, err := r.Cookie("session")
		if err != nil {
			fmt.Fprint(w, "anonymous")
			return
		}
		fmt.Fprint(w, c.Value)
	}))
	defer ts.Close()

	c := newClient(t)
	creds := client.Options{WithCredentials: true}

	if _, err := collect(t.Context(), t, c, http.MethodPost, ts.URL+"/login", creds); err != nil {
		t.Fatalf("login: %v", err)
	}

	tests := map[string]struct {
		opts client.Options
		exp  string
	}{
		"with credentials":    {opts: creds, exp: "abc"},
		"without credentials": {opts: client.Options{}, exp: "anonymous"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			events, err := collect(t.Context(), t, c, http.MethodGet, ts.URL+"/me", tc.opts)
			if err != nil {
				t.Fatalf("exp no error, got %v", err)
			}

			resp := events[len(events)-1].(client.ResponseReceived)
			if string(resp.Body) != tc.exp {
				t.Errorf("exp %q, got %q", tc.exp, resp.Body)
			}
		})
	}
}

func TestExchange_FinalURLAfterRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, successRespBody)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	t.Run("follow", func(t *testing.T) {
		c := newClient(t)

		events, err := collect(t.Context(), t, c, http.MethodGet, ts.URL+"/old", client.Options{})
		if err != nil {
			t.Fatalf("exp no error, got %v", err)
		}

		resp := events[len(events)-1].(client.ResponseReceived)
		if resp.URL != ts.URL+"/new" {
			t.Errorf("exp final URL %q, got %q", ts.URL+"/new", resp.URL)
		}
	})

	t.Run("no follow", func(t *testing.T) {
		c := newClient(t, client.WithNoFollowRedirects())

		_, err := collect(t.Context(), t, c, http.MethodGet, ts.URL+"/old", client.Options{})

		var statusErr *client.UnexpectedStatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusFound {
			t.Errorf("exp 302 status error, got %v", err)
		}
	})
}

func TestExchange_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := newClient(t)

	events, err := collect(t.Context(), t, c, http.MethodGet, url, client.Options{})
	if diff := cmp.Diff([]string{"client.Sent"}, kinds(events)); diff != "" {
		t.Errorf("events mismatch (-exp +got):\n%s", diff)
	}

	var transportErr *client.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("exp *TransportError, got %v", err)
	}
	if errors.Is(err, client.ErrUnexpectedStatusCode) {
		t.Error("exp network error, not a status error")
	}
}

func TestExchange_ContextCancelled(t *testing.T) {
	arrived := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-r.Context().Done()
	}))
	defer ts.Close()

	c := newClient(t)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	go func() {
		<-arrived
		cancel()
	}()

	events, err := collect(ctx, t, c, http.MethodGet, ts.URL, client.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("exp context.Canceled, got %v", err)
	}
	if diff := cmp.Diff([]string{"client.Sent"}, kinds(events)); diff != "" {
		t.Errorf("events mismatch (-exp +got):\n%s", diff)
	}
}

func TestExchange_StopIterationAbortsRequest(t *testing.T) {
	arrived := make(chan struct{})
	gone := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-r.Context().Done()
		close(gone)
	}))
	defer ts.Close()

	c := newClient(t)

	for ev, err := range c.Exchange(t.Context(), http.MethodGet, ts.URL, client.Options{}) {
		if err != nil {
			t.Fatalf("exp no error, got %v", err)
		}
		if _, ok := ev.(client.Sent); ok {
			<-arrived
			break
		}
	}

	select {
	case <-gone:
	case <-time.After(2 * time.Second):
		t.Error("exp server to observe the aborted request")
	}
}

func TestExchange_InvalidURL(t *testing.T) {
	c := newClient(t)

	events, err := collect(t.Context(), t, c, http.MethodGet, "://bad", client.Options{})
	if len(events) != 0 {
		t.Errorf("exp no events, got %v", kinds(events))
	}

	var transportErr *client.TransportError
	if !errors.As(err, &transportErr) {
		t.Errorf("exp *TransportError, got %v", err)
	}
}
