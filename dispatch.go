package nethttp

import (
	"cmp"
	"context"
	"net/http"
	"time"

	"github.com/adamwoolhether/nethttp/client"
)

const (
	defaultDownloadMimeType = "application/octet-stream"
	defaultDownloadFileName = "file"
	defaultOpenMimeType     = "text/plain"
)

// dispatch drives one call to its end, turning transport events into
// callbacks. It always finishes sub.
func dispatch[T any](s *Service, sub *Subscription, ex exchange[T]) {
	start := time.Now()

	opts := ex.opts
	opts.Header = opts.Header.Clone()
	if opts.Header == nil {
		opts.Header = make(http.Header)
	}

	ctx, span := s.startSpan(sub.ctx, ex.method, ex.url, sub.id, opts.Header)
	if len(opts.Header) == 0 {
		opts.Header = nil
	}

	var (
		status int
		err    error
	)

events:
	for ev, evErr := range s.client.Exchange(ctx, ex.method, ex.url, opts) {
		if evErr != nil {
			err = evErr
			break
		}

		switch ev := ev.(type) {
		case client.Sent:
			s.logger.Info("request sent", "id", sub.id, "method", ex.method, "url", ev.URL)
			sub.guard(ex.cb.sent)

		case client.HeaderReceived:
			status = ev.StatusCode
			sub.guard(func() { ex.cb.header(headerResponse(ev.StatusCode, ev.URL, ev.Header)) })

		case client.UploadProgress:
			sub.guard(func() { ex.cb.upload(ev.Loaded, ev.Total) })

		case client.DownloadProgress:
			sub.guard(func() { ex.cb.download(ev.Loaded, ev.Total) })

		case client.ResponseReceived:
			status = ev.StatusCode

			body, decErr := decodeBody[T](ex.responseType, ev)
			if decErr != nil {
				err = decErr
				break events
			}

			resp := Response[T]{
				HeaderResponse: headerResponse(ev.StatusCode, ev.URL, ev.Header),
				Body:           body,
			}
			sub.guard(func() { ex.cb.response(resp) })
			sub.guard(func() { ex.cb.body(body) })

			s.runSideEffects(ctx, sub, ex.sideEffects, ev.Body)
		}
	}

	cancelled := !sub.settle()
	endSpan(span, status, err, cancelled)

	switch {
	case cancelled:
		s.logger.Info("request cancelled", "id", sub.id, "method", ex.method, "url", ex.url, "since", time.Since(start).String())
		sub.finish(context.Canceled)

	case err != nil:
		s.logger.Error("request failed", "id", sub.id, "method", ex.method, "url", ex.url, "since", time.Since(start).String(), "error", err)
		ex.cb.fail(err)
		sub.finish(err)

	default:
		s.logger.Info("request completed", "id", sub.id, "method", ex.method, "url", ex.url, "status", status, "since", time.Since(start).String())
		ex.cb.completed()
		sub.finish(nil)
	}
}

// runSideEffects saves or opens the raw body as the request asked.
// Failures are logged and never reach the callbacks.
func (s *Service) runSideEffects(ctx context.Context, sub *Subscription, opts RequestOptions, data []byte) {
	if d := opts.Download; d != nil && !sub.Cancelled() {
		mimeType := cmp.Or(d.MimeType, defaultDownloadMimeType)
		fileName := cmp.Or(d.FileName, defaultDownloadFileName)

		path, err := s.downloader.Download(ctx, data, mimeType, fileName)
		if err != nil {
			s.logger.Error("download side effect failed", "id", sub.id, "file", fileName, "error", err)
		} else {
			s.logger.Info("response downloaded", "id", sub.id, "path", path)
		}
	}

	if o := opts.OpenFile; o != nil && !sub.Cancelled() {
		mimeType := cmp.Or(o.MimeType, defaultOpenMimeType)

		path, err := s.opener.Open(ctx, data, mimeType)
		if err != nil {
			s.logger.Error("open file side effect failed", "id", sub.id, "mime_type", mimeType, "error", err)
		} else {
			s.logger.Info("response opened", "id", sub.id, "path", path)
		}
	}
}
