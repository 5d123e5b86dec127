package nethttp

// Callbacks receives the lifecycle of one call. Every field is
// optional, and a nil *Callbacks is valid. The callbacks of a call run
// one at a time on a goroutine owned by the service.
//
// A successful call runs OnRequestSent, OnReceivedResponseHeader, any
// progress callbacks, OnReceivedResponse, OnReceivedBody and finally
// OnRequestCompleted. A failed call runs OnRequestSent, when the
// request got that far, and then OnError. Totals passed to the
// progress callbacks are -1 when the length is unknown.
type Callbacks[T any] struct {
	OnRequestSent            func()
	OnReceivedResponseHeader func(HeaderResponse)
	OnReceivedResponse       func(Response[T])
	OnReceivedBody           func(T)
	OnRequestCompleted       func()
	UploadProgress           func(loaded, total int64)
	DownloadProgress         func(loaded, total int64)
	OnError                  func(error)
}

func (cb *Callbacks[T]) sent() {
	if cb != nil && cb.OnRequestSent != nil {
		cb.OnRequestSent()
	}
}

func (cb *Callbacks[T]) header(h HeaderResponse) {
	if cb != nil && cb.OnReceivedResponseHeader != nil {
		cb.OnReceivedResponseHeader(h)
	}
}

func (cb *Callbacks[T]) response(r Response[T]) {
	if cb != nil && cb.OnReceivedResponse != nil {
		cb.OnReceivedResponse(r)
	}
}

func (cb *Callbacks[T]) body(b T) {
	if cb != nil && cb.OnReceivedBody != nil {
		cb.OnReceivedBody(b)
	}
}

func (cb *Callbacks[T]) completed() {
	if cb != nil && cb.OnRequestCompleted != nil {
		cb.OnRequestCompleted()
	}
}

func (cb *Callbacks[T]) upload(loaded, total int64) {
	if cb != nil && cb.UploadProgress != nil {
		cb.UploadProgress(loaded, total)
	}
}

func (cb *Callbacks[T]) download(loaded, total int64) {
	if cb != nil && cb.DownloadProgress != nil {
		cb.DownloadProgress(loaded, total)
	}
}

func (cb *Callbacks[T]) fail(err error) {
	if cb != nil && cb.OnError != nil {
		cb.OnError(err)
	}
}

// reportsProgress reports whether either progress callback is set.
func (cb *Callbacks[T]) reportsProgress() bool {
	return cb != nil && (cb.UploadProgress != nil || cb.DownloadProgress != nil)
}
