// Package download persists response bodies on the local machine.
//
// # Saving
//
// A [Saver] writes into one directory through [Handle], which streams
// to a temporary file alongside the destination and renames it into
// place on success:
//
//	s, err := download.NewSaver("", logger, download.WithUniqueNames())
//	path, err := s.Download(ctx, data, "application/pdf", "report")
//	// path is ~/Downloads/report.pdf, or report (1).pdf if taken
//
// # Opening
//
// An [Opener] writes to a temp file whose extension follows the media
// type and starts the platform viewer (open, xdg-open or rundll32):
//
//	o, err := download.NewOpener("", logger)
//	path, err := o.Open(ctx, data, "text/plain")
//
// Most callers never use this package directly. The nethttp Service
// invokes both when a request asks for a download or to open a file.
package download
