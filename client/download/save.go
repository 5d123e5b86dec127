package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Saver writes bodies into a single directory.
type Saver struct {
	dir    string
	logger *slog.Logger
	opts   options
}

// NewSaver returns a Saver writing into dir. An empty dir resolves to
// [DefaultDir].
func NewSaver(dir string, logger *slog.Logger, optFns ...Option) (*Saver, error) {
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, fmt.Errorf("applying option: %w", err)
	}

	if dir == "" {
		dir = DefaultDir()
	}
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("checking download dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("download dir %q is not a directory", dir)
	}

	s := Saver{
		dir:    dir,
		logger: logger,
		opts:   opts,
	}

	return &s, nil
}

// Dir returns the directory files are saved into.
func (s *Saver) Dir() string {
	return s.dir
}

// Download saves data as fileName and returns the written path. A name
// without an extension gets one derived from mimeType when it is known.
func (s *Saver) Download(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	name, err := cleanName(fileName)
	if err != nil {
		return "", err
	}

	if filepath.Ext(name) == "" {
		name += extension(mimeType, nil)
	}

	dest := filepath.Join(s.dir, name)
	if s.opts.uniqueNames && !s.opts.skipExisting {
		dest = unique(dest)
	}

	var optFns []Option
	if s.opts.skipExisting {
		optFns = append(optFns, WithSkipExisting())
	}

	if err := Handle(ctx, bytes.NewReader(data), int64(len(data)), dest, s.logger, optFns...); err != nil {
		return "", err
	}

	s.logger.Info("file saved", "path", dest, "mime_type", mimeType, "size", len(data))

	return dest, nil
}

// DefaultDir is the user's Downloads directory, or the system temp
// directory when there is none.
func DefaultDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, "Downloads")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	return os.TempDir()
}

func cleanName(fileName string) (string, error) {
	name := strings.TrimSpace(fileName)
	switch {
	case name == "", name == ".", name == "..":
		return "", &FileError{Op: "save", Name: fileName, Err: ErrInvalidFileName}
	case strings.ContainsAny(name, `/\`):
		return "", &FileError{Op: "save", Name: fileName, Err: fmt.Errorf("%w: contains a path separator", ErrInvalidFileName)}
	}

	return name, nil
}

// unique appends " (n)" before the extension until the path is free.
func unique(path string) string {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
	}
}

// extension maps a media type to a file extension, sniffing data when
// the type says nothing useful. It returns "" when nothing fits.
func extension(mimeType string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil && mt != "application/octet-stream" {
		if m := mimetype.Lookup(mt); m != nil && m.Extension() != "" {
			return m.Extension()
		}
		if exts, err := mime.ExtensionsByType(mt); err == nil && len(exts) > 0 {
			return exts[0]
		}
	}

	if len(data) > 0 {
		return mimetype.Detect(data).Extension()
	}

	return ""
}
