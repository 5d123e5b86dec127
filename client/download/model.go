package download

import (
	"errors"
	"fmt"
)

var (
	ErrSizeMismatch      = errors.New("size mismatch")
	ErrDownloadCancelled = errors.New("download cancelled")
	ErrInvalidFileName   = errors.New("invalid file name")
	ErrLaunchFailed      = errors.New("launching viewer failed")
)

// FileError records the file operation that failed and the file it
// failed on.
type FileError struct {
	Op   string
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
