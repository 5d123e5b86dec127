package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
)

// Opener writes bodies to temporary files and hands them to a viewer.
type Opener struct {
	dir      string
	logger   *slog.Logger
	launcher Launcher
}

// NewOpener returns an Opener writing into dir. An empty dir resolves
// to the system temp directory.
func NewOpener(dir string, logger *slog.Logger, optFns ...Option) (*Opener, error) {
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, fmt.Errorf("applying option: %w", err)
	}

	if dir == "" {
		dir = os.TempDir()
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := Opener{
		dir:      dir,
		logger:   logger,
		launcher: opts.launcher,
	}
	if o.launcher == nil {
		o.launcher = o.systemLauncher
	}

	return &o, nil
}

// Open writes data to a new temp file named after mimeType and opens
// it. The file is left in place for the viewer and its path returned.
func (o *Opener) Open(ctx context.Context, data []byte, mimeType string) (string, error) {
	file, err := os.CreateTemp(o.dir, "nethttp-open-*"+extension(mimeType, data))
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := file.Name()

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if err := o.launcher(ctx, path); err != nil {
		return path, &FileError{Op: "open", Name: path, Err: fmt.Errorf("%w: %w", ErrLaunchFailed, err)}
	}

	o.logger.Info("file opened", "path", path, "mime_type", mimeType, "size", len(data))

	return path, nil
}

// systemLauncher starts the desktop's default handler for path. The
// viewer outlives the request, so it is not bound to ctx.
func (o *Opener) systemLauncher(_ context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			o.logger.Error("viewer exited", "path", path, "error", err)
		}
	}()

	return nil
}
