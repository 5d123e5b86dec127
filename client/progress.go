package client

import "io"

// progressReader is an io.ReadCloser, reporting the running byte
// count after every read that moved data.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	report func(loaded, total int64)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.read += int64(n)
		pr.report(pr.read, pr.total)
	}

	return n, err
}

func (pr *progressReader) Close() error {
	if c, ok := pr.r.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
