// Package uni provides a reader that normalizes line endings so encoding/csv
// can delimit lines written by any platform, including classic Mac exports
// from spreadsheet tools that only use carriage returns.
package uni

import "io"

// Reader wraps an io.Reader to replace carriage returns with newlines.
type Reader struct {
	r io.Reader
}

func (r *Reader) Read(buf []byte) (int, error) {
	n, err := r.r.Read(buf)

	for i := 0; i < n; i++ {
		if buf[i] == '\r' {
			buf[i] = '\n'
		}
	}

	return n, err
}

// New returns a Reader wrapping r.
func New(r io.Reader) *Reader {
	return &Reader{r}
}
