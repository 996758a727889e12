package willow3d

import (
	"fmt"
	"io"
)

// fdWriter writes to a file descriptor owned by the caller. It never closes
// the descriptor.
type fdWriter struct {
	fd int
}

func (w fdWriter) String() string {
	return fmt.Sprintf("FD=%d", w.fd)
}

// Write issues a single write call. A partial write is not retried and is
// reported as io.ErrShortWrite.
func (w fdWriter) Write(p []byte) (int, error) {
	n, err := writeFD(w.fd, p)
	if n < 0 {
		n = 0
	}
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return n, err
}

// destName describes a capture destination for log lines.
func destName(w io.Writer) string {
	if s, ok := w.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", w)
}
