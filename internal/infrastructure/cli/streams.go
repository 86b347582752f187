package cli

import (
	"bytes"
	"io"
	"sync"
)

// lockedWriter holds a stream in memory and hands it to the underlying
// writer in one Write on Flush, however large it grew. Plugin output is
// forwarded from go-plugin goroutines while the launcher writes too.
type lockedWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
	w   io.Writer
}

func newLockedWriter(w io.Writer) *lockedWriter {
	return &lockedWriter{w: w}
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

// Flush writes everything buffered so far and empties the buffer.
func (l *lockedWriter) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.buf.Len() == 0 {
		return nil
	}
	_, err := l.w.Write(l.buf.Bytes())
	l.buf.Reset()
	return err
}
