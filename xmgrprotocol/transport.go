package xmgrprotocol

import (
	"bufio"
	"io"
	"sync"
)

// Transport delivers protocol lines to XMGR. line carries its trailing
// newline and any stream prefix already applied.
type Transport interface {
	Send(line string) error
}

// WriterTransport writes lines to an io.Writer, flushing after each one so
// XMGR sees every command as soon as it is sent.
type WriterTransport struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	closed bool
}

// NewWriterTransport creates a transport over w. If w is an io.Closer it is
// closed by Close.
func NewWriterTransport(w io.Writer) *WriterTransport {
	t := &WriterTransport{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		t.closer = c
	}
	return t
}

// Send writes one line.
func (t *WriterTransport) Send(line string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if _, err := t.w.WriteString(line); err != nil {
		return NewTransportError("write", err)
	}
	if err := t.w.Flush(); err != nil {
		return NewTransportError("flush", err)
	}
	return nil
}

// Close flushes and closes the underlying writer. Closing twice is a no-op.
func (t *WriterTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	flushErr := t.w.Flush()
	if t.closer != nil {
		if err := t.closer.Close(); err != nil {
			return NewTransportError("close", err)
		}
	}
	if flushErr != nil {
		return NewTransportError("flush", flushErr)
	}
	return nil
}
