//go:build unix

package xmgrprotocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// fifoPollInterval is how often openFIFO retries while XMGR has not yet
// opened its end of the FIFO.
const fifoPollInterval = 50 * time.Millisecond

// makeFIFO creates a named pipe readable and writable only by the owner.
func makeFIFO(path string) error {
	if err := unix.Mkfifo(path, 0o600); err != nil {
		return fmt.Errorf("mkfifo %s: %w", path, err)
	}
	return nil
}

// openFIFO opens the write end of the FIFO once a reader has opened it.
// A non-blocking open fails with ENXIO until then, so it is retried until
// the reader appears, exited is closed, the context ends, or StartupTimeout
// passes.
func openFIFO(ctx context.Context, path string, exited <-chan struct{}) (io.WriteCloser, error) {
	deadline := time.NewTimer(StartupTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(fifoPollInterval)
	defer ticker.Stop()

	for {
		fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err == nil {
			if err := unix.SetNonblock(fd, false); err != nil {
				unix.Close(fd)
				return nil, fmt.Errorf("fifo %s: %w", path, err)
			}
			return os.NewFile(uintptr(fd), path), nil
		}
		if !errors.Is(err, unix.ENXIO) && !errors.Is(err, unix.EINTR) {
			return nil, fmt.Errorf("open fifo %s: %w", path, err)
		}

		select {
		case <-exited:
			return nil, ErrProcessExited
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("timeout waiting for xmgr to open %s", path)
		case <-ticker.C:
		}
	}
}
