//go:build !unix

package xmgrprotocol

import (
	"context"
	"io"
)

func makeFIFO(path string) error {
	return ErrNamedPipeUnsupported
}

func openFIFO(ctx context.Context, path string, exited <-chan struct{}) (io.WriteCloser, error) {
	return nil, ErrNamedPipeUnsupported
}
