package xmgrprotocol

import (
	"sync/atomic"
	"time"
)

// Protocol constants.
const (
	// RecordSeparator closes a dataset in streaming mode.
	RecordSeparator = "&"

	// StreamCommandPrefix marks a command line in streaming mode. XMGR's
	// -pipe reader treats every other line as data.
	StreamCommandPrefix = "@"

	// DefaultProgram is the name of the XMGR executable.
	DefaultProgram = "xmgr"

	// NamedPipeFlag makes XMGR read commands from the named FIFO.
	NamedPipeFlag = "-npipe"

	// PipeFlag makes XMGR read commands and data from stdin.
	PipeFlag = "-pipe"

	// FIFOPrefix is the prefix of the temporary directory holding the FIFO.
	FIFOPrefix = "xmgr-"

	// FIFOName is the name of the FIFO inside that directory.
	FIFOName = "npipe"

	// StartupTimeout is how long the launcher waits for XMGR to open the FIFO.
	StartupTimeout = 10 * time.Second

	// LivenessDelay is how long the launcher waits before checking that
	// XMGR is still running.
	LivenessDelay = 200 * time.Millisecond
)

// WireMode selects how commands and data are framed on the pipe.
type WireMode int

const (
	// Addressable is the named-pipe protocol: each point is a POINT
	// command addressed to a set.
	Addressable WireMode = iota
	// Streaming is the anonymous-pipe protocol: raw rows followed by a
	// record separator, commands prefixed with StreamCommandPrefix.
	Streaming
)

// String returns the mode name used in configuration files.
func (m WireMode) String() string {
	switch m {
	case Addressable:
		return "named"
	case Streaming:
		return "stream"
	default:
		return "unknown"
	}
}

// ParseWireMode parses "named"/"npipe" or "stream"/"pipe".
func ParseWireMode(s string) (WireMode, bool) {
	switch s {
	case "named", "npipe", "addressable":
		return Addressable, true
	case "stream", "pipe", "streaming":
		return Streaming, true
	}
	return Addressable, false
}

var wireMode atomic.Int32

// SetWireMode sets the process-wide wire mode. Sessions read it each time
// they emit, so a change applies to the next call.
func SetWireMode(m WireMode) {
	wireMode.Store(int32(m))
}

// CurrentWireMode returns the process-wide wire mode.
func CurrentWireMode() WireMode {
	return WireMode(wireMode.Load())
}
