package xmgrprotocol

import "sync"

// The default session backs the package-level Plot, Configure, SetIndex,
// GraphIndex and Send functions for programs that only ever talk to one
// XMGR. It exists only after Init.
var (
	defaultMu      sync.Mutex
	defaultSession *Session
)

// Init installs a new default session sending through t and returns it.
// A previous default session is closed; a failure to close it is reported
// to the new session's logger, if any.
func Init(t Transport, opts ...SessionOption) *Session {
	s := NewSession(t, opts...)

	defaultMu.Lock()
	prev := defaultSession
	defaultSession = s
	defaultMu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			s.logf("close previous session: %v", err)
		}
	}
	return s
}

// Default returns the default session, or ErrNoSession before Init.
func Default() (*Session, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSession == nil {
		return nil, ErrNoSession
	}
	return defaultSession, nil
}

// Shutdown closes and forgets the default session.
func Shutdown() error {
	defaultMu.Lock()
	s := defaultSession
	defaultSession = nil
	defaultMu.Unlock()

	if s == nil {
		return nil
	}
	return s.Close()
}

// Plot calls Plot on the default session.
func Plot(opts Options, data ...any) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.Plot(opts, data...)
}

// Configure calls Configure on the default session.
func Configure(opts Options) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.Configure(opts)
}

// SetIndex calls SetIndex on the default session.
func SetIndex(n int) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.SetIndex(n)
}

// GraphIndex calls GraphIndex on the default session.
func GraphIndex(n int) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.GraphIndex(n)
}

// Send calls Send on the default session.
func Send(command string) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.Send(command)
}
