package xmgrprotocol

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// Logger receives a trace of every line a Session sends.
type Logger interface {
	Printf(format string, args ...any)
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger traces sent lines and failures to l.
func WithLogger(l Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// WithContext starts the session addressed to the given set and graph.
func WithContext(ctx AddressingContext) SessionOption {
	return func(s *Session) {
		s.ctx = ctx
	}
}

// Session is one connection to XMGR. It tracks the current set and graph
// and turns Plot/Configure calls into scripts sent through its Transport.
//
// Thread Safety:
// Calls are serialized with a mutex; the lines of one call are never
// interleaved with those of another.
type Session struct {
	mu sync.Mutex

	transport Transport
	ctx       AddressingContext
	defaults  MergedOptions
	logger    Logger
}

// NewSession creates a session sending through t, addressed to set 0 of
// graph 0 and using the built-in defaults.
func NewSession(t Transport, opts ...SessionOption) *Session {
	s := &Session{
		transport: t,
		defaults:  DefaultOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetIndex makes n the current set.
func (s *Session) SetIndex(n int) error {
	if n < 0 {
		return fmt.Errorf("set %d: %w", n, ErrInvalidIndex)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx.Set = n
	return nil
}

// GraphIndex makes n the current graph.
func (s *Session) GraphIndex(n int) error {
	if n < 0 {
		return fmt.Errorf("graph %d: %w", n, ErrInvalidIndex)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx.Graph = n
	return nil
}

// Context returns the current set and graph.
func (s *Session) Context() AddressingContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// SetDefaults replaces the session defaults with the built-in defaults
// overlaid by overrides. On error the previous defaults are kept.
func (s *Session) SetDefaults(overrides Options) error {
	merged, err := Merge(DefaultOptions(), overrides, MergeFull)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults = merged
	return nil
}

// Defaults returns a copy of the session defaults.
func (s *Session) Defaults() MergedOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaults.Clone()
}

// Plot replaces the current set with data and styles it with opts merged
// over the session defaults. data is coerced by Columns; a single column is
// plotted against its index. Nothing is sent if the options or data are
// invalid.
func (s *Session) Plot(opts Options, data ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, err := Merge(s.defaults, opts, MergeFull)
	if err != nil {
		return err
	}
	cols, err := Columns(data...)
	if err != nil {
		return err
	}
	mode := CurrentWireMode()
	script, err := EmitPlotSequence(cols, merged, s.ctx, mode)
	if err != nil {
		return err
	}
	return s.sendLocked(script, mode)
}

// Configure changes only the attributes named in opts on the current set.
func (s *Session) Configure(opts Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, err := Merge(s.defaults, opts, MergeRestricted)
	if err != nil {
		return err
	}
	mode := CurrentWireMode()
	return s.sendLocked(EmitConfigureSequence(merged, s.ctx), mode)
}

// Send sends one raw command line.
func (s *Session) Send(command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendLocked(Script{NewRawCommand(command).Line()}, CurrentWireMode())
}

// Redraw repaints the display.
func (s *Session) Redraw() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendLocked(Script{NewRedrawCommand().Line()}, CurrentWireMode())
}

// Autoscale rescales the current graph and redraws.
func (s *Session) Autoscale() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	script := Script{
		NewWithGraphCommand(s.ctx.Graph).Line(),
		NewAutoscaleCommand().Line(),
		NewRedrawCommand().Line(),
	}
	return s.sendLocked(script, CurrentWireMode())
}

// Close closes the transport if it can be closed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.transport.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Session) sendLocked(script Script, mode WireMode) error {
	if s.transport == nil {
		return NewTransportError("no transport", nil)
	}
	for _, line := range script {
		s.logf("> %s", line.Text)
		if err := s.transport.Send(line.Format(mode)); err != nil {
			s.logf("send failed: %v", err)
			var te *TransportError
			if errors.As(err, &te) {
				return err
			}
			return NewTransportError("send", err)
		}
	}
	return nil
}

func (s *Session) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
