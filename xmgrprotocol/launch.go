package xmgrprotocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

// LaunchConfig describes how to start XMGR.
type LaunchConfig struct {
	// Program is the executable name or path. Defaults to DefaultProgram.
	Program string

	// Args are extra arguments placed after the pipe flag.
	Args []string

	// Stderr receives XMGR's diagnostics. Defaults to discarding them.
	Stderr io.Writer
}

// Process is a running XMGR connected by a pipe. It implements Transport.
type Process struct {
	mu sync.Mutex

	cmd     *exec.Cmd
	w       io.WriteCloser
	mode    WireMode
	fifoDir string
	closed  bool

	done    chan struct{}
	waitErr error
}

// Launch starts XMGR in the current wire mode. In Streaming mode XMGR
// reads from its stdin (-pipe); in Addressable mode a FIFO is created and
// passed with -npipe, and Launch waits until XMGR has opened it. Launch
// fails with ErrProcessExited if XMGR dies during startup.
func Launch(ctx context.Context, cfg LaunchConfig) (*Process, error) {
	program := cfg.Program
	if program == "" {
		program = DefaultProgram
	}
	exePath, err := findExecutable(program)
	if err != nil {
		return nil, fmt.Errorf("could not find %s executable: %w", program, err)
	}

	p := &Process{mode: CurrentWireMode(), done: make(chan struct{})}

	var args []string
	var fifoPath string
	if p.mode == Streaming {
		args = append([]string{PipeFlag}, cfg.Args...)
	} else {
		dir, err := os.MkdirTemp("", FIFOPrefix)
		if err != nil {
			return nil, fmt.Errorf("create fifo dir: %w", err)
		}
		p.fifoDir = dir
		fifoPath = filepath.Join(dir, FIFOName)
		if err := makeFIFO(fifoPath); err != nil {
			os.RemoveAll(dir)
			return nil, err
		}
		args = append([]string{NamedPipeFlag, fifoPath}, cfg.Args...)
	}

	cmd := exec.Command(exePath, args...)
	cmd.Stdout = nil
	cmd.Stderr = cfg.Stderr
	p.cmd = cmd

	if p.mode == Streaming {
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("stdin pipe: %w", err)
		}
		p.w = stdin
	}

	if err := cmd.Start(); err != nil {
		p.cleanup()
		return nil, fmt.Errorf("failed to launch %s: %w", program, err)
	}
	go func() {
		p.waitErr = cmd.Wait()
		close(p.done)
	}()

	if p.mode == Addressable {
		w, err := openFIFO(ctx, fifoPath, p.done)
		if err != nil {
			p.Kill()
			p.cleanup()
			return nil, err
		}
		p.w = w
	}

	select {
	case <-p.done:
		p.abort()
		return nil, fmt.Errorf("%s (PID %d): %w", program, cmd.Process.Pid, ErrProcessExited)
	case <-ctx.Done():
		p.Kill()
		p.abort()
		return nil, ctx.Err()
	case <-time.After(LivenessDelay):
	}
	return p, nil
}

// Pid returns XMGR's process ID.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Mode returns the wire mode the process was launched with.
func (p *Process) Mode() WireMode {
	return p.mode
}

// Alive reports whether XMGR is still running.
func (p *Process) Alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Send writes one line to XMGR.
func (p *Process) Send(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if !p.Alive() {
		return NewTransportError("send", ErrProcessExited)
	}
	if _, err := io.WriteString(p.w, line); err != nil {
		return NewTransportError("write", err)
	}
	return nil
}

// Close closes the pipe and removes the FIFO. XMGR keeps running so the
// plot stays on screen.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	var err error
	if p.w != nil {
		if cerr := p.w.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) {
			err = NewTransportError("close", cerr)
		}
	}
	p.cleanup()
	return err
}

// Kill asks XMGR to terminate.
func (p *Process) Kill() error {
	if p.cmd == nil || p.cmd.Process == nil || !p.Alive() {
		return nil
	}
	return p.cmd.Process.Signal(syscall.SIGTERM)
}

// Wait blocks until XMGR exits and returns its exit status.
func (p *Process) Wait() error {
	<-p.done
	return p.waitErr
}

// abort releases the pipe and the FIFO of a process Launch gives up on.
func (p *Process) abort() {
	if p.w != nil {
		p.w.Close()
		p.w = nil
	}
	p.cleanup()
}

func (p *Process) cleanup() {
	if p.fifoDir != "" {
		os.RemoveAll(p.fifoDir)
		p.fifoDir = ""
	}
}

// findExecutable searches for the XMGR binary in standard locations.
// Returns the full path to the executable.
func findExecutable(program string) (string, error) {
	// 1. An explicit path
	if strings.ContainsRune(program, os.PathSeparator) {
		if isExecutable(program) {
			return program, nil
		}
		return "", fmt.Errorf("%s is not an executable file", program)
	}

	// 2. PATH
	if path, err := exec.LookPath(program); err == nil {
		return path, nil
	}

	// 3. Next to the running binary
	if selfPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(selfPath), program)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	// 4. Common install locations
	commonPaths := []string{
		"/usr/local/bin",
		"/usr/bin",
		"/opt/xmgr/bin",
		filepath.Join(homeDir(), ".local", "bin"),
	}
	for _, dir := range commonPaths {
		candidate := filepath.Join(dir, program)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%s not found in PATH or common locations", program)
}

// isExecutable checks if a file exists and is executable.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Mode().Perm()&0111 != 0
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
