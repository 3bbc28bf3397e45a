// =============================================================================
// repl.go - Read-Eval-Print Loop
// =============================================================================
//
// Reads shell lines, translates them (translate.go) and runs them against
// the xmgr session. Success is silent; failures print "Error: ..." on
// stderr and the loop carries on, since a bad option map never reaches
// xmgr. A transport failure ends the loop because the pipe is gone.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/timj/xmgr-go/xmgrprotocol"
)

// lineReader is the part of LineEditor the REPL needs.
type lineReader interface {
	GetLine(prompt string) (string, error)
}

// repl holds the state of one interactive session.
type repl struct {
	session *xmgrprotocol.Session
	editor  lineReader
	out     io.Writer
	errOut  io.Writer

	// fixedMode is true when a real xmgr is attached; its pipe type was
	// chosen at launch so .mode cannot change it.
	fixedMode bool

	// showPrompt is false in dry-run mode so stdout carries only protocol.
	showPrompt bool
}

// prompt shows the current graph and set, e.g. "[g0 s1] > ".
func (r *repl) prompt() string {
	if !r.showPrompt {
		return ""
	}
	ctx := r.session.Context()
	return fmt.Sprintf("[g%d s%d] > ", ctx.Graph, ctx.Set)
}

// run reads and executes lines until EOF, .quit or a transport failure.
func (r *repl) run() error {
	for {
		line, err := r.editor.GetLine(r.prompt())
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		quit, err := r.execLine(line)
		if err != nil {
			fmt.Fprintf(r.errOut, "Error: %v\n", err)
			var te *xmgrprotocol.TransportError
			if errors.As(err, &te) {
				return err
			}
		}
		if quit {
			return nil
		}
	}
}

// execLine translates and runs one line. quit is true for .quit.
func (r *repl) execLine(line string) (quit bool, err error) {
	cmd, err := parseCommand(line)
	if err != nil {
		if errors.Is(err, errEmptyLine) {
			return false, nil
		}
		return false, err
	}

	switch cmd.kind {
	case cmdPlot:
		data := make([]any, len(cmd.columns))
		for i, c := range cmd.columns {
			data[i] = c
		}
		return false, r.session.Plot(cmd.opts, data...)
	case cmdConfigure:
		return false, r.session.Configure(cmd.opts)
	case cmdSet:
		return false, r.session.SetIndex(cmd.index)
	case cmdGraph:
		return false, r.session.GraphIndex(cmd.index)
	case cmdSend:
		return false, r.session.Send(cmd.text)
	case cmdRedraw:
		return false, r.session.Redraw()
	case cmdAutoscale:
		return false, r.session.Autoscale()
	case cmdMode:
		return false, r.switchMode(cmd)
	case cmdDefaults:
		printDefaults(r.out, r.session.Defaults())
		return false, nil
	case cmdHelp:
		return false, printHelp(r.out, cmd.text)
	case cmdQuit:
		return true, nil
	}
	return false, nil
}

func (r *repl) switchMode(cmd shellCommand) error {
	if !cmd.modeSet {
		fmt.Fprintf(r.out, "wire mode: %s\n", xmgrprotocol.CurrentWireMode())
		return nil
	}
	if r.fixedMode && cmd.mode != xmgrprotocol.CurrentWireMode() {
		return fmt.Errorf("wire mode is fixed to %s by the running xmgr", xmgrprotocol.CurrentWireMode())
	}
	xmgrprotocol.SetWireMode(cmd.mode)
	return nil
}

// printDefaults lists the session defaults, one attribute per line, with
// the symbolic name next to coded values.
func printDefaults(w io.Writer, defaults xmgrprotocol.MergedOptions) {
	for _, key := range xmgrprotocol.Keys() {
		v, ok := defaults[key]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-10s %s%s\n", key, v, symbolicName(key, v))
	}
}

func symbolicName(key xmgrprotocol.Key, v xmgrprotocol.Value) string {
	code, ok := v.(xmgrprotocol.Code)
	if !ok {
		return ""
	}
	switch key {
	case xmgrprotocol.KeyLineColour, xmgrprotocol.KeySymColour:
		if name := xmgrprotocol.ColourName(code); name != "" {
			return " (" + name + ")"
		}
		return ""
	}
	for _, name := range xmgrprotocol.TableNames(key) {
		if c, err := xmgrprotocol.Translate(key, name); err == nil && c == code {
			return " (" + name + ")"
		}
	}
	return ""
}
