// =============================================================================
// translate.go - Shell Command Translation
// =============================================================================
//
// Turns one line typed at the xmgrsh prompt into a shellCommand, which the
// REPL then runs against the session. The shell syntax is:
//
//	plot [name=value ...] <col> [<col> ...]   col = 1,4,2,6,5
//	configure name=value ...
//	set <n>
//	graph <n>
//	send <xmgr command>        (or a line starting with @)
//	redraw
//	autoscale
//	.mode [named|stream]
//	.defaults
//	.help [topic]
//	.quit
//
// Arguments are split with shell quoting rules (google/shlex), so values
// containing spaces can be quoted. "send" and "@" lines are passed to xmgr
// verbatim, quotes included.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/timj/xmgr-go/xmgrprotocol"
)

// commandKind identifies what a shell line asks for.
type commandKind int

const (
	cmdPlot commandKind = iota
	cmdConfigure
	cmdSet
	cmdGraph
	cmdSend
	cmdRedraw
	cmdAutoscale
	cmdMode
	cmdDefaults
	cmdHelp
	cmdQuit
)

// shellCommand is a parsed shell line. Only the fields relevant to kind
// are populated.
type shellCommand struct {
	kind    commandKind
	opts    xmgrprotocol.Options
	columns []xmgrprotocol.Column
	index   int
	text    string // raw command for cmdSend, topic for cmdHelp
	mode    xmgrprotocol.WireMode
	modeSet bool // whether .mode named a mode
}

// errEmptyLine is returned for blank lines and comments.
var errEmptyLine = errors.New("empty line")

// parseCommand translates one shell line.
func parseCommand(line string) (shellCommand, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return shellCommand{}, errEmptyLine
	}

	// Raw xmgr commands keep their quoting.
	if strings.HasPrefix(trimmed, xmgrprotocol.StreamCommandPrefix) {
		return rawCommand(trimmed[len(xmgrprotocol.StreamCommandPrefix):])
	}
	keyword, rest, _ := strings.Cut(trimmed, " ")
	if strings.ToLower(keyword) == "send" {
		return rawCommand(rest)
	}

	fields, err := shlex.Split(trimmed)
	if err != nil {
		return shellCommand{}, fmt.Errorf("cannot parse line: %w", err)
	}
	if len(fields) == 0 {
		return shellCommand{}, errEmptyLine
	}
	keyword = strings.ToLower(fields[0])
	args := fields[1:]

	switch keyword {
	case "plot", "p":
		return parsePlot(args)
	case "configure", "conf", "c":
		return parseConfigure(args)
	case "set", "s":
		n, err := parseIndex("set", args)
		return shellCommand{kind: cmdSet, index: n}, err
	case "graph", "g":
		n, err := parseIndex("graph", args)
		return shellCommand{kind: cmdGraph, index: n}, err
	case "redraw":
		return shellCommand{kind: cmdRedraw}, noArgs(keyword, args)
	case "autoscale":
		return shellCommand{kind: cmdAutoscale}, noArgs(keyword, args)
	case ".mode":
		return parseMode(args)
	case ".defaults":
		return shellCommand{kind: cmdDefaults}, noArgs(keyword, args)
	case ".help", "help", "?":
		return shellCommand{kind: cmdHelp, text: strings.Join(args, " ")}, nil
	case ".quit", ".exit", "quit", "exit":
		return shellCommand{kind: cmdQuit}, nil
	default:
		return shellCommand{}, fmt.Errorf("unknown command '%s'. Type .help for available commands", fields[0])
	}
}

func rawCommand(text string) (shellCommand, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return shellCommand{}, errors.New("send requires an xmgr command")
	}
	return shellCommand{kind: cmdSend, text: text}, nil
}

func parsePlot(args []string) (shellCommand, error) {
	opts, cols, err := xmgrprotocol.ParseArgs(args)
	if err != nil {
		return shellCommand{}, err
	}
	if len(cols) == 0 {
		return shellCommand{}, errors.New("plot requires at least one column, e.g. plot 1,4,2,6,5")
	}
	return shellCommand{kind: cmdPlot, opts: opts, columns: cols}, nil
}

func parseConfigure(args []string) (shellCommand, error) {
	opts, cols, err := xmgrprotocol.ParseArgs(args)
	if err != nil {
		return shellCommand{}, err
	}
	if len(cols) > 0 {
		return shellCommand{}, errors.New("configure takes only name=value options")
	}
	if len(opts) == 0 {
		return shellCommand{}, errors.New("configure requires at least one name=value option")
	}
	return shellCommand{kind: cmdConfigure, opts: opts}, nil
}

func parseIndex(what string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s requires one index", what)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s index '%s'", what, args[0])
	}
	return n, nil
}

func parseMode(args []string) (shellCommand, error) {
	switch len(args) {
	case 0:
		return shellCommand{kind: cmdMode}, nil
	case 1:
		m, ok := xmgrprotocol.ParseWireMode(strings.ToLower(args[0]))
		if !ok {
			return shellCommand{}, fmt.Errorf("unknown wire mode '%s' (want named or stream)", args[0])
		}
		return shellCommand{kind: cmdMode, mode: m, modeSet: true}, nil
	default:
		return shellCommand{}, errors.New(".mode takes at most one argument")
	}
}

func noArgs(keyword string, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%s takes no arguments", keyword)
	}
	return nil
}
