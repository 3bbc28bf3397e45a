// =============================================================================
// lineeditor.go - Line Editor with Dual-Mode Operation
// =============================================================================
//
// The shell reads commands either from a terminal or from a pipe:
//
//   - Interactive mode: ergochat/readline gives Emacs keybindings,
//     persistent history (~/.xmgrsh_history) and Ctrl-R history search.
//   - Non-interactive mode: bufio.Scanner reads plain lines. This is what
//     runs when a script is piped in ("xmgrsh < session.xmgr") or when the
//     shell sits inside Emacs comint.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName is the default history file in the user's home
	// directory.
	historyFileName = ".xmgrsh_history"

	// historySize is the maximum number of history entries to retain.
	historySize = 500
)

// LineEditor wraps line editing with dual-mode operation.
//
// GO CONCEPT: Struct Fields with Mixed Visibility
// ------------------------------------------------
// All fields are lowercase (unexported), so only this package can touch
// them. The exported methods GetLine(), Close() and IsInteractive() are
// the whole API the REPL relies on.
type LineEditor struct {
	// interactive is true when readline is in use.
	interactive bool

	// rl is the readline instance (interactive mode only).
	rl *readline.Instance

	// scanner reads lines in non-interactive mode.
	scanner *bufio.Scanner

	// promptOut receives the prompt in non-interactive mode.
	promptOut io.Writer
}

// NewLineEditor creates a line editor over stdin, choosing readline when
// stdin is a terminal and we are not inside Emacs. historyPath may be
// empty to disable history.
func NewLineEditor(historyPath string) *LineEditor {
	isInteractive := term.IsTerminal(int(os.Stdin.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""

	if !isInteractive {
		return newPipedLineEditor(os.Stdin, os.Stdout)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath,
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		Prompt:                 "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newPipedLineEditor(os.Stdin, os.Stdout)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
	}
}

// newPipedLineEditor creates a non-interactive editor reading r and
// printing prompts to w.
func newPipedLineEditor(r io.Reader, w io.Writer) *LineEditor {
	return &LineEditor{
		interactive: false,
		scanner:     bufio.NewScanner(r),
		promptOut:   w,
	}
}

// GetLine displays the prompt and reads one line of input.
// Returns io.EOF at end of input or when Ctrl-C is pressed.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	// Only non-empty lines go into history.
	trimmed := strings.TrimSpace(line)
	if trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}

	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	if prompt != "" && le.promptOut != nil {
		fmt.Fprint(le.promptOut, prompt)
	}

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return le.scanner.Text(), nil
}

// Close releases readline resources. Safe to call more than once.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether readline is in use.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}
