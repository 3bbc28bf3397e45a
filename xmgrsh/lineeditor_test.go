// =============================================================================
// lineeditor_test.go - Tests for Line Editor (lineeditor.go)
// =============================================================================
//
// The interactive path (ergochat/readline) needs a real TTY, so these tests
// exercise the non-interactive path. NewLineEditor is tested by pointing
// os.Stdin at a pipe, which makes term.IsTerminal report false.
//
// =============================================================================

package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withPipedStdin replaces os.Stdin with a pipe holding input.
func withPipedStdin(t *testing.T, input string) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	orig := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = orig
		r.Close()
	})
}

func TestNewLineEditorNonInteractive(t *testing.T) {
	withPipedStdin(t, "plot 1,2\n")

	le := NewLineEditor("")
	defer le.Close()

	assert.False(t, le.IsInteractive())
	assert.Nil(t, le.rl)
	require.NotNil(t, le.scanner)

	line, err := le.GetLine("")
	require.NoError(t, err)
	assert.Equal(t, "plot 1,2", line)
}

func TestNewLineEditorInsideEmacs(t *testing.T) {
	withPipedStdin(t, "")
	t.Setenv("INSIDE_EMACS", "29.1,comint")

	le := NewLineEditor("")
	defer le.Close()

	assert.False(t, le.IsInteractive())
}

func TestGetLineReadsLines(t *testing.T) {
	le := newPipedLineEditor(strings.NewReader("set 1\n\n  plot 1,2  \nredraw"), nil)

	var lines []string
	for {
		line, err := le.GetLine("")
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}

	// Whitespace is preserved and a missing final newline is fine.
	assert.Equal(t, []string{"set 1", "", "  plot 1,2  ", "redraw"}, lines)
}

func TestGetLineEOFOnEmptyInput(t *testing.T) {
	le := newPipedLineEditor(strings.NewReader(""), nil)

	_, err := le.GetLine("> ")
	assert.Equal(t, io.EOF, err)
}

func TestGetLineWritesPrompt(t *testing.T) {
	var prompts bytes.Buffer
	le := newPipedLineEditor(strings.NewReader("a\n"), &prompts)

	_, err := le.GetLine("[g0 s0] > ")
	require.NoError(t, err)
	_, err = le.GetLine("")
	assert.Equal(t, io.EOF, err)

	assert.Equal(t, "[g0 s0] > ", prompts.String())
}

func TestGetLineLongInput(t *testing.T) {
	col := strings.Repeat("1.5,", 5000) + "2"
	le := newPipedLineEditor(strings.NewReader("plot "+col+"\n"), nil)

	line, err := le.GetLine("")
	require.NoError(t, err)
	assert.Equal(t, "plot "+col, line)
}

func TestCloseIsIdempotent(t *testing.T) {
	le := newPipedLineEditor(strings.NewReader(""), nil)
	le.Close()
	le.Close()
}

func TestHistoryConstants(t *testing.T) {
	assert.Equal(t, ".xmgrsh_history", historyFileName)
	assert.Positive(t, historySize)
}
