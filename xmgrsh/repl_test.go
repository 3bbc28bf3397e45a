// =============================================================================
// repl_test.go - Tests for the REPL Loop (repl.go)
// =============================================================================
//
// Integration tests: a piped LineEditor feeds a script of shell lines to
// the REPL, whose session writes the xmgr protocol into a buffer instead
// of a pipe. The tests then compare the protocol text that would have
// reached xmgr.
//
// =============================================================================

package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timj/xmgr-go/xmgrprotocol"
)

// useWireMode switches the process-wide mode for the duration of a test.
func useWireMode(t *testing.T, m xmgrprotocol.WireMode) {
	t.Helper()
	prev := xmgrprotocol.CurrentWireMode()
	xmgrprotocol.SetWireMode(m)
	t.Cleanup(func() { xmgrprotocol.SetWireMode(prev) })
}

// replHarness wires a REPL to in-memory input and output.
type replHarness struct {
	repl    *repl
	wire    bytes.Buffer // protocol sent to xmgr
	out     bytes.Buffer // REPL stdout
	errOut  bytes.Buffer // REPL stderr
	prompts bytes.Buffer // prompts written by the editor
}

func newReplHarness(input string) *replHarness {
	h := &replHarness{}
	session := xmgrprotocol.NewSession(xmgrprotocol.NewWriterTransport(&h.wire))
	h.repl = &repl{
		session: session,
		editor:  newPipedLineEditor(strings.NewReader(input), &h.prompts),
		out:     &h.out,
		errOut:  &h.errOut,
	}
	return h
}

// sent returns the protocol lines written so far.
func (h *replHarness) sent() []string {
	text := strings.TrimSuffix(h.wire.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func TestReplPlotNamedPipe(t *testing.T) {
	useWireMode(t, xmgrprotocol.Addressable)
	h := newReplHarness("plot 1,2\n")

	require.NoError(t, h.repl.run())

	assert.Equal(t, []string{
		"WITH g0",
		"KILL s0",
		"TARGET s0",
		"TYPE xy",
		"s0 POINT 0,1",
		"s0 POINT 1,2",
		"s0 LINESTYLE 1",
		"s0 COLOR 1",
		"s0 LINEWIDTH 1",
		"s0 SYMBOL 2",
		"s0 FILL 0",
		"s0 SYMBOL SIZE 1",
		"s0 SYMBOL COLOR 2",
		"s0 SYMBOL FILL 1",
		"autoscale",
		"redraw",
	}, h.sent())
	assert.Empty(t, h.errOut.String())
}

func TestReplPlotWithOptions(t *testing.T) {
	useWireMode(t, xmgrprotocol.Addressable)
	h := newReplHarness("plot symb=plus linec=blue 1,2,3\n")

	require.NoError(t, h.repl.run())

	sent := h.sent()
	assert.Contains(t, sent, "s0 POINT 2,3")
	assert.Contains(t, sent, "s0 SYMBOL 9")
	assert.Contains(t, sent, "s0 COLOR 4")
	assert.NotContains(t, sent, "s0 SYMBOL 2")
}

func TestReplPlotStream(t *testing.T) {
	useWireMode(t, xmgrprotocol.Streaming)
	h := newReplHarness("set 1\nplot settype=xydy autoscale=off 1,2 3,4 0.5,0.25\n")

	require.NoError(t, h.repl.run())

	sent := h.sent()
	require.GreaterOrEqual(t, len(sent), 7)
	assert.Equal(t, []string{
		"@WITH g0",
		"@KILL s1",
		"@TARGET s1",
		"@TYPE xydy",
		"1 3 0.5",
		"2 4 0.25",
		"&",
	}, sent[:7])
	assert.Equal(t, "@redraw", sent[len(sent)-1])
	assert.NotContains(t, sent, "@autoscale")
}

func TestReplConfigure(t *testing.T) {
	useWireMode(t, xmgrprotocol.Addressable)
	h := newReplHarness("graph 2\nset 3\nconfigure symb=star symc=red\n")

	require.NoError(t, h.repl.run())

	assert.Equal(t, []string{
		"WITH g2",
		"s3 SYMBOL 11",
		"s3 SYMBOL COLOR 2",
		"redraw",
	}, h.sent())
}

func TestReplRawCommands(t *testing.T) {
	useWireMode(t, xmgrprotocol.Streaming)
	h := newReplHarness("send title \"Run 7\"\n@redraw\nautoscale\n")

	require.NoError(t, h.repl.run())

	assert.Equal(t, []string{
		`@title "Run 7"`,
		"@redraw",
		"@WITH g0",
		"@autoscale",
		"@redraw",
	}, h.sent())
}

func TestReplErrorsDoNotStopTheLoop(t *testing.T) {
	useWireMode(t, xmgrprotocol.Addressable)
	h := newReplHarness("plot symbol=bogus 1,2\nfrobnicate\nredraw\n")

	require.NoError(t, h.repl.run())

	assert.Equal(t, []string{"redraw"}, h.sent())
	errs := h.errOut.String()
	assert.Contains(t, errs, "Error: unknown value 'bogus' for option SYMBOL")
	assert.Contains(t, errs, "Error: unknown command 'frobnicate'")
}

func TestReplQuitStopsReading(t *testing.T) {
	h := newReplHarness(".quit\nredraw\n")

	require.NoError(t, h.repl.run())

	assert.Empty(t, h.sent())
}

func TestReplSkipsBlankLinesAndComments(t *testing.T) {
	h := newReplHarness("\n   \n# nothing here\n")

	require.NoError(t, h.repl.run())

	assert.Empty(t, h.sent())
	assert.Empty(t, h.errOut.String())
}

func TestReplPromptTracksContext(t *testing.T) {
	h := newReplHarness("set 2\ngraph 1\n")
	h.repl.showPrompt = true

	require.NoError(t, h.repl.run())

	assert.Equal(t, "[g0 s0] > [g0 s2] > [g1 s2] > ", h.prompts.String())
}

func TestReplNoPromptInDryRun(t *testing.T) {
	h := newReplHarness("set 2\n")

	require.NoError(t, h.repl.run())

	assert.Empty(t, h.prompts.String())
}

func TestReplModeSwitch(t *testing.T) {
	useWireMode(t, xmgrprotocol.Addressable)
	h := newReplHarness(".mode stream\n.mode\nredraw\n")

	require.NoError(t, h.repl.run())

	assert.Equal(t, xmgrprotocol.Streaming, xmgrprotocol.CurrentWireMode())
	assert.Equal(t, "wire mode: stream\n", h.out.String())
	assert.Equal(t, []string{"@redraw"}, h.sent())
}

func TestReplModeFixed(t *testing.T) {
	useWireMode(t, xmgrprotocol.Addressable)
	h := newReplHarness(".mode stream\n.mode named\n")
	h.repl.fixedMode = true

	require.NoError(t, h.repl.run())

	assert.Equal(t, xmgrprotocol.Addressable, xmgrprotocol.CurrentWireMode())
	assert.Contains(t, h.errOut.String(), "wire mode is fixed to named")
	assert.Equal(t, 1, strings.Count(h.errOut.String(), "Error:"))
}

func TestReplDefaults(t *testing.T) {
	h := newReplHarness(".defaults\n")

	require.NoError(t, h.repl.run())

	out := h.out.String()
	assert.Contains(t, out, "  LINESTYLE  1 (solid)\n")
	assert.Contains(t, out, "  LINECOLOUR 1 (black)\n")
	assert.Contains(t, out, "  LINEWIDTH  1\n")
	assert.Contains(t, out, "  SYMBOL     2 (circle)\n")
	assert.Contains(t, out, "  FILL       0 (none)\n")
	assert.Contains(t, out, "  AUTOSCALE  1\n")
	assert.Contains(t, out, "  SETTYPE    xy\n")
	assert.Equal(t, 10, strings.Count(out, "\n"))
}

func TestReplDefaultsFollowSession(t *testing.T) {
	h := newReplHarness(".defaults\n")
	require.NoError(t, h.repl.session.SetDefaults(xmgrprotocol.Options{"symbol": "star"}))

	require.NoError(t, h.repl.run())

	assert.Contains(t, h.out.String(), "  SYMBOL     11 (star)\n")
}

func TestReplHelp(t *testing.T) {
	h := newReplHarness(".help plot\n.help nosuchtopic\n")

	require.NoError(t, h.repl.run())

	assert.Contains(t, h.out.String(), "plot 1,4,2,6,5")
	assert.Contains(t, h.errOut.String(), "Error: no help for 'nosuchtopic'")
	assert.Empty(t, h.sent())
}

// failingTransport rejects every line.
type failingTransport struct{}

func (failingTransport) Send(string) error { return errors.New("broken pipe") }

func TestReplStopsOnTransportFailure(t *testing.T) {
	var errOut bytes.Buffer
	r := &repl{
		session: xmgrprotocol.NewSession(failingTransport{}),
		editor:  newPipedLineEditor(strings.NewReader("redraw\nredraw\n"), nil),
		out:     &bytes.Buffer{},
		errOut:  &errOut,
	}

	err := r.run()

	var te *xmgrprotocol.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, strings.Count(errOut.String(), "Error:"))
	assert.Contains(t, errOut.String(), "broken pipe")
}

func TestSymbolicName(t *testing.T) {
	tests := []struct {
		name string
		key  xmgrprotocol.Key
		v    xmgrprotocol.Value
		want string
	}{
		{"line colour", xmgrprotocol.KeyLineColour, xmgrprotocol.Code(4), " (blue)"},
		{"symbol colour", xmgrprotocol.KeySymColour, xmgrprotocol.Code(15), " (green4)"},
		{"colour out of range", xmgrprotocol.KeySymColour, xmgrprotocol.Code(16), ""},
		{"symbol", xmgrprotocol.KeySymbol, xmgrprotocol.Code(9), " (plus)"},
		{"symbol fill", xmgrprotocol.KeySymFill, xmgrprotocol.Code(2), " (opaque)"},
		{"width has no name", xmgrprotocol.KeyLineWidth, xmgrprotocol.Number(2), ""},
		{"set type has no name", xmgrprotocol.KeySetType, xmgrprotocol.Name("xy"), ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, symbolicName(tc.key, tc.v))
		})
	}
}
