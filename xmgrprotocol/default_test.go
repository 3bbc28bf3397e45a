package xmgrprotocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSessionRequiresInit(t *testing.T) {
	require.NoError(t, Shutdown())

	_, err := Default()
	require.ErrorIs(t, err, ErrNoSession)
	require.ErrorIs(t, Plot(nil, []float64{1}), ErrNoSession)
	require.ErrorIs(t, Configure(Options{"symbol": 1}), ErrNoSession)
	require.ErrorIs(t, SetIndex(1), ErrNoSession)
	require.ErrorIs(t, GraphIndex(1), ErrNoSession)
	require.ErrorIs(t, Send("redraw"), ErrNoSession)
}

func TestDefaultSessionDelegates(t *testing.T) {
	useWireMode(t, Addressable)
	rt := &recordingTransport{}
	s := Init(rt)
	t.Cleanup(func() { Shutdown() })

	got, err := Default()
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, SetIndex(1))
	require.NoError(t, GraphIndex(2))
	require.NoError(t, Configure(Options{"symb": "x"}))
	require.NoError(t, Send("redraw"))
	assert.Equal(t, []string{"WITH g2", "s1 SYMBOL 10", "redraw", "redraw"}, rt.sent())

	require.NoError(t, Plot(Options{"auto": 0}, []float64{3}))
	assert.Contains(t, rt.sent(), "s1 POINT 0,3")
}

func TestInitClosesPrevious(t *testing.T) {
	first := &recordingTransport{}
	Init(first)
	second := &recordingTransport{}
	Init(second)
	t.Cleanup(func() { Shutdown() })

	assert.True(t, first.closed)
	assert.False(t, second.closed)

	require.NoError(t, Shutdown())
	assert.True(t, second.closed)
	_, err := Default()
	require.ErrorIs(t, err, ErrNoSession)
}

// stuckTransport fails to close.
type stuckTransport struct{ recordingTransport }

func (*stuckTransport) Close() error { return errors.New("pipe wedged") }

func TestInitLogsPreviousCloseFailure(t *testing.T) {
	Init(&stuckTransport{})
	logger := &recordingLogger{}
	Init(&recordingTransport{}, WithLogger(logger))
	t.Cleanup(func() { Shutdown() })

	assert.Equal(t, []string{"close previous session: pipe wedged"}, logger.lines)
}
