// Package xmgrprotocol drives the XMGR plotting program by writing its
// line-oriented command language over a pipe.
//
// The package has three layers:
//
//   - An option registry that resolves attribute names (case-insensitive,
//     minimum-match, with LINECOLOR/SYMCOLOR synonyms) and translates
//     symbolic values such as "circle" or "dashed" into XMGR's integer codes.
//   - A command serializer that turns merged options and numeric columns
//     into an ordered Script of protocol lines.
//   - A Session that sends a Script through a Transport, plus a launcher
//     that spawns XMGR behind an anonymous or named pipe.
//
// # Wire Modes
//
// XMGR accepts commands in two ways, selected by the process-wide switch
// SetWireMode:
//
//	Addressable (xmgr -npipe <fifo>):
//	    WITH g0
//	    KILL s0
//	    TARGET s0
//	    TYPE xy
//	    s0 POINT 0,1
//	    s0 POINT 1,4
//	    s0 LINESTYLE 1
//	    redraw
//
//	Streaming (xmgr -pipe, commands on stdin):
//	    @WITH g0
//	    @KILL s0
//	    @TARGET s0
//	    @TYPE xy
//	    0 1
//	    1 4
//	    &
//	    @s0 LINESTYLE 1
//	    @redraw
//
// In streaming mode every row is written as-is and the dataset is closed
// with the record separator "&".
//
// # Basic Usage
//
//	proc, err := xmgrprotocol.Launch(ctx, xmgrprotocol.LaunchConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s := xmgrprotocol.NewSession(proc)
//	defer s.Close()
//
//	err = s.Plot(xmgrprotocol.Options{"symbol": "plus", "linecol": "blue"},
//	    []float64{1, 4, 2, 6, 5})
//
// # Options
//
// Option maps are loosely typed: keys may be any unambiguous prefix of an
// attribute name in any case, and values may be symbolic names, integer
// codes or numbers. Plot merges them over the session defaults; Configure
// translates only the keys given, so a live set can be restyled without
// re-asserting its other attributes.
//
// # Thread Safety
//
// The registry tables are read-only after initialization. A Session
// serializes its own calls with a mutex, so one Session may be shared
// between goroutines; the lines of two concurrent calls never interleave.
package xmgrprotocol
