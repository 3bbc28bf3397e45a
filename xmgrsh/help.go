// =============================================================================
// help.go - Help Text for Shell Commands
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/timj/xmgr-go/xmgrprotocol"
)

const helpOverview = `Commands:
  plot [opt=val ...] <col> [<col> ...]   Replace the current set with data
  configure opt=val ...                   Restyle the current set
  set <n>                                 Select set n
  graph <n>                               Select graph n
  send <xmgr command>                     Send a raw command (or start a line with @)
  redraw                                  Repaint
  autoscale                               Rescale the current graph
  .mode [named|stream]                    Show or change the wire mode
  .defaults                               Show option defaults
  .help [topic]                           Show help (topics: plot, configure, options, colours)
  .quit                                   Exit
`

var helpTopics = map[string]string{
	"plot": `plot [opt=val ...] <col> [<col> ...]

  Replaces the data in the current set and redraws. Columns are
  comma-separated numbers. One column is plotted against its index;
  with several columns the first is x. Shorter columns are padded with 0.

  In named mode only the first two columns are sent. In stream mode
  every column is sent, so set settype to match (e.g. settype=xydy).

  Examples:
    plot 1,4,2,6,5
    plot symb=plus linec=blue 0,1,2 1,4,9
    plot settype=xydy 1,2,3 2,4,6 0.1,0.2,0.1`,

	"configure": `configure opt=val ...

  Changes only the attributes given on the current set, then redraws.

  Example:
    configure symbol=star symcolour=red`,

	"options": `Options (names are case-insensitive and may be abbreviated):
  linestyle   none solid dotted dashed longdashed dotdashed
  linecolour  colour name or 0-15 (alias linecolor)
  linewidth   number
  fill        none filled opaque
  symbol      none dot circle square diamond triangleup triangleleft
              triangledown triangleright plus x star
  symcolour   colour name or 0-15 (alias symcolor)
  symsize     number
  symfill     none filled opaque
  autoscale   0/1, on/off
  settype     xy xydx xydy xydxdx xydydy xydxdy xyz ...`,

	"send": `send <xmgr command>
@<xmgr command>

  Sends the rest of the line to xmgr unchanged.

  Example:
    send title "Results"`,
}

// printHelp writes the overview, or the help for one topic.
func printHelp(w io.Writer, topic string) error {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(topic)), ".")
	switch key {
	case "":
		fmt.Fprint(w, helpOverview)
		return nil
	case "colours", "colors":
		fmt.Fprintln(w, "Colours:")
		for _, name := range xmgrprotocol.TableNames(xmgrprotocol.KeyLineColour) {
			code, _ := xmgrprotocol.Translate(xmgrprotocol.KeyLineColour, name)
			fmt.Fprintf(w, "  %2s  %s\n", code, name)
		}
		return nil
	}
	if text, ok := helpTopics[key]; ok {
		fmt.Fprintln(w, text)
		return nil
	}
	return fmt.Errorf("no help for '%s'. Type .help to see available commands", topic)
}
