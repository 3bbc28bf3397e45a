package xmgrprotocol

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandType represents the type of an XMGR command line.
type CommandType int

const (
	// Addressing
	CmdWithGraph CommandType = iota
	CmdKillSet
	CmdTargetSet
	CmdSetType

	// Set attributes
	CmdLineStyle
	CmdLineColour
	CmdLineWidth
	CmdSymbol
	CmdFill
	CmdSymbolSize
	CmdSymbolColour
	CmdSymbolFill

	// Display
	CmdAutoscale
	CmdRedraw

	// Raw passes Text through unchanged
	CmdRaw
)

// Command is one XMGR command. Use the constructor functions to create
// Command instances; only the fields relevant to Type are populated.
type Command struct {
	Type  CommandType
	Set   int    // For set-addressed commands
	Graph int    // For CmdWithGraph
	Value Value  // For attribute commands and CmdSetType
	Text  string // For CmdRaw
}

// NewWithGraphCommand selects the graph subsequent commands apply to.
func NewWithGraphCommand(graph int) Command {
	return Command{Type: CmdWithGraph, Graph: graph}
}

// NewKillSetCommand discards any existing data in a set.
func NewKillSetCommand(set int) Command {
	return Command{Type: CmdKillSet, Set: set}
}

// NewTargetSetCommand directs incoming data to a set.
func NewTargetSetCommand(set int) Command {
	return Command{Type: CmdTargetSet, Set: set}
}

// NewSetTypeCommand declares the column layout of incoming data.
func NewSetTypeCommand(setType Name) Command {
	return Command{Type: CmdSetType, Value: setType}
}

// NewAutoscaleCommand rescales the axes of the current graph.
func NewAutoscaleCommand() Command {
	return Command{Type: CmdAutoscale}
}

// NewRedrawCommand repaints the display.
func NewRedrawCommand() Command {
	return Command{Type: CmdRedraw}
}

// NewRawCommand wraps an arbitrary command line.
func NewRawCommand(text string) Command {
	return Command{Type: CmdRaw, Text: text}
}

// attributeCommands maps each emitted attribute to its command type.
// AUTOSCALE and SETTYPE have no attribute line.
var attributeCommands = map[Key]CommandType{
	KeyLineStyle:  CmdLineStyle,
	KeyLineColour: CmdLineColour,
	KeyLineWidth:  CmdLineWidth,
	KeySymbol:     CmdSymbol,
	KeyFill:       CmdFill,
	KeySymSize:    CmdSymbolSize,
	KeySymColour:  CmdSymbolColour,
	KeySymFill:    CmdSymbolFill,
}

// NewAttributeCommand sets one attribute of a set. ok is false for
// attributes that have no attribute line.
func NewAttributeCommand(set int, key Key, value Value) (cmd Command, ok bool) {
	t, ok := attributeCommands[key]
	if !ok {
		return Command{}, false
	}
	return Command{Type: t, Set: set, Value: value}, true
}

// Format returns the command text without line terminator or stream prefix.
func (c Command) Format() string {
	switch c.Type {
	case CmdWithGraph:
		return fmt.Sprintf("WITH g%d", c.Graph)
	case CmdKillSet:
		return fmt.Sprintf("KILL s%d", c.Set)
	case CmdTargetSet:
		return fmt.Sprintf("TARGET s%d", c.Set)
	case CmdSetType:
		return "TYPE " + valueString(c.Value)
	case CmdLineStyle:
		return fmt.Sprintf("s%d LINESTYLE %s", c.Set, valueString(c.Value))
	case CmdLineColour:
		return fmt.Sprintf("s%d COLOR %s", c.Set, valueString(c.Value))
	case CmdLineWidth:
		return fmt.Sprintf("s%d LINEWIDTH %s", c.Set, valueString(c.Value))
	case CmdSymbol:
		return fmt.Sprintf("s%d SYMBOL %s", c.Set, valueString(c.Value))
	case CmdFill:
		return fmt.Sprintf("s%d FILL %s", c.Set, valueString(c.Value))
	case CmdSymbolSize:
		return fmt.Sprintf("s%d SYMBOL SIZE %s", c.Set, valueString(c.Value))
	case CmdSymbolColour:
		return fmt.Sprintf("s%d SYMBOL COLOR %s", c.Set, valueString(c.Value))
	case CmdSymbolFill:
		return fmt.Sprintf("s%d SYMBOL FILL %s", c.Set, valueString(c.Value))
	case CmdAutoscale:
		return "autoscale"
	case CmdRedraw:
		return "redraw"
	case CmdRaw:
		return c.Text
	default:
		return ""
	}
}

// Line converts the command into a script line.
func (c Command) Line() Line {
	return Line{Kind: LineCommand, Text: c.Format()}
}

func valueString(v Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// LineKind distinguishes commands from data on the wire.
type LineKind int

const (
	// LineCommand is a protocol command.
	LineCommand LineKind = iota
	// LineData is one row of streaming data.
	LineData
	// LineSeparator closes a streamed dataset.
	LineSeparator
)

// Line is one line of a Script.
type Line struct {
	Kind LineKind
	Text string
}

// Format returns the line as written to the pipe in the given mode,
// including the trailing newline.
func (l Line) Format(mode WireMode) string {
	if mode == Streaming && l.Kind == LineCommand {
		return StreamCommandPrefix + l.Text + "\n"
	}
	return l.Text + "\n"
}

// Script is an ordered sequence of lines produced for one call.
type Script []Line

// Strings returns the bare text of every line.
func (s Script) Strings() []string {
	out := make([]string, len(s))
	for i, l := range s {
		out[i] = l.Text
	}
	return out
}

// AddressingContext names the set and graph commands are addressed to.
type AddressingContext struct {
	Set   int
	Graph int
}

// EmitOptionCommands returns one attribute line per attribute present in
// m, in Keys order, followed by "autoscale" if AUTOSCALE is present and
// true. The graph must already be selected. SETTYPE is not emitted.
func EmitOptionCommands(m MergedOptions, ctx AddressingContext) []string {
	var lines []string
	for _, key := range Keys() {
		v, ok := m[key]
		if !ok {
			continue
		}
		if cmd, ok := NewAttributeCommand(ctx.Set, key, v); ok {
			lines = append(lines, cmd.Format())
		}
	}
	if v, ok := m[KeyAutoscale]; ok && truthy(rawOf(v)) {
		lines = append(lines, NewAutoscaleCommand().Format())
	}
	return lines
}

// FormatDataRow formats one row of data. Addressable mode uses the first
// two components as "s<set> POINT x,y" and drops the rest; streaming mode
// joins every component with single spaces.
func FormatDataRow(row []float64, ctx AddressingContext, mode WireMode) string {
	if mode == Streaming {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = formatNumber(v)
		}
		return strings.Join(parts, " ")
	}

	var x, y float64
	if len(row) > 0 {
		x = row[0]
	}
	if len(row) > 1 {
		y = row[1]
	}
	return fmt.Sprintf("s%d POINT %s,%s", ctx.Set, formatNumber(x), formatNumber(y))
}

// EmitPlotSequence builds the full script for plotting columns into the
// addressed set: select graph, kill and target the set, declare its type,
// send every row, close the dataset (streaming only), apply attributes,
// and redraw. A single column is plotted against its index.
func EmitPlotSequence(columns []Column, m MergedOptions, ctx AddressingContext, mode WireMode) (Script, error) {
	if len(columns) == 0 {
		return nil, &InputError{Index: 0, Value: nil}
	}
	if len(columns) == 1 {
		columns = []Column{indexColumn(columns[0].Len()), columns[0]}
	}

	setType, ok := m[KeySetType].(Name)
	if !ok {
		setType = defaultOptions[KeySetType].(Name)
	}

	script := Script{
		NewWithGraphCommand(ctx.Graph).Line(),
		NewKillSetCommand(ctx.Set).Line(),
		NewTargetSetCommand(ctx.Set).Line(),
		NewSetTypeCommand(setType).Line(),
	}

	for _, row := range Rows(columns) {
		kind := LineCommand
		if mode == Streaming {
			kind = LineData
		}
		script = append(script, Line{Kind: kind, Text: FormatDataRow(row, ctx, mode)})
	}
	if mode == Streaming {
		script = append(script, Line{Kind: LineSeparator, Text: RecordSeparator})
	}

	for _, text := range EmitOptionCommands(m, ctx) {
		script = append(script, Line{Kind: LineCommand, Text: text})
	}
	script = append(script, NewRedrawCommand().Line())
	return script, nil
}

// EmitConfigureSequence builds the script that restyles the addressed set
// with the attributes in m, then redraws.
func EmitConfigureSequence(m MergedOptions, ctx AddressingContext) Script {
	script := Script{NewWithGraphCommand(ctx.Graph).Line()}
	for _, text := range EmitOptionCommands(m, ctx) {
		script = append(script, Line{Kind: LineCommand, Text: text})
	}
	return append(script, NewRedrawCommand().Line())
}

// formatNumber renders v in plain decimal with up to 15 significant digits,
// switching to exponent form only for very large or small magnitudes.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 15, 64)
}
