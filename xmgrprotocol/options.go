package xmgrprotocol

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Key identifies one drawing attribute of a set.
type Key int

// Keys in emission order.
const (
	KeyLineStyle Key = iota
	KeyLineColour
	KeyLineWidth
	KeySymbol
	KeyFill
	KeySymSize
	KeySymColour
	KeySymFill
	KeyAutoscale
	KeySetType

	numKeys
)

var keyNames = [numKeys]string{
	KeyLineStyle:  "LINESTYLE",
	KeyLineColour: "LINECOLOUR",
	KeyLineWidth:  "LINEWIDTH",
	KeySymbol:     "SYMBOL",
	KeyFill:       "FILL",
	KeySymSize:    "SYMSIZE",
	KeySymColour:  "SYMCOLOUR",
	KeySymFill:    "SYMFILL",
	KeyAutoscale:  "AUTOSCALE",
	KeySetType:    "SETTYPE",
}

// String returns the canonical upper-case attribute name.
func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// Keys returns every attribute in emission order.
func Keys() []Key {
	keys := make([]Key, numKeys)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

// synonyms are applied after case-folding, before matching.
var synonyms = map[string]string{
	"LINECOLOR": "LINECOLOUR",
	"SYMCOLOR":  "SYMCOLOUR",
}

// Value is the canonical (translated) form of an option value.
type Value interface {
	String() string
	isValue()
}

// Code is an entry of a translation table.
type Code int

// Number is a numeric pass-through value (LINEWIDTH, SYMSIZE).
type Number float64

// Flag is a boolean value (AUTOSCALE).
type Flag bool

// Name is a canonical lower-case token (SETTYPE).
type Name string

func (c Code) String() string   { return strconv.Itoa(int(c)) }
func (n Number) String() string { return formatNumber(float64(n)) }
func (n Name) String() string   { return string(n) }

func (f Flag) String() string {
	if f {
		return "1"
	}
	return "0"
}

func (Code) isValue()   {}
func (Number) isValue() {}
func (Flag) isValue()   {}
func (Name) isValue()   {}

// colourTable is shared by LINECOLOUR and SYMCOLOUR.
var colourTable = map[string]int{
	"white":     0,
	"black":     1,
	"red":       2,
	"green":     3,
	"blue":      4,
	"yellow":    5,
	"brown":     6,
	"grey":      7,
	"violet":    8,
	"cyan":      9,
	"magenta":   10,
	"orange":    11,
	"indigo":    12,
	"maroon":    13,
	"turquoise": 14,
	"green4":    15,
}

var lineStyleTable = map[string]int{
	"none":       0,
	"solid":      1,
	"dotted":     2,
	"dashed":     3,
	"longdashed": 4,
	"dotdashed":  5,
}

var symbolTable = map[string]int{
	"none":          0,
	"dot":           1,
	"circle":        2,
	"square":        3,
	"diamond":       4,
	"triangleup":    5,
	"triangleleft":  6,
	"triangledown":  7,
	"triangleright": 8,
	"plus":          9,
	"x":             10,
	"star":          11,
}

var fillTable = map[string]int{
	"none":   0,
	"filled": 1,
	"opaque": 2,
}

// setTypes are the common set types, listed by TableNames. Translate
// passes other single-word types through unchecked.
var setTypes = map[string]bool{
	"xy":        true,
	"xydx":      true,
	"xydy":      true,
	"xydxdx":    true,
	"xydydy":    true,
	"xydxdy":    true,
	"xyz":       true,
	"xyzw":      true,
	"xyr":       true,
	"xyuv":      true,
	"xyhilo":    true,
	"xyboxplot": true,
	"xystring":  true,
	"bar":       true,
}

// tables maps each coded attribute to its translation table.
var tables = map[Key]map[string]int{
	KeyLineStyle:  lineStyleTable,
	KeyLineColour: colourTable,
	KeySymbol:     symbolTable,
	KeyFill:       fillTable,
	KeySymColour:  colourTable,
	KeySymFill:    fillTable,
}

var colourNames = func() map[int]string {
	names := make(map[int]string, len(colourTable))
	for name, code := range colourTable {
		names[code] = name
	}
	return names
}()

// ColourName returns the colour name for a code, or "" if out of range.
func ColourName(code Code) string {
	return colourNames[int(code)]
}

// TableNames returns the symbolic values accepted by key, sorted by code.
// It returns nil for attributes without a translation table.
func TableNames(key Key) []string {
	table, ok := tables[key]
	if !ok {
		if key == KeySetType {
			names := make([]string, 0, len(setTypes))
			for name := range setTypes {
				names = append(names, name)
			}
			sort.Strings(names)
			return names
		}
		return nil
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if table[names[i]] != table[names[j]] {
			return table[names[i]] < table[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Options is a loosely-typed option map as supplied by a caller. Keys are
// attribute names or unambiguous prefixes in any case.
type Options map[string]any

// MergedOptions maps attributes to canonical values.
type MergedOptions map[Key]Value

// Clone returns a copy of m.
func (m MergedOptions) Clone() MergedOptions {
	c := make(MergedOptions, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// defaultOptions is seeded once and never mutated; DefaultOptions hands
// out copies.
var defaultOptions = MergedOptions{
	KeyLineStyle:  Code(1),
	KeyLineColour: Code(1),
	KeyLineWidth:  Number(1),
	KeyFill:       Code(0),
	KeySymbol:     Code(2),
	KeySymColour:  Code(2),
	KeySymSize:    Number(1),
	KeySymFill:    Code(1),
	KeyAutoscale:  Flag(true),
	KeySetType:    Name("xy"),
}

// DefaultOptions returns a fresh copy of the built-in defaults.
func DefaultOptions() MergedOptions {
	return defaultOptions.Clone()
}

// Resolve maps an option name to its attribute. Matching is
// case-insensitive, applies the LINECOLOR/SYMCOLOR synonyms, and accepts
// any prefix that selects exactly one attribute.
func Resolve(name string) (Key, error) {
	folded := strings.ToUpper(strings.TrimSpace(name))
	if folded == "" {
		return 0, newUnknownOptionError(name)
	}
	if canonical, ok := synonyms[folded]; ok {
		folded = canonical
	}

	var matches []Key
	for k := Key(0); k < numKeys; k++ {
		full := keyNames[k]
		if full == folded {
			return k, nil
		}
		if strings.HasPrefix(full, folded) {
			matches = append(matches, k)
			continue
		}
		for syn, canonical := range synonyms {
			if canonical == full && strings.HasPrefix(syn, folded) {
				matches = append(matches, k)
				break
			}
		}
	}

	switch len(matches) {
	case 0:
		return 0, newUnknownOptionError(name)
	case 1:
		return matches[0], nil
	default:
		candidates := make([]string, len(matches))
		for i, k := range matches {
			candidates[i] = k.String()
		}
		return 0, newAmbiguousOptionError(name, candidates)
	}
}

// Translate converts a raw value into the canonical form for key.
func Translate(key Key, raw any) (Value, error) {
	if v, ok := raw.(Value); ok {
		raw = rawOf(v)
	}

	switch key {
	case KeyLineWidth, KeySymSize:
		f, ok := toFloat(raw)
		if !ok {
			return nil, newUnknownValueError(key, raw)
		}
		return Number(f), nil
	case KeyAutoscale:
		return Flag(truthy(raw)), nil
	case KeySetType:
		s, ok := raw.(string)
		if !ok {
			return nil, newUnknownValueError(key, raw)
		}
		name := strings.ToLower(strings.TrimSpace(s))
		if name == "" || strings.ContainsAny(name, " \t\r\n") {
			return nil, newUnknownValueError(key, raw)
		}
		return Name(name), nil
	}

	table, ok := tables[key]
	if !ok {
		return nil, newUnknownValueError(key, raw)
	}
	if b, ok := raw.(bool); ok && (key == KeyFill || key == KeySymFill) {
		if b {
			return Code(1), nil
		}
		return Code(0), nil
	}
	if code, ok := toInt(raw); ok {
		if validCode(table, code) {
			return Code(code), nil
		}
		return nil, newUnknownValueError(key, raw)
	}
	if s, ok := raw.(string); ok {
		if code, ok := table[strings.ToLower(strings.TrimSpace(s))]; ok {
			return Code(code), nil
		}
	}
	return nil, newUnknownValueError(key, raw)
}

// MergeMode selects what Merge returns.
type MergeMode int

const (
	// MergeFull overlays the overrides on every default.
	MergeFull MergeMode = iota
	// MergeRestricted returns only the attributes named in the overrides.
	MergeRestricted
)

// Merge resolves and translates overrides. In MergeFull mode the result is
// defaults overlaid with the overrides; in MergeRestricted mode it holds
// only the overridden attributes. defaults is not modified.
func Merge(defaults MergedOptions, overrides Options, mode MergeMode) (MergedOptions, error) {
	translated := make(MergedOptions, len(overrides))
	seen := make(map[Key]string, len(overrides))

	// Sorted so the reported error does not depend on map order.
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key, err := Resolve(name)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[key]; dup {
			return nil, newDuplicateOptionError(key, []string{prev, name})
		}
		seen[key] = name

		v, err := Translate(key, overrides[name])
		if err != nil {
			return nil, err
		}
		translated[key] = v
	}

	if mode == MergeRestricted {
		return translated, nil
	}

	merged := make(MergedOptions, numKeys)
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range translated {
		merged[k] = v
	}
	return merged, nil
}

func validCode(table map[string]int, code int) bool {
	for _, c := range table {
		if c == code {
			return true
		}
	}
	return false
}

// rawOf unwraps an already canonical value so it can be re-validated
// against another attribute.
func rawOf(v Value) any {
	switch v := v.(type) {
	case Code:
		return int(v)
	case Number:
		return float64(v)
	case Flag:
		return bool(v)
	case Name:
		return string(v)
	}
	return v
}

// toInt accepts integers, integral floats and integer strings.
func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		if v <= math.MaxInt {
			return int(v), true
		}
	case uintptr:
		if uint64(v) <= math.MaxInt {
			return int(v), true
		}
	case float32:
		f := float64(v)
		if f == math.Trunc(f) {
			return int(f), true
		}
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int(v), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	if n, ok := toInt(raw); ok {
		return float64(n), true
	}
	return 0, false
}

// truthy coerces AUTOSCALE values. Strings are false when empty or one of
// 0/false/no/off/none; numbers are false when zero; nil is false.
func truthy(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false", "no", "off", "none":
			return false
		}
		return true
	}
	if f, ok := toFloat(raw); ok {
		return f != 0
	}
	return true
}
