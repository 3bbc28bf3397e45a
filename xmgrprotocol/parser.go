package xmgrprotocol

import (
	"strconv"
	"strings"
)

// ParseArgs splits textual arguments into options and columns. Arguments
// of the form name=value become options; every other argument is a
// comma-separated column of numbers.
//
//	ParseArgs([]string{"sym=plus", "1,2,3", "4,5,6"})
//	// Options{"sym": "plus"}, [Float64s{1,2,3}, Float64s{4,5,6}]
func ParseArgs(args []string) (Options, []Column, error) {
	opts := Options{}
	var cols []Column
	for _, arg := range args {
		if strings.Contains(arg, "=") {
			name, value, err := ParseAssignment(arg)
			if err != nil {
				return nil, nil, err
			}
			opts[name] = value
			continue
		}
		col, err := ParseColumn(arg)
		if err != nil {
			return nil, nil, err
		}
		cols = append(cols, col)
	}
	return opts, cols, nil
}

// ParseAssignment parses "name=value". Integer and float values are
// returned as int and float64, anything else as a string.
func ParseAssignment(s string) (string, any, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if !ok || name == "" || value == "" {
		return "", nil, &ParseError{Kind: ErrKindInvalidAssignment, Value: s}
	}
	if n, err := strconv.Atoi(value); err == nil {
		return name, n, nil
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return name, f, nil
	}
	return name, value, nil
}

// ParseColumn parses a comma-separated list of numbers such as "1,4,2.5".
func ParseColumn(s string) (Float64s, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, &ParseError{Kind: ErrKindEmptyColumn}
	}
	fields := strings.Split(s, ",")
	col := make(Float64s, 0, len(fields))
	for _, f := range fields {
		trimmed := strings.TrimSpace(f)
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, &ParseError{Kind: ErrKindInvalidNumber, Value: trimmed}
		}
		col = append(col, v)
	}
	return col, nil
}
