package xmgrprotocol

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the XMGR protocol.
var (
	// ErrUnknownOption indicates an option name matched no attribute.
	ErrUnknownOption = errors.New("unknown option")

	// ErrAmbiguousOption indicates an option prefix matched more than one
	// attribute, or two names in one map resolved to the same attribute.
	ErrAmbiguousOption = errors.New("ambiguous option")

	// ErrUnknownValue indicates a value is not valid for its attribute.
	ErrUnknownValue = errors.New("unknown option value")

	// ErrUnsupportedInputType indicates a dataset argument is neither a
	// numeric sequence nor a multi-dimensional numeric array.
	ErrUnsupportedInputType = errors.New("unsupported input type")

	// ErrInvalidIndex indicates a negative set or graph index.
	ErrInvalidIndex = errors.New("invalid index")

	// ErrNoSession indicates the default session has not been initialized.
	ErrNoSession = errors.New("no default session")

	// ErrProcessExited indicates XMGR exited before it could be used.
	ErrProcessExited = errors.New("xmgr process exited")

	// ErrNamedPipeUnsupported indicates the platform cannot create FIFOs.
	ErrNamedPipeUnsupported = errors.New("named pipes not supported on this platform")

	// ErrClosed indicates a send on a closed transport.
	ErrClosed = errors.New("transport closed")
)

// OptionErrorKind categorizes option errors.
type OptionErrorKind int

const (
	// ErrKindUnknownOption indicates an unrecognized option name.
	ErrKindUnknownOption OptionErrorKind = iota
	// ErrKindAmbiguousOption indicates a prefix with several matches.
	ErrKindAmbiguousOption
	// ErrKindDuplicateOption indicates two names for the same attribute.
	ErrKindDuplicateOption
	// ErrKindUnknownValue indicates a value absent from the translation table.
	ErrKindUnknownValue
)

// OptionError represents a failure to resolve or translate one option.
type OptionError struct {
	Kind       OptionErrorKind
	Name       string   // The option name as supplied
	Value      any      // The offending value (ErrKindUnknownValue only)
	Candidates []string // Matching attributes (ambiguous/duplicate only)
}

// Error implements the error interface.
func (e *OptionError) Error() string {
	switch e.Kind {
	case ErrKindUnknownOption:
		return fmt.Sprintf("unknown option '%s'", e.Name)
	case ErrKindAmbiguousOption:
		return fmt.Sprintf("ambiguous option '%s' (matches %s)", e.Name, strings.Join(e.Candidates, ", "))
	case ErrKindDuplicateOption:
		return fmt.Sprintf("option '%s' given more than once (as %s)", e.Name, strings.Join(e.Candidates, ", "))
	case ErrKindUnknownValue:
		return fmt.Sprintf("unknown value '%v' for option %s", e.Value, e.Name)
	default:
		return fmt.Sprintf("option error: %s", e.Name)
	}
}

// Is maps each kind onto its sentinel so callers can use errors.Is.
func (e *OptionError) Is(target error) bool {
	switch e.Kind {
	case ErrKindUnknownOption:
		return target == ErrUnknownOption
	case ErrKindAmbiguousOption, ErrKindDuplicateOption:
		return target == ErrAmbiguousOption
	case ErrKindUnknownValue:
		return target == ErrUnknownValue
	}
	return false
}

func newUnknownOptionError(name string) error {
	return &OptionError{Kind: ErrKindUnknownOption, Name: name}
}

func newAmbiguousOptionError(name string, candidates []string) error {
	return &OptionError{Kind: ErrKindAmbiguousOption, Name: name, Candidates: candidates}
}

func newDuplicateOptionError(key Key, names []string) error {
	return &OptionError{Kind: ErrKindDuplicateOption, Name: key.String(), Candidates: names}
}

func newUnknownValueError(key Key, value any) error {
	return &OptionError{Kind: ErrKindUnknownValue, Name: key.String(), Value: value}
}

// InputError reports a dataset argument that cannot be coerced to columns.
type InputError struct {
	Index int // Position of the argument in the call
	Value any
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("unsupported input type %T for dataset argument %d", e.Value, e.Index)
}

// Unwrap returns ErrUnsupportedInputType for errors.Is support.
func (e *InputError) Unwrap() error {
	return ErrUnsupportedInputType
}

// TransportError represents a failure delivering a line to XMGR.
type TransportError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transport failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transport failed: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// NewTransportError creates a new transport error.
func NewTransportError(message string, cause error) error {
	return &TransportError{Message: message, Cause: cause}
}

// ParseError represents malformed option or column text.
type ParseError struct {
	Kind  ParseErrorKind
	Value string // The text that could not be parsed
}

// ParseErrorKind categorizes parsing errors.
type ParseErrorKind int

const (
	// ErrKindInvalidNumber indicates a column entry that is not a number.
	ErrKindInvalidNumber ParseErrorKind = iota
	// ErrKindInvalidAssignment indicates an option without a name or value.
	ErrKindInvalidAssignment
	// ErrKindEmptyColumn indicates a column with no entries.
	ErrKindEmptyColumn
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindInvalidNumber:
		return fmt.Sprintf("invalid number '%s'", e.Value)
	case ErrKindInvalidAssignment:
		return fmt.Sprintf("invalid option assignment '%s'", e.Value)
	case ErrKindEmptyColumn:
		return "empty column"
	default:
		return fmt.Sprintf("parse error: %s", e.Value)
	}
}
