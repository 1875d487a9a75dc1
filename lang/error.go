package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors returned by the parser are derived from these with [Error.With] or
// [Error.Wrap] and still match them with [errors.Is].
var (
	ErrUndefinedConstant       = NewError("undefined constant")
	ErrMissingDictionaryName   = NewError("missing dictionary name")
	ErrUnexpectedClose         = NewError("unexpected close")
	ErrInvalidEntrySyntax      = NewError("invalid dictionary entry")
	ErrInvalidValueLiteral     = NewError("invalid value")
	ErrMissingNestedTerminator = NewError("expected ';' after nested dictionary")
	ErrUnknownSyntax           = NewError("invalid syntax")
	ErrStackLimit              = NewError("maximum nesting depth exceeded")
	ErrReadInput               = NewError("failed to read input")
	ErrPathNotFound            = NewError("path not found")
	ErrExprCompile             = NewError("expression compilation failed")
	ErrExprEvaluate            = NewError("expression evaluation failed")
	ErrMarshal                 = NewError("marshal document")
	ErrUnrepresentable         = NewError("not representable in native syntax")
)

// Error represents an error with an optional source location and structured
// logging attributes. It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	base  *Error      // sentinel this error was derived from
	err   error       // Wrapped error (for errors.Unwrap)
	line  int         // 1-based input line, 0 if unknown
	text  string      // raw input line
	name  string      // offending identifier or literal
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message is built from whichever fields are set, in order:
//
//	<msg> "<name>" at line <line>: "<text>": <err>
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.name != "" {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(strconv.Quote(e.name))
	}

	if e.line > 0 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString("at line ")
		sb.WriteString(strconv.Itoa(e.line))
	}

	if e.text != "" {
		sb.WriteString(": ")
		sb.WriteString(strconv.Quote(e.text))
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || (e.base != nil && e.base == t.root())
}

// Line returns the 1-based input line the error refers to, or 0.
func (e *Error) Line() int { return e.line }

// Text returns the raw (untrimmed) input line the error refers to.
func (e *Error) Text() string { return e.text }

// Name returns the offending identifier or literal, if any.
func (e *Error) Name() string { return e.name }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.name != "" {
		attrs = append(attrs, slog.String("name", e.name))
	}

	if e.line > 0 {
		attrs = append(attrs, slog.Int("line", e.line))
	}

	if e.text != "" {
		attrs = append(attrs, slog.String("text", e.text))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// at returns a copy of e located at the given input line.
func (e *Error) at(ln sourceLine) *Error {
	c := e.clone()
	c.line = ln.num
	c.text = ln.raw

	return c
}

// named returns a copy of e referring to the given identifier or literal.
func (e *Error) named(name string) *Error {
	c := e.clone()
	c.name = name

	return c
}

func (e *Error) clone() *Error {
	c := *e
	c.base = e.root()

	return &c
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// IsReferenceError reports whether err is a failed constant lookup, as
// opposed to malformed grammar.
func IsReferenceError(err error) bool {
	return errors.Is(err, ErrUndefinedConstant)
}
