// errors.go — the error taxonomy and caret-snippet rendering.
//
// Every error in ZR is fatal: the language has no catch or retry construct.
// The lexer, parser, evaluator, and module loader signal failure with one of
// the typed errors below; only the top-level driver (cmd/zr) turns an error
// into process termination. WrapErrorWithName augments positioned errors
// with a numbered source snippet and a caret under the offending column:
//
//	PARSE ERROR in main.zr at 3:12: expected ')'
//
//	   2 | let x = (1 + 2
//	   3 |              ;
//	     |            ^
//	   4 | print x
package zr

import (
	"fmt"
	"strings"
)

// LexError is an invalid character or unterminated string. Col is 0-based.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// ParseError is an unexpected token or malformed statement. Col is 0-based.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// TypeError is an incompatible operand or declared-type mismatch found
// during evaluation. Col is 0-based.
type TypeError struct {
	Line int
	Col  int
	Msg  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("TYPE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// RuntimeError is a value-level failure: division by zero, out-of-range
// literal, undefined variable, overflow on a narrowing conversion.
type RuntimeError struct {
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// ModuleError is an unresolvable, duplicate, or circular loadin target. It
// carries no source position; the module chain is part of the message.
type ModuleError struct {
	Module string
	Msg    string
}

func (e *ModuleError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("MODULE ERROR (%s): %s", e.Module, e.Msg)
	}
	return fmt.Sprintf("MODULE ERROR: %s", e.Msg)
}

// WrapErrorWithSource is WrapErrorWithName without a source label.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName returns an error whose message is a caret-annotated
// snippet of src for the positioned error kinds, and err unchanged for
// everything else.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", snippet(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *TypeError:
		return fmt.Errorf("%s", snippet(src, "TYPE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *RuntimeError:
		return fmt.Errorf("%s", snippet(src, "RUNTIME ERROR", srcName, e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// snippet builds the multi-line caret rendering. Coordinates are treated as
// 1-based and clamped to the source bounds so rendering never panics.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
