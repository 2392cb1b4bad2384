// value.go — the runtime value model and the flat symbol table.
package zr

import (
	"fmt"
	"strconv"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTVoid  ValueTag = iota // no payload
	VTInt32                 // int32
	VTInt64                 // int64
	VTFloat                 // float64
	VTBool                  // bool
	VTStr                   // string
)

// Value is the tagged runtime carrier. The tag determines which field of
// Data is valid. Strings use Go value semantics, so reading a variable never
// aliases mutable storage.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Void is the result of empty blocks and absent branches.
var Void = Value{Tag: VTVoid}

func Int32Val(n int32) Value  { return Value{Tag: VTInt32, Data: n} }
func Int64Val(n int64) Value  { return Value{Tag: VTInt64, Data: n} }
func FloatVal(f float64) Value { return Value{Tag: VTFloat, Data: f} }
func BoolVal(b bool) Value    { return Value{Tag: VTBool, Data: b} }
func StrVal(s string) Value   { return Value{Tag: VTStr, Data: s} }

// TypeName reports the user-facing name of the value's type, as used in
// type-error messages.
func (v Value) TypeName() string {
	switch v.Tag {
	case VTInt32:
		return "int32"
	case VTInt64:
		return "int64"
	case VTFloat:
		return "float"
	case VTBool:
		return "bool"
	case VTStr:
		return "string"
	default:
		return "void"
	}
}

// FormatValue renders a value the way `print` emits it: integers in decimal,
// floats with two fixed decimals, booleans as true/false, strings verbatim,
// void as the placeholder token "void".
func FormatValue(v Value) string {
	switch v.Tag {
	case VTInt32:
		return strconv.FormatInt(int64(v.Data.(int32)), 10)
	case VTInt64:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTFloat:
		return fmt.Sprintf("%.2f", v.Data.(float64))
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTStr:
		return v.Data.(string)
	default:
		return "void"
	}
}

// SymbolTable is the single flat binding store shared by the whole run,
// nested blocks and included modules alike. ZR has no lexical block scoping:
// a later `let` of the same name overwrites the one global binding. This
// matches the language's observed behavior and is preserved deliberately;
// see DESIGN.md.
type SymbolTable struct {
	table map[string]Value
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{table: make(map[string]Value)}
}

// Define binds name to v, overwriting any previous binding.
func (s *SymbolTable) Define(name string, v Value) {
	s.table[name] = v
}

// Get retrieves the binding for name.
func (s *SymbolTable) Get(name string) (Value, bool) {
	v, ok := s.table[name]
	return v, ok
}

// Len reports the number of live bindings (used by tests and the REPL).
func (s *SymbolTable) Len() int { return len(s.table) }
