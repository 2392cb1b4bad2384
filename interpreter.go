// interpreter.go — the tree-walking evaluator.
//
// Interp is an explicit context object: it owns the flat symbol table, the
// module registry, the source provider, and the output writer. Nothing in
// this package keeps process-wide state, so tests can run many isolated
// interpreters side by side.
//
// Every eval method returns (Value, error). A non-nil error is fatal to the
// whole run; there is no recovery path in the language, and only the
// top-level driver converts the error into a process exit.
package zr

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// TraceLevel controls optional pipeline diagnostics on stderr.
type TraceLevel int

const (
	TraceOff  TraceLevel = iota
	TraceInfo            // pipeline stages: parse, module loads, completion
	TraceEval            // additionally each evaluated statement
)

// Interp evaluates ZR programs against a single flat symbol table.
type Interp struct {
	Syms *SymbolTable
	Out  io.Writer

	provider SourceProvider
	mainDir  string // directory of the entry script, for files/ resolution

	registry  map[string]bool // canonical identities loaded or loading
	loadStack []string        // for friendly cycle chains

	trace    TraceLevel
	traceOut io.Writer
}

// New creates an interpreter writing print output to out and resolving
// loadin directives through provider. A nil provider disables loadin (every
// directive fails with a module error); a nil out defaults to stdout.
func New(provider SourceProvider, out io.Writer) *Interp {
	if out == nil {
		out = os.Stdout
	}
	return &Interp{
		Syms:     NewSymbolTable(),
		Out:      out,
		provider: provider,
		registry: make(map[string]bool),
		traceOut: os.Stderr,
	}
}

// SetTrace sets the diagnostic verbosity for this interpreter.
func (ip *Interp) SetTrace(level TraceLevel) { ip.trace = level }

func (ip *Interp) tracef(level TraceLevel, format string, args ...any) {
	if ip.trace >= level {
		fmt.Fprintf(ip.traceOut, "zr: "+format+"\n", args...)
	}
}

// Eval evaluates a single node. Statements and expressions are uniform:
// everything yields a value.
func (ip *Interp) Eval(n Node) (Value, error) {
	return ip.eval(n)
}

func (ip *Interp) eval(n Node) (Value, error) {
	switch node := n.(type) {
	case *NumberLit:
		return ip.evalNumber(node)
	case *StringLit:
		return StrVal(node.Value), nil
	case *BoolLit:
		return BoolVal(node.Value), nil
	case *Ident:
		return ip.evalIdent(node)
	case *BinaryExpr:
		return ip.evalBinary(node)
	case *LetStmt:
		return ip.evalLet(node)
	case *IfStmt:
		return ip.evalIf(node)
	case *PrintStmt:
		return ip.evalPrint(node)
	case *BlockStmt:
		return ip.evalBlock(node)
	case *LoadStmt:
		// The module loader relocates top-level loadin directives before
		// evaluation; one reaching here was nested inside a block.
		return Void, &ModuleError{Module: node.Name, Msg: "loadin is only allowed at the top level of a file"}
	default:
		line, col := n.Pos()
		return Void, &RuntimeError{Line: line, Col: col, Msg: fmt.Sprintf("internal: unknown node %T", n)}
	}
}

func (ip *Interp) evalNumber(n *NumberLit) (Value, error) {
	if n.IsFloat {
		f, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return Void, &RuntimeError{Line: n.Line, Col: n.Col, Msg: fmt.Sprintf("invalid float literal %q", n.Text)}
		}
		return FloatVal(f), nil
	}
	v, err := strconv.ParseInt(n.Text, 10, 64)
	if err != nil {
		return Void, &RuntimeError{Line: n.Line, Col: n.Col, Msg: fmt.Sprintf("integer literal %s out of 64-bit range", n.Text)}
	}
	return Int64Val(v), nil
}

func (ip *Interp) evalIdent(n *Ident) (Value, error) {
	v, ok := ip.Syms.Get(n.Name)
	if !ok {
		return Void, &RuntimeError{Line: n.Line, Col: n.Col, Msg: fmt.Sprintf("undefined variable %q", n.Name)}
	}
	return v, nil
}

func isNumeric(v Value) bool {
	return v.Tag == VTInt32 || v.Tag == VTInt64 || v.Tag == VTFloat
}

// widen promotes a numeric pair along Int32 → Int64 → Float: if either side
// is a float both become floats, otherwise both become int64.
func widen(a, b Value) (Value, Value) {
	if a.Tag == VTFloat || b.Tag == VTFloat {
		return FloatVal(toFloat(a)), FloatVal(toFloat(b))
	}
	return Int64Val(toInt64(a)), Int64Val(toInt64(b))
}

func toFloat(v Value) float64 {
	switch v.Tag {
	case VTInt32:
		return float64(v.Data.(int32))
	case VTInt64:
		return float64(v.Data.(int64))
	default:
		return v.Data.(float64)
	}
}

func toInt64(v Value) int64 {
	if v.Tag == VTInt32 {
		return int64(v.Data.(int32))
	}
	return v.Data.(int64)
}

func (ip *Interp) evalBinary(n *BinaryExpr) (Value, error) {
	// Both operands evaluate unconditionally, left to right. ZR's && and ||
	// do not short-circuit.
	lv, err := ip.eval(n.Left)
	if err != nil {
		return Void, err
	}
	rv, err := ip.eval(n.Right)
	if err != nil {
		return Void, err
	}

	switch n.Op {
	case "+", "-", "*", "/":
		return ip.evalArith(n, lv, rv)
	case ">", "<", "<=", ">=", "==", "!=":
		return ip.evalCompare(n, lv, rv)
	case "&&", "||":
		return ip.evalLogical(n, lv, rv)
	default:
		return Void, ip.typeErrf(n, "unsupported operator %q for %s and %s", n.Op, lv.TypeName(), rv.TypeName())
	}
}

func (ip *Interp) typeErrf(n Node, format string, args ...any) error {
	line, col := n.Pos()
	return &TypeError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (ip *Interp) evalArith(n *BinaryExpr, lv, rv Value) (Value, error) {
	if !isNumeric(lv) || !isNumeric(rv) {
		return Void, ip.typeErrf(n, "operator %q requires numeric operands, got %s and %s", n.Op, lv.TypeName(), rv.TypeName())
	}
	a, b := widen(lv, rv)
	if a.Tag == VTFloat {
		x, y := a.Data.(float64), b.Data.(float64)
		switch n.Op {
		case "+":
			return FloatVal(x + y), nil
		case "-":
			return FloatVal(x - y), nil
		case "*":
			return FloatVal(x * y), nil
		default: // "/"
			if y == 0 {
				return Void, &RuntimeError{Line: n.Line, Col: n.Col, Msg: "division by zero"}
			}
			return FloatVal(x / y), nil
		}
	}
	x, y := a.Data.(int64), b.Data.(int64)
	switch n.Op {
	case "+":
		return Int64Val(x + y), nil
	case "-":
		return Int64Val(x - y), nil
	case "*":
		return Int64Val(x * y), nil
	default: // "/"
		if y == 0 {
			return Void, &RuntimeError{Line: n.Line, Col: n.Col, Msg: "division by zero"}
		}
		return Int64Val(x / y), nil
	}
}

func (ip *Interp) evalCompare(n *BinaryExpr, lv, rv Value) (Value, error) {
	// Strings support equality only.
	if lv.Tag == VTStr && rv.Tag == VTStr {
		switch n.Op {
		case "==":
			return BoolVal(lv.Data.(string) == rv.Data.(string)), nil
		case "!=":
			return BoolVal(lv.Data.(string) != rv.Data.(string)), nil
		default:
			return Void, ip.typeErrf(n, "operator %q is not defined for string and string", n.Op)
		}
	}
	if !isNumeric(lv) || !isNumeric(rv) {
		return Void, ip.typeErrf(n, "operator %q requires numeric operands, got %s and %s", n.Op, lv.TypeName(), rv.TypeName())
	}
	a, b := widen(lv, rv)
	if a.Tag == VTFloat {
		x, y := a.Data.(float64), b.Data.(float64)
		switch n.Op {
		case ">":
			return BoolVal(x > y), nil
		case "<":
			return BoolVal(x < y), nil
		case "<=":
			return BoolVal(x <= y), nil
		case ">=":
			return BoolVal(x >= y), nil
		case "==":
			return BoolVal(x == y), nil
		default: // "!="
			return BoolVal(x != y), nil
		}
	}
	x, y := a.Data.(int64), b.Data.(int64)
	switch n.Op {
	case ">":
		return BoolVal(x > y), nil
	case "<":
		return BoolVal(x < y), nil
	case "<=":
		return BoolVal(x <= y), nil
	case ">=":
		return BoolVal(x >= y), nil
	case "==":
		return BoolVal(x == y), nil
	default: // "!="
		return BoolVal(x != y), nil
	}
}

func (ip *Interp) evalLogical(n *BinaryExpr, lv, rv Value) (Value, error) {
	// No truthiness coercion: both sides must already be bool.
	if lv.Tag != VTBool || rv.Tag != VTBool {
		return Void, ip.typeErrf(n, "operator %q requires bool operands, got %s and %s", n.Op, lv.TypeName(), rv.TypeName())
	}
	x, y := lv.Data.(bool), rv.Data.(bool)
	if n.Op == "&&" {
		return BoolVal(x && y), nil
	}
	return BoolVal(x || y), nil
}

func (ip *Interp) evalLet(n *LetStmt) (Value, error) {
	v, err := ip.eval(n.Init)
	if err != nil {
		return Void, err
	}
	v, err = convertDeclared(n, v)
	if err != nil {
		return Void, err
	}
	ip.Syms.Define(n.Name, v)
	return v, nil
}

// convertDeclared reconciles an explicit `: type` annotation with the
// initializer's actual type. Only a narrow set of conversions is allowed:
// int32→int64, int64→int32 with a range check, and integer→float. Anything
// else, including any conversion into or out of string or bool, is fatal.
func convertDeclared(n *LetStmt, v Value) (Value, error) {
	mismatch := func() error {
		return &TypeError{Line: n.Line, Col: n.Col,
			Msg: fmt.Sprintf("cannot initialize %q declared %s with a %s value", n.Name, n.Type, v.TypeName())}
	}
	switch n.Type {
	case TypeNone:
		return v, nil
	case TypeInt64:
		switch v.Tag {
		case VTInt64:
			return v, nil
		case VTInt32:
			return Int64Val(int64(v.Data.(int32))), nil
		}
		return Void, mismatch()
	case TypeInt32:
		switch v.Tag {
		case VTInt32:
			return v, nil
		case VTInt64:
			x := v.Data.(int64)
			if x < math.MinInt32 || x > math.MaxInt32 {
				return Void, &RuntimeError{Line: n.Line, Col: n.Col,
					Msg: fmt.Sprintf("value %d overflows int32 in initialization of %q", x, n.Name)}
			}
			return Int32Val(int32(x)), nil
		}
		return Void, mismatch()
	case TypeFloat:
		switch v.Tag {
		case VTFloat:
			return v, nil
		case VTInt32:
			return FloatVal(float64(v.Data.(int32))), nil
		case VTInt64:
			return FloatVal(float64(v.Data.(int64))), nil
		}
		return Void, mismatch()
	case TypeBool:
		if v.Tag == VTBool {
			return v, nil
		}
		return Void, mismatch()
	case TypeString:
		if v.Tag == VTStr {
			return v, nil
		}
		return Void, mismatch()
	default:
		return Void, mismatch()
	}
}

func (ip *Interp) evalIf(n *IfStmt) (Value, error) {
	cond, err := ip.eval(n.Cond)
	if err != nil {
		return Void, err
	}
	if cond.Tag != VTBool {
		return Void, ip.typeErrf(n, "if condition must be bool, got %s", cond.TypeName())
	}
	branch := n.Then
	if !cond.Data.(bool) {
		branch = n.Else
	}
	if branch == nil {
		return Void, nil
	}
	return ip.evalBlock(branch)
}

func (ip *Interp) evalPrint(n *PrintStmt) (Value, error) {
	v, err := ip.eval(n.Expr)
	if err != nil {
		return Void, err
	}
	// The writer is never buffered by this package, so each print is
	// observable before the next statement runs.
	fmt.Fprintln(ip.Out, FormatValue(v))
	return v, nil
}

func (ip *Interp) evalBlock(n *BlockStmt) (Value, error) {
	result := Void
	for _, st := range n.Stmts {
		v, err := ip.eval(st)
		if err != nil {
			return Void, err
		}
		if ip.trace >= TraceEval {
			line, col := st.Pos()
			ip.tracef(TraceEval, "eval %T at %d:%d -> %s", st, line, col+1, v.TypeName())
		}
		result = v
	}
	return result, nil
}
