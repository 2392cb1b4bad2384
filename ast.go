// ast.go — syntax tree produced by the parser and walked by the evaluator.
//
// Every node records the line/column of its first token so runtime
// diagnostics can point back into the source. Nodes own their children
// exclusively; the tree is never shared or cyclic.
package zr

// TypeName is an optional declared type on a let binding.
type TypeName int

const (
	TypeNone TypeName = iota // no annotation
	TypeInt32
	TypeInt64 // also the meaning of the bare `int` keyword
	TypeFloat
	TypeBool
	TypeString
)

func (t TypeName) String() string {
	switch t {
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	default:
		return "<none>"
	}
}

// Node is any statement or expression in the tree.
type Node interface {
	Pos() (line, col int)
}

type pos struct {
	Line int
	Col  int
}

func (p pos) Pos() (int, int) { return p.Line, p.Col }

// NumberLit is an integer or float literal carrying its raw lexeme.
// The text is parsed into a value at evaluation time.
type NumberLit struct {
	pos
	Text    string
	IsFloat bool // lexeme contains a '.'
}

// StringLit is a "-delimited string literal (quotes stripped).
type StringLit struct {
	pos
	Value string
}

// BoolLit is a `true` or `false` keyword.
type BoolLit struct {
	pos
	Value bool
}

// Ident is a variable reference.
type Ident struct {
	pos
	Name string
}

// BinaryExpr applies one of the language's binary operators. All operators
// share a single precedence tier and chains lean right (see parser.go).
type BinaryExpr struct {
	pos
	Op    string
	Left  Node
	Right Node
}

// LetStmt binds a name, with an optional declared type, to the value of its
// initializer expression.
type LetStmt struct {
	pos
	Name string
	Type TypeName
	Init Node
}

// IfStmt executes Then when the condition is true, Else (which may be nil)
// otherwise.
type IfStmt struct {
	pos
	Cond Node
	Then *BlockStmt
	Else *BlockStmt
}

// BlockStmt is an ordered statement list. The top-level program is a block.
type BlockStmt struct {
	pos
	Stmts []Node
}

// PrintStmt evaluates its operand and writes it to the interpreter's output.
type PrintStmt struct {
	pos
	Expr Node
}

// LoadStmt is a `loadin "name"` module-inclusion directive. The module
// loader intercepts these before general evaluation; see modules.go.
type LoadStmt struct {
	pos
	Name string
}
