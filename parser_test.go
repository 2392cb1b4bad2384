// parser_test.go
package zr

import (
	"strings"
	"testing"
)

func parse(t *testing.T, src string) *BlockStmt {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return prog
}

func wantParseError(t *testing.T, src, substr string) *ParseError {
	t.Helper()
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected parse error for %q, got none", src)
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if !strings.Contains(pe.Msg, substr) {
		t.Fatalf("error %q does not mention %q", pe.Msg, substr)
	}
	return pe
}

func Test_Parser_LetWithoutAnnotation(t *testing.T) {
	prog := parse(t, `let x = 10;`)
	if len(prog.Stmts) != 1 {
		t.Fatalf("want 1 statement, got %d", len(prog.Stmts))
	}
	ls, ok := prog.Stmts[0].(*LetStmt)
	if !ok {
		t.Fatalf("want *LetStmt, got %T", prog.Stmts[0])
	}
	if ls.Name != "x" || ls.Type != TypeNone {
		t.Fatalf("got name=%q type=%v", ls.Name, ls.Type)
	}
	if _, ok := ls.Init.(*NumberLit); !ok {
		t.Fatalf("want *NumberLit initializer, got %T", ls.Init)
	}
}

func Test_Parser_LetWithAnnotations(t *testing.T) {
	cases := []struct {
		src  string
		want TypeName
	}{
		{`let a: int32 = 1`, TypeInt32},
		{`let b: int64 = 1`, TypeInt64},
		{`let c: int = 1`, TypeInt64},
		{`let d: float = 1.0`, TypeFloat},
		{`let e: bool = true`, TypeBool},
		{`let f: string = "s"`, TypeString},
	}
	for _, tc := range cases {
		prog := parse(t, tc.src)
		ls := prog.Stmts[0].(*LetStmt)
		if ls.Type != tc.want {
			t.Fatalf("%s: declared type %v, want %v", tc.src, ls.Type, tc.want)
		}
	}
}

func Test_Parser_LetBadType(t *testing.T) {
	wantParseError(t, `let x: banana = 1`, "expected type name")
}

func Test_Parser_LetMissingEquals(t *testing.T) {
	wantParseError(t, `let x 10`, "'='")
}

func Test_Parser_LetMissingName(t *testing.T) {
	wantParseError(t, `let = 10`, "identifier after 'let'")
}

func Test_Parser_IfElse(t *testing.T) {
	prog := parse(t, `if (x > 1) { print x } else { print 0 }`)
	is, ok := prog.Stmts[0].(*IfStmt)
	if !ok {
		t.Fatalf("want *IfStmt, got %T", prog.Stmts[0])
	}
	if is.Else == nil {
		t.Fatal("else branch missing")
	}
	if len(is.Then.Stmts) != 1 || len(is.Else.Stmts) != 1 {
		t.Fatalf("branch sizes %d/%d, want 1/1", len(is.Then.Stmts), len(is.Else.Stmts))
	}
}

func Test_Parser_IfWithoutElse(t *testing.T) {
	prog := parse(t, `if (true) { print 1 }`)
	is := prog.Stmts[0].(*IfStmt)
	if is.Else != nil {
		t.Fatal("unexpected else branch")
	}
}

func Test_Parser_IfRequiresParens(t *testing.T) {
	wantParseError(t, `if x > 1 { print x }`, "'(' after 'if'")
	wantParseError(t, `if (x > 1 { print x }`, "')'")
}

func Test_Parser_UnterminatedBlock(t *testing.T) {
	wantParseError(t, `if (true) { print 1`, "unterminated block")
}

func Test_Parser_BareBlockStatement(t *testing.T) {
	prog := parse(t, `{ let x = 20; print x; };`)
	blk, ok := prog.Stmts[0].(*BlockStmt)
	if !ok {
		t.Fatalf("want *BlockStmt, got %T", prog.Stmts[0])
	}
	if len(blk.Stmts) != 2 {
		t.Fatalf("block has %d statements, want 2", len(blk.Stmts))
	}
}

// Binary chains nest to the right at a single precedence level, so
// 1 + 2 * 3 parses as 1 + (2 * 3) and 1 * 2 + 3 parses as 1 * (2 + 3).
func Test_Parser_ChainsLeanRight(t *testing.T) {
	prog := parse(t, `1 * 2 + 3`)
	top, ok := prog.Stmts[0].(*BinaryExpr)
	if !ok {
		t.Fatalf("want *BinaryExpr, got %T", prog.Stmts[0])
	}
	if top.Op != "*" {
		t.Fatalf("top operator %q, want \"*\"", top.Op)
	}
	rhs, ok := top.Right.(*BinaryExpr)
	if !ok || rhs.Op != "+" {
		t.Fatalf("right child is %T %v, want + expression", top.Right, top.Right)
	}
}

func Test_Parser_ParensGroup(t *testing.T) {
	prog := parse(t, `(1 + 2) * 3`)
	top := prog.Stmts[0].(*BinaryExpr)
	if top.Op != "*" {
		t.Fatalf("top operator %q, want \"*\"", top.Op)
	}
	lhs, ok := top.Left.(*BinaryExpr)
	if !ok || lhs.Op != "+" {
		t.Fatalf("left child is %T, want + expression", top.Left)
	}
}

// "=" lexes as a binary operator and parses into the tree; rejecting it is
// the evaluator's job.
func Test_Parser_AssignParsesAsBinaryOp(t *testing.T) {
	prog := parse(t, `x = 5`)
	be, ok := prog.Stmts[0].(*BinaryExpr)
	if !ok || be.Op != "=" {
		t.Fatalf("got %T, want = expression", prog.Stmts[0])
	}
}

func Test_Parser_FloatLiteralFlag(t *testing.T) {
	prog := parse(t, `1.5; 2`)
	if !prog.Stmts[0].(*NumberLit).IsFloat {
		t.Fatal("1.5 not flagged float")
	}
	if prog.Stmts[1].(*NumberLit).IsFloat {
		t.Fatal("2 flagged float")
	}
}

func Test_Parser_Loadin(t *testing.T) {
	prog := parse(t, `loadin "util"; print 1`)
	ld, ok := prog.Stmts[0].(*LoadStmt)
	if !ok {
		t.Fatalf("want *LoadStmt, got %T", prog.Stmts[0])
	}
	if ld.Name != "util" {
		t.Fatalf("module name %q, want util", ld.Name)
	}
}

func Test_Parser_LoadinRequiresString(t *testing.T) {
	wantParseError(t, `loadin util`, "module name string")
}

func Test_Parser_SemicolonsOptional(t *testing.T) {
	a := parse(t, "let x = 1; print x;")
	b := parse(t, "let x = 1\nprint x")
	if len(a.Stmts) != 2 || len(b.Stmts) != 2 {
		t.Fatalf("statement counts %d/%d, want 2/2", len(a.Stmts), len(b.Stmts))
	}
}

func Test_Parser_EmptyProgram(t *testing.T) {
	prog := parse(t, "")
	if len(prog.Stmts) != 0 {
		t.Fatalf("want empty program, got %d statements", len(prog.Stmts))
	}
}

func Test_Parser_LexErrorPassesThrough(t *testing.T) {
	_, err := Parse(`let x = @`)
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*LexError); !ok {
		t.Fatalf("want *LexError, got %T", err)
	}
}

func Test_Parser_ExpectedExpression(t *testing.T) {
	wantParseError(t, `print ;`, "expected expression")
	wantParseError(t, `1 + `, "expected expression")
}

func Test_Parser_PositionsOnNodes(t *testing.T) {
	prog := parse(t, "let x = 1\nprint x")
	line, col := prog.Stmts[1].Pos()
	if line != 2 || col != 0 {
		t.Fatalf("print at %d:%d, want 2:0", line, col)
	}
}
