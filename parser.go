// parser.go — recursive-descent parser for ZR.
//
// The parser pulls tokens from the lexer one at a time (single token of
// lookahead) and builds the tree in ast.go. Statements may be terminated by
// an optional semicolon; blocks are `{ ... }`.
//
// Expressions are deliberately parsed with a single flat operator tier: a
// primary followed by one loop over every binary operator, recursing into
// parseExpression for the right-hand side. There is no precedence climbing,
// so `1 + 2 * 3` builds `1 + (2 * 3)` and every operator chain leans right.
// This replicates the language's converged grammar; introducing standard
// precedence would change observable results and is out of scope here.
package zr

import "fmt"

type parser struct {
	lx  *Lexer
	tok Token // current token (one of lookahead)
}

// Parse lexes and parses a complete program into its top-level block.
func Parse(src string) (*BlockStmt, error) {
	p := &parser{lx: NewLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseProgram()
}

func (p *parser) advance() error {
	t, err := p.lx.NextToken()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) errf(format string, args ...any) error {
	return &ParseError{Line: p.tok.Line, Col: p.tok.Col, Msg: fmt.Sprintf(format, args...)}
}

// expect consumes the current token when it matches kind, else fails.
func (p *parser) expect(kind TokenKind, what string) (Token, error) {
	if p.tok.Kind != kind {
		return Token{}, p.errf("expected %s, found %s", what, describeToken(p.tok))
	}
	t := p.tok
	if err := p.advance(); err != nil {
		return Token{}, err
	}
	return t, nil
}

func describeToken(t Token) string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Text)
}

func (p *parser) parseProgram() (*BlockStmt, error) {
	prog := &BlockStmt{pos: pos{Line: p.tok.Line, Col: p.tok.Col}}
	for p.tok.Kind != EOF {
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, st)
	}
	return prog, nil
}

func (p *parser) parseStatement() (Node, error) {
	var (
		st  Node
		err error
	)
	switch p.tok.Kind {
	case LET:
		st, err = p.parseLet()
	case IF:
		st, err = p.parseIf()
	case PRINT:
		st, err = p.parsePrint()
	case LOADIN:
		st, err = p.parseLoadin()
	case LBRACE:
		st, err = p.parseBlock()
	default:
		st, err = p.parseExpression()
	}
	if err != nil {
		return nil, err
	}
	// Trailing semicolons are tolerated, not required.
	if p.tok.Kind == SEMICOLON {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// let_stmt := 'let' IDENT (':' type_name)? '=' expression
func (p *parser) parseLet() (Node, error) {
	at := pos{Line: p.tok.Line, Col: p.tok.Col}
	if err := p.advance(); err != nil { // 'let'
		return nil, err
	}
	name, err := p.expect(IDENT, "identifier after 'let'")
	if err != nil {
		return nil, err
	}

	declared := TypeNone
	if p.tok.Kind == COLON {
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.tok.Kind {
		case TYPE_INT, TYPE_INT64:
			declared = TypeInt64
		case TYPE_INT32:
			declared = TypeInt32
		case TYPE_FLOAT:
			declared = TypeFloat
		case TYPE_BOOL:
			declared = TypeBool
		case TYPE_STRING:
			declared = TypeString
		default:
			return nil, p.errf("expected type name after ':', found %s", describeToken(p.tok))
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(ASSIGN, "'=' in let statement"); err != nil {
		return nil, err
	}
	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &LetStmt{pos: at, Name: name.Text, Type: declared, Init: init}, nil
}

// if_stmt := 'if' '(' expression ')' block ('else' block)?
func (p *parser) parseIf() (Node, error) {
	at := pos{Line: p.tok.Line, Col: p.tok.Col}
	if err := p.advance(); err != nil { // 'if'
		return nil, err
	}
	if _, err := p.expect(LPAREN, "'(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "')' after if condition"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els *BlockStmt
	if p.tok.Kind == ELSE {
		if err := p.advance(); err != nil {
			return nil, err
		}
		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{pos: at, Cond: cond, Then: then, Else: els}, nil
}

// block := '{' statement* '}'
func (p *parser) parseBlock() (*BlockStmt, error) {
	open, err := p.expect(LBRACE, "'{'")
	if err != nil {
		return nil, err
	}
	blk := &BlockStmt{pos: pos{Line: open.Line, Col: open.Col}}
	for p.tok.Kind != RBRACE {
		if p.tok.Kind == EOF {
			return nil, p.errf("unterminated block, expected '}'")
		}
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, st)
	}
	if err := p.advance(); err != nil { // '}'
		return nil, err
	}
	return blk, nil
}

func (p *parser) parsePrint() (Node, error) {
	at := pos{Line: p.tok.Line, Col: p.tok.Col}
	if err := p.advance(); err != nil { // 'print'
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &PrintStmt{pos: at, Expr: expr}, nil
}

// loadin_stmt := 'loadin' STRING
func (p *parser) parseLoadin() (Node, error) {
	at := pos{Line: p.tok.Line, Col: p.tok.Col}
	if err := p.advance(); err != nil { // 'loadin'
		return nil, err
	}
	name, err := p.expect(STRING, "module name string after 'loadin'")
	if err != nil {
		return nil, err
	}
	return &LoadStmt{pos: at, Name: name.Text}, nil
}

func isBinaryOp(k TokenKind) bool {
	switch k {
	case PLUS, MINUS, STAR, SLASH,
		GT, LT, ASSIGN, EQ, LTEQ, GTEQ, NEQ,
		ANDAND, OROR:
		return true
	default:
		return false
	}
}

// expression := primary (binop expression)?
//
// The right-hand side recurses, so the loop body runs at most once and every
// operator chain nests to the right at one precedence level.
func (p *parser) parseExpression() (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for isBinaryOp(p.tok.Kind) {
		op := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			pos:   pos{Line: op.Line, Col: op.Col},
			Op:    op.Text,
			Left:  left,
			Right: right,
		}
	}
	return left, nil
}

func (p *parser) parsePrimary() (Node, error) {
	at := pos{Line: p.tok.Line, Col: p.tok.Col}
	switch p.tok.Kind {
	case IDENT:
		n := &Ident{pos: at, Name: p.tok.Text}
		return n, p.advance()
	case NUMBER:
		n := &NumberLit{pos: at, Text: p.tok.Text, IsFloat: containsDot(p.tok.Text)}
		return n, p.advance()
	case STRING:
		n := &StringLit{pos: at, Value: p.tok.Text}
		return n, p.advance()
	case TRUE:
		return &BoolLit{pos: at, Value: true}, p.advance()
	case FALSE:
		return &BoolLit{pos: at, Value: false}, p.advance()
	case LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.errf("expected expression, found %s", describeToken(p.tok))
	}
}

func containsDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}
