// lexer.go — tokenizer for ZR source text.
//
// The lexer is a pull scanner: NextToken produces one token per call until it
// reaches EOF. It tracks 1-based lines and 0-based columns (rendered 1-based
// by the error formatter in errors.go). Number tokens keep their raw lexeme;
// no value parsing happens here.
package zr

import "fmt"

// TokenKind enumerates every lexical token ZR produces.
type TokenKind int

const (
	// Special
	EOF TokenKind = iota

	// Literals & identifiers
	IDENT
	NUMBER
	STRING

	// Operators
	PLUS   // "+"
	MINUS  // "-"
	STAR   // "*"
	SLASH  // "/"
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	LT     // "<"
	GT     // ">"
	LTEQ   // "<="
	GTEQ   // ">="
	ANDAND // "&&"
	OROR   // "||"
	BANG   // "!"

	// Punctuation
	LPAREN    // "("
	RPAREN    // ")"
	LBRACE    // "{"
	RBRACE    // "}"
	SEMICOLON // ";"
	COMMA     // ","
	COLON     // ":"

	// Keywords
	LET
	IF
	ELSE
	WHILE
	PRINT
	FUNC
	RETURN
	TRUE
	FALSE
	AND
	OR
	NOT
	LOADIN

	// Type-name keywords
	TYPE_INT
	TYPE_INT32
	TYPE_INT64
	TYPE_FLOAT
	TYPE_BOOL
	TYPE_STRING
)

// Token is a lexical token with its raw text and source position.
type Token struct {
	Kind TokenKind
	Text string
	Line int // 1-based
	Col  int // 0-based column of the token's first byte
}

var keywords = map[string]TokenKind{
	"let":    LET,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"print":  PRINT,
	"func":   FUNC,
	"return": RETURN,
	"true":   TRUE,
	"false":  FALSE,
	"and":    AND,
	"or":     OR,
	"not":    NOT,
	"loadin": LOADIN,
	"int":    TYPE_INT,
	"int32":  TYPE_INT32,
	"int64":  TYPE_INT64,
	"float":  TYPE_FLOAT,
	"bool":   TYPE_BOOL,
	"string": TYPE_STRING,
}

// Lexer scans ZR source into tokens, one NextToken call at a time.
type Lexer struct {
	src  string
	cur  int
	line int // 1-based
	col  int // 0-based column of src[cur]
}

// NewLexer creates a lexer over the given source text.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekNext() (byte, bool) {
	if l.cur+1 >= len(l.src) {
		return 0, false
	}
	return l.src[l.cur+1], true
}

func (l *Lexer) advance() byte {
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

func (l *Lexer) err(line, col int, format string, args ...any) error {
	return &LexError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// skipWhitespaceAndComments eats whitespace and // line comments. A comment
// may be followed by more whitespace or another comment.
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '/':
			if nx, ok := l.peekNext(); ok && nx == '/' {
				for !l.isAtEnd() {
					if c, _ := l.peek(); c == '\n' {
						break
					}
					l.advance()
				}
				continue
			}
			return
		default:
			return
		}
	}
}

// scanNumber consumes [0-9]+(\.[0-9]+)? and returns the raw lexeme. The dot
// is only consumed when a digit follows it; a second dot is left in the
// stream for the next call to reject.
func (l *Lexer) scanNumber() string {
	start := l.cur
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	if b, ok := l.peek(); ok && b == '.' {
		if nx, ok := l.peekNext(); ok && isDigit(nx) {
			l.advance() // '.'
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}
	return l.src[start:l.cur]
}

// scanString consumes a "-delimited string after the opening quote has been
// read. Newline or end of input before the closing quote is fatal.
func (l *Lexer) scanString(line, col int) (string, error) {
	start := l.cur
	for !l.isAtEnd() {
		ch, _ := l.peek()
		if ch == '\n' {
			return "", l.err(line, col, "unterminated string literal")
		}
		if ch == '"' {
			text := l.src[start:l.cur]
			l.advance() // closing quote
			return text, nil
		}
		l.advance()
	}
	return "", l.err(line, col, "unterminated string literal")
}

// NextToken scans and returns the next token. The sequence ends with an EOF
// token; calling NextToken again after EOF keeps returning EOF.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()

	line, col := l.line, l.col
	if l.isAtEnd() {
		return Token{Kind: EOF, Line: line, Col: col}, nil
	}

	tok := func(k TokenKind, text string) Token {
		return Token{Kind: k, Text: text, Line: line, Col: col}
	}

	ch := l.advance()
	switch ch {
	case '+':
		return tok(PLUS, "+"), nil
	case '-':
		return tok(MINUS, "-"), nil
	case '*':
		return tok(STAR, "*"), nil
	case '/':
		return tok(SLASH, "/"), nil
	case '(':
		return tok(LPAREN, "("), nil
	case ')':
		return tok(RPAREN, ")"), nil
	case '{':
		return tok(LBRACE, "{"), nil
	case '}':
		return tok(RBRACE, "}"), nil
	case ';':
		return tok(SEMICOLON, ";"), nil
	case ',':
		return tok(COMMA, ","), nil
	case ':':
		return tok(COLON, ":"), nil
	case '=':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return tok(EQ, "=="), nil
		}
		return tok(ASSIGN, "="), nil
	case '<':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return tok(LTEQ, "<="), nil
		}
		return tok(LT, "<"), nil
	case '>':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return tok(GTEQ, ">="), nil
		}
		return tok(GT, ">"), nil
	case '!':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return tok(NEQ, "!="), nil
		}
		return tok(BANG, "!"), nil
	case '&':
		if b, ok := l.peek(); ok && b == '&' {
			l.advance()
			return tok(ANDAND, "&&"), nil
		}
		return Token{}, l.err(line, col, "expected '&&', found lone '&'")
	case '|':
		if b, ok := l.peek(); ok && b == '|' {
			l.advance()
			return tok(OROR, "||"), nil
		}
		return Token{}, l.err(line, col, "expected '||', found lone '|'")
	case '"':
		text, err := l.scanString(line, col)
		if err != nil {
			return Token{}, err
		}
		return tok(STRING, text), nil
	}

	if isDigit(ch) {
		l.cur--
		l.col--
		return tok(NUMBER, l.scanNumber()), nil
	}
	if isAlpha(ch) {
		start := l.cur - 1
		for {
			b, ok := l.peek()
			if !ok || !isAlphaNum(b) {
				break
			}
			l.advance()
		}
		text := l.src[start:l.cur]
		if kw, ok := keywords[text]; ok {
			return tok(kw, text), nil
		}
		return tok(IDENT, text), nil
	}

	return Token{}, l.err(line, col, "unexpected character %q", ch)
}

// Scan tokenizes the entire source, EOF token included.
func (l *Lexer) Scan() ([]Token, error) {
	var out []Token
	for {
		t, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if t.Kind == EOF {
			return out, nil
		}
	}
}
