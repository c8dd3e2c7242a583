package asp

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Program is a parsed logic program.
type Program struct {
	// Facts holds the distinct ground facts in order of first appearance.
	Facts []Term
	// NeedsSolver is set when some statement is not a ground fact: a
	// rule, a constraint, a directive, a choice, a range or a variable.
	NeedsSolver bool
}

// Parse reads a logic program. Statements that are not ground facts are
// skipped and mark the program as needing a solver. A fact stated more
// than once is kept once, as in an answer set.
func Parse(src string) (*Program, error) {
	p := &parser{lex: lexer{src: src, line: 1}}
	prog := &Program{}
	seen := make(map[string]bool)
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokEOF {
			return prog, nil
		}
		fact, ok, err := p.fact()
		if err != nil {
			return nil, err
		}
		if !ok {
			prog.NeedsSolver = true
			if err := p.skipStatement(); err != nil {
				return nil, err
			}
			continue
		}
		if key := fact.String(); !seen[key] {
			seen[key] = true
			prog.Facts = append(prog.Facts, fact)
		}
	}
}

// ParseTerm reads a single ground term, such as an atom printed by clingo.
func ParseTerm(src string) (Term, error) {
	p := &parser{lex: lexer{src: src, line: 1}}
	if err := p.advance(); err != nil {
		return Term{}, err
	}
	t, ok, err := p.term()
	if err != nil {
		return Term{}, err
	}
	if !ok || p.tok.kind != tokEOF {
		return Term{}, fmt.Errorf("%w: %q is not a ground term", ErrSyntax, src)
	}
	return t, nil
}

type parser struct {
	lex lexer
	tok token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// fact reads a ground atom and leaves the parser on the token after it. ok
// is false when the statement is not a ground fact.
func (p *parser) fact() (Term, bool, error) {
	if p.tok.kind != tokIdent {
		return Term{}, false, nil
	}
	t, ok, err := p.term()
	if err != nil || !ok {
		return t, ok, err
	}
	return t, p.tok.kind == tokDot, nil
}

// term reads a ground term. ok is false when a non-ground construct is
// found; the parser is then left somewhere inside the statement.
func (p *parser) term() (Term, bool, error) {
	tok := p.tok
	switch tok.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return Term{}, false, fmt.Errorf("%w: line %d: bad number %q", ErrSyntax, tok.line, tok.text)
		}
		return Num(v), true, p.advance()
	case tokString:
		return Str(tok.text), true, p.advance()
	case tokIdent:
		if err := p.advance(); err != nil {
			return Term{}, false, err
		}
		if p.tok.kind != tokLParen {
			return Sym(tok.text), true, nil
		}
		args, _, ok, err := p.args()
		if err != nil || !ok {
			return Term{}, ok, err
		}
		return Fn(tok.text, args...), true, nil
	case tokLParen:
		args, trailing, ok, err := p.args()
		if err != nil || !ok {
			return Term{}, ok, err
		}
		if len(args) == 1 && !trailing {
			return args[0], true, nil
		}
		return Tuple(args...), true, nil
	default:
		return Term{}, false, nil
	}
}

// args reads a parenthesized, comma separated term list. The parser must
// be on the opening parenthesis. trailing reports a comma before the
// closing parenthesis, which makes "(a,)" a one-element tuple.
func (p *parser) args() (args []Term, trailing, ok bool, err error) {
	open := p.tok
	if err := p.advance(); err != nil {
		return nil, false, false, err
	}
	for p.tok.kind != tokRParen {
		t, ok, err := p.term()
		if err != nil || !ok {
			return nil, false, ok, err
		}
		args = append(args, t)
		trailing = false
		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return nil, false, false, err
			}
			trailing = true
		case tokRParen:
		case tokEOF:
			return nil, false, false, fmt.Errorf("%w: line %d: unclosed parenthesis", ErrSyntax, open.line)
		default:
			return nil, false, false, nil
		}
	}
	return args, trailing, true, p.advance()
}

// skipStatement moves past the '.' ending the current statement.
func (p *parser) skipStatement() error {
	for p.tok.kind != tokDot {
		if p.tok.kind == tokEOF {
			return fmt.Errorf("%w: line %d: statement without a final '.'", ErrSyntax, p.tok.line)
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokVariable
	tokNumber
	tokString
	tokLParen
	tokRParen
	tokComma
	tokDot
	tokOther // operators and punctuation only a solver understands
)

type token struct {
	kind tokenKind
	text string
	line int
}

type lexer struct {
	src  string
	pos  int
	line int
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpace(); err != nil {
		return token{}, err
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: l.line}, nil
	}
	c := l.src[l.pos]
	start := l.pos
	switch {
	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", line: l.line}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", line: l.line}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, text: ",", line: l.line}, nil
	case c == '.':
		if l.peek(1) == '.' {
			l.pos += 2
			return token{kind: tokOther, text: "..", line: l.line}, nil
		}
		l.pos++
		return token{kind: tokDot, text: ".", line: l.line}, nil
	case c == '"':
		return l.str()
	case isDigit(c), c == '-' && isDigit(l.peek(1)):
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		if l.peek(0) == '.' && isDigit(l.peek(1)) {
			l.pos++
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
		return token{kind: tokNumber, text: l.src[start:l.pos], line: l.line}, nil
	case c == '_' || isLetter(c):
		for l.pos < len(l.src) && (isLetter(l.src[l.pos]) || isDigit(l.src[l.pos]) || l.src[l.pos] == '_' || l.src[l.pos] == '\'') {
			l.pos++
		}
		text := l.src[start:l.pos]
		kind := tokIdent
		if c == '_' || unicode.IsUpper(rune(c)) || text == "not" {
			kind = tokVariable
		}
		return token{kind: kind, text: text, line: l.line}, nil
	case c == ':' && l.peek(1) == '-':
		l.pos += 2
		return token{kind: tokOther, text: ":-", line: l.line}, nil
	default:
		l.pos++
		return token{kind: tokOther, text: string(c), line: l.line}, nil
	}
}

func (l *lexer) str() (token, error) {
	line := l.line
	var b strings.Builder
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case '"':
			l.pos++
			return token{kind: tokString, text: b.String(), line: line}, nil
		case '\\':
			switch l.peek(1) {
			case 'n':
				b.WriteByte('\n')
			case '"', '\\':
				b.WriteByte(l.src[l.pos+1])
			default:
				return token{}, fmt.Errorf("%w: line %d: bad escape in string", ErrSyntax, l.line)
			}
			l.pos += 2
		case '\n':
			return token{}, fmt.Errorf("%w: line %d: unterminated string", ErrSyntax, line)
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return token{}, fmt.Errorf("%w: line %d: unterminated string", ErrSyntax, line)
}

// skipSpace skips whitespace, % line comments and %* block comments *%.
func (l *lexer) skipSpace() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '%' && l.peek(1) == '*':
			end := strings.Index(l.src[l.pos+2:], "*%")
			if end < 0 {
				return fmt.Errorf("%w: line %d: unterminated block comment", ErrSyntax, l.line)
			}
			block := l.src[l.pos : l.pos+2+end+2]
			l.line += strings.Count(block, "\n")
			l.pos += len(block)
		case c == '%':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) peek(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
