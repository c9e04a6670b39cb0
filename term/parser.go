package term

import (
	"fmt"
	"unicode"
)

// TokenType defines the lexical classes of the term notation.
type TokenType int

const (
	TokenAtom   TokenType = iota // bare identifier
	TokenLParen                  // '('
	TokenRParen                  // ')'
	TokenEOF                     // end of input
)

func (t TokenType) String() string {
	switch t {
	case TokenAtom:
		return "atom"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenEOF:
		return "EOF"
	default:
		return "unknown"
	}
}

// Token is a single lexical token with its starting byte offset.
type Token struct {
	Type     TokenType
	Value    string
	Position int
}

// SyntaxError reports malformed term notation.
type SyntaxError struct {
	Position int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Position, e.Msg)
}

// Lexer scans the s-expression notation: atoms are runs of characters other
// than whitespace and parentheses.
type Lexer struct {
	input    string
	position int
	tokens   []Token
}

// NewLexer returns a Lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0),
	}
}

// Tokenize scans the whole input and terminates the token list with TokenEOF.
func (l *Lexer) Tokenize() []Token {
	for l.position < len(l.input) {
		start := l.position
		switch c := l.input[l.position]; {
		case c == '(':
			l.addToken(TokenLParen, "(", start)
			l.position++
		case c == ')':
			l.addToken(TokenRParen, ")", start)
			l.position++
		case unicode.IsSpace(rune(c)):
			l.position++
		default:
			l.lexAtom(start)
		}
	}
	l.addToken(TokenEOF, "", l.position)
	return l.tokens
}

func (l *Lexer) lexAtom(start int) {
	for l.position < len(l.input) {
		c := l.input[l.position]
		if c == '(' || c == ')' || unicode.IsSpace(rune(c)) {
			break
		}
		l.position++
	}
	l.addToken(TokenAtom, l.input[start:l.position], start)
}

func (l *Lexer) addToken(tokenType TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{Type: tokenType, Value: value, Position: pos})
}

// Parser builds terms from lexer tokens.
type Parser struct {
	tokens  []Token
	current int
}

// NewParser creates a Parser over tokens, which must end with TokenEOF.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses exactly one term, e.g. "a" or "(f (a b) c)".
func Parse(input string) (Term, error) {
	p := NewParser(NewLexer(input).Tokenize())
	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, &SyntaxError{Position: tok.Position, Msg: fmt.Sprintf("unexpected %s after term", tok.Type)}
	}
	return t, nil
}

// MustParse is like Parse but panics on error. Intended for fixtures.
func MustParse(input string) Term {
	t, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseSequence parses zero or more whitespace separated terms.
func ParseSequence(input string) ([]Term, error) {
	p := NewParser(NewLexer(input).Tokenize())
	var seq []Term
	for p.peek().Type != TokenEOF {
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		seq = append(seq, t)
	}
	return seq, nil
}

func (p *Parser) parseTerm() (Term, error) {
	tok := p.next()
	switch tok.Type {
	case TokenAtom:
		return Atom{Name: tok.Value}, nil
	case TokenLParen:
		var elems []Term
		for {
			switch p.peek().Type {
			case TokenRParen:
				p.next()
				if len(elems) == 0 {
					return nil, &SyntaxError{Position: tok.Position, Msg: "empty compound"}
				}
				return &Compound{elems: elems}, nil
			case TokenEOF:
				return nil, &SyntaxError{Position: tok.Position, Msg: "unclosed '('"}
			}
			elem, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
	case TokenRParen:
		return nil, &SyntaxError{Position: tok.Position, Msg: "unexpected ')'"}
	default:
		return nil, &SyntaxError{Position: tok.Position, Msg: "unexpected end of input"}
	}
}

func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		return Token{Type: TokenEOF, Position: -1}
	}
	return p.tokens[p.current]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.current < len(p.tokens) {
		p.current++
	}
	return tok
}
