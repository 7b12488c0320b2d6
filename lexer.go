package parsebench

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

var (
	ErrInvalid = errors.New("invalid character")
)

// LexRule describes one terminal of a language.
// Skipped rules are matched but never handed to the parser.
type LexRule struct {
	Name    string
	Pattern string
	Skip    bool
}

// Lexer turns source text into Lexemes.
// Rules are tried in declaration order and the first match wins.
type Lexer struct {
	definition *lexer.StatefulDefinition

	// types maps the participle symbol of each rule to the grammar terminal.
	types map[lexer.TokenType]TokenType
	skip  map[lexer.TokenType]bool
}

// NewLexer compiles rules. terminals maps rule names to grammar terminals;
// skipped rules need no terminal.
func NewLexer(rules []LexRule, terminals map[string]TokenType) (*Lexer, error) {
	simple := make([]lexer.SimpleRule, len(rules))
	for i, r := range rules {
		simple[i] = lexer.SimpleRule{Name: r.Name, Pattern: r.Pattern}
	}

	def, err := lexer.NewSimple(simple)
	if err != nil {
		return nil, fmt.Errorf("could not compile lexer: %w", err)
	}

	l := &Lexer{
		definition: def,
		types:      make(map[lexer.TokenType]TokenType, len(rules)),
		skip:       make(map[lexer.TokenType]bool),
	}

	symbols := def.Symbols()
	for _, r := range rules {
		sym := symbols[r.Name]
		if r.Skip {
			l.skip[sym] = true
			continue
		}

		tt, ok := terminals[r.Name]
		if !ok {
			return nil, fmt.Errorf("lexer rule %q has no terminal in the grammar", r.Name)
		}
		l.types[sym] = tt
	}
	l.types[lexer.EOF] = TokenEOF

	return l, nil
}

// Scanner returns a TokenStream over src. Tokens are produced lazily, as the parser asks for them.
func (l *Lexer) Scanner(name string, src []byte) (*TokenStream, error) {
	lex, err := l.definition.LexString(name, string(src))
	if err != nil {
		return nil, fmt.Errorf("could not start lexer: %w", err)
	}

	return &TokenStream{
		lexer:  l,
		source: lex,
		tokens: make([]Lexeme, 0, len(src)/DefaultAverageTokenLength+1),
	}, nil
}

// TokenStream buffers every Lexeme read so far, so that the parser can rewind and speculate.
type TokenStream struct {
	lexer  *Lexer
	source lexer.Lexer

	tokens []Lexeme
	pos    int
	done   bool

	err error
}

// fetch reads lexemes until index i is buffered or the input ends.
// A lexical error ends the stream: it is recorded and an EOF is appended in its place.
func (s *TokenStream) fetch(i int) {
	for !s.done && i >= len(s.tokens) {
		tok, err := s.source.Next()
		if err != nil {
			s.err = fmt.Errorf("%w: %v", ErrInvalid, err)
			s.tokens = append(s.tokens, Lexeme{Type: TokenEOF, Text: "<EOF>", Pos: tok.Pos})
			s.done = true
			return
		}

		if s.lexer.skip[tok.Type] {
			continue
		}

		if tok.EOF() {
			s.tokens = append(s.tokens, Lexeme{Type: TokenEOF, Text: "<EOF>", Pos: tok.Pos})
			s.done = true
			return
		}

		s.tokens = append(s.tokens, Lexeme{Type: s.lexer.types[tok.Type], Text: tok.Value, Pos: tok.Pos})
	}
}

// LT returns the lexeme k positions ahead, LT(1) being the current one.
// Past the end of the input it keeps returning EOF.
func (s *TokenStream) LT(k int) Lexeme {
	i := s.pos + k - 1
	s.fetch(i)

	if i >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}

	return s.tokens[i]
}

// LA returns the type of LT(k).
func (s *TokenStream) LA(k int) TokenType {
	return s.LT(k).Type
}

// Consume moves past the current lexeme. EOF is never consumed.
func (s *TokenStream) Consume() {
	if s.LA(1) != TokenEOF {
		s.pos++
	}
}

// Index returns the position of the current lexeme.
func (s *TokenStream) Index() int {
	return s.pos
}

// Seek moves back (or forward) to a buffered position.
func (s *TokenStream) Seek(i int) {
	s.pos = i
}

// Fill reads the whole input.
func (s *TokenStream) Fill() {
	for !s.done {
		s.fetch(len(s.tokens))
	}
}

// Tokens returns every lexeme buffered so far.
func (s *TokenStream) Tokens() []Lexeme {
	return s.tokens
}

// Err returns the lexical error that ended the stream, if any.
func (s *TokenStream) Err() error {
	return s.err
}
