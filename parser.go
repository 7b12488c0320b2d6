package parsebench

import (
	"errors"
	"fmt"
)

var (
	// ErrParseCancelled is returned by a parser using BailErrorStrategy on the first ambiguity or recognition error.
	ErrParseCancelled = errors.New("parse cancelled")
	// ErrUnknownRule is returned when the requested start rule does not exist.
	ErrUnknownRule = errors.New("unknown rule")

	errSpeculationFailed = errors.New("speculation failed")
)

const DefaultAverageTokenLength int = 4

// A PredictionMode defines how a parser chooses among the alternatives of a rule.
type PredictionMode uint8

const (
	// SLL predicts from one token of lookahead and the context-free FOLLOW sets.
	// It is cheap, but it cannot resolve conflicts: with BailErrorStrategy a conflict cancels the parse.
	SLL PredictionMode = iota
	// LL resolves conflicts by speculatively parsing each viable alternative, in order, and picking the first that fits.
	LL
)

func (m PredictionMode) String() string {
	switch m {
	case SLL:
		return "SLL"
	case LL:
		return "LL"
	default:
		return "UNKNOWN"
	}
}

// An ErrorStrategy defines what a parser does when the input does not match the grammar.
type ErrorStrategy uint8

const (
	// BailErrorStrategy cancels the parse, returning ErrParseCancelled.
	BailErrorStrategy ErrorStrategy = iota
	// RecoverErrorStrategy reports the error to the listeners, counts it and resynchronizes.
	RecoverErrorStrategy
)

func (s ErrorStrategy) String() string {
	switch s {
	case BailErrorStrategy:
		return "bail"
	case RecoverErrorStrategy:
		return "recover"
	default:
		return "unknown"
	}
}

// ErrorListener receives the syntax errors reported by a parser.
type ErrorListener interface {
	SyntaxError(source string, line, column int, msg string)
}

// Parser recognizes one document of a Language.
// It is not thread-safe, and neither is the PredictionCache it shares with the other parsers of its Engine.
type Parser struct {
	grammar *Grammar
	cache   *PredictionCache
	input   *TokenStream

	source string
	srcLen int

	mode       PredictionMode
	strategy   ErrorStrategy
	buildTrees bool
	listeners  []ErrorListener

	syntaxErrors   int
	errorRecovery  bool
	lastErrorIndex int
	speculating    int

	pool  *Pool[Token]
	stats Stats
}

type ParserOpt func(p *Parser)

func WithPredictionMode(mode PredictionMode) ParserOpt {
	return func(p *Parser) {
		p.mode = mode
	}
}

func WithErrorStrategy(strategy ErrorStrategy) ParserOpt {
	return func(p *Parser) {
		p.strategy = strategy
	}
}

func WithBuildParseTree(on bool) ParserOpt {
	return func(p *Parser) {
		p.buildTrees = on
	}
}

func WithErrorListener(l ErrorListener) ParserOpt {
	return func(p *Parser) {
		if l != nil {
			p.listeners = append(p.listeners, l)
		}
	}
}

func newParser(g *Grammar, cache *PredictionCache, input *TokenStream, source string, srcLen int, opts ...ParserOpt) *Parser {
	p := &Parser{
		grammar:        g,
		cache:          cache,
		input:          input,
		source:         source,
		srcLen:         srcLen,
		mode:           LL,
		strategy:       RecoverErrorStrategy,
		buildTrees:     false,
		lastErrorIndex: -1,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Parser) SetPredictionMode(mode PredictionMode) {
	p.mode = mode
}

func (p *Parser) SetErrorStrategy(strategy ErrorStrategy) {
	p.strategy = strategy
}

func (p *Parser) SetBuildParseTree(on bool) {
	p.buildTrees = on
}

func (p *Parser) AddErrorListener(l ErrorListener) {
	p.listeners = append(p.listeners, l)
}

func (p *Parser) RemoveErrorListeners() {
	p.listeners = nil
}

// NumberOfSyntaxErrors returns how many errors were reported since the last Reset.
func (p *Parser) NumberOfSyntaxErrors() int {
	return p.syntaxErrors
}

// Stats returns the counters accumulated over the lifetime of the parser, including rewound attempts.
func (p *Parser) Stats() Stats {
	return p.stats
}

// Tokens reads the whole input and returns its lexemes.
func (p *Parser) Tokens() []Lexeme {
	p.input.Fill()
	return p.input.Tokens()
}

// Reset rewinds the input to the first lexeme and clears the error state.
// Lexemes already read are kept, so the input is never lexed twice.
func (p *Parser) Reset() {
	p.input.Seek(0)
	p.syntaxErrors = 0
	p.errorRecovery = false
	p.lastErrorIndex = -1
	p.speculating = 0
	p.pool = nil
}

// Parse runs the rule called name from the current position.
// With BailErrorStrategy, any error is returned wrapping ErrParseCancelled.
// With RecoverErrorStrategy, errors are counted and the returned error is nil unless the rule does not exist.
// The returned tree is nil unless tree construction is enabled.
func (p *Parser) Parse(name string) (*Token, error) {
	r, ok := p.grammar.Rule(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}

	if p.buildTrees {
		p.pool = NewPool[Token](p.srcLen / DefaultAverageTokenLength)
	}

	tree, err := p.invoke(r)
	if err != nil {
		return nil, err
	}

	if lexErr := p.input.Err(); lexErr != nil {
		if p.strategy == BailErrorStrategy {
			return nil, fmt.Errorf("%w: %v", ErrParseCancelled, lexErr)
		}

		p.syntaxErrors++
		p.notify(p.input.Tokens()[len(p.input.Tokens())-1], lexErr.Error())
	}

	return tree, nil
}

func (p *Parser) building() bool {
	return p.buildTrees && p.speculating == 0
}

func (p *Parser) newNode(t Token) *Token {
	n := p.pool.Get()
	*n = t
	return n
}

// invoke parses one occurrence of rule r.
func (p *Parser) invoke(r *Rule) (*Token, error) {
	alt, err := p.predict(r)
	if err != nil {
		return nil, err
	}

	if alt < 0 {
		return nil, nil
	}

	var node, last *Token
	if p.building() {
		node = p.newNode(Token{Type: r.Lhs})
	}

	for _, sym := range r.Alternatives[alt] {
		var child *Token
		if sym.IsTerminal() {
			child, err = p.match(sym)
		} else {
			child, err = p.invoke(p.grammar.rule(sym))
		}
		if err != nil {
			return nil, err
		}

		if node == nil || child == nil {
			continue
		}

		if last == nil {
			node.Child = child
		} else {
			last.Next = child
		}
		last = child
	}

	return node, nil
}

// match consumes the current lexeme if it is of type t.
func (p *Parser) match(t TokenType) (*Token, error) {
	if p.input.LA(1) == t {
		return p.consume(), nil
	}

	if p.speculating > 0 {
		return nil, errSpeculationFailed
	}

	lx := p.input.LT(1)
	msg := fmt.Sprintf("mismatched input %q expecting %s", lx.Text, p.grammar.SymbolName(t))

	if p.strategy == BailErrorStrategy {
		return nil, p.cancel(lx, msg)
	}

	// No progress since the last error: drop the offending lexeme.
	if p.errorRecovery && p.lastErrorIndex == p.input.Index() && lx.Type != TokenEOF {
		p.input.Consume()
		p.lastErrorIndex = p.input.Index()
		if p.input.LA(1) == t {
			return p.consume(), nil
		}
		return nil, nil
	}

	p.reportError(lx, msg)

	// Single token deletion.
	if p.input.LA(2) == t {
		p.input.Consume()
		return p.consume(), nil
	}

	// Single token insertion: act as if the expected lexeme was there.
	p.stats.Recoveries++
	return nil, nil
}

func (p *Parser) consume() *Token {
	lx := p.input.LT(1)
	p.input.Consume()

	if p.speculating > 0 {
		return nil
	}

	p.errorRecovery = false
	p.stats.Tokens++

	if !p.building() {
		return nil
	}

	return p.newNode(Token{Type: lx.Type, Value: lx.Text})
}

func (p *Parser) cancel(lx Lexeme, msg string) error {
	return fmt.Errorf("%w: %s:%d:%d: %s", ErrParseCancelled, p.source, lx.Pos.Line, lx.Pos.Column, msg)
}

// reportError counts and notifies an error, unless the parser is still recovering from the previous one.
func (p *Parser) reportError(lx Lexeme, msg string) {
	if p.errorRecovery {
		return
	}

	p.errorRecovery = true
	p.lastErrorIndex = p.input.Index()
	p.syntaxErrors++

	p.notify(lx, msg)
}

func (p *Parser) notify(lx Lexeme, msg string) {
	for _, l := range p.listeners {
		l.SyntaxError(p.source, lx.Pos.Line, lx.Pos.Column, msg)
	}
}
