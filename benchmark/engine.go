package benchmark

import "github.com/giornetta/parsebench"

// Parser is the part of a parsing engine the adaptive protocol drives.
type Parser interface {
	SetPredictionMode(mode parsebench.PredictionMode)
	SetErrorStrategy(strategy parsebench.ErrorStrategy)
	SetBuildParseTree(on bool)
	AddErrorListener(l parsebench.ErrorListener)
	RemoveErrorListeners()

	// Parse runs the start rule. A cancelled parse returns an error wrapping parsebench.ErrParseCancelled.
	Parse(rule string) (*parsebench.Token, error)
	// Reset rewinds the input and discards the state of the previous attempt.
	Reset()

	NumberOfSyntaxErrors() int
	Stats() parsebench.Stats
	Tokens() []parsebench.Lexeme
}

// Cache is the prediction cache shared by the parsers of an Engine.
type Cache interface {
	Reset()
	Size() int
}

// Engine creates parsers for documents of one language.
type Engine interface {
	NewParser(doc *Document) (Parser, error)
	Cache() Cache
}

type engine struct {
	engine *parsebench.Engine
}

// NewEngine returns an Engine backed by the parsebench runtime.
// With disableCache, predictions are recomputed on every decision and never memoized.
func NewEngine(lang *parsebench.Language, disableCache bool) Engine {
	e := parsebench.NewEngine(lang)
	e.Cache.Disable(disableCache)

	return &engine{engine: e}
}

func (e *engine) NewParser(doc *Document) (Parser, error) {
	p, err := e.engine.NewParser(doc.Name, doc.Content)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (e *engine) Cache() Cache {
	return e.engine.Cache
}
