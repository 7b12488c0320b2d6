package parsebench

import "fmt"

// Engine binds a Language to the PredictionCache shared by all the parsers it creates,
// the way a generated parser shares its DFA across instances.
type Engine struct {
	Language *Language
	Cache    *PredictionCache
}

func NewEngine(lang *Language) *Engine {
	return &Engine{
		Language: lang,
		Cache:    NewPredictionCache(lang.Grammar.NumDecisions),
	}
}

// NewParser returns a parser over src. name identifies the document in error messages.
func (e *Engine) NewParser(name string, src []byte, opts ...ParserOpt) (*Parser, error) {
	input, err := e.Language.Lexer.Scanner(name, src)
	if err != nil {
		return nil, fmt.Errorf("could not scan %s: %w", name, err)
	}

	return newParser(e.Language.Grammar, e.Cache, input, name, len(src), opts...), nil
}
