package benchmark

import (
	"errors"
	"fmt"
	"time"

	"github.com/giornetta/parsebench"
	"go.uber.org/zap"
)

type protocolState uint8

const (
	stateFast protocolState = iota
	stateExact
	stateDone
)

// DocumentResult is what parsing one document in one trial measured.
type DocumentResult struct {
	Name  string `json:"name"`
	Bytes int    `json:"bytes"`

	// Elapsed spans the whole protocol, including a fallback re-parse.
	Elapsed time.Duration `json:"elapsed_ns"`

	// CacheBefore and CacheAfter are only measured when Config.DocTiming is set.
	CacheBefore int `json:"cache_before"`
	CacheAfter  int `json:"cache_after"`

	// Fallback is set when SLL prediction gave up and the document was parsed again with LL.
	Fallback bool `json:"fallback"`
	// ExactRequired is set when the fallback parse found no error: the input was valid but
	// needed full LL prediction.
	ExactRequired bool `json:"exact_required"`
	SyntaxErrors  int  `json:"syntax_errors"`

	Stats parsebench.Stats `json:"stats"`
}

// ParseDocument drives doc through the engine: first with SLL prediction and a parser that bails out
// on the first problem, then, only if that fails, from the start again with LL prediction and error recovery.
func (r *Runner) ParseDocument(doc *Document) (DocumentResult, error) {
	res := DocumentResult{
		Name:  doc.Name,
		Bytes: len(doc.Content),
	}

	if r.Config.ShowFileNames {
		r.options.reporter.FileName(doc.Name)
	}

	p, err := r.Engine.NewParser(doc)
	if err != nil {
		return res, err
	}

	if r.Config.ShowTokens {
		r.options.reporter.Tokens(p.Tokens())
	}

	p.SetBuildParseTree(r.Config.BuildTrees)
	p.SetPredictionMode(parsebench.SLL)
	p.SetErrorStrategy(parsebench.BailErrorStrategy)
	p.RemoveErrorListeners()

	if r.Config.DocTiming {
		res.CacheBefore = r.Engine.Cache().Size()
	}

	start := time.Now()

	state := stateFast
	for state != stateDone {
		switch state {
		case stateFast:
			_, err := p.Parse(r.Config.StartRule)
			if err == nil {
				state = stateDone
				break
			}

			if !errors.Is(err, parsebench.ErrParseCancelled) {
				return res, err
			}

			res.Fallback = true

			p.Reset()
			if r.Config.DocTiming || r.Config.Verbose {
				p.AddErrorListener(&syntaxErrorLogger{logger: r.options.logger})
			}
			p.SetErrorStrategy(parsebench.RecoverErrorStrategy)
			p.SetPredictionMode(parsebench.LL)

			state = stateExact

		case stateExact:
			if _, err := p.Parse(r.Config.StartRule); err != nil {
				return res, err
			}

			res.SyntaxErrors = p.NumberOfSyntaxErrors()
			res.ExactRequired = res.SyntaxErrors == 0

			state = stateDone
		}
	}

	res.Elapsed = time.Since(start)

	if r.Config.DocTiming {
		res.CacheAfter = r.Engine.Cache().Size()
	}

	res.Stats = p.Stats()

	return res, nil
}

// syntaxErrorLogger reports recognition errors of the fallback parse.
type syntaxErrorLogger struct {
	logger *zap.Logger
}

func (l *syntaxErrorLogger) SyntaxError(source string, line, column int, msg string) {
	l.logger.Warn("Syntax error",
		zap.String("file", source),
		zap.String("position", fmt.Sprintf("%d:%d", line, column)),
		zap.String("msg", msg))
}
