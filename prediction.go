package parsebench

import "fmt"

// predict chooses the alternative of r to parse, -1 meaning that the parser recovered and should skip r.
func (p *Parser) predict(r *Rule) (int, error) {
	if !r.IsDecision() {
		return 0, nil
	}

	la := p.input.LA(1)

	s, hit := p.cache.lookup(r.Decision, la, func() []int {
		return p.grammar.viable(r, la)
	})

	p.stats.Predictions++
	if hit {
		p.stats.CacheHits++
	} else {
		p.stats.CacheMisses++
	}

	switch {
	case len(s.Alts) == 1:
		return s.Alts[0], nil

	case len(s.Alts) == 0:
		if p.speculating > 0 {
			return -1, errSpeculationFailed
		}

		lx := p.input.LT(1)
		msg := fmt.Sprintf("no viable alternative for %s at input %q", r.Name, lx.Text)
		if p.strategy == BailErrorStrategy {
			return -1, p.cancel(lx, msg)
		}

		return p.recoverNoViable(r, lx, msg), nil
	}

	p.stats.Conflicts++

	if p.mode == LL {
		return p.resolve(r, s.Alts), nil
	}

	if p.strategy == BailErrorStrategy && p.speculating == 0 {
		lx := p.input.LT(1)
		return -1, p.cancel(lx, fmt.Sprintf("ambiguous input %q for %s: alternatives %v", lx.Text, r.Name, s.Alts))
	}

	// Without bailing out, SLL settles for the first viable alternative.
	return s.Alts[0], nil
}

// resolve returns the first of alts that parses from the current position and leaves the input at a
// lexeme that can follow r. If none does, the first alternative is returned and error recovery takes over.
func (p *Parser) resolve(r *Rule, alts []int) int {
	p.stats.Speculations++

	start := p.input.Index()
	for _, alt := range alts {
		ok := p.speculate(r, alt)
		p.input.Seek(start)

		if ok {
			return alt
		}
	}

	return alts[0]
}

func (p *Parser) speculate(r *Rule, alt int) bool {
	errorRecovery := p.errorRecovery

	p.speculating++
	defer func() {
		p.speculating--
		p.errorRecovery = errorRecovery
	}()

	for _, sym := range r.Alternatives[alt] {
		var err error
		if sym.IsTerminal() {
			_, err = p.match(sym)
		} else {
			_, err = p.invoke(p.grammar.rule(sym))
		}

		if err != nil {
			return false
		}
	}

	return p.grammar.follow[r.Lhs.Value()-1].Contains(p.input.LA(1))
}

// recoverNoViable reports the error, then skips lexemes until one that can start or follow r.
func (p *Parser) recoverNoViable(r *Rule, lx Lexeme, msg string) int {
	p.reportError(lx, msg)
	p.stats.Recoveries++

	idx := r.Lhs.Value() - 1
	for {
		la := p.input.LA(1)
		if la == TokenEOF || p.grammar.first[idx].Contains(la) || p.grammar.follow[idx].Contains(la) {
			break
		}
		p.input.Consume()
	}

	if alts := p.grammar.viable(r, p.input.LA(1)); len(alts) > 0 {
		return alts[0]
	}

	return -1
}
