package parsebench

// DFAState is a node of a decision's prediction graph.
// The start state has one edge per lookahead terminal seen so far; every other state
// records the alternatives that remain viable for that terminal.
type DFAState struct {
	Number int
	Edges  map[TokenType]*DFAState

	// Alts lists the viable alternatives, in declaration order. An empty list means no alternative matches.
	Alts []int
}

// IsConflict reports whether more than one alternative is viable, so one token of lookahead is not enough.
func (s *DFAState) IsConflict() bool {
	return len(s.Alts) > 1
}

// Prediction returns the single viable alternative, or -1.
func (s *DFAState) Prediction() int {
	if len(s.Alts) != 1 {
		return -1
	}
	return s.Alts[0]
}

// DFA memoizes the predictions of one decision.
type DFA struct {
	Decision int

	s0     *DFAState
	states []*DFAState
}

func (d *DFA) addState(s *DFAState) *DFAState {
	s.Number = len(d.states)
	d.states = append(d.states, s)
	return s
}

// Len returns the number of states built so far.
func (d *DFA) Len() int {
	return len(d.states)
}

// PredictionCache holds one DFA per decision of a grammar.
// It is shared by every parser created from the same Engine, and it is not thread-safe.
type PredictionCache struct {
	decisions []*DFA
	disabled  bool
}

// NewPredictionCache returns an empty cache for a grammar with n decisions.
func NewPredictionCache(n int) *PredictionCache {
	c := &PredictionCache{
		decisions: make([]*DFA, n),
	}
	c.Reset()

	return c
}

// Reset discards every memoized state, forcing the next parse to rebuild them.
func (c *PredictionCache) Reset() {
	for d := range c.decisions {
		c.decisions[d] = &DFA{Decision: d}
	}
}

// Size returns the total number of states over all non-empty decisions.
func (c *PredictionCache) Size() int {
	n := 0
	for _, dfa := range c.decisions {
		if nstates := dfa.Len(); nstates > 0 {
			n += nstates
		}
	}

	return n
}

// Disable stops the cache from memoizing anything. Predictions are then computed on every call.
func (c *PredictionCache) Disable(disabled bool) {
	c.disabled = disabled
	if disabled {
		c.Reset()
	}
}

// DFA returns the graph of decision d.
func (c *PredictionCache) DFA(d int) *DFA {
	return c.decisions[d]
}

// lookup returns the state reached from the start state of decision d on t, computing and memoizing it when missing.
// It also reports whether the state came from the cache.
func (c *PredictionCache) lookup(d int, t TokenType, compute func() []int) (*DFAState, bool) {
	if c.disabled {
		return &DFAState{Number: -1, Alts: compute()}, false
	}

	dfa := c.decisions[d]
	if dfa.s0 == nil {
		dfa.s0 = dfa.addState(&DFAState{Edges: make(map[TokenType]*DFAState)})
	}

	if s, ok := dfa.s0.Edges[t]; ok {
		return s, true
	}

	s := dfa.addState(&DFAState{Alts: compute()})
	dfa.s0.Edges[t] = s

	return s, false
}
