package parsebench

// An Alternative is one right hand side of a rule. An empty Alternative derives epsilon.
type Alternative []TokenType

// Rule is a nonterminal with its alternatives, in declaration order.
type Rule struct {
	Name string
	Lhs  TokenType

	Alternatives []Alternative

	// Decision indexes the prediction cache. It is -1 for rules with a single alternative.
	Decision int
}

// IsDecision reports whether parsing the rule requires choosing among alternatives.
func (r *Rule) IsDecision() bool {
	return r.Decision >= 0
}
