package parsebench

import (
	"fmt"
	"strings"
	"unicode"
)

// GrammarError reports a malformed grammar description.
type GrammarError struct {
	Grammar string
	Rule    string
	Reason  string
}

func (e *GrammarError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("grammar %s: %s", e.Grammar, e.Reason)
	}
	return fmt.Sprintf("grammar %s: rule %s: %s", e.Grammar, e.Rule, e.Reason)
}

// Grammar is an LL grammar analysed for adaptive prediction.
type Grammar struct {
	Name string

	Terminals []string
	Rules     []*Rule

	// NumDecisions is the number of rules with more than one alternative.
	NumDecisions int

	rulesByName map[string]*Rule
	terminalIDs map[string]TokenType

	nullable []bool
	first    []*Set[TokenType]
	follow   []*Set[TokenType]

	altFirst    [][]*Set[TokenType]
	altNullable [][]bool
}

// Rule returns the rule called name.
func (g *Grammar) Rule(name string) (*Rule, bool) {
	r, ok := g.rulesByName[name]
	return r, ok
}

// rule returns the rule whose lhs is t.
func (g *Grammar) rule(t TokenType) *Rule {
	return g.Rules[t.Value()-1]
}

// SymbolName returns the declared name of a terminal or rule.
func (g *Grammar) SymbolName(t TokenType) string {
	if t.IsTerminal() {
		if int(t.Value()) < len(g.Terminals) {
			return g.Terminals[t.Value()]
		}
		return fmt.Sprintf("<%d>", t.Value())
	}

	if t == TokenEmpty || int(t.Value()) > len(g.Rules) {
		return "<empty>"
	}
	return g.rule(t).Name
}

// SprintTree returns a string representation of the tree rooted in t using symbol names.
func (g *Grammar) SprintTree(t *Token) string {
	return sprintTree(t, g.SymbolName)
}

// firstOfSequence returns the terminals that can start seq, and whether seq can derive epsilon.
func (g *Grammar) firstOfSequence(seq []TokenType) (*Set[TokenType], bool) {
	res := NewSet[TokenType]()

	for _, sym := range seq {
		if sym.IsTerminal() {
			res.Add(sym)
			return res, false
		}

		idx := sym.Value() - 1
		res.AddAll(g.first[idx])
		if !g.nullable[idx] {
			return res, false
		}
	}

	return res, true
}

// analyse computes nullable, FIRST and FOLLOW sets, looping until a fixed point is found.
func (g *Grammar) analyse() {
	n := len(g.Rules)
	g.nullable = make([]bool, n)
	g.first = make([]*Set[TokenType], n)
	g.follow = make([]*Set[TokenType], n)
	for i := range g.Rules {
		g.first[i] = NewSet[TokenType]()
		g.follow[i] = NewSet[TokenType]()
	}

	modified := true
	for modified {
		modified = false

		for i, r := range g.Rules {
			for _, alt := range r.Alternatives {
				first, nullable := g.firstOfSequence(alt)
				if g.first[i].AddAll(first) {
					modified = true
				}
				if nullable && !g.nullable[i] {
					g.nullable[i] = true
					modified = true
				}
			}
		}
	}

	// Any rule can be used as the start rule, so EOF may follow every rule.
	for i := range g.Rules {
		g.follow[i].Add(TokenEOF)
	}

	modified = true
	for modified {
		modified = false

		for i, r := range g.Rules {
			for _, alt := range r.Alternatives {
				for j, sym := range alt {
					if sym.IsTerminal() {
						continue
					}

					idx := sym.Value() - 1
					first, nullable := g.firstOfSequence(alt[j+1:])
					if g.follow[idx].AddAll(first) {
						modified = true
					}
					if nullable && g.follow[idx].AddAll(g.follow[i]) {
						modified = true
					}
				}
			}
		}
	}

	g.altFirst = make([][]*Set[TokenType], n)
	g.altNullable = make([][]bool, n)
	for i, r := range g.Rules {
		g.altFirst[i] = make([]*Set[TokenType], len(r.Alternatives))
		g.altNullable[i] = make([]bool, len(r.Alternatives))

		for j, alt := range r.Alternatives {
			g.altFirst[i][j], g.altNullable[i][j] = g.firstOfSequence(alt)
		}
	}
}

// viable returns the alternatives of r that can start with la, or derive epsilon when la follows r.
func (g *Grammar) viable(r *Rule, la TokenType) []int {
	idx := r.Lhs.Value() - 1

	var alts []int
	for i := range r.Alternatives {
		if g.altFirst[idx][i].Contains(la) || (g.altNullable[idx][i] && g.follow[idx].Contains(la)) {
			alts = append(alts, i)
		}
	}

	return alts
}

// checkProductive rejects rules that cannot derive any finite input.
func (g *Grammar) checkProductive() error {
	productive := make([]bool, len(g.Rules))

	modified := true
	for modified {
		modified = false

		for i, r := range g.Rules {
			if productive[i] {
				continue
			}

		alts:
			for _, alt := range r.Alternatives {
				for _, sym := range alt {
					if !sym.IsTerminal() && !productive[sym.Value()-1] {
						continue alts
					}
				}

				productive[i] = true
				modified = true
				break
			}
		}
	}

	for i, ok := range productive {
		if !ok {
			return &GrammarError{Grammar: g.Name, Rule: g.Rules[i].Name, Reason: "derives no finite input"}
		}
	}

	return nil
}

// checkLeftRecursion rejects rules that can invoke themselves without consuming input.
func (g *Grammar) checkLeftRecursion() error {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make([]int, len(g.Rules))

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case visiting:
			return &GrammarError{Grammar: g.Name, Rule: g.Rules[i].Name, Reason: "left recursion"}
		case visited:
			return nil
		}

		state[i] = visiting
		for _, alt := range g.Rules[i].Alternatives {
			for _, sym := range alt {
				if sym.IsTerminal() {
					break
				}

				idx := int(sym.Value() - 1)
				if err := visit(idx); err != nil {
					return err
				}
				if !g.nullable[idx] {
					break
				}
			}
		}
		state[i] = visited

		return nil
	}

	for i := range g.Rules {
		if err := visit(i); err != nil {
			return err
		}
	}

	return nil
}

// Language pairs the lexer and the grammar of one input language.
type Language struct {
	Name    string
	Lexer   *Lexer
	Grammar *Grammar
}

type ruleDescription struct {
	name string
	alts []string
}

// GrammarBuilder collects a language description and compiles it into a Language.
//
// Alternatives are written as whitespace separated symbol names. Names starting with an upper case
// letter are terminals declared with Token, names starting with a lower case letter are rules.
// The empty string is the epsilon alternative. EOF is always available as a terminal.
type GrammarBuilder struct {
	name  string
	lex   []LexRule
	rules []ruleDescription
}

func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{name: name}
}

// Token declares a terminal.
func (b *GrammarBuilder) Token(name, pattern string) *GrammarBuilder {
	b.lex = append(b.lex, LexRule{Name: name, Pattern: pattern})
	return b
}

// Skip declares input that is matched and discarded, such as white space and comments.
func (b *GrammarBuilder) Skip(name, pattern string) *GrammarBuilder {
	b.lex = append(b.lex, LexRule{Name: name, Pattern: pattern, Skip: true})
	return b
}

// Rule declares a rule. The first declared rule is the default start rule.
func (b *GrammarBuilder) Rule(name string, alternatives ...string) *GrammarBuilder {
	b.rules = append(b.rules, ruleDescription{name: name, alts: alternatives})
	return b
}

// Build validates the description and compiles the lexer and the grammar.
func (b *GrammarBuilder) Build() (*Language, error) {
	g := &Grammar{
		Name:        b.name,
		Terminals:   []string{"EOF"},
		rulesByName: make(map[string]*Rule, len(b.rules)),
		terminalIDs: map[string]TokenType{"EOF": TokenEOF},
	}

	if len(b.rules) == 0 {
		return nil, &GrammarError{Grammar: b.name, Reason: "no rules"}
	}

	for _, l := range b.lex {
		if l.Skip {
			continue
		}
		if !isTerminalName(l.Name) {
			return nil, &GrammarError{Grammar: b.name, Reason: fmt.Sprintf("terminal %q must start with an upper case letter", l.Name)}
		}
		if _, ok := g.terminalIDs[l.Name]; ok {
			return nil, &GrammarError{Grammar: b.name, Reason: fmt.Sprintf("terminal %q declared twice", l.Name)}
		}

		g.terminalIDs[l.Name] = TokenTerm | TokenType(len(g.Terminals))
		g.Terminals = append(g.Terminals, l.Name)
	}

	for i, d := range b.rules {
		if isTerminalName(d.name) {
			return nil, &GrammarError{Grammar: b.name, Rule: d.name, Reason: "rule names must start with a lower case letter"}
		}
		if _, ok := g.rulesByName[d.name]; ok {
			return nil, &GrammarError{Grammar: b.name, Rule: d.name, Reason: "declared twice"}
		}
		if len(d.alts) == 0 {
			return nil, &GrammarError{Grammar: b.name, Rule: d.name, Reason: "no alternatives"}
		}

		r := &Rule{Name: d.name, Lhs: TokenType(i + 1), Decision: -1}
		g.Rules = append(g.Rules, r)
		g.rulesByName[d.name] = r
	}

	for i, d := range b.rules {
		r := g.Rules[i]

		for _, alt := range d.alts {
			fields := strings.Fields(alt)
			rhs := make(Alternative, 0, len(fields))

			for _, f := range fields {
				if isTerminalName(f) {
					tt, ok := g.terminalIDs[f]
					if !ok {
						return nil, &GrammarError{Grammar: b.name, Rule: d.name, Reason: fmt.Sprintf("unknown terminal %s", f)}
					}
					rhs = append(rhs, tt)
					continue
				}

				ref, ok := g.rulesByName[f]
				if !ok {
					return nil, &GrammarError{Grammar: b.name, Rule: d.name, Reason: fmt.Sprintf("unknown rule %s", f)}
				}
				rhs = append(rhs, ref.Lhs)
			}

			r.Alternatives = append(r.Alternatives, rhs)
		}

		if len(r.Alternatives) > 1 {
			r.Decision = g.NumDecisions
			g.NumDecisions++
		}
	}

	g.analyse()

	if err := g.checkProductive(); err != nil {
		return nil, err
	}

	if err := g.checkLeftRecursion(); err != nil {
		return nil, err
	}

	lexer, err := NewLexer(b.lex, g.terminalIDs)
	if err != nil {
		return nil, &GrammarError{Grammar: b.name, Reason: err.Error()}
	}

	return &Language{
		Name:    b.name,
		Lexer:   lexer,
		Grammar: g,
	}, nil
}

func isTerminalName(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
