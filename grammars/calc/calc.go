// Package calc is a small statement language whose assignments, calls and expression statements
// all may start with an identifier. One token of lookahead cannot tell them apart, so documents
// using them need LL prediction.
package calc

import "github.com/giornetta/parsebench"

const Name = "calc"

func init() {
	parsebench.Register(Name, New)
}

// New builds the calc language. Its start rule is "program".
func New() (*parsebench.Language, error) {
	return parsebench.NewGrammarBuilder(Name).
		Skip("Whitespace", `\s+`).
		Skip("Comment", `#[^\n]*`).
		Token("Print", `print\b`).
		Token("Number", `[0-9]+(\.[0-9]+)?`).
		Token("Ident", `[a-zA-Z_][a-zA-Z0-9_]*`).
		Token("Assign", `=`).
		Token("Plus", `\+`).
		Token("Minus", `-`).
		Token("Star", `\*`).
		Token("Slash", `/`).
		Token("LParen", `\(`).
		Token("RParen", `\)`).
		Token("Comma", `,`).
		Token("Semi", `;`).
		Rule("program", "stats EOF").
		Rule("stats", "stat stats", "").
		Rule("stat",
			"Print expr Semi",
			"Ident Assign expr Semi",
			"expr Semi").
		Rule("expr", "term exprTail").
		Rule("exprTail",
			"Plus term exprTail",
			"Minus term exprTail",
			"").
		Rule("term", "factor termTail").
		Rule("termTail",
			"Star factor termTail",
			"Slash factor termTail",
			"").
		Rule("factor",
			"Number",
			"Ident LParen args RParen",
			"Ident",
			"LParen expr RParen",
			"Minus factor").
		Rule("args", "expr argsTail", "").
		Rule("argsTail", "Comma expr argsTail", "").
		Build()
}
