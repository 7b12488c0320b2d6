// Package json is the JSON data language. It is LL(1): SLL prediction never needs to fall back.
package json

import "github.com/giornetta/parsebench"

const Name = "json"

func init() {
	parsebench.Register(Name, New)
}

// New builds the JSON language. Its start rule is "json".
func New() (*parsebench.Language, error) {
	return parsebench.NewGrammarBuilder(Name).
		Skip("Whitespace", `[ \t\r\n]+`).
		Token("String", `"(\\.|[^"\\])*"`).
		Token("Number", `-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?`).
		Token("True", `true`).
		Token("False", `false`).
		Token("Null", `null`).
		Token("LBrace", `\{`).
		Token("RBrace", `\}`).
		Token("LBracket", `\[`).
		Token("RBracket", `\]`).
		Token("Colon", `:`).
		Token("Comma", `,`).
		Rule("json", "value EOF").
		Rule("value", "object", "array", "String", "Number", "True", "False", "Null").
		Rule("object", "LBrace members RBrace").
		Rule("members", "pair membersTail", "").
		Rule("membersTail", "Comma pair membersTail", "").
		Rule("pair", "String Colon value").
		Rule("array", "LBracket elements RBracket").
		Rule("elements", "value elementsTail", "").
		Rule("elementsTail", "Comma value elementsTail", "").
		Build()
}
