package parsebench

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token is a node of a parse tree.
// Terminal nodes carry the matched text in Value, nonterminal nodes link their children through Child and Next.
type Token struct {
	Type TokenType

	Value any

	Next  *Token
	Child *Token
}

func (t *Token) IsTerminal() bool {
	return t.Type.IsTerminal()
}

type TokenType uint16

const (
	TokenEmpty TokenType = 0
	TokenTerm  TokenType = 0x8000

	// TokenEOF is the first terminal of every grammar.
	TokenEOF = TokenTerm
)

func (t TokenType) IsTerminal() bool {
	return t >= 0x8000
}

func (t TokenType) Value() uint16 {
	return uint16(0x7FFF & t)
}

// Lexeme is a terminal read from the input, before it becomes part of a tree.
type Lexeme struct {
	Type TokenType
	Text string
	Pos  lexer.Position
}

func (l Lexeme) String() string {
	return fmt.Sprintf("[@%d,%d:%d=%q,<%d>]", l.Pos.Offset, l.Pos.Line, l.Pos.Column, l.Text, l.Type.Value())
}

// Height computes the height of the tree rooted in `t`.
func (t *Token) Height() int {
	var rec func(t *Token, root bool) int

	rec = func(t *Token, root bool) int {
		if t == nil {
			return 0
		}

		if root {
			return 1 + rec(t.Child, false)
		} else {
			return max(1+rec(t.Child, false), rec(t.Next, false))
		}
	}

	return rec(t, true)
}

// Size returns the number of nodes in the tree rooted in `t`.
func (t *Token) Size() int {
	var rec func(t *Token, root bool) int

	rec = func(t *Token, root bool) int {
		if t == nil {
			return 0
		}

		if root {
			return 1 + rec(t.Child, false)
		} else {
			return 1 + rec(t.Child, false) + rec(t.Next, false)
		}
	}

	return rec(t, true)
}

// String returns a string representation of the tree rooted in `t`.
// Use Grammar.SprintTree to get symbol names instead of raw token types.
func (t *Token) String() string {
	return sprintTree(t, func(tt TokenType) string { return fmt.Sprintf("%d", tt) })
}

func sprintTree(t *Token, name func(TokenType) string) string {
	var sprintRec func(t *Token, sb *strings.Builder, indent string)

	sprintRec = func(t *Token, sb *strings.Builder, indent string) {
		if t == nil {
			return
		}

		sb.WriteString(indent)

		if t.Next == nil {
			sb.WriteString("└── ")
			indent += "    "
		} else {
			sb.WriteString("├── ")
			indent += "|   "
		}

		if t.Value != nil {
			sb.WriteString(fmt.Sprintf("%s: %v\n", name(t.Type), t.Value))
		} else {
			sb.WriteString(name(t.Type) + "\n")
		}

		sprintRec(t.Child, sb, indent)
		sprintRec(t.Next, sb, indent[:len(indent)-4])
	}

	var sb strings.Builder

	sprintRec(t, &sb, "")

	return sb.String()
}
