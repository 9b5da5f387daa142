// Package syntax is the small, closed set of C# shapes the guard rewriter
// inspects. Parsers lower their concrete trees into these variants; anything
// the rewriter does not care about becomes an Other node that still carries
// its children so nested statements stay reachable.
package syntax

import (
	"strings"

	m "rangeguard.dev/pkg/rangeguard/internal/model"
)

// Operator is a binary comparison operator.
type Operator string

// Comparison operators recognized by the lowering.
const (
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
)

// ParseOperator maps operator token text to an Operator.
func ParseOperator(text string) (Operator, bool) {
	switch op := Operator(text); op {
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual, OpEqual, OpNotEqual:
		return op, true
	}

	return "", false
}

// Node is implemented by every variant.
type Node interface {
	Span() m.Span
	sealed()
}

// Expr is an expression variant.
type Expr interface {
	Node
	expr()
}

// Stmt is a statement variant.
type Stmt interface {
	Node
	stmt()
}

// Base carries the byte range shared by all variants.
type Base struct {
	Range m.Span
}

// Span returns the byte range of the node.
func (b Base) Span() m.Span { return b.Range }
func (Base) sealed()        {}

// At returns a Base covering span.
func At(span m.Span) Base {
	return Base{Range: span}
}

// Comparison is `Left Op Right` for a relational or equality operator.
type Comparison struct {
	Base
	Left  Expr
	Op    Operator
	Right Expr
}

// Disjunction is `Left || Right`.
type Disjunction struct {
	Base
	Left  Expr
	Right Expr
}

// Literal is any literal token; Text is its source text.
type Literal struct {
	Base
	Text string
}

// Conditional is `Cond ? WhenTrue : WhenFalse`.
type Conditional struct {
	Base
	Cond      Expr
	WhenTrue  Expr
	WhenFalse Expr
}

// ObjectCreation is `new Type(Args)`. ArgsSpan covers the parenthesized
// argument list; HasArgs is false when the list is absent.
type ObjectCreation struct {
	Base
	Type     string
	Args     []Expr
	ArgsSpan m.Span
	HasArgs  bool
	Rest     []Node
}

// Throw is a throw statement.
type Throw struct {
	Base
	Value Expr
}

// Block is a braced statement list.
type Block struct {
	Base
	Stmts []Stmt
}

// Labeled is `label: Body`.
type Labeled struct {
	Base
	Label string
	Body  Stmt
}

// If is an if statement. Else is nil when there is no else clause.
type If struct {
	Base
	Cond Expr
	Body Stmt
	Else Stmt
	Line int
}

// Other is any construct the rewriter does not inspect.
type Other struct {
	Base
	Kind     string
	Children []Node
}

func (*Comparison) expr()     {}
func (*Disjunction) expr()    {}
func (*Literal) expr()        {}
func (*Conditional) expr()    {}
func (*ObjectCreation) expr() {}
func (*Other) expr()          {}

func (*Throw) stmt()   {}
func (*Block) stmt()   {}
func (*Labeled) stmt() {}
func (*If) stmt()      {}
func (*Other) stmt()   {}

// File is a lowered compilation unit together with its source bytes.
type File struct {
	Source []byte
	Root   []Node
}

// Text returns the trimmed source text covered by n.
func (f *File) Text(n Node) string {
	return Slice(f.Source, n.Span())
}

// Slice returns the trimmed source text covered by span.
func Slice(src []byte, span m.Span) string {
	if span.Start < 0 || span.End > len(src) || span.Start > span.End {
		return ""
	}

	return strings.TrimSpace(string(src[span.Start:span.End]))
}

// IsZero reports whether e is the integer literal 0.
func IsZero(e Expr) bool {
	lit, ok := e.(*Literal)
	return ok && lit.Text == "0"
}

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Comparison:
		return []Node{v.Left, v.Right}
	case *Disjunction:
		return []Node{v.Left, v.Right}
	case *Conditional:
		return []Node{v.Cond, v.WhenTrue, v.WhenFalse}
	case *ObjectCreation:
		out := make([]Node, 0, len(v.Args)+len(v.Rest))
		for _, a := range v.Args {
			out = append(out, a)
		}

		return append(out, v.Rest...)
	case *Throw:
		if v.Value == nil {
			return nil
		}

		return []Node{v.Value}
	case *Block:
		out := make([]Node, 0, len(v.Stmts))
		for _, s := range v.Stmts {
			out = append(out, s)
		}

		return out
	case *Labeled:
		return []Node{v.Body}
	case *If:
		out := []Node{v.Cond, v.Body}
		if v.Else != nil {
			out = append(out, v.Else)
		}

		return out
	case *Other:
		return v.Children
	}

	return nil
}

// Inspect walks the subtree rooted at n in pre-order, calling fn for every
// node. Returning false from fn skips the node's children.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}
