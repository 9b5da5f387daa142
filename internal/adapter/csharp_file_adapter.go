package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	m "rangeguard.dev/pkg/rangeguard/internal/model"
	"rangeguard.dev/pkg/rangeguard/internal/syntax"
)

// ErrParse is returned when the C# parser reports syntax errors.
var ErrParse = errors.New("syntax error")

// CSharpFileAdapter encapsulates C#-specific parsing so the domain layer can
// focus on guard rules while delegating grammar details to an infrastructure
// component.
type CSharpFileAdapter interface {
	// Parse lowers src into the syntax variants. When the source contains
	// syntax errors the lowered file is still returned together with an
	// error wrapping ErrParse.
	Parse(ctx context.Context, src []byte) (*syntax.File, error)

	// ValidateStatement parses a generated statement and reports an error
	// wrapping ErrParse if it is not valid C#.
	ValidateStatement(ctx context.Context, statement string) error
}

// TreeSitterCSharpAdapter provides a CSharpFileAdapter backed by the
// tree-sitter C# grammar.
type TreeSitterCSharpAdapter struct{}

// NewTreeSitterCSharpAdapter constructs a TreeSitterCSharpAdapter.
func NewTreeSitterCSharpAdapter() *TreeSitterCSharpAdapter {
	return &TreeSitterCSharpAdapter{}
}

// Parse builds a lowered syntax tree for the provided source.
func (a *TreeSitterCSharpAdapter) Parse(ctx context.Context, src []byte) (*syntax.File, error) {
	tree, err := parseTree(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	l := &lowerer{src: src}

	file := &syntax.File{Source: src}
	for _, child := range l.namedChildren(root) {
		file.Root = append(file.Root, l.node(child))
	}

	if root.HasError() {
		return file, fmt.Errorf("%w at %s", ErrParse, firstErrorPosition(root))
	}

	return file, nil
}

// ValidateStatement parses statement as a top-level C# statement.
func (a *TreeSitterCSharpAdapter) ValidateStatement(ctx context.Context, statement string) error {
	tree, err := parseTree(ctx, []byte(statement))
	if err != nil {
		return err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() || root.NamedChildCount() == 0 {
		return fmt.Errorf("%w in generated statement %q", ErrParse, statement)
	}

	return nil
}

// parseTree runs a fresh parser; tree-sitter parsers are not safe for
// concurrent use.
func parseTree(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(csharp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}

	return tree, nil
}

func firstErrorPosition(n *sitter.Node) string {
	var found *sitter.Node

	var visit func(*sitter.Node)
	visit = func(cur *sitter.Node) {
		if found != nil || cur == nil {
			return
		}

		if cur.Type() == "ERROR" || cur.IsMissing() {
			found = cur
			return
		}

		for i := 0; i < int(cur.ChildCount()); i++ {
			visit(cur.Child(i))
		}
	}
	visit(n)

	if found == nil {
		return "unknown position"
	}

	p := found.StartPoint()

	return fmt.Sprintf("line %d column %d", p.Row+1, p.Column+1)
}

type lowerer struct {
	src []byte
}

func (l *lowerer) span(n *sitter.Node) m.Span {
	return m.Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func (l *lowerer) text(n *sitter.Node) string {
	return strings.TrimSpace(n.Content(l.src))
}

// namedChildren skips comments, which the rewriter treats as trivia.
func (l *lowerer) namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}

	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}

		out = append(out, child)
	}

	return out
}

// field returns the child stored under name, falling back to the named child
// at position idx for grammar versions without field names.
func (l *lowerer) field(n *sitter.Node, name string, idx int) *sitter.Node {
	if child := n.ChildByFieldName(name); child != nil {
		return child
	}

	children := l.namedChildren(n)
	if idx >= 0 && idx < len(children) {
		return children[idx]
	}

	return nil
}

func (l *lowerer) node(n *sitter.Node) syntax.Node {
	switch n.Type() {
	case "if_statement", "throw_statement", "block", "labeled_statement":
		return l.stmt(n)
	}

	return l.expr(n)
}

func (l *lowerer) missing() *syntax.Other {
	return &syntax.Other{Kind: "missing"}
}

func (l *lowerer) other(n *sitter.Node) *syntax.Other {
	o := &syntax.Other{Base: syntax.At(l.span(n)), Kind: n.Type()}
	for _, child := range l.namedChildren(n) {
		o.Children = append(o.Children, l.node(child))
	}

	return o
}

func (l *lowerer) stmt(n *sitter.Node) syntax.Stmt {
	if n == nil {
		return l.missing()
	}

	switch n.Type() {
	case "if_statement":
		return l.ifStatement(n)
	case "throw_statement":
		t := &syntax.Throw{Base: syntax.At(l.span(n))}
		if children := l.namedChildren(n); len(children) > 0 {
			t.Value = l.expr(children[0])
		}

		return t
	case "block":
		b := &syntax.Block{Base: syntax.At(l.span(n))}
		for _, child := range l.namedChildren(n) {
			b.Stmts = append(b.Stmts, l.stmt(child))
		}

		return b
	case "labeled_statement":
		lb := &syntax.Labeled{Base: syntax.At(l.span(n))}

		children := l.namedChildren(n)
		if len(children) > 0 {
			lb.Label = l.text(children[0])
		}

		if len(children) > 1 {
			lb.Body = l.stmt(children[len(children)-1])
		} else {
			lb.Body = l.missing()
		}

		return lb
	}

	return l.other(n)
}

func (l *lowerer) ifStatement(n *sitter.Node) *syntax.If {
	s := &syntax.If{
		Base: syntax.At(l.span(n)),
		Cond: l.expr(l.field(n, "condition", 0)),
		Body: l.stmt(l.field(n, "consequence", 1)),
		Line: int(n.StartPoint().Row) + 1,
	}

	if alt := n.ChildByFieldName("alternative"); alt != nil {
		s.Else = l.stmt(alt)
	} else if children := l.namedChildren(n); len(children) > 2 {
		s.Else = l.stmt(children[2])
	}

	return s
}

func (l *lowerer) expr(n *sitter.Node) syntax.Expr {
	if n == nil {
		return l.missing()
	}

	switch t := n.Type(); {
	case t == "binary_expression":
		return l.binary(n)
	case t == "conditional_expression":
		return &syntax.Conditional{
			Base:      syntax.At(l.span(n)),
			Cond:      l.expr(l.field(n, "condition", 0)),
			WhenTrue:  l.expr(l.field(n, "consequence", 1)),
			WhenFalse: l.expr(l.field(n, "alternative", 2)),
		}
	case t == "object_creation_expression":
		return l.objectCreation(n)
	case strings.HasSuffix(t, "_literal"):
		return &syntax.Literal{Base: syntax.At(l.span(n)), Text: l.text(n)}
	}

	return l.other(n)
}

// operator returns the first anonymous token between the operands.
func (l *lowerer) operator(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Type()
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child != nil && !child.IsNamed() {
			return child.Type()
		}
	}

	return ""
}

func (l *lowerer) binary(n *sitter.Node) syntax.Expr {
	left := l.expr(l.field(n, "left", 0))
	right := l.expr(l.field(n, "right", 1))
	op := l.operator(n)

	if op == "||" {
		return &syntax.Disjunction{Base: syntax.At(l.span(n)), Left: left, Right: right}
	}

	if cmp, ok := syntax.ParseOperator(op); ok {
		return &syntax.Comparison{Base: syntax.At(l.span(n)), Left: left, Op: cmp, Right: right}
	}

	return &syntax.Other{Base: syntax.At(l.span(n)), Kind: "binary_expression", Children: []syntax.Node{left, right}}
}

func (l *lowerer) objectCreation(n *sitter.Node) *syntax.ObjectCreation {
	oc := &syntax.ObjectCreation{Base: syntax.At(l.span(n))}

	if typ := n.ChildByFieldName("type"); typ != nil {
		oc.Type = l.text(typ)
	}

	args := n.ChildByFieldName("arguments")

	for _, child := range l.namedChildren(n) {
		switch {
		case args == nil && child.Type() == "argument_list":
			args = child
		case oc.Type == "" && child.Type() != "argument_list" && child.Type() != "initializer_expression":
			oc.Type = l.text(child)
		}
	}

	for _, child := range l.namedChildren(n) {
		if child.Type() == "initializer_expression" {
			oc.Rest = append(oc.Rest, l.node(child))
		}
	}

	if args == nil {
		return oc
	}

	oc.HasArgs = true
	oc.ArgsSpan = l.span(args)

	for _, arg := range l.namedChildren(args) {
		children := l.namedChildren(arg)
		if arg.Type() != "argument" || len(children) == 0 {
			oc.Args = append(oc.Args, l.expr(arg))
			continue
		}

		oc.Args = append(oc.Args, l.expr(children[len(children)-1]))
	}

	return oc
}
