// Package guards recognizes argument guards that throw
// ArgumentOutOfRangeException and rewrites them into the helper calls.
package guards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	m "rangeguard.dev/pkg/rangeguard/internal/model"
	"rangeguard.dev/pkg/rangeguard/internal/syntax"
)

// ErrInvalidTemplate is returned when a generated statement does not parse.
var ErrInvalidTemplate = errors.New("invalid generated statement")

// StatementValidator checks that generated text parses as a statement.
type StatementValidator interface {
	ValidateStatement(ctx context.Context, statement string) error
}

// Options tune which rewrites are produced.
type Options struct {
	// Exception is the exception type name guards must throw.
	Exception string
	// ZeroComparison additionally emits ThrowIfLessThan(x, 0) after the
	// zero-style helper for `x < 0` and `x <= 0` guards.
	ZeroComparison bool
}

// DefaultOptions returns the options matching the stock rewrite.
func DefaultOptions() Options {
	return Options{
		Exception:      DefaultException,
		ZeroComparison: true,
	}
}

type walker struct {
	ctx       context.Context
	file      *syntax.File
	opts      Options
	gen       Generator
	validator StatementValidator
	result    m.Rewrite
	err       error
	// embedded is set while visiting an if statement that is the body of
	// another statement.
	embedded bool
}

// Walk visits every if statement of file once, children before parents, and
// collects the fixes and simplifications it qualifies for. The validator may
// be nil, in which case generated statements are not re-parsed.
func Walk(ctx context.Context, file *syntax.File, opts Options, validator StatementValidator) (m.Rewrite, error) {
	if opts.Exception == "" {
		opts.Exception = DefaultException
	}

	w := &walker{
		ctx:       ctx,
		file:      file,
		opts:      opts,
		gen:       Generator{Exception: opts.Exception},
		validator: validator,
	}

	for _, n := range file.Root {
		w.visit(n, nil)
	}

	if w.err != nil {
		return m.Rewrite{}, w.err
	}

	return w.result, nil
}

func (w *walker) visit(n, parent syntax.Node) {
	if n == nil || w.err != nil {
		return
	}

	for _, child := range syntax.Children(n) {
		w.visit(child, n)
	}

	if s, ok := n.(*syntax.If); ok && w.err == nil {
		w.err = w.visitIf(s, parent)
	}
}

func (w *walker) visitIf(s *syntax.If, parent syntax.Node) error {
	switch p := parent.(type) {
	case *syntax.If:
		if p.Else == syntax.Stmt(s) {
			return nil
		}
	case *syntax.Labeled:
		return nil
	}

	if s.Else != nil {
		return nil
	}

	w.embedded = !inStatementList(parent)

	switch cond := s.Cond.(type) {
	case *syntax.Disjunction:
		left, lok := cond.Left.(*syntax.Comparison)
		right, rok := cond.Right.(*syntax.Comparison)

		if !lok || !rok {
			return nil
		}

		if isNegativeCheck(left) && isNegativeCheck(right) {
			return w.simplifyDoubleZero(s, left, right)
		}

		return w.fuseBetween(s, left, right)
	case *syntax.Comparison:
		if !isSupportedOperator(cond.Op) {
			return nil
		}

		return w.rewriteSingle(s, cond)
	}

	return nil
}

// inStatementList reports whether a statement under parent sits in a list of
// statements, where one statement may be replaced by several.
func inStatementList(parent syntax.Node) bool {
	switch p := parent.(type) {
	case nil, *syntax.Block:
		return true
	case *syntax.Other:
		switch p.Kind {
		case "compilation_unit", "global_statement", "switch_section":
			return true
		}
	}

	return false
}

// addFix records fix, dropping rewrites already collected inside its span.
// Children are visited first, so those are guards nested in fix's arguments.
func (w *walker) addFix(fix m.Fix) {
	w.dropNested(fix.Original)
	w.result.Fixes = append(w.result.Fixes, fix)
}

func (w *walker) addSimplification(s m.Simplification) {
	w.dropNested(s.Original)
	w.result.Simplifications = append(w.result.Simplifications, s)
}

func (w *walker) dropNested(outer m.Span) {
	fixes := w.result.Fixes[:0]
	for _, f := range w.result.Fixes {
		if outer.Contains(f.Original) {
			slog.Debug("dropping nested guard", "line", f.Line)
			continue
		}

		fixes = append(fixes, f)
	}

	w.result.Fixes = fixes

	simplifications := w.result.Simplifications[:0]
	for _, s := range w.result.Simplifications {
		if outer.Contains(s.Original) {
			slog.Debug("dropping nested guard", "line", s.Line)
			continue
		}

		simplifications = append(simplifications, s)
	}

	w.result.Simplifications = simplifications
}

// emit validates a generated statement before it is recorded.
func (w *walker) emit(statement string) (string, error) {
	if w.validator == nil {
		return statement, nil
	}

	if err := w.validator.ValidateStatement(w.ctx, statement); err != nil {
		slog.Error("generated statement does not parse", "statement", statement, "error", err)
		return "", fmt.Errorf("%w %q: %w", ErrInvalidTemplate, statement, err)
	}

	return statement, nil
}

func (w *walker) text(n syntax.Node) string {
	return w.file.Text(n)
}
