package guards

import (
	"log/slog"

	m "rangeguard.dev/pkg/rangeguard/internal/model"
	"rangeguard.dev/pkg/rangeguard/internal/syntax"
)

// isNegativeCheck reports whether cmp is `<expr> < 0`.
func isNegativeCheck(cmp *syntax.Comparison) bool {
	return cmp.Op == syntax.OpLess && syntax.IsZero(cmp.Right)
}

// messageConditional finds the only conditional expression inside the
// argument list of creation.
func messageConditional(creation *syntax.ObjectCreation) (*syntax.Conditional, bool) {
	var found []*syntax.Conditional

	for _, arg := range creation.Args {
		syntax.Inspect(arg, func(n syntax.Node) bool {
			if c, ok := n.(*syntax.Conditional); ok {
				found = append(found, c)
			}

			return true
		})
	}

	if len(found) != 1 {
		return nil, false
	}

	return found[0], true
}

// simplifyDoubleZero splits
//
//	if (a < 0 || b < 0) throw new T(a < 0 ? x : y);
//
// into one guard per operand, each throwing with its own branch.
func (w *walker) simplifyDoubleZero(s *syntax.If, left, right *syntax.Comparison) error {
	creation, ok := thrownCreation(s.Body)
	if !ok || !creation.HasArgs {
		return nil
	}

	cond, ok := messageConditional(creation)
	if !ok {
		return nil
	}

	src := w.file.Source
	args, condSpan := creation.ArgsSpan, cond.Span()
	prefix := string(src[args.Start:condSpan.Start])
	suffix := string(src[condSpan.End:args.End])

	first, err := w.emit(w.gen.NegativeGuard(w.text(left.Left), creation.Type, prefix+w.text(cond.WhenTrue)+suffix))
	if err != nil {
		return err
	}

	second, err := w.emit(w.gen.NegativeGuard(w.text(right.Left), creation.Type, prefix+w.text(cond.WhenFalse)+suffix))
	if err != nil {
		return err
	}

	slog.Debug("guard simplification", "line", s.Line)
	w.addSimplification(m.Simplification{
		Original:     s.Span(),
		Line:         s.Line,
		Replacements: [2]string{first, second},
		Embedded:     w.embedded,
	})

	return nil
}
