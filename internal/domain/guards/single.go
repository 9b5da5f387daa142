package guards

import (
	"log/slog"

	m "rangeguard.dev/pkg/rangeguard/internal/model"
	"rangeguard.dev/pkg/rangeguard/internal/syntax"
)

func (w *walker) rewriteSingle(s *syntax.If, cmp *syntax.Comparison) error {
	method, ok := Classify(cmp.Right, cmp.Op)
	if !ok {
		return nil
	}

	if !IsGuardBody(s.Body, w.opts.Exception) {
		return nil
	}

	left, right := w.text(cmp.Left), w.text(cmp.Right)
	templates := make([]string, 0, 2)

	if method.IsZeroCheck() {
		templates = append(templates, w.gen.ZeroCheck(method, left))
		if w.opts.ZeroComparison {
			templates = append(templates, w.gen.Comparison(method, left, right))
		}
	} else {
		templates = append(templates, w.gen.Comparison(method, left, right))
	}

	fix := m.Fix{Original: s.Span(), Line: s.Line, Method: method, Embedded: w.embedded}

	for _, t := range templates {
		stmt, err := w.emit(t)
		if err != nil {
			return err
		}

		fix.Replacements = append(fix.Replacements, stmt)
	}

	slog.Debug("guard fix", "line", s.Line, "method", method.String(), "statements", len(fix.Replacements))
	w.addFix(fix)

	return nil
}
