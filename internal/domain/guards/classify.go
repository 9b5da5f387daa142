package guards

import (
	m "rangeguard.dev/pkg/rangeguard/internal/model"
	"rangeguard.dev/pkg/rangeguard/internal/syntax"
)

// Classify picks the helper for a guard condition `left op right`.
// `<=` against anything but a literal zero has no helper.
func Classify(right syntax.Expr, op syntax.Operator) (m.ReplaceMethod, bool) {
	if syntax.IsZero(right) {
		switch op {
		case syntax.OpLess:
			return m.Negative, true
		case syntax.OpLessEqual:
			return m.NegativeOrZero, true
		}
	}

	switch op {
	case syntax.OpLess:
		return m.LessThan, true
	case syntax.OpGreater:
		return m.GreaterThan, true
	}

	return 0, false
}

// isSupportedOperator reports whether a single comparison may be rewritten.
func isSupportedOperator(op syntax.Operator) bool {
	return op == syntax.OpLess || op == syntax.OpLessEqual || op == syntax.OpGreater
}
