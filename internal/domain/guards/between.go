package guards

import (
	"log/slog"
	"regexp"

	m "rangeguard.dev/pkg/rangeguard/internal/model"
	"rangeguard.dev/pkg/rangeguard/internal/syntax"
)

// Syntactic heuristics: no type information is available, so bounds are
// judged by their text alone.
var (
	qualifiedMember = regexp.MustCompile(`[A-Za-z0-9_]+\.[A-Za-z0-9_]+`)
	minMaxSentinel  = regexp.MustCompile(`[A-Za-z0-9_]+\.(Min|Max)Value`)
)

// IsEnumLike reports whether bound looks like `Type.Member` and nothing else.
func IsEnumLike(bound string) bool {
	matches := qualifiedMember.FindAllString(bound, -1)
	return len(matches) == 1 && matches[0] == bound
}

// IsSentinel reports whether bound references Type.MinValue or Type.MaxValue.
func IsSentinel(bound string) bool {
	return minMaxSentinel.MatchString(bound)
}

// SuppressBetween reports whether a between check over the two bounds
// should be left alone because both look like enum members. A sentinel on
// either side lifts the suppression.
func SuppressBetween(lower, upper string) bool {
	if IsSentinel(lower) || IsSentinel(upper) {
		return false
	}

	return IsEnumLike(lower) && IsEnumLike(upper)
}

// fuseBetween turns `x < lo || x > hi` (in either order) into
// ThrowIfNotBetween(x, lo, hi).
func (w *walker) fuseBetween(s *syntax.If, left, right *syntax.Comparison) error {
	target := w.text(left.Left)
	if target != w.text(right.Left) {
		return nil
	}

	var lower, upper string

	switch {
	case left.Op == syntax.OpLess && right.Op == syntax.OpGreater:
		lower, upper = w.text(left.Right), w.text(right.Right)
	case left.Op == syntax.OpGreater && right.Op == syntax.OpLess:
		lower, upper = w.text(right.Right), w.text(left.Right)
	default:
		return nil
	}

	if !IsGuardBody(s.Body, w.opts.Exception) {
		return nil
	}

	if SuppressBetween(lower, upper) {
		slog.Debug("between check left alone, bounds look like enum members", "line", s.Line, "lower", lower, "upper", upper)
		return nil
	}

	stmt, err := w.emit(w.gen.NotBetween(target, lower, upper))
	if err != nil {
		return err
	}

	w.addFix(m.Fix{
		Original:     s.Span(),
		Line:         s.Line,
		Method:       m.NotBetween,
		Replacements: []string{stmt},
		Embedded:     w.embedded,
	})

	return nil
}
