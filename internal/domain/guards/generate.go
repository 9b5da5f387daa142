package guards

import (
	"fmt"
	"strings"

	m "rangeguard.dev/pkg/rangeguard/internal/model"
)

// DefaultException is the exception type whose guards are rewritten.
const DefaultException = "ArgumentOutOfRangeException"

// Generator renders the canonical replacement statements. Operands are
// trimmed before they are placed into the templates.
type Generator struct {
	Exception string
}

func (g Generator) call(method m.ReplaceMethod, args ...string) string {
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	return fmt.Sprintf("%s.%s(%s);", g.Exception, method, strings.Join(args, ", "))
}

// ZeroCheck renders ThrowIfNegative or ThrowIfNegativeOrZero.
func (g Generator) ZeroCheck(method m.ReplaceMethod, value string) string {
	if method != m.NegativeOrZero {
		method = m.Negative
	}

	return g.call(method, value)
}

// Comparison renders ThrowIfLessThan or ThrowIfGreaterThan. The zero
// variants map onto ThrowIfLessThan, since `x < 0` and `x <= 0` both bound x
// from below.
func (g Generator) Comparison(method m.ReplaceMethod, value, other string) string {
	if method != m.GreaterThan {
		method = m.LessThan
	}

	return g.call(method, value, other)
}

// NotBetween renders ThrowIfNotBetween.
func (g Generator) NotBetween(value, lower, upper string) string {
	return g.call(m.NotBetween, value, lower, upper)
}

// NegativeGuard renders `if (<value> < 0) throw new <typ><args>;` where args
// is the full parenthesized argument list.
func (g Generator) NegativeGuard(value, typ, args string) string {
	return fmt.Sprintf("if (%s < 0) throw new %s%s;", strings.TrimSpace(value), strings.TrimSpace(typ), strings.TrimSpace(args))
}
