// Package model defines the data structures shared by the guard rewriter.
package model

import "fmt"

// ReplaceMethod selects which canonical helper replaces a guard.
type ReplaceMethod int

const (
	// Negative replaces `x < 0` with ThrowIfNegative.
	Negative ReplaceMethod = iota
	// NegativeOrZero replaces `x <= 0` with ThrowIfNegativeOrZero.
	NegativeOrZero
	// LessThan replaces `x < y` with ThrowIfLessThan.
	LessThan
	// GreaterThan replaces `x > y` with ThrowIfGreaterThan.
	GreaterThan
	// NotBetween replaces `x < a || x > b` with ThrowIfNotBetween.
	NotBetween
)

func (r ReplaceMethod) String() string {
	switch r {
	case Negative:
		return "ThrowIfNegative"
	case NegativeOrZero:
		return "ThrowIfNegativeOrZero"
	case LessThan:
		return "ThrowIfLessThan"
	case GreaterThan:
		return "ThrowIfGreaterThan"
	case NotBetween:
		return "ThrowIfNotBetween"
	}

	return fmt.Sprintf("ReplaceMethod(%d)", int(r))
}

// IsZeroCheck reports whether the method only takes the checked value.
func (r ReplaceMethod) IsZeroCheck() bool {
	return r == Negative || r == NegativeOrZero
}

// Span is a half-open byte range [Start, End) into a source file.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Fix replaces one guard statement with one or more statements, in order.
// Zero checks carry two replacements: the zero-style call followed by the
// comparison-style call. Embedded is set when the guard is the body of
// another statement rather than an entry of a statement list.
type Fix struct {
	Original     Span
	Line         int
	Method       ReplaceMethod
	Replacements []string
	Embedded     bool
}

// Simplification splits one double-zero guard into two independent guards.
type Simplification struct {
	Original     Span
	Line         int
	Replacements [2]string
	Embedded     bool
}

// Rewrite is the outcome of walking one file.
type Rewrite struct {
	Fixes           []Fix
	Simplifications []Simplification
}

// Empty reports whether the walk found nothing to change.
func (r Rewrite) Empty() bool {
	return len(r.Fixes) == 0 && len(r.Simplifications) == 0
}

// AppliedFixes returns how many fixes one pass applies. Fixes wait for the
// next pass when the file also has simplifications.
func (r Rewrite) AppliedFixes() int {
	if len(r.Simplifications) > 0 {
		return 0
	}

	return len(r.Fixes)
}
