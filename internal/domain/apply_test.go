package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "rangeguard.dev/pkg/rangeguard/internal/model"
)

func spanOf(t *testing.T, src, stmt string) m.Span {
	t.Helper()

	start := strings.Index(src, stmt)
	require.GreaterOrEqual(t, start, 0, "statement %q not found", stmt)

	return m.Span{Start: start, End: start + len(stmt)}
}

func TestApply_SingleStatementKeepsTrivia(t *testing.T) {
	src := "void M()\n{\n    if (x > max) throw new E(); // keep\n}\n"
	stmt := "if (x > max) throw new E();"

	out, err := Apply([]byte(src), m.Rewrite{Fixes: []m.Fix{{
		Original:     spanOf(t, src, stmt),
		Replacements: []string{"E.ThrowIfGreaterThan(x, max);"},
	}}})
	require.NoError(t, err)

	assert.Equal(t, "void M()\n{\n    E.ThrowIfGreaterThan(x, max); // keep\n}\n", string(out))
}

func TestApply_MultipleStatementsUseIndentation(t *testing.T) {
	src := "{\n\t\tif (x < 0) throw new E();\n}\n"
	stmt := "if (x < 0) throw new E();"

	out, err := Apply([]byte(src), m.Rewrite{Fixes: []m.Fix{{
		Original:     spanOf(t, src, stmt),
		Replacements: []string{"E.ThrowIfNegative(x);", "E.ThrowIfLessThan(x, 0);"},
	}}})
	require.NoError(t, err)

	assert.Equal(t, "{\n\t\tE.ThrowIfNegative(x);\n\t\tE.ThrowIfLessThan(x, 0);\n}\n", string(out))
}

func TestApply_CRLF(t *testing.T) {
	src := "{\r\n    if (x < 0) throw new E();\r\n}\r\n"
	stmt := "if (x < 0) throw new E();"

	out, err := Apply([]byte(src), m.Rewrite{Fixes: []m.Fix{{
		Original:     spanOf(t, src, stmt),
		Replacements: []string{"a;", "b;"},
	}}})
	require.NoError(t, err)

	assert.Equal(t, "{\r\n    a;\r\n    b;\r\n}\r\n", string(out))
}

func TestApply_CodeBeforeStatementOnSameLine(t *testing.T) {
	src := "case 1: if (x < 0) throw new E();\n"
	stmt := "if (x < 0) throw new E();"

	out, err := Apply([]byte(src), m.Rewrite{Fixes: []m.Fix{{
		Original:     spanOf(t, src, stmt),
		Replacements: []string{"a;", "b;"},
	}}})
	require.NoError(t, err)

	assert.Equal(t, "case 1: a; b;\n", string(out))
}

func TestApply_SeveralFixesOutOfOrder(t *testing.T) {
	src := "if (a < 0) throw new E();\nif (b > 9) throw new E();\n"
	first := "if (a < 0) throw new E();"
	second := "if (b > 9) throw new E();"

	out, err := Apply([]byte(src), m.Rewrite{Fixes: []m.Fix{
		{Original: spanOf(t, src, second), Replacements: []string{"E.ThrowIfGreaterThan(b, 9);"}},
		{Original: spanOf(t, src, first), Replacements: []string{"E.ThrowIfNegative(a);"}},
	}})
	require.NoError(t, err)

	assert.Equal(t, "E.ThrowIfNegative(a);\nE.ThrowIfGreaterThan(b, 9);\n", string(out))
}

func TestApply_SimplificationsTakePrecedence(t *testing.T) {
	src := "if (a < 0 || b < 0) throw new E(a < 0 ? \"a\" : \"b\");\nif (c > 1) throw new E();\n"
	double := `if (a < 0 || b < 0) throw new E(a < 0 ? "a" : "b");`

	rw := m.Rewrite{
		Fixes: []m.Fix{{Original: spanOf(t, src, "if (c > 1) throw new E();"), Replacements: []string{"E.ThrowIfGreaterThan(c, 1);"}}},
		Simplifications: []m.Simplification{{
			Original: spanOf(t, src, double),
			Replacements: [2]string{
				`if (a < 0) throw new E("a");`,
				`if (b < 0) throw new E("b");`,
			},
		}},
	}

	out, err := Apply([]byte(src), rw)
	require.NoError(t, err)

	assert.Equal(t, "if (a < 0) throw new E(\"a\");\nif (b < 0) throw new E(\"b\");\nif (c > 1) throw new E();\n", string(out))
	assert.Equal(t, 0, rw.AppliedFixes())
}

func TestApply_Errors(t *testing.T) {
	src := []byte("if (x < 0) throw new E();\n")

	t.Run("overlapping", func(t *testing.T) {
		_, err := Apply(src, m.Rewrite{Fixes: []m.Fix{
			{Original: m.Span{Start: 0, End: 10}, Replacements: []string{"a;"}},
			{Original: m.Span{Start: 5, End: 20}, Replacements: []string{"b;"}},
		}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrOverlappingEdits))
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := Apply(src, m.Rewrite{Fixes: []m.Fix{
			{Original: m.Span{Start: 0, End: len(src) + 1}, Replacements: []string{"a;"}},
		}})
		require.Error(t, err)
	})
}

func TestApply_EmptyRewriteReturnsInput(t *testing.T) {
	src := []byte("class C {}\n")

	out, err := Apply(src, m.Rewrite{})
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestApply_EmbeddedStatementsWrappedInBlock(t *testing.T) {
	src := "{\n    foreach (var i in items) if (i < 0) throw new E();\n}\n"
	stmt := "if (i < 0) throw new E();"

	out, err := Apply([]byte(src), m.Rewrite{Fixes: []m.Fix{{
		Original:     spanOf(t, src, stmt),
		Replacements: []string{"E.ThrowIfNegative(i);", "E.ThrowIfLessThan(i, 0);"},
		Embedded:     true,
	}}})
	require.NoError(t, err)

	assert.Equal(t, "{\n    foreach (var i in items) { E.ThrowIfNegative(i); E.ThrowIfLessThan(i, 0); }\n}\n", string(out))
}

func TestApply_EmbeddedSimplificationWrappedInBlock(t *testing.T) {
	src := "{\n    if (check)\n        if (a < 0 || b < 0) throw new E();\n}\n"
	stmt := "if (a < 0 || b < 0) throw new E();"

	out, err := Apply([]byte(src), m.Rewrite{Simplifications: []m.Simplification{{
		Original:     spanOf(t, src, stmt),
		Replacements: [2]string{"if (a < 0) throw new E();", "if (b < 0) throw new E();"},
		Embedded:     true,
	}}})
	require.NoError(t, err)

	assert.Equal(t, "{\n    if (check)\n        { if (a < 0) throw new E(); if (b < 0) throw new E(); }\n}\n", string(out))
}

func TestApply_EmbeddedSingleStatementNotWrapped(t *testing.T) {
	src := "while (Next()) if (x > max) throw new E();\n"
	stmt := "if (x > max) throw new E();"

	out, err := Apply([]byte(src), m.Rewrite{Fixes: []m.Fix{{
		Original:     spanOf(t, src, stmt),
		Replacements: []string{"E.ThrowIfGreaterThan(x, max);"},
		Embedded:     true,
	}}})
	require.NoError(t, err)

	assert.Equal(t, "while (Next()) E.ThrowIfGreaterThan(x, max);\n", string(out))
}
