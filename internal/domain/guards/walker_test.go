package guards_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rangeguard.dev/pkg/rangeguard/internal/adapter"
	"rangeguard.dev/pkg/rangeguard/internal/domain/guards"
	m "rangeguard.dev/pkg/rangeguard/internal/model"
	"rangeguard.dev/pkg/rangeguard/internal/syntax"
)

const methodTemplate = `class C
{
    void M(int x, int a, int b, int min, int max, int lo, int hi)
    {
%s
    }
}
`

func parse(t *testing.T, body string) *syntax.File {
	t.Helper()

	src := fmt.Sprintf(methodTemplate, body)

	file, err := adapter.NewTreeSitterCSharpAdapter().Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	return file
}

func walk(t *testing.T, body string, opts guards.Options) (*syntax.File, m.Rewrite) {
	t.Helper()

	file := parse(t, body)

	rw, err := guards.Walk(context.Background(), file, opts, adapter.NewTreeSitterCSharpAdapter())
	require.NoError(t, err)

	return file, rw
}

func TestWalk_SingleComparisons(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		method m.ReplaceMethod
		want   []string
	}{
		{
			name:   "negative",
			body:   `        if (x < 0) throw new ArgumentOutOfRangeException(nameof(x));`,
			method: m.Negative,
			want: []string{
				"ArgumentOutOfRangeException.ThrowIfNegative(x);",
				"ArgumentOutOfRangeException.ThrowIfLessThan(x, 0);",
			},
		},
		{
			name:   "negative or zero",
			body:   `        if (x <= 0) throw new ArgumentOutOfRangeException(nameof(x));`,
			method: m.NegativeOrZero,
			want: []string{
				"ArgumentOutOfRangeException.ThrowIfNegativeOrZero(x);",
				"ArgumentOutOfRangeException.ThrowIfLessThan(x, 0);",
			},
		},
		{
			name:   "less than",
			body:   `        if (x < min) throw new ArgumentOutOfRangeException(nameof(x), x, "too small");`,
			method: m.LessThan,
			want:   []string{"ArgumentOutOfRangeException.ThrowIfLessThan(x, min);"},
		},
		{
			name:   "greater than in a block",
			body:   "        if (x > max)\n        {\n            throw new ArgumentOutOfRangeException(nameof(x));\n        }",
			method: m.GreaterThan,
			want:   []string{"ArgumentOutOfRangeException.ThrowIfGreaterThan(x, max);"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, rw := walk(t, tt.body, guards.DefaultOptions())

			require.Len(t, rw.Fixes, 1)
			assert.Empty(t, rw.Simplifications)

			fix := rw.Fixes[0]
			assert.Equal(t, tt.method, fix.Method)
			assert.Equal(t, tt.want, fix.Replacements)
			assert.Equal(t, 5, fix.Line)
			assert.True(t, strings.HasPrefix(syntax.Slice(file.Source, fix.Original), "if ("))
		})
	}
}

func TestWalk_ZeroComparisonDisabled(t *testing.T) {
	opts := guards.DefaultOptions()
	opts.ZeroComparison = false

	_, rw := walk(t, `        if (x <= 0) throw new ArgumentOutOfRangeException(nameof(x));`, opts)

	require.Len(t, rw.Fixes, 1)
	assert.Equal(t, []string{"ArgumentOutOfRangeException.ThrowIfNegativeOrZero(x);"}, rw.Fixes[0].Replacements)
}

func TestWalk_LeavesNonGuardsAlone(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"other exception", `        if (x < 0) throw new ArgumentException(nameof(x));`},
		{"no arguments", `        if (x < 0) throw new ArgumentOutOfRangeException();`},
		{"four arguments", `        if (x < 0) throw new ArgumentOutOfRangeException("a", "b", "c", "d");`},
		{"two statements", "        if (x < 0)\n        {\n            Log();\n            throw new ArgumentOutOfRangeException(nameof(x));\n        }"},
		{"else clause", "        if (x < 0) throw new ArgumentOutOfRangeException(nameof(x));\n        else Log();"},
		{"else if branch", "        if (a == 1) Log();\n        else if (x < 0) throw new ArgumentOutOfRangeException(nameof(x));"},
		{"labeled", `        check: if (x < 0) throw new ArgumentOutOfRangeException(nameof(x));`},
		{"less or equal to non zero", `        if (x <= max) throw new ArgumentOutOfRangeException(nameof(x));`},
		{"greater or equal", `        if (x >= max) throw new ArgumentOutOfRangeException(nameof(x));`},
		{"equality", `        if (x == 0) throw new ArgumentOutOfRangeException(nameof(x));`},
		{"conjunction", `        if (x < 0 && a < 0) throw new ArgumentOutOfRangeException(nameof(x));`},
		{"return body", `        if (x < 0) return;`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rw := walk(t, tt.body, guards.DefaultOptions())
			assert.True(t, rw.Empty(), "unexpected rewrite: %+v", rw)
		})
	}
}

func TestWalk_Between(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "lower bound first",
			body: `        if (x < lo || x > hi) throw new ArgumentOutOfRangeException(nameof(x));`,
			want: "ArgumentOutOfRangeException.ThrowIfNotBetween(x, lo, hi);",
		},
		{
			name: "upper bound first",
			body: `        if (x > hi || x < lo) throw new ArgumentOutOfRangeException(nameof(x));`,
			want: "ArgumentOutOfRangeException.ThrowIfNotBetween(x, lo, hi);",
		},
		{
			name: "sentinel lifts enum suppression",
			body: `        if (x < int.MinValue || x > Color.Blue) throw new ArgumentOutOfRangeException(nameof(x));`,
			want: "ArgumentOutOfRangeException.ThrowIfNotBetween(x, int.MinValue, Color.Blue);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rw := walk(t, tt.body, guards.DefaultOptions())

			require.Len(t, rw.Fixes, 1)
			assert.Equal(t, m.NotBetween, rw.Fixes[0].Method)
			assert.Equal(t, []string{tt.want}, rw.Fixes[0].Replacements)
		})
	}
}

func TestWalk_BetweenLeftAlone(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"enum bounds", `        if (x < Color.Red || x > Color.Blue) throw new ArgumentOutOfRangeException(nameof(x));`},
		{"different targets", `        if (x < lo || a > hi) throw new ArgumentOutOfRangeException(nameof(x));`},
		{"same direction", `        if (x < lo || x < hi) throw new ArgumentOutOfRangeException(nameof(x));`},
		{"non comparison disjunct", `        if (x < lo || Invalid()) throw new ArgumentOutOfRangeException(nameof(x));`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rw := walk(t, tt.body, guards.DefaultOptions())
			assert.True(t, rw.Empty(), "unexpected rewrite: %+v", rw)
		})
	}
}

func TestWalk_NestedGuardsVisitedOnce(t *testing.T) {
	body := `        if (a > 0)
        {
            if (x < 0) throw new ArgumentOutOfRangeException(nameof(x));
            if (b > max) throw new ArgumentOutOfRangeException(nameof(b));
        }`

	_, rw := walk(t, body, guards.DefaultOptions())

	require.Len(t, rw.Fixes, 2)
	assert.Equal(t, m.Negative, rw.Fixes[0].Method)
	assert.Equal(t, 7, rw.Fixes[0].Line)
	assert.Equal(t, m.GreaterThan, rw.Fixes[1].Method)
	assert.Equal(t, 8, rw.Fixes[1].Line)
}

func TestWalk_CustomException(t *testing.T) {
	opts := guards.Options{Exception: "RangeError"}

	_, rw := walk(t, `        if (x > max) throw new RangeError(nameof(x));`, opts)

	require.Len(t, rw.Fixes, 1)
	assert.Equal(t, []string{"RangeError.ThrowIfGreaterThan(x, max);"}, rw.Fixes[0].Replacements)
}

type failingValidator struct{}

func (failingValidator) ValidateStatement(context.Context, string) error {
	return adapter.ErrParse
}

func TestWalk_InvalidGeneratedStatementHalts(t *testing.T) {
	file := parse(t, `        if (x < 0) throw new ArgumentOutOfRangeException(nameof(x));`)

	rw, err := guards.Walk(context.Background(), file, guards.DefaultOptions(), failingValidator{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, guards.ErrInvalidTemplate))
	assert.True(t, errors.Is(err, adapter.ErrParse))
	assert.True(t, rw.Empty())
}

func TestWalk_NilValidator(t *testing.T) {
	file := parse(t, `        if (x < 0) throw new ArgumentOutOfRangeException(nameof(x));`)

	rw, err := guards.Walk(context.Background(), file, guards.DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Len(t, rw.Fixes, 1)
}

func TestWalk_RewrittenOutputHasNothingLeft(t *testing.T) {
	body := `        ArgumentOutOfRangeException.ThrowIfNegative(x);
        ArgumentOutOfRangeException.ThrowIfLessThan(x, 0);
        ArgumentOutOfRangeException.ThrowIfNotBetween(a, lo, hi);
        if (b < 0) Log();`

	_, rw := walk(t, body, guards.DefaultOptions())
	assert.True(t, rw.Empty())
}

func TestWalk_MarksEmbeddedGuards(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		embedded bool
	}{
		{
			name:     "statement list",
			body:     `        if (x < 0) throw new ArgumentOutOfRangeException(nameof(x));`,
			embedded: false,
		},
		{
			name:     "braced loop body",
			body:     `        foreach (var i in items) { if (i < 0) throw new ArgumentOutOfRangeException(nameof(items)); }`,
			embedded: false,
		},
		{
			name:     "unbraced foreach body",
			body:     `        foreach (var i in items) if (i < 0) throw new ArgumentOutOfRangeException(nameof(items));`,
			embedded: true,
		},
		{
			name:     "unbraced while body",
			body:     `        while (Next()) if (x > max) throw new ArgumentOutOfRangeException(nameof(x));`,
			embedded: true,
		},
		{
			name:     "consequence of an outer if",
			body:     "        if (check)\n            if (x <= 0) throw new ArgumentOutOfRangeException(nameof(x));",
			embedded: true,
		},
		{
			name: "switch section",
			body: `        switch (x)
        {
            case 1:
                if (a < 0) throw new ArgumentOutOfRangeException(nameof(a));
                break;
        }`,
			embedded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rw := walk(t, tt.body, guards.DefaultOptions())

			require.Len(t, rw.Fixes, 1)
			assert.Equal(t, tt.embedded, rw.Fixes[0].Embedded)
		})
	}
}

func TestWalk_EmbeddedDoubleZero(t *testing.T) {
	body := "        if (check)\n" +
		"            if (a < 0 || b < 0) throw new ArgumentOutOfRangeException(a < 0 ? nameof(a) : nameof(b));"

	_, rw := walk(t, body, guards.DefaultOptions())

	require.Len(t, rw.Simplifications, 1)
	assert.True(t, rw.Simplifications[0].Embedded)
}

func TestWalk_GuardInsideThrowArgumentsIsDropped(t *testing.T) {
	body := `        if (x < 0) throw new ArgumentOutOfRangeException(nameof(x), Describe(() => { if (a < 0) throw new ArgumentOutOfRangeException(nameof(a)); return 1; }));`

	file, rw := walk(t, body, guards.DefaultOptions())

	require.Len(t, rw.Fixes, 1)
	assert.True(t, strings.HasPrefix(syntax.Slice(file.Source, rw.Fixes[0].Original), "if (x < 0)"))
	assert.Equal(t, []string{
		"ArgumentOutOfRangeException.ThrowIfNegative(x);",
		"ArgumentOutOfRangeException.ThrowIfLessThan(x, 0);",
	}, rw.Fixes[0].Replacements)
}
