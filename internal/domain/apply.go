package domain

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	m "rangeguard.dev/pkg/rangeguard/internal/model"
)

// ErrOverlappingEdits is returned when two rewrites touch the same bytes.
var ErrOverlappingEdits = errors.New("overlapping edits")

type edit struct {
	span       m.Span
	statements []string
	embedded   bool
}

// Apply splices a rewrite into src. Simplifications take precedence: when a
// file has any, its fixes are left for a later pass. Each original statement
// is replaced in place, so its indentation and trailing trivia are kept;
// multiple statements are joined with the file's line ending and the
// original statement's indentation. Several statements replacing an
// embedded statement, such as an unbraced loop body, are wrapped in a block
// so they stay under the same parent.
func Apply(src []byte, rw m.Rewrite) ([]byte, error) {
	edits := collectEdits(rw)
	if len(edits) == 0 {
		return src, nil
	}

	sort.Slice(edits, func(i, j int) bool {
		return edits[i].span.Start < edits[j].span.Start
	})

	for i, e := range edits {
		if e.span.Start < 0 || e.span.End > len(src) || e.span.Start > e.span.End {
			return nil, fmt.Errorf("edit %d..%d outside of %d byte source", e.span.Start, e.span.End, len(src))
		}

		if i > 0 && edits[i-1].span.Overlaps(e.span) {
			return nil, fmt.Errorf("%w at bytes %d and %d", ErrOverlappingEdits, edits[i-1].span.Start, e.span.Start)
		}
	}

	newline := lineEnding(src)
	out := append([]byte(nil), src...)

	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		out = replaceRange(out, e.span.Start, e.span.End, e.text(src, newline))
	}

	return out, nil
}

func collectEdits(rw m.Rewrite) []edit {
	if len(rw.Simplifications) > 0 {
		edits := make([]edit, 0, len(rw.Simplifications))
		for _, s := range rw.Simplifications {
			edits = append(edits, edit{span: s.Original, statements: s.Replacements[:], embedded: s.Embedded})
		}

		return edits
	}

	edits := make([]edit, 0, len(rw.Fixes))
	for _, f := range rw.Fixes {
		edits = append(edits, edit{span: f.Original, statements: f.Replacements, embedded: f.Embedded})
	}

	return edits
}

func (e edit) text(src []byte, newline string) string {
	if e.embedded && len(e.statements) > 1 {
		return "{ " + strings.Join(e.statements, " ") + " }"
	}

	return strings.Join(e.statements, separatorAt(src, e.span.Start, newline))
}

func replaceRange(content []byte, start, end int, replacement string) []byte {
	out := make([]byte, 0, len(content)-(end-start)+len(replacement))
	out = append(out, content[:start]...)
	out = append(out, replacement...)

	return append(out, content[end:]...)
}

func lineEnding(src []byte) string {
	if bytes.Contains(src, []byte("\r\n")) {
		return "\r\n"
	}

	return "\n"
}

// separatorAt returns the text placed between two statements replacing the
// statement at offset: a line break plus the line's indentation, or a single
// space when other code precedes offset on that line.
func separatorAt(src []byte, offset int, newline string) string {
	lineStart := bytes.LastIndexByte(src[:offset], '\n') + 1
	prefix := src[lineStart:offset]

	if len(bytes.TrimLeft(prefix, " \t")) != 0 {
		return " "
	}

	return newline + string(prefix)
}
