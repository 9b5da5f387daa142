package domain

import (
	"bytes"
	"path/filepath"
	"strings"

	m "rangeguard.dev/pkg/rangeguard/internal/model"
)

// DefaultSkipSubstrings lists path fragments of reference assemblies, test
// trees and ASN.1 code, which are never rewritten.
func DefaultSkipSubstrings() []string {
	return []string{"/ref/", "/tests/", "asn.xml", "asn1"}
}

// SourceFilter decides which files the rewriter may touch.
type SourceFilter struct {
	// SkipSubstrings are matched case-insensitively against the path with
	// every separator turned into a forward slash.
	SkipSubstrings []string
	// Exception is the exception type name; files named after it and files
	// already calling its helpers are skipped.
	Exception string
}

// ExcludesPath reports whether path must not be rewritten.
func (f SourceFilter) ExcludesPath(path m.Path) bool {
	p := strings.ToLower(strings.ReplaceAll(filepath.ToSlash(string(path)), `\`, "/"))

	for _, s := range f.SkipSubstrings {
		if s != "" && strings.Contains(p, strings.ToLower(s)) {
			return true
		}
	}

	return f.Exception != "" && strings.Contains(string(path), f.Exception)
}

// HelperPresent reports whether content already calls one of the
// `<Exception>.ThrowIf...` helpers.
func (f SourceFilter) HelperPresent(content []byte) bool {
	if f.Exception == "" {
		return false
	}

	return bytes.Contains(content, []byte(f.Exception+".ThrowIf"))
}
