// Package domain contains the guard rewriting workflow and logic.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rangeguard.dev/pkg/rangeguard/internal/adapter"
	"rangeguard.dev/pkg/rangeguard/internal/domain/guards"
	m "rangeguard.dev/pkg/rangeguard/internal/model"
)

// RewriteConfig carries the user-tunable rewrite settings.
type RewriteConfig struct {
	Exception      string
	ZeroComparison bool
	SkipSubstrings []string
}

// DefaultRewriteConfig returns the stock settings.
func DefaultRewriteConfig() RewriteConfig {
	opts := guards.DefaultOptions()

	return RewriteConfig{
		Exception:      opts.Exception,
		ZeroComparison: opts.ZeroComparison,
		SkipSubstrings: DefaultSkipSubstrings(),
	}
}

func (c RewriteConfig) guardOptions() guards.Options {
	exception := c.Exception
	if exception == "" {
		exception = guards.DefaultException
	}

	return guards.Options{Exception: exception, ZeroComparison: c.ZeroComparison}
}

func (c RewriteConfig) filter() SourceFilter {
	return SourceFilter{SkipSubstrings: c.SkipSubstrings, Exception: c.guardOptions().Exception}
}

// Rewriter defines the interface for rewriting a single source file.
type Rewriter interface {
	RewriteSource(ctx context.Context, source m.Source, cfg RewriteConfig) m.FileResult
}

// rewriter handles pure rewrite logic; it never writes files.
type rewriter struct {
	adapter.CSharpFileAdapter
	adapter.SourceFSAdapter
}

// NewRewriter creates a new Rewriter instance.
func NewRewriter(csAdapter adapter.CSharpFileAdapter, fsAdapter adapter.SourceFSAdapter) Rewriter {
	return &rewriter{
		CSharpFileAdapter: csAdapter,
		SourceFSAdapter:   fsAdapter,
	}
}

func (rw *rewriter) RewriteSource(ctx context.Context, source m.Source, cfg RewriteConfig) m.FileResult {
	result := m.FileResult{Source: source}

	if err := validateSource(source); err != nil {
		result.Err = err
		return result
	}

	if err := validateAdapters(rw); err != nil {
		result.Err = err
		return result
	}

	path := source.Origin.FullPath
	filter := cfg.filter()

	if filter.ExcludesPath(path) {
		result.Skipped = m.SkipExcluded
		return result
	}

	if result.Source.Content == nil {
		content, err := rw.ReadFile(path)
		if err != nil {
			result.Err = fmt.Errorf("failed to read %s: %w", path, err)
			return result
		}

		result.Source.Content = content
	}

	if filter.HelperPresent(result.Source.Content) {
		slog.Debug("Skipping file already using helpers", "path", path)

		result.Skipped = m.SkipHelperPresent

		return result
	}

	file, err := rw.Parse(ctx, result.Source.Content)
	if err != nil {
		if errors.Is(err, adapter.ErrParse) {
			slog.Warn("Skipping file with syntax errors", "path", path, "error", err)

			result.Skipped = m.SkipParseError

			return result
		}

		result.Err = fmt.Errorf("failed to parse %s: %w", path, err)

		return result
	}

	rewrite, err := guards.Walk(ctx, file, cfg.guardOptions(), rw.CSharpFileAdapter)
	if err != nil {
		result.Err = fmt.Errorf("rewrite %s: %w", path, err)
		return result
	}

	result.Rewrite = rewrite

	if rewrite.Empty() {
		return result
	}

	updated, err := Apply(result.Source.Content, rewrite)
	if err != nil {
		result.Err = fmt.Errorf("apply rewrite to %s: %w", path, err)
		return result
	}

	result.Updated = updated

	slog.Debug("Rewrote source",
		"path", path,
		"fixes", len(rewrite.Fixes),
		"simplifications", len(rewrite.Simplifications),
	)

	return result
}

func validateSource(source m.Source) error {
	if source.Origin == nil || source.Origin.FullPath == "" {
		return fmt.Errorf("missing source origin")
	}

	return nil
}

func validateAdapters(rw *rewriter) error {
	if rw.SourceFSAdapter == nil || rw.CSharpFileAdapter == nil {
		return fmt.Errorf("missing adapters")
	}

	return nil
}
