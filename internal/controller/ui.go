// Package controller provides output adapters for displaying rewrite results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "rangeguard.dev/pkg/rangeguard/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeList StartMode = iota
	ModeFix
	ModeDryRun
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithListMode sets the UI to list candidate rewrites only.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// WithFixMode sets the UI to report files as they are rewritten. When dryRun
// is set, diffs are shown instead.
func WithFixMode(dryRun bool) StartOption {
	return func(c *StartConfig) {
		c.mode = ModeFix
		if dryRun {
			c.mode = ModeDryRun
		}
	}
}

// UI defines the interface for displaying rewrite progress and results.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	DisplayFileResult(ctx context.Context, result m.FileResult)
	DisplaySummary(ctx context.Context, report m.Report) error
}

// NewUI returns the UI used by the CLI. Colors are enabled on terminals.
func NewUI(cmd *cobra.Command, tty bool) UI {
	return NewSimpleUI(cmd, tty)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
