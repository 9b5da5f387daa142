package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "rangeguard.dev/pkg/rangeguard/internal/model"
)

const diffContextLines = 3

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// SimpleUI implements UI by printing to the cobra command's output.
type SimpleUI struct {
	cmd   *cobra.Command
	color bool
	mode  StartMode
	mu    sync.Mutex
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, color bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, color: color}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := StartConfig{mode: ModeList}
	for _, opt := range options {
		opt(&cfg)
	}

	s.mu.Lock()
	s.mode = cfg.mode
	s.mu.Unlock()

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayFileResult prints what happened to one file. Results may arrive
// from several workers; output for one file is never interleaved.
func (s *SimpleUI) DisplayFileResult(ctx context.Context, result m.FileResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := shortPath(result)

	if result.Err != nil {
		s.printf("%s\n", s.style(errorStyle, fmt.Sprintf("error: %s: %v", path, result.Err)))
		return
	}

	if result.Rewrite.Empty() {
		return
	}

	switch s.mode {
	case ModeList:
		s.printCandidates(path, result.Rewrite)
	case ModeDryRun:
		s.printf("%s", s.renderDiff(path, result.Source.Content, result.Updated))
	case ModeFix:
		if result.Written {
			s.printf("rewrote %s (%d fixes, %d simplifications)\n",
				path, result.Rewrite.AppliedFixes(), len(result.Rewrite.Simplifications))
		}
	}
}

func (s *SimpleUI) printCandidates(path string, rw m.Rewrite) {
	for _, simp := range rw.Simplifications {
		s.printf("%s:%d\tsplit double zero check\n", path, simp.Line)
	}

	for _, fix := range rw.Fixes {
		s.printf("%s:%d\t%s\n", path, fix.Line, fix.Method)
	}
}

func (s *SimpleUI) renderDiff(path string, before, after []byte) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  diffContextLines,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("diff error: %s: %v\n", path, err)
	}

	if !s.color {
		return text
	}

	lines := strings.SplitAfter(text, "\n")
	for i, line := range lines {
		body := strings.TrimRight(line, "\r\n")
		eol := line[len(body):]

		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = headerStyle.Render(body) + eol
		case strings.HasPrefix(line, "+"):
			lines[i] = addedStyle.Render(body) + eol
		case strings.HasPrefix(line, "-"):
			lines[i] = removedStyle.Render(body) + eol
		}
	}

	return strings.Join(lines, "")
}

// DisplaySummary prints a per-file table with totals.
func (s *SimpleUI) DisplaySummary(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.printf("\n%s", renderSummaryTable(report))

	return nil
}

func renderSummaryTable(report m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Fixes", "Simplifications", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	changed := 0

	for _, f := range report.Files {
		if f.Fixes == 0 && f.Simplifications == 0 && f.Error == "" {
			continue
		}

		changed++

		table.Append([]string{string(f.Path), fmt.Sprintf("%d", f.Fixes), fmt.Sprintf("%d", f.Simplifications), fileStatus(f, report.DryRun)})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Files %d/%d", changed, len(report.Files)),
		fmt.Sprintf("%d", report.Fixes),
		fmt.Sprintf("%d", report.Simplifications),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

func fileStatus(f m.FileReport, dryRun bool) string {
	switch {
	case f.Error != "":
		return "error"
	case f.Written:
		return "written"
	case dryRun:
		return "dry run"
	}

	return "pending"
}

func shortPath(result m.FileResult) string {
	if result.Source.Origin == nil {
		return ""
	}

	if result.Source.Origin.ShortPath != "" {
		return string(result.Source.Origin.ShortPath)
	}

	return string(result.Source.Origin.FullPath)
}

func (s *SimpleUI) style(st lipgloss.Style, text string) string {
	if !s.color {
		return text
	}

	return st.Render(text)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
