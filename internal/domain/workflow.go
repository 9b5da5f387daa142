package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rangeguard.dev/pkg/rangeguard/internal/adapter"
	"rangeguard.dev/pkg/rangeguard/internal/controller"
	m "rangeguard.dev/pkg/rangeguard/internal/model"
)

const defaultFileMode = 0o644

// ListArgs contains the arguments for listing candidate rewrites.
type ListArgs struct {
	Paths   []m.Path
	Exclude []string
	Threads int
	Config  RewriteConfig
}

// FixArgs contains the arguments for rewriting files.
type FixArgs struct {
	ListArgs
	DryRun bool
	Report m.Path
}

// ViewArgs contains the arguments for showing a saved report.
type ViewArgs struct {
	Report m.Path
}

// Workflow defines the interface for the guard rewriting workflow.
type Workflow interface {
	List(ctx context.Context, args ListArgs) error
	Fix(ctx context.Context, args FixArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	Rewriter
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	rewriter Rewriter,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		Rewriter:        rewriter,
	}
}

// List scans the sources and shows every guard that would be rewritten.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	if err := w.Start(ctx, controller.WithListMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	report, err := w.run(ctx, args, false)
	if err != nil {
		return err
	}

	report.DryRun = true

	if err := w.DisplaySummary(ctx, report); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return reportErrors(report)
}

// Fix rewrites the sources in place, or shows diffs when DryRun is set.
func (w *workflow) Fix(ctx context.Context, args FixArgs) error {
	if err := w.Start(ctx, controller.WithFixMode(args.DryRun)); err != nil {
		return err
	}
	defer w.Close(ctx)

	report, err := w.run(ctx, args.ListArgs, !args.DryRun)
	if err != nil {
		return err
	}

	report.DryRun = args.DryRun

	if args.Report != "" {
		if err := w.SaveReport(args.Report, report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}

		slog.Info("Saved report", "path", args.Report, "run_id", report.RunID)
	}

	if err := w.DisplaySummary(ctx, report); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return reportErrors(report)
}

// View prints the summary of a report saved by an earlier fix run.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	if args.Report == "" {
		return errors.New("no report path given")
	}

	report, err := w.LoadReport(args.Report)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	if err := w.Start(ctx, controller.WithFixMode(report.DryRun)); err != nil {
		return err
	}
	defer w.Close(ctx)

	if err := w.DisplaySummary(ctx, report); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

func (w *workflow) run(ctx context.Context, args ListArgs, write bool) (m.Report, error) {
	report := m.Report{RunID: uuid.NewString(), StartedAt: time.Now()}

	sources, err := w.Get(ctx, args.Paths, args.Exclude...)
	if err != nil {
		return report, fmt.Errorf("get sources: %w", err)
	}

	slog.Info("Discovered sources", "count", len(sources), "run_id", report.RunID)

	results, err := w.rewriteAll(ctx, sources, args.Config, args.Threads, write)
	if err != nil {
		return report, err
	}

	for _, r := range results {
		report.Files = append(report.Files, fileReport(r))
		report.Fixes += r.Rewrite.AppliedFixes()
		report.Simplifications += len(r.Rewrite.Simplifications)
	}

	report.FinishedAt = time.Now()

	return report, nil
}

// rewriteAll processes files concurrently; each file is handled start to
// finish by one goroutine. Results keep the order of sources.
func (w *workflow) rewriteAll(ctx context.Context, sources []m.Source, cfg RewriteConfig, threads int, write bool) ([]m.FileResult, error) {
	results := make([]m.FileResult, len(sources))

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	if threads > 0 {
		group.SetLimit(threads)
	}

	for i, source := range sources {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			result := w.RewriteSource(groupCtx, source, cfg)
			if write && result.Err == nil && result.Changed() {
				result.Err = w.writeResult(result)
				result.Written = result.Err == nil
			}

			mu.Lock()
			results[i] = result
			mu.Unlock()

			w.DisplayFileResult(groupCtx, result)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (w *workflow) writeResult(result m.FileResult) error {
	path := result.Source.Origin.FullPath

	perm := os.FileMode(defaultFileMode)
	if info, err := w.FileInfo(path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := w.WriteFile(path, result.Updated, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	slog.Info("Rewrote file",
		"path", path,
		"fixes", result.Rewrite.AppliedFixes(),
		"simplifications", len(result.Rewrite.Simplifications),
	)

	return nil
}

func fileReport(r m.FileResult) m.FileReport {
	fr := m.FileReport{
		Fixes:           r.Rewrite.AppliedFixes(),
		Simplifications: len(r.Rewrite.Simplifications),
		Written:         r.Written,
		Skipped:         string(r.Skipped),
	}

	if r.Source.Origin != nil {
		fr.Path = r.Source.Origin.ShortPath
		if fr.Path == "" {
			fr.Path = r.Source.Origin.FullPath
		}
	}

	if r.Err != nil {
		fr.Error = r.Err.Error()
	}

	return fr
}

func reportErrors(report m.Report) error {
	var errs []error

	for _, f := range report.Files {
		if f.Error != "" {
			errs = append(errs, errors.New(f.Error))
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%d of %d files failed: %w", len(errs), len(report.Files), errors.Join(errs...))
}
