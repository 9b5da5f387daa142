package model

import "time"

// SkipReason explains why a file was not rewritten.
type SkipReason string

const (
	// SkipNone means the file was scanned.
	SkipNone SkipReason = ""
	// SkipExcluded means a path filter excluded the file.
	SkipExcluded SkipReason = "excluded"
	// SkipHelperPresent means the file already calls the helper methods.
	SkipHelperPresent SkipReason = "helper-present"
	// SkipParseError means the C# parser reported syntax errors.
	SkipParseError SkipReason = "parse-error"
)

// FileResult holds the rewrite outcome for a single source file.
type FileResult struct {
	Source  Source
	Rewrite Rewrite
	Skipped SkipReason
	Written bool
	Updated []byte
	Err     error
}

// Changed reports whether the file content differs after the rewrite.
func (r FileResult) Changed() bool {
	return r.Updated != nil && string(r.Updated) != string(r.Source.Content)
}

// FileReport is the persisted summary of one file.
type FileReport struct {
	Path            Path   `yaml:"path"`
	Fixes           int    `yaml:"fixes"`
	Simplifications int    `yaml:"simplifications"`
	Written         bool   `yaml:"written"`
	Skipped         string `yaml:"skipped,omitempty"`
	Error           string `yaml:"error,omitempty"`
}

// Report is the persisted summary of one run.
type Report struct {
	RunID           string       `yaml:"run_id"`
	StartedAt       time.Time    `yaml:"started_at"`
	FinishedAt      time.Time    `yaml:"finished_at"`
	DryRun          bool         `yaml:"dry_run"`
	Fixes           int          `yaml:"fixes"`
	Simplifications int          `yaml:"simplifications"`
	Files           []FileReport `yaml:"files"`
}
