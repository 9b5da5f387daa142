// Package adapter contains UI and infrastructure adapters for the rangeguard CLI.
package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	m "rangeguard.dev/pkg/rangeguard/internal/model"
)

const (
	sourceExt       = ".cs"
	recursiveSuffix = "/..."
)

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning user projects. It intentionally hides direct `os`
// access so the workflow logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// Get resolves path patterns into C# sources. A trailing "/..." scans
	// recursively, a directory is scanned without descending, a file is
	// taken as is. Paths matching any exclude regex are dropped.
	Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Source, error)

	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path so the domain can check existence or
	// distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the disk-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Get resolves path patterns into a sorted, de-duplicated source list.
func (a *LocalSourceFSAdapter) Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Source, error) {
	patterns, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []m.Path{"." + recursiveSuffix}
	}

	seen := make(map[string]struct{})

	var sources []m.Source

	add := func(path string) {
		if filepath.Ext(path) != sourceExt || excluded(patterns, path) {
			return
		}

		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			return
		}

		seen[clean] = struct{}{}
		sources = append(sources, m.Source{Origin: &m.File{FullPath: absPath(clean), ShortPath: m.Path(clean)}})
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		root, recursive := splitPattern(string(p))

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			add(root)
			continue
		}

		err = a.Walk(m.Path(root), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				if path != root && isBuildDir(info.Name()) {
					return filepath.SkipDir
				}

				return nil
			}

			add(path)

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Origin.ShortPath < sources[j].Origin.ShortPath
	})

	return sources, nil
}

func splitPattern(p string) (string, bool) {
	p = filepath.ToSlash(p)
	if p == "..." {
		return ".", true
	}

	if strings.HasSuffix(p, recursiveSuffix) {
		root := strings.TrimSuffix(p, recursiveSuffix)
		if root == "" {
			root = "/"
		}

		return filepath.FromSlash(root), true
	}

	return filepath.FromSlash(p), false
}

func isBuildDir(name string) bool {
	switch name {
	case ".git", "bin", "obj", "node_modules":
		return true
	}

	return false
}

func compileExcludes(exclude []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(exclude))

	for _, e := range exclude {
		if strings.TrimSpace(e) == "" {
			continue
		}

		re, err := regexp.Compile(e)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", e, err)
		}

		patterns = append(patterns, re)
	}

	return patterns, nil
}

func excluded(patterns []*regexp.Regexp, path string) bool {
	slashed := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(slashed) {
			return true
		}
	}

	return false
}

func absPath(path string) m.Path {
	abs, err := filepath.Abs(path)
	if err != nil {
		return m.Path(path)
	}

	return m.Path(abs)
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}
