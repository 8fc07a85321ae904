// Package tree validates, prepares and walks the input and output directory
// trees of a batch run. The output tree mirrors the input tree.
package tree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// DefaultPattern selects N-Triples files at any depth.
const DefaultPattern = "**/*.nt"

const dirMode = 0o755

// Sentinel errors.
var (
	// ErrNotDirectory indicates the input path is not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrOutputExists indicates the output directory exists and overwrite was not requested.
	ErrOutputExists = errors.New("output directory already exists; use --overwrite")
	// ErrReportExists indicates the report file exists and replace was not requested.
	ErrReportExists = errors.New("report file already exists; use --replace")
	// ErrNoParent indicates the parent directory of a path to be created does not exist.
	ErrNoParent = errors.New("parent directory does not exist")
	// ErrBadPattern indicates an invalid file pattern.
	ErrBadPattern = errors.New("invalid file pattern")
	// ErrOutputContainsInput indicates the output directory is, or encloses, the input directory.
	ErrOutputContainsInput = errors.New("output directory must not be or contain the input directory")
)

// File is one eligible input file and its mirrored output location.
type File struct {
	// Rel is the slash-separated path relative to the input root.
	Rel    string
	Input  string
	Output string
}

// ValidateInput checks that dir is an existing directory and returns its absolute path.
func ValidateInput(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%s: %w", dir, err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	return abs, nil
}

// ValidateOutput checks that dir can be (re)created and returns its absolute path.
func ValidateOutput(dir string, overwrite bool) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() && !overwrite {
		return "", fmt.Errorf("%s: %w", dir, ErrOutputExists)
	}

	err = requireParent(abs)
	if err != nil {
		return "", err
	}

	return abs, nil
}

// ValidateReportPath checks that the report file can be (re)created and returns its absolute path.
func ValidateReportPath(path string, replace bool) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	if _, statErr := os.Stat(abs); statErr == nil && !replace {
		return "", fmt.Errorf("%s: %w", path, ErrReportExists)
	}

	err = requireParent(abs)
	if err != nil {
		return "", err
	}

	return abs, nil
}

// CheckDisjoint rejects an output directory that is the input directory or
// one of its ancestors, since preparing it would delete the input. Both
// paths must be absolute. An output nested inside the input is allowed.
func CheckDisjoint(in, out string) error {
	rel, err := filepath.Rel(resolveLinks(out), resolveLinks(in))
	if err != nil {
		return fmt.Errorf("compare %s and %s: %w", in, out, err)
	}

	outside := rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
	if !outside {
		return fmt.Errorf("%s: %w", out, ErrOutputContainsInput)
	}

	return nil
}

// resolveLinks evaluates symlinks in the longest existing prefix of abs.
func resolveLinks(abs string) string {
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved
	}

	parent := filepath.Dir(abs)
	if parent == abs {
		return abs
	}

	return filepath.Join(resolveLinks(parent), filepath.Base(abs))
}

func requireParent(abs string) error {
	parent := filepath.Dir(abs)

	info, err := os.Stat(parent)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("can't create %s: %w", abs, ErrNoParent)
	}

	return nil
}

// PrepareOutput removes dir if it exists and creates it empty.
func PrepareOutput(dir string) error {
	err := os.RemoveAll(dir)
	if err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}

	err = os.Mkdir(dir, dirMode)
	if err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	return nil
}

// Walk mirrors every directory under in into out and returns the regular
// files whose relative path matches pattern, in lexical order.
func Walk(ctx context.Context, in, out, pattern string) ([]File, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}

	var files []File

	err := filepath.WalkDir(in, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		ctxErr := ctx.Err()
		if ctxErr != nil {
			return ctxErr
		}

		rel, err := filepath.Rel(in, path)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", path, err)
		}

		target := filepath.Join(out, rel)

		if d.IsDir() {
			if path == out {
				return filepath.SkipDir
			}

			mkErr := os.MkdirAll(target, dirMode)
			if mkErr != nil {
				return fmt.Errorf("mirror %s: %w", rel, mkErr)
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		slashRel := filepath.ToSlash(rel)
		if !doublestar.MatchUnvalidated(pattern, slashRel) {
			return nil
		}

		files = append(files, File{Rel: slashRel, Input: path, Output: target})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", in, err)
	}

	return files, nil
}

// Run calls fn for every file with at most workers files in flight. A
// non-positive workers value means one. The first error stops new work and
// is returned once running calls finish.
func Run(ctx context.Context, files []File, workers int, fn func(ctx context.Context, f File) error) error {
	if workers <= 0 {
		workers = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for _, f := range files {
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			err := groupCtx.Err()
			if err != nil {
				return err
			}

			return fn(groupCtx, f)
		})
	}

	err := group.Wait()
	if err != nil {
		return err
	}

	return nil
}
