// Package source reads component sources, documentation and assets from the
// design system checkout.
//
// All paths are relative to the content root the Reader was built with.
// Failures are reported as errors wrapping ErrReadFailure so callers can turn
// them into user-facing messages.
package source

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// ErrReadFailure wraps every error returned by Reader.
var ErrReadFailure = errors.New("read failure")

// maxVerifyWorkers bounds the goroutines Verify runs at once.
const maxVerifyWorkers = 8

// Reader is a synchronous file accessor rooted at a content directory.
// It holds no mutable state and is safe for concurrent use.
type Reader struct {
	fs afero.Fs
}

// NewReader returns a Reader over fs. Paths are resolved against the root of fs.
func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

// NewOsReader returns a Reader confined to root on the local filesystem.
// Paths that escape root fail with ErrReadFailure.
func NewOsReader(root string) *Reader {
	return NewReader(afero.NewBasePathFs(afero.NewOsFs(), root))
}

// Read returns the full text of the file at p.
func (r *Reader) Read(p string) (string, error) {
	data, err := r.ReadBytes(p)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s: not valid UTF-8 text", ErrReadFailure, p)
	}
	return string(data), nil
}

// ReadBytes returns the raw content of the file at p.
func (r *Reader) ReadBytes(p string) ([]byte, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailure, err)
	}

	info, err := r.fs.Stat(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailure, p, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s: is a directory", ErrReadFailure, p)
	}

	data, err := afero.ReadFile(r.fs, clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailure, p, err)
	}
	return data, nil
}

// Problem reports one path that Verify could not read.
type Problem struct {
	Path string
	Err  error
}

// Verify reads every path concurrently and returns the ones that failed, in
// input order. It returns ctx.Err() if the context is cancelled first.
func (r *Reader) Verify(ctx context.Context, paths []string) ([]Problem, error) {
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxVerifyWorkers)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, errs[i] = r.Read(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var problems []Problem
	for i, err := range errs {
		if err != nil {
			problems = append(problems, Problem{Path: paths[i], Err: err})
		}
	}
	return problems, nil
}

// cleanPath normalizes a registry path and rejects ones that leave the root.
func cleanPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errors.New("empty path")
	}
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("invalid path %q", p)
	}

	slashed := strings.ReplaceAll(p, "\\", "/")
	clean := strings.TrimPrefix(path.Clean("/"+slashed), "/")
	if clean == "" {
		return "", fmt.Errorf("invalid path %q", p)
	}
	if strings.TrimPrefix(path.Clean(slashed), "/") != clean {
		return "", fmt.Errorf("path %q escapes the content root", p)
	}
	return clean, nil
}
