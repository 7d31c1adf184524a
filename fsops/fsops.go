package fsops

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/lifecycle/netmap"
)

// CopyTree copies the directory tree at src into dst, creating dst and any
// missing parents. Files are copied concurrently on a worker pool bounded
// by the CPU count. The returned Outcome distinguishes content copied,
// nothing to copy, and failure; on OutcomeFailed the error carries the
// first cause.
func CopyTree(ctx context.Context, src, dst string) (Outcome, error) {
	info, err := os.Stat(src)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("fsops: stat source: %w", err)
	}

	// A single file source copies to dst as a file.
	if !info.IsDir() {
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return OutcomeFailed, fmt.Errorf("fsops: create destination: %w", err)
		}
		if err := copyFile(src, dst, info.Mode()); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeComplete, nil
	}

	var copied atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	walkErr := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}

		g.Go(func() error {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if err := copyFile(path, target, fi.Mode()); err != nil {
				return err
			}
			copied.Add(1)
			return nil
		})
		return nil
	})

	copyErr := g.Wait()

	if walkErr != nil {
		return OutcomeFailed, fmt.Errorf("fsops: walk %s: %w", src, walkErr)
	}
	if copyErr != nil {
		return OutcomeFailed, fmt.Errorf("fsops: copy into %s: %w", dst, copyErr)
	}
	if copied.Load() == 0 {
		return OutcomePartial, nil
	}
	return OutcomeComplete, nil
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// ResolveFunc produces an alternate local handle for a path, or returns
// the path unchanged when no alternate exists.
type ResolveFunc func(path string) string

// RemoveTree recursively removes path. A missing path is not an error.
func RemoveTree(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("fsops: remove %s: %w", path, err)
	}
	return nil
}

// RemoveTreeVia removes path, retrying once through an alternate handle
// from resolve when the first removal fails. Shared and local handles for
// the same resource can carry different permissions, so a removal that is
// denied under one handle may succeed under the other. Exactly one
// alternate is tried, never a chain.
func RemoveTreeVia(ctx context.Context, path string, resolve ResolveFunc) error {
	err := RemoveTree(ctx, path)
	if err == nil || resolve == nil {
		return err
	}

	alt := resolve(path)
	if alt == path {
		return err
	}
	if _, serr := os.Stat(alt); serr != nil {
		return err
	}
	return RemoveTree(ctx, alt)
}

// EnsureDir creates the directory for path. A path with a file extension
// has its parent created instead. Returns path unchanged.
func EnsureDir(path string) (string, error) {
	dir := path
	if filepath.Ext(dir) != "" {
		dir = filepath.Dir(dir)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return path, fmt.Errorf("fsops: ensure %s: %w", dir, err)
	}
	return path, nil
}

// ProbeShare forces establishment of the connection backing a shared path
// by listing its share root. Local paths probe as reachable.
func ProbeShare(path string) bool {
	root, _, ok := netmap.ShareRoot(path)
	if !ok {
		return true
	}
	_, err := os.ReadDir(root)
	return err == nil
}

// Exists reports whether path exists, probing its share first when the
// path is shared. A dormant share connection makes a plain stat fail even
// though the file is there.
func Exists(path string) bool {
	if netmap.IsShared(path) && !ProbeShare(path) {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
