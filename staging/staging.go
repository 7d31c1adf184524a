package staging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/lifecycle/fsops"
	"github.com/jonwraymond/lifecycle/netmap"
	"github.com/jonwraymond/lifecycle/observe"
)

// TransferFunc bulk-transfers the contents of src into dst and classifies
// the result.
type TransferFunc func(ctx context.Context, src, dst string) (fsops.Outcome, error)

// RemoveFunc recursively removes path. Removing a missing path is not an
// error.
type RemoveFunc func(ctx context.Context, path string) error

// Config holds configuration for a Stager.
type Config struct {
	// Transfer publishes staged content to the destination.
	// Default: fsops.CopyTree.
	Transfer TransferFunc

	// Remove clears destinations and staging directories.
	// Default: fsops.RemoveTree, or fsops.RemoveTreeVia with the Mapper's
	// resolver when a Mapper is configured.
	Remove RemoveFunc

	// Mapper resolves shared destination paths to local handles. Optional.
	Mapper *netmap.Mapper

	// Log receives progress events. Default: discard.
	Log observe.Logger

	// TempDir is where staging directories are created.
	// Default: os.TempDir().
	TempDir string
}

// Stager runs jobs against private staging directories and publishes their
// output to a destination.
//
// Contract:
// - Concurrency: safe for concurrent Run calls; each gets its own directory.
// - Context: the clear and the transfer honor cancellation.
type Stager struct {
	transfer TransferFunc
	remove   RemoveFunc
	mapper   *netmap.Mapper
	log      observe.Logger
	tempDir  string
}

// New creates a Stager, applying defaults for unset fields.
func New(config Config) *Stager {
	s := &Stager{
		transfer: config.Transfer,
		remove:   config.Remove,
		mapper:   config.Mapper,
		log:      config.Log,
		tempDir:  config.TempDir,
	}

	if s.transfer == nil {
		s.transfer = fsops.CopyTree
	}
	if s.remove == nil {
		if s.mapper != nil {
			mapper := s.mapper
			s.remove = func(ctx context.Context, path string) error {
				return fsops.RemoveTreeVia(ctx, path, func(p string) string {
					return netmap.Localize(mapper.Resolve(p))
				})
			}
		} else {
			s.remove = fsops.RemoveTree
		}
	}
	if s.log == nil {
		s.log = observe.NopLogger()
	}
	if s.tempDir == "" {
		s.tempDir = os.TempDir()
	}
	return s
}

type runOptions struct {
	clear bool
}

// RunOption customizes a single Run call.
type RunOption func(*runOptions)

// WithoutClear leaves any previous contents of the destination in place.
func WithoutClear() RunOption {
	return func(o *runOptions) {
		o.clear = false
	}
}

// Run stages a job's output and publishes it to dest.
//
// The body receives a fresh private directory to write into. While it runs,
// the previous contents of dest are removed in the background; the transfer
// starts only after that removal has completed. The staging directory is
// removed on every exit path. A transfer that reports no progress or fails
// outright returns an error wrapping ErrTransferFailed.
func (s *Stager) Run(ctx context.Context, dest string, body func(dir string) error, opts ...RunOption) (err error) {
	options := runOptions{clear: true}
	for _, opt := range opts {
		opt(&options)
	}

	local := dest
	if s.mapper != nil {
		mapping, merr := s.mapper.Acquire(ctx, dest)
		if merr != nil {
			return merr
		}
		defer func() {
			if rerr := mapping.Release(ctx); rerr != nil && err == nil {
				err = rerr
			}
		}()
		local = netmap.Localize(mapping.LocalPath)
	}

	root, err := os.MkdirTemp(s.tempDir, "staging-")
	if err != nil {
		return fmt.Errorf("staging: creating staging directory: %w", err)
	}
	defer func() {
		if rerr := s.remove(context.WithoutCancel(ctx), root); rerr != nil && err == nil {
			err = fmt.Errorf("staging: removing staging directory: %w", rerr)
		}
	}()

	staged := filepath.Join(root, baseName(dest))
	if err := os.MkdirAll(staged, 0o755); err != nil {
		return fmt.Errorf("staging: creating staging directory: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	if options.clear && fsops.Exists(local) {
		s.log.Info(ctx, "removing previous output", observe.Field{Key: "dest", Value: dest})
		g.Go(func() error {
			return s.remove(gctx, local)
		})
	}

	if err := body(staged); err != nil {
		g.Wait()
		return err
	}

	// The transfer must not start until the destination clear is done.
	if err := g.Wait(); err != nil {
		return fmt.Errorf("staging: clearing previous output: %w", err)
	}

	if _, err := fsops.EnsureDir(local); err != nil {
		return fmt.Errorf("staging: preparing destination: %w", err)
	}

	s.log.Info(ctx, "publishing staged output",
		observe.Field{Key: "src", Value: staged},
		observe.Field{Key: "dest", Value: dest},
	)

	outcome, terr := s.transfer(ctx, staged, local)
	if terr != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, terr)
	}
	if outcome == fsops.OutcomeFailed {
		return fmt.Errorf("%w: transfer reported %s", ErrTransferFailed, outcome)
	}

	s.log.Info(ctx, "publish finished",
		observe.Field{Key: "dest", Value: dest},
		observe.Field{Key: "outcome", Value: outcome.String()},
	)
	return nil
}

// Prune removes all but the newest keep entries of an output root. Entries
// are ordered by modification time. A missing root is not an error.
func (s *Stager) Prune(ctx context.Context, root string, keep int) error {
	if keep < 0 {
		keep = 0
	}

	local := root
	if s.mapper != nil {
		local = netmap.Localize(s.mapper.Resolve(root))
	}

	entries, err := os.ReadDir(local)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("staging: reading output root: %w", err)
	}

	type aged struct {
		path  string
		mtime int64
	}

	var dirs []aged
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, ierr := e.Info()
		if ierr != nil {
			continue
		}
		dirs = append(dirs, aged{
			path:  filepath.Join(local, e.Name()),
			mtime: info.ModTime().UnixNano(),
		})
	}

	sort.Slice(dirs, func(i, j int) bool {
		return dirs[i].mtime > dirs[j].mtime
	})

	for _, d := range dirs[min(keep, len(dirs)):] {
		s.log.Info(ctx, "pruning output", observe.Field{Key: "path", Value: d.path})
		if err := s.remove(ctx, d.path); err != nil {
			return fmt.Errorf("staging: pruning %s: %w", d.path, err)
		}
	}
	return nil
}

// baseName returns the final element of p, accepting either path separator
// so share paths work on any platform.
func baseName(p string) string {
	p = strings.TrimRight(p, `/\`)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		p = p[i+1:]
	}
	if p == "" {
		return "output"
	}
	return p
}
