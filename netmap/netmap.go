package netmap

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// EnvStaticMap is the environment variable holding the static share table
// as a JSON object of share path to local handle.
const EnvStaticMap = "NET_STORAGE_MAP"

// Connector creates and removes temporary mappings for shared resources.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Unmap must be safe to call once per successful Map.
type Connector interface {
	// Map establishes a new local handle for the share root.
	Map(ctx context.Context, shareRoot string) (string, error)

	// Unmap releases a handle previously returned by Map.
	Unmap(ctx context.Context, local string) error
}

// Tier identifies which resolution source produced a mapping.
type Tier string

const (
	// TierLocal means the path needed no mapping.
	TierLocal Tier = "local"
	// TierStatic means the static configuration table resolved the share.
	TierStatic Tier = "static"
	// TierActive means a live mapping discovered from the environment
	// resolved the share.
	TierActive Tier = "active"
	// TierCreated means this acquisition created a temporary mapping.
	TierCreated Tier = "created"
)

// Config configures a Mapper.
type Config struct {
	// Static maps share paths to local handles, consulted first.
	// Default: loaded from the NET_STORAGE_MAP environment variable.
	Static map[string]string

	// Active enumerates live share-to-local mappings established outside
	// this process, consulted after Static. Default: none.
	Active func() map[string]string

	// Connector creates temporary mappings when neither Static nor Active
	// resolves a share. Default: none; Acquire fails with
	// ErrResourceUnavailable for unresolved shares.
	Connector Connector
}

// Mapper resolves shared resource paths to local handles.
type Mapper struct {
	static map[string]string
	active func() map[string]string
	conn   Connector
}

// New creates a Mapper, applying defaults for unset fields.
func New(config Config) *Mapper {
	static := config.Static
	if static == nil {
		static = StaticFromEnv()
	}

	canon := make(map[string]string, len(static))
	for share, local := range static {
		canon[canonical(share)] = strings.TrimRight(local, sep)
	}

	return &Mapper{
		static: canon,
		active: config.Active,
		conn:   config.Connector,
	}
}

// StaticFromEnv loads the static share table from NET_STORAGE_MAP. An
// unset or malformed value yields an empty table.
func StaticFromEnv() map[string]string {
	raw := os.Getenv(EnvStaticMap)
	if raw == "" {
		return nil
	}

	var table map[string]string
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return nil
	}
	return table
}

// Resolve substitutes a local handle for path's share prefix using the
// static table first, then the live mappings. The longest matching prefix
// wins; comparison is case-insensitive. Returns path unchanged when no
// mapping applies.
func (m *Mapper) Resolve(path string) string {
	p := Normalize(path)
	if !strings.HasPrefix(p, sep+sep) {
		return path
	}

	if local, ok := substitute(p, m.static); ok {
		return local
	}
	if m.active != nil {
		live := make(map[string]string)
		for share, local := range m.active() {
			live[canonical(share)] = strings.TrimRight(local, sep)
		}
		if local, ok := substitute(p, live); ok {
			return local
		}
	}
	return path
}

// substitute rewrites the share prefix of p through table. Keys must be
// canonical.
func substitute(p string, table map[string]string) (string, bool) {
	cp := canonical(p)

	prefixes := make([]string, 0, len(table))
	for share := range table {
		prefixes = append(prefixes, share)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	for _, share := range prefixes {
		if cp == share {
			return table[share] + sep, true
		}
		if strings.HasPrefix(cp, share+sep) {
			return table[share] + p[len(share):], true
		}
	}
	return "", false
}

// Mapping is one scoped acquisition of a shared resource.
type Mapping struct {
	// SharedID is the normalized share path that was acquired.
	SharedID string
	// LocalPath is the locally usable handle for SharedID.
	LocalPath string
	// Tier records which resolution source produced the mapping.
	Tier Tier

	owned   bool
	handle  string
	conn    Connector
	release sync.Once
}

// Owned reports whether this acquisition created the underlying mapping
// and therefore owns its teardown.
func (m *Mapping) Owned() bool {
	return m.owned
}

// Release tears down the mapping if this acquisition created it. Borrowed
// mappings are left untouched. Safe to call more than once; teardown runs
// at most once.
func (m *Mapping) Release(ctx context.Context) error {
	if !m.owned {
		return nil
	}

	var err error
	m.release.Do(func() {
		err = m.conn.Unmap(ctx, m.handle)
	})
	return err
}

// Acquire resolves path to a local handle, creating a temporary mapping
// only when the static table and the live mappings both miss. The caller
// must call Release on the returned Mapping; Release is a no-op for
// borrowed and local mappings.
func (m *Mapper) Acquire(ctx context.Context, path string) (*Mapping, error) {
	p := Normalize(path)

	if !strings.HasPrefix(p, sep+sep) {
		return &Mapping{SharedID: p, LocalPath: path, Tier: TierLocal}, nil
	}

	if local, ok := substitute(p, m.static); ok {
		return &Mapping{SharedID: p, LocalPath: local, Tier: TierStatic}, nil
	}
	if m.active != nil {
		live := make(map[string]string)
		for share, handle := range m.active() {
			live[canonical(share)] = strings.TrimRight(handle, sep)
		}
		if local, ok := substitute(p, live); ok {
			return &Mapping{SharedID: p, LocalPath: local, Tier: TierActive}, nil
		}
	}

	root, rest, ok := ShareRoot(p)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a share path", ErrResourceUnavailable, path)
	}
	if m.conn == nil {
		return nil, fmt.Errorf("%w: no mapping for %s and no connector configured", ErrResourceUnavailable, root)
	}

	handle, err := m.conn.Map(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("%w: mapping %s: %w", ErrResourceUnavailable, root, err)
	}

	return &Mapping{
		SharedID:  p,
		LocalPath: Join(handle, rest),
		Tier:      TierCreated,
		owned:     true,
		handle:    handle,
		conn:      m.conn,
	}, nil
}

// With acquires path, runs fn with the local handle, and releases any
// mapping the acquisition created, whether or not fn fails.
func (m *Mapper) With(ctx context.Context, path string, fn func(local string) error) error {
	mapping, err := m.Acquire(ctx, path)
	if err != nil {
		return err
	}

	err = fn(mapping.LocalPath)

	if rerr := mapping.Release(ctx); rerr != nil && err == nil {
		err = rerr
	}
	return err
}
