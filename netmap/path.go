package netmap

import (
	"path/filepath"
	"strings"
)

const sep = `\`

// Normalize converts separators to backslashes and collapses repeated
// separators, preserving the leading double backslash of a share path.
// Trailing separators are dropped.
func Normalize(path string) string {
	p := strings.ReplaceAll(path, "/", sep)
	shared := strings.HasPrefix(p, sep+sep)

	parts := strings.FieldsFunc(p, func(r rune) bool { return r == '\\' })
	joined := strings.Join(parts, sep)

	if shared {
		return sep + sep + joined
	}
	return joined
}

// IsShared reports whether path is a UNC-style share path.
func IsShared(path string) bool {
	return strings.HasPrefix(Normalize(path), sep+sep)
}

// ShareRoot splits a share path into its \\server\share root and the
// remainder within the share. ok is false when path is not a share path or
// names a server without a share.
func ShareRoot(path string) (root, rest string, ok bool) {
	p := Normalize(path)
	if !strings.HasPrefix(p, sep+sep) {
		return "", "", false
	}

	parts := strings.Split(strings.TrimPrefix(p, sep+sep), sep)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}

	root = sep + sep + parts[0] + sep + parts[1]
	rest = strings.Join(parts[2:], sep)
	return root, rest, true
}

// Join appends a share-relative remainder to a local handle such as a
// drive letter.
func Join(local, rest string) string {
	local = strings.TrimRight(local, sep)
	if rest == "" {
		return local + sep
	}
	return local + sep + rest
}

// Localize converts a resolved local handle to the host's separator so it
// can be used with the os and filepath packages.
func Localize(path string) string {
	return filepath.FromSlash(strings.ReplaceAll(path, sep, "/"))
}

// canonical is the case-insensitive lookup form of a share path.
func canonical(path string) string {
	return strings.ToLower(Normalize(path))
}
