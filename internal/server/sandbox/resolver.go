// Package sandbox confines user-supplied relative paths to a per-user
// storage root. Validation is purely lexical on the untrusted input: the
// filesystem is never consulted, so a symlink inside a user's root that
// points outside of it is not detected. Known limitation.
package sandbox

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrPathTraversal signals a path containing a parent-directory
	// component.
	ErrPathTraversal = errors.New("paths referencing the parent directory are not allowed")
	// ErrAbsolutePath signals absolute path input.
	ErrAbsolutePath = errors.New("absolute paths are not allowed")
)

// UserRoot returns the storage root for a user: storageRoot/userID. The
// result is derived only from configuration and the authenticated identity,
// never from request input.
func UserRoot(storageRoot string, userID int64) string {
	return filepath.Join(storageRoot, strconv.FormatInt(userID, 10))
}

// Resolve joins rawPath onto userRoot and returns the absolute destination.
// Any ".." component is rejected before cleaning, as is absolute input of
// either slash convention. No existence check is performed; callers decide
// whether the path must pre-exist.
func Resolve(userRoot, rawPath string) (string, error) {
	if filepath.IsAbs(rawPath) || strings.HasPrefix(rawPath, "/") || strings.HasPrefix(rawPath, "\\") {
		return "", ErrAbsolutePath
	}

	normalized := strings.ReplaceAll(rawPath, "\\", "/")
	for _, part := range strings.Split(normalized, "/") {
		if part == ".." {
			return "", ErrPathTraversal
		}
	}

	return filepath.Join(userRoot, filepath.FromSlash(normalized)), nil
}
