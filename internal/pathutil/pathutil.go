// Package pathutil holds the path algebra used to project component references
// from their source tree onto the build output.
//
// Two path flavours meet here. Reference strings and output destinations are
// always slash separated (they come from manifests and asset names), while
// source locations are native filesystem paths. Functions that produce
// destinations use package path; functions that produce source locations use
// package path/filepath.
package pathutil

import (
	"path"
	"path/filepath"
	"strings"
)

const sep = "/"

// IsAbs reports whether a reference string is rooted
func IsAbs(ref string) bool {
	return strings.HasPrefix(ref, sep)
}

// FileDir returns the directory portion of a slash path. A path without any
// separator has an empty directory, and a path directly under the root has "/".
func FileDir(p string) string {
	if len(p) > 1 {
		p = strings.TrimRight(p, sep)
		if p == "" {
			return sep
		}
	}
	idx := strings.LastIndex(p, sep)
	switch {
	case idx < 0:
		return ""
	case idx == 0:
		return sep
	default:
		return p[:idx]
	}
}

// FileName returns everything after the last separator
func FileName(p string) string {
	return p[strings.LastIndex(p, sep)+1:]
}

// Join prefixes ref with parent. An empty parent leaves ref untouched; otherwise
// the result is cleaned and a rooted ref does not discard the parent.
func Join(parent, ref string) string {
	if parent == "" {
		return ref
	}
	return path.Join(parent, ref)
}

// Resolve returns the absolute native path of ref relative to base. A rooted
// ref ignores base; a relative base is made absolute against the working dir.
func Resolve(base, ref string) string {
	native := filepath.FromSlash(ref)
	var p string
	if IsAbs(ref) {
		p = filepath.Clean(native)
	} else {
		p = filepath.Join(base, native)
	}
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}

// ProjectJoin anchors a rooted reference at the project context
func ProjectJoin(projectContext, ref string) string {
	return filepath.Join(projectContext, filepath.FromSlash(ref))
}

// Project maps ref onto the output tree. Relative refs resolve against a
// synthetic root placed at assetDir (the directory of the referencing asset);
// rooted refs are taken as is. The artificial leading separator is removed, so
// the result is always relative and "" stands for the output root.
func Project(assetDir, ref string) string {
	if IsAbs(ref) {
		return StripRoot(path.Clean(ref))
	}
	return StripRoot(path.Join(sep, assetDir, ref))
}

// StripRoot removes one leading separator
func StripRoot(p string) string {
	return strings.TrimPrefix(p, sep)
}
