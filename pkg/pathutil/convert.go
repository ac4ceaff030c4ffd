// Package pathutil converts user-supplied file paths into the slash-separated,
// root-relative form that exclude globs are written against.
//
// Files are always opened and reported with the exact path the user gave;
// the converted form is only used for matching.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.go", "/home/user/project") → "src/main.go"
//   - ToRelative("/other/location/file.go", "/home/user/project") → "/other/location/file.go" (outside root)
//   - ToRelative("src/main.go", "/home/user/project") → "src/main.go" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// Conversion failed (e.g., different drives on Windows) - return absolute
		return absPath
	}

	// Outside the root the absolute path is clearer
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return relPath
}

// MatchPath returns the form of path that exclude globs are matched against:
// cleaned, relative to rootDir when inside it, with forward slashes.
func MatchPath(path, rootDir string) string {
	if path == "" {
		return ""
	}
	return filepath.ToSlash(filepath.Clean(ToRelative(path, rootDir)))
}

// IsExcluded reports whether path matches any of the doublestar patterns.
// Malformed patterns never match; validate them up front with
// doublestar.ValidatePattern.
func IsExcluded(path, rootDir string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	candidates := []string{MatchPath(path, rootDir)}
	// Paths outside the root stay absolute; let "**/x" style patterns see them unrooted too.
	if trimmed := strings.TrimPrefix(candidates[0], "/"); trimmed != candidates[0] {
		candidates = append(candidates, trimmed)
	}
	for _, pattern := range patterns {
		for _, candidate := range candidates {
			matched, err := doublestar.Match(pattern, candidate)
			if err != nil {
				break
			}
			if matched {
				return true
			}
		}
	}
	return false
}

// FilterExcluded splits files into those to scan and those skipped by a
// pattern. Order is preserved in both results.
func FilterExcluded(files []string, rootDir string, patterns []string) (kept, excluded []string) {
	kept = make([]string, 0, len(files))
	for _, f := range files {
		if IsExcluded(f, rootDir, patterns) {
			excluded = append(excluded, f)
			continue
		}
		kept = append(kept, f)
	}
	return kept, excluded
}
