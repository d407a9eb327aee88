// Package indexer is the incremental indexer (spec.md §4.5): it keeps
// the symbol store in sync with the workspace by walking the filesystem,
// diffing against stored file rows, and scheduling per-file ingestion
// through the transaction coordinator.
//
// Grounded on mvp-joe-canopy's engine.go: walkListFiles supplies the
// filesystem-walk shape (skip hidden dirs, skip a closed deny set), and
// IndexFiles/indexFile supply the per-file pipeline shape. The teacher's
// git-ls-files discovery path is dropped — spec.md §4.5 describes a
// directory-queue scan with configured include directories, not a VCS
// integration — and the priority/batch scheduler (absent from the
// teacher, which processes paths serially or via a parallel worker pool
// with no priority concept) is new.
package indexer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/coolcline/codeindex/internal/grammar"
)

// priorityDirs are searched first when no include directories are
// configured, and grant priority-50 scheduling to files beneath them
// (spec.md §4.5).
var priorityDirs = map[string]bool{
	"src": true, "lib": true, "app": true, "core": true,
}

// skipDirs is the closed exclusion set: package manager caches, VCS
// dirs, build outputs, IDE state, docs/examples (spec.md §4.5).
var skipDirs = map[string]bool{
	"node_modules": true, "vendor": true, ".git": true, ".hg": true, ".svn": true,
	"dist": true, "build": true, "out": true, "target": true, "bin": true, "obj": true,
	".idea": true, ".vscode": true, ".vs": true,
	"__pycache__": true, ".pytest_cache": true, ".mypy_cache": true,
	"docs": true, "examples": true, "coverage": true,
}

// testDirSegments marks a path as test-only when include_tests is false
// (spec.md §4.5).
var testDirSegments = map[string]bool{
	"test": true, "tests": true, "spec": true, "coverage": true,
	"__tests__": true, "__test__": true, "__mocks__": true,
}

// binaryExt is the binary-and-media deny list, filtered regardless of
// include_tests (spec.md §4.5).
var binaryExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".ico": true,
	".svg": true, ".webp": true, ".mp3": true, ".mp4": true, ".mov": true, ".avi": true,
	".zip": true, ".tar": true, ".gz": true, ".7z": true, ".pdf": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".so": true, ".dll": true, ".dylib": true, ".exe": true, ".o": true, ".a": true,
}

// ScanOptions configures a workspace scan.
type ScanOptions struct {
	// IncludeDirs overrides the default (src, lib, app, core). Falls
	// back to the workspace root when none of the configured (or
	// default) directories exist.
	IncludeDirs []string
	// IncludeTests disables the test-directory exclusion when true.
	IncludeTests bool
}

func defaultIncludeDirs() []string {
	return []string{"src", "lib", "app", "core"}
}

// FileEntry is one discovered file and its observed mtime.
type FileEntry struct {
	Path         string
	LastModified int64 // ms since epoch
	Priority     int
}

// Scan walks root under the configured include directories (or root
// itself if none exist) and returns every eligible file, in the
// iterative, queue-of-directories style spec.md §4.5 describes: control
// is yielded (via yield, if non-nil) every 10 directories.
func Scan(root string, opts ScanOptions, yield func()) ([]FileEntry, error) {
	include := opts.IncludeDirs
	if len(include) == 0 {
		include = defaultIncludeDirs()
	}

	var roots []string
	for _, dir := range include {
		p := filepath.Join(root, dir)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			roots = append(roots, p)
		}
	}
	if len(roots) == 0 {
		roots = []string{root}
	}

	var entries []FileEntry
	dirCount := 0
	queue := append([]string(nil), roots...)

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		dirEntries, err := os.ReadDir(dir)
		if err != nil {
			continue // unreadable directory: skip, don't abort the scan
		}

		dirCount++
		if dirCount%10 == 0 && yield != nil {
			yield()
		}

		for _, de := range dirEntries {
			name := de.Name()
			full := filepath.Join(dir, name)

			if de.IsDir() {
				if strings.HasPrefix(name, ".") || skipDirs[name] {
					continue
				}
				queue = append(queue, full)
				continue
			}

			if !eligible(full, opts.IncludeTests) {
				continue
			}

			info, err := de.Info()
			if err != nil {
				continue
			}

			entries = append(entries, FileEntry{
				Path:         full,
				LastModified: info.ModTime().UnixMilli(),
				Priority:     priorityFor(full, root),
			})
		}
	}

	return entries, nil
}

func eligible(path string, includeTests bool) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if binaryExt[ext] {
		return false
	}
	if grammar.LanguageForFile(path) == grammar.Plaintext {
		return false
	}
	if !includeTests && isTestPath(path) {
		return false
	}
	return true
}

func isTestPath(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if testDirSegments[strings.ToLower(seg)] {
			return true
		}
	}
	return false
}

// priorityFor assigns the static scheduling priority spec.md §4.5
// describes for files under a priority directory (50) vs. elsewhere
// (10). No file is given the higher 100 tier for a file currently open
// in the host: the Scheduler orders only by the priorities set here.
func priorityFor(path, root string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 10
	}
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if priorityDirs[seg] {
			return 50
		}
	}
	return 10
}
