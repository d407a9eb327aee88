// Package access is the workspace access-control collaborator (spec.md
// §6, §8 scenario 6): it loads a `.coolignore` file written in standard
// gitignore syntax and exposes ValidateAccess/ValidateCommand checks
// against it.
package access

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Guard holds the parsed ignore patterns for one workspace root.
type Guard struct {
	root     string
	patterns []string
}

// Load reads `<root>/.coolignore`. A missing file yields an empty,
// permissive Guard rather than an error.
func Load(root string) (*Guard, error) {
	g := &Guard{root: root}
	f, err := os.Open(filepath.Join(root, ".coolignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return g, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		g.patterns = append(g.patterns, line)
	}
	return g, scanner.Err()
}

// ValidateAccess reports whether path is permitted. Paths outside the
// workspace root are always allowed (spec.md §8 scenario 6: "paths
// outside cwd are allowed") — the guard only restricts paths it owns.
func (g *Guard) ValidateAccess(path string) bool {
	rel, err := filepath.Rel(g.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range g.patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
		if ok, _ := doublestar.Match(strings.TrimSuffix(pattern, "/")+"/**", rel); ok {
			return false
		}
	}
	return true
}

// ValidateCommand scans a shell command's arguments for any path
// rejected by ValidateAccess, returning the offending argument (spec.md
// §8 scenario 6: "flagged by validateCommand with the offending argument
// returned").
func (g *Guard) ValidateCommand(args []string) (offending string, blocked bool) {
	for _, arg := range args {
		candidate := arg
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(g.root, candidate)
		}
		if looksLikePath(arg) && !g.ValidateAccess(candidate) {
			return arg, true
		}
	}
	return "", false
}

// looksLikePath filters out flags and bare words unlikely to be a path,
// so ValidateCommand doesn't flag e.g. "-la" in "ls -la".
func looksLikePath(arg string) bool {
	if arg == "" || strings.HasPrefix(arg, "-") {
		return false
	}
	return strings.Contains(arg, "/") || strings.Contains(arg, ".")
}
