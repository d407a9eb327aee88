// Package imports implements the per-language import resolvers spec.md
// §4.6.1 describes: given a file, return the absolute paths of the
// files it directly imports. Each resolver is a best-effort textual
// scan, not a full parse — failures (permission, missing project root)
// return an empty list.
package imports

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DirectImports dispatches to the resolver for lang.
func DirectImports(lang, file string) []string {
	resolver, ok := resolvers[lang]
	if !ok {
		return nil
	}
	src, err := os.ReadFile(file)
	if err != nil {
		slog.Warn("imports: read failed", "file", file, "error", err)
		return nil
	}
	paths := resolver(file, string(src))
	return existingOnly(paths)
}

var resolvers = map[string]func(file, src string) []string{
	"typescript": resolveJSLike,
	"javascript": resolveJSLike,
	"python":     resolvePython,
	"java":       resolveJava,
	"csharp":     resolveCSharp,
	"c":          resolveCLike,
	"cpp":        resolveCLike,
	"go":         resolveGo,
	"ruby":       resolveRuby,
	"php":        resolvePHP,
	"rust":       resolveRust,
	"swift":      resolveSwift,
	"kotlin":     resolveKotlin,
}

func existingOnly(paths []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// nearestAncestorWith walks up from dir looking for a directory
// containing any of markers. A marker may be a glob pattern such as
// "*.csproj".
func nearestAncestorWith(dir string, markers ...string) (string, bool) {
	for {
		for _, m := range markers {
			if matches, _ := filepath.Glob(filepath.Join(dir, m)); len(matches) > 0 {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func resolveRelative(base, spec string, exts []string) string {
	candidate := filepath.Join(filepath.Dir(base), spec)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	for _, ext := range exts {
		if _, err := os.Stat(candidate + ext); err == nil {
			return candidate + ext
		}
	}
	for _, ext := range exts {
		idx := filepath.Join(candidate, "index"+ext)
		if _, err := os.Stat(idx); err == nil {
			return idx
		}
	}
	return ""
}

var jsImportRe = regexp.MustCompile(`(?:import\s.*?from\s+|require\()\s*['"]([^'"]+)['"]`)

func resolveJSLike(file, src string) []string {
	var out []string
	for _, m := range jsImportRe.FindAllStringSubmatch(src, -1) {
		spec := m[1]
		if !strings.HasPrefix(spec, ".") {
			continue // only relative paths are resolved (spec.md §4.6.1)
		}
		out = append(out, resolveRelative(file, spec, []string{".ts", ".tsx", ".js", ".jsx"}))
	}
	return out
}

var (
	pyImportRe     = regexp.MustCompile(`(?m)^\s*import\s+([\w.]+)`)
	pyFromImportRe = regexp.MustCompile(`(?m)^\s*from\s+([\w.]+)\s+import`)
)

func resolvePython(file, src string) []string {
	dir := filepath.Dir(file)
	var out []string
	add := func(mod string) {
		rel := strings.ReplaceAll(mod, ".", string(filepath.Separator))
		if p := filepath.Join(dir, rel+".py"); fileExists(p) {
			out = append(out, p)
			return
		}
		if p := filepath.Join(dir, rel, "__init__.py"); fileExists(p) {
			out = append(out, p)
		}
	}
	for _, m := range pyImportRe.FindAllStringSubmatch(src, -1) {
		add(m[1])
	}
	for _, m := range pyFromImportRe.FindAllStringSubmatch(src, -1) {
		add(m[1])
	}
	return out
}

var javaImportRe = regexp.MustCompile(`(?m)^\s*import\s+(?:static\s+)?([\w.]+)(?:\.\*)?;`)

func resolveJava(file, src string) []string {
	root, ok := nearestAncestorWith(filepath.Dir(file), "pom.xml", "build.gradle", ".git")
	if !ok {
		return nil
	}
	var out []string
	for _, m := range javaImportRe.FindAllStringSubmatch(src, -1) {
		rel := strings.ReplaceAll(m[1], ".", string(filepath.Separator)) + ".java"
		for _, base := range []string{"src/main/java", "src", "java"} {
			p := filepath.Join(root, base, rel)
			if fileExists(p) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

var csUsingRe = regexp.MustCompile(`(?m)^\s*using\s+(?:static\s+)?(?:\w+\s*=\s*)?([\w.]+)\s*;`)

func resolveCSharp(file, src string) []string {
	root, ok := nearestAncestorWith(filepath.Dir(file), "*.csproj", "*.sln")
	if !ok {
		root, ok = nearestAncestorWith(filepath.Dir(file), ".git")
		if !ok {
			return nil
		}
	}
	var out []string
	for _, m := range csUsingRe.FindAllStringSubmatch(src, -1) {
		ns := m[1]
		segs := strings.Split(ns, ".")
		trailing := segs[len(segs)-1]
		best := bestNamespaceMatch(root, segs, trailing)
		if best != "" {
			out = append(out, best)
		}
	}
	return out
}

// bestNamespaceMatch globs for a C# file named after the trailing
// namespace identifier and picks the candidate whose path segments
// overlap ns the most (spec.md §4.6.1's C# resolution rule).
func bestNamespaceMatch(root string, ns []string, trailing string) string {
	matches, _ := filepath.Glob(filepath.Join(root, "**", trailing+".cs"))
	if len(matches) == 0 {
		matches, _ = filepath.Glob(filepath.Join(root, trailing+".cs"))
	}
	best, bestScore := "", -1
	for _, m := range matches {
		score := overlapScore(filepath.ToSlash(m), ns)
		if score > bestScore {
			best, bestScore = m, score
		}
	}
	return best
}

func overlapScore(path string, segs []string) int {
	score := 0
	for _, s := range segs {
		if strings.Contains(path, s) {
			score++
		}
	}
	return score
}

var cIncludeRe = regexp.MustCompile(`(?m)^\s*#include\s+"([^"]+)"`)

func resolveCLike(file, src string) []string {
	var out []string
	dir := filepath.Dir(file)
	for _, m := range cIncludeRe.FindAllStringSubmatch(src, -1) {
		p := filepath.Join(dir, m[1])
		if fileExists(p) {
			out = append(out, p)
			continue
		}
		if root, ok := nearestAncestorWith(dir, ".git"); ok {
			alt := filepath.Join(root, "include", m[1])
			if fileExists(alt) {
				out = append(out, alt)
			}
		}
	}
	return out
}

var (
	goImportRe      = regexp.MustCompile(`"([^"]+)"`)
	goImportLineRe  = regexp.MustCompile(`(?m)^\s*import\s+(\([\s\S]*?\)|"[^"]+")`)
)

func resolveGo(file, src string) []string {
	root, hasMod := nearestAncestorWith(filepath.Dir(file), "go.mod")
	var out []string
	for _, block := range goImportLineRe.FindAllStringSubmatch(src, -1) {
		for _, m := range goImportRe.FindAllStringSubmatch(block[1], -1) {
			spec := m[1]
			if hasMod {
				if p := filepath.Join(root, spec, filepath.Base(spec)+".go"); dirExists(filepath.Join(root, spec)) {
					_ = p
					out = append(out, filepath.Join(root, spec))
					continue
				}
			}
			if gopath := os.Getenv("GOPATH"); gopath != "" {
				p := filepath.Join(gopath, "src", spec)
				if dirExists(p) {
					out = append(out, p)
					continue
				}
			}
			if hasMod {
				p := filepath.Join(root, "vendor", spec)
				if dirExists(p) {
					out = append(out, p)
				}
			}
		}
	}
	return out
}

var (
	rubyRequireRe         = regexp.MustCompile(`(?m)^\s*require\s+['"]([^'"]+)['"]`)
	rubyRequireRelativeRe = regexp.MustCompile(`(?m)^\s*require_relative\s+['"]([^'"]+)['"]`)
)

func resolveRuby(file, src string) []string {
	dir := filepath.Dir(file)
	var out []string
	for _, m := range rubyRequireRelativeRe.FindAllStringSubmatch(src, -1) {
		if p := dir + string(filepath.Separator) + m[1] + ".rb"; fileExists(p) {
			out = append(out, p)
		}
	}
	for _, m := range rubyRequireRe.FindAllStringSubmatch(src, -1) {
		for _, base := range []string{"lib", "app"} {
			if root, ok := nearestAncestorWith(dir, ".git"); ok {
				p := filepath.Join(root, base, m[1]+".rb")
				if fileExists(p) {
					out = append(out, p)
				}
			}
		}
	}
	return out
}

var (
	phpRequireRe = regexp.MustCompile(`(?:require|include)(?:_once)?\s*\(?\s*['"]([^'"]+)['"]`)
	phpUseRe     = regexp.MustCompile(`(?m)^\s*use\s+([\w\\]+)\s*;`)
)

func resolvePHP(file, src string) []string {
	dir := filepath.Dir(file)
	var out []string
	for _, m := range phpRequireRe.FindAllStringSubmatch(src, -1) {
		if p := filepath.Join(dir, m[1]); fileExists(p) {
			out = append(out, p)
		}
	}
	root, ok := nearestAncestorWith(dir, "composer.json", ".git")
	if ok {
		for _, m := range phpUseRe.FindAllStringSubmatch(src, -1) {
			rel := strings.ReplaceAll(strings.TrimPrefix(m[1], `\`), `\`, string(filepath.Separator))
			matches, _ := filepath.Glob(filepath.Join(root, "**", filepath.Base(rel)+".php"))
			if len(matches) > 0 {
				out = append(out, matches[0])
			}
		}
	}
	return out
}

var (
	rustUseRe    = regexp.MustCompile(`(?m)^\s*use\s+([\w:]+)`)
	rustModRe    = regexp.MustCompile(`(?m)^\s*mod\s+(\w+)\s*;`)
)

func resolveRust(file, src string) []string {
	dir := filepath.Dir(file)
	var out []string
	for _, m := range rustModRe.FindAllStringSubmatch(src, -1) {
		name := m[1]
		if p := filepath.Join(dir, name+".rs"); fileExists(p) {
			out = append(out, p)
			continue
		}
		if p := filepath.Join(dir, name, "mod.rs"); fileExists(p) {
			out = append(out, p)
		}
	}
	if root, ok := nearestAncestorWith(dir, "Cargo.toml"); ok {
		for _, m := range rustUseRe.FindAllStringSubmatch(src, -1) {
			if !strings.HasPrefix(m[1], "crate::") {
				continue
			}
			rel := strings.ReplaceAll(strings.TrimPrefix(m[1], "crate::"), "::", string(filepath.Separator))
			p := filepath.Join(root, "src", rel+".rs")
			if fileExists(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

var swiftImportRe = regexp.MustCompile(`(?m)^\s*import\s+(\w+)`)

func resolveSwift(file, src string) []string {
	dir := filepath.Dir(file)
	root, ok := nearestAncestorWith(dir, "Package.swift")
	if !ok {
		root, ok = nearestAncestorWith(dir, ".git")
		if !ok {
			return nil
		}
	}
	var out []string
	for _, m := range swiftImportRe.FindAllStringSubmatch(src, -1) {
		matches, _ := filepath.Glob(filepath.Join(root, "**", m[1]+".swift"))
		if len(matches) > 0 {
			out = append(out, matches[0])
		}
	}
	return out
}

var kotlinImportRe = regexp.MustCompile(`(?m)^\s*import\s+([\w.]+)`)

func resolveKotlin(file, src string) []string {
	dir := filepath.Dir(file)
	root, ok := nearestAncestorWith(dir, "build.gradle", "build.gradle.kts", ".git")
	if !ok {
		return nil
	}
	var out []string
	for _, m := range kotlinImportRe.FindAllStringSubmatch(src, -1) {
		rel := strings.ReplaceAll(m[1], ".", string(filepath.Separator)) + ".kt"
		for _, base := range []string{"src/main/kotlin", "src/main/java"} {
			p := filepath.Join(root, base, rel)
			if fileExists(p) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func dirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
