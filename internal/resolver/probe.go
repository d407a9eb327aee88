package resolver

import (
	"context"
	"os"
	"strings"

	"github.com/coolcline/codeindex/internal/extract"
	"github.com/coolcline/codeindex/internal/grammar"
)

// parsed bundles one file's source and extraction result so both the
// probe and the matching pass can share a single parse (the file-keyed
// cache entry spec.md §4.6 describes).
type parsed struct {
	lang     string
	source   []byte
	result   extract.Result
}

func parseFile(ctx context.Context, path string) (parsed, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return parsed{}, err
	}
	lang := grammar.LanguageForFile(path)
	if !grammar.Supported(lang) {
		return parsed{lang: lang, source: source}, nil
	}
	tree, err := grammar.Parse(ctx, lang, source)
	if err != nil {
		return parsed{}, err
	}
	defer tree.Close()
	captures := grammar.Captures(tree)
	return parsed{lang: lang, source: source, result: extract.Extract(captures, source)}, nil
}

// probe recovers a SymbolInfo for (line, column) in p, per spec.md §4.6
// step 1: match a definition at the position first, then a reference.
// If neither sits there it reports false, and FindReferences falls back
// to a bare {name} built from the symbol name it was given.
func probe(p parsed, line, column int) (SymbolInfo, bool) {
	for _, d := range p.result.Definitions {
		if d.Line == line && d.Column == column {
			return SymbolInfo{
				Name:          d.Name,
				Parent:        d.ParentName,
				ParentContext: d.ParentKind,
				IsNested:      strings.HasPrefix(d.Kind, "nested.") || strings.HasPrefix(d.Kind, "namespaced."),
				Kind:          d.Kind,
			}, true
		}
	}
	for _, r := range p.result.References {
		if r.Line == line && r.Column == column {
			return SymbolInfo{
				Name:      r.Name,
				Parent:    r.Parent,
				Namespace: r.Namespace,
			}, true
		}
	}
	return SymbolInfo{}, false
}
