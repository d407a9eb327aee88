package grammar

import (
	"embed"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// queryFS embeds the per-language capture query strings. These are the
// "static per-language grammar query strings" spec.md §1 treats as an
// opaque, externally-authored artifact consumed by the core — the core
// only depends on the capture-name vocabulary documented in spec.md
// §4.3, never on the query syntax itself.
//
//go:embed queries/*.scm
var queryFS embed.FS

var (
	queryMu    sync.Mutex
	queryCache = map[string]*sitter.Query{}
)

// QueryForLanguage loads and compiles lang's capture query, memoizing the
// result. Returns an error if no query file exists for lang or if it
// fails to compile against g — callers treat either as ParserUnavailable
// and skip just that file (spec.md §4.3, §7).
func QueryForLanguage(lang string, g *sitter.Language) (*sitter.Query, error) {
	queryMu.Lock()
	defer queryMu.Unlock()

	if q, ok := queryCache[lang]; ok {
		return q, nil
	}

	src, err := queryFS.ReadFile("queries/" + lang + ".scm")
	if err != nil {
		return nil, fmt.Errorf("grammar: no capture query for %s: %w", lang, err)
	}

	q, err := sitter.NewQuery(src, g)
	if err != nil {
		return nil, fmt.Errorf("grammar: compile query for %s: %w", lang, err)
	}

	queryCache[lang] = q
	return q, nil
}
