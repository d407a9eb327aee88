// Package query is the query engine (spec.md §4.7): it parses a
// free-form search string into an intent-tagged, stop-word-free token
// set, joins against the store's keyword postings, and ranks the
// resulting symbols into ordered SearchResults.
package query

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/coolcline/codeindex/internal/store"
)

// Intent is the detected query purpose.
type Intent string

const (
	IntentSearch         Intent = "search"
	IntentImplementation Intent = "implementation"
)

// SortBy controls secondary ordering after relevance.
type SortBy string

const (
	SortByRelevance SortBy = "relevance"
	SortByPath      SortBy = "path"
	SortByModified  SortBy = "modified"
)

// Options configures a Search call (spec.md §4.7).
type Options struct {
	MaxResults        int
	Language          string
	IncludeTests      bool
	ExcludePatterns   []string
	ResultTypes       []string
	SortBy            SortBy
	TargetDirectories []string
}

// SearchResult is one ranked hit.
type SearchResult struct {
	File       string
	Line       int
	Column     int
	Context    string
	Relevance  float64
	Type       string
	Symbol     string
	Signature  string
	Language   string
}

// InvalidArgument is returned for an empty or whitespace-only query
// (spec.md §7).
type InvalidArgument struct{ Reason string }

func (e *InvalidArgument) Error() string { return "invalid argument: " + e.Reason }

var stopWords = map[string]bool{"the": true, "and": true, "for": true, "this": true, "that": true}

// intentVerbs map tokens that flip the detected Intent.
var searchVerbs = map[string]bool{"find": true, "search": true, "where": true, "how": true, "what": true}
var implementationVerbs = map[string]bool{"implement": true, "extends": true, "inherit": true}

// shape hint tokens force a result-type restriction regardless of
// ResultTypes already set in Options.
var functionShape = map[string]bool{"function": true, "method": true, "procedure": true}
var classShape = map[string]bool{"class": true, "interface": true, "type": true, "struct": true}
var variableShape = map[string]bool{"variable": true, "var": true, "const": true, "let": true, "field": true, "property": true}

// synonyms expands a handful of common domain terms (spec.md §4.7: "auth
// → authentication|login|signin").
var synonyms = map[string][]string{
	"auth": {"authentication", "login", "signin"},
}

// parsedQuery is the tokenizer's output: the working token set plus
// everything intent detection and shape hints derived from it.
type parsedQuery struct {
	tokens       []string
	exactSymbols []string
	intent       Intent
	resultTypes  map[string]bool
}

func parse(raw string) (parsedQuery, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return parsedQuery{}, &InvalidArgument{Reason: "empty query"}
	}

	pq := parsedQuery{intent: IntentSearch, resultTypes: map[string]bool{}}

	quoted, rest := extractQuoted(trimmed)
	pq.exactSymbols = quoted

	for _, tok := range strings.Fields(strings.ToLower(rest)) {
		if len(tok) <= 2 || stopWords[tok] {
			continue
		}
		if searchVerbs[tok] {
			pq.intent = IntentSearch
		}
		if implementationVerbs[tok] {
			pq.intent = IntentImplementation
			pq.resultTypes[store.TypeClass] = true
		}
		switch {
		case functionShape[tok]:
			pq.resultTypes[store.TypeFunction] = true
		case classShape[tok]:
			pq.resultTypes[store.TypeClass] = true
			pq.resultTypes[store.TypeInterface] = true
		case variableShape[tok]:
			pq.resultTypes[store.TypeVariable] = true
		}

		pq.tokens = append(pq.tokens, tok)
		if syns, ok := synonyms[tok]; ok {
			pq.tokens = append(pq.tokens, syns...)
		}
	}

	return pq, nil
}

// extractQuoted pulls out "double-quoted" substrings as exact-symbol
// candidates and returns the remaining text with those segments removed.
func extractQuoted(s string) (quoted []string, rest string) {
	var b strings.Builder
	inQuote := false
	var cur strings.Builder
	for _, r := range s {
		switch {
		case r == '"' && !inQuote:
			inQuote = true
		case r == '"' && inQuote:
			inQuote = false
			if cur.Len() > 0 {
				quoted = append(quoted, cur.String())
				cur.Reset()
			}
		case inQuote:
			cur.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return quoted, b.String()
}

// Search implements spec.md §4.7's execution and ranking.
func Search(s *store.Store, raw string, opts Options) ([]SearchResult, error) {
	pq, err := parse(raw)
	if err != nil {
		return nil, err
	}

	resultTypes := pq.resultTypes
	if len(opts.ResultTypes) > 0 {
		resultTypes = map[string]bool{}
		for _, t := range opts.ResultTypes {
			resultTypes[t] = true
		}
	}

	scores := map[int64]float64{}
	overlap := map[int64]int{}
	for _, tok := range pq.tokens {
		postings, err := s.SymbolsForKeyword(tok)
		if err != nil {
			return nil, err
		}
		for _, p := range postings {
			scores[p.SymbolID] += p.Relevance
			overlap[p.SymbolID]++
		}
	}

	exactSet := map[string]bool{}
	for _, name := range pq.exactSymbols {
		exactSet[name] = true
		syms, err := s.SymbolsByName(name)
		if err != nil {
			return nil, err
		}
		for _, sym := range syms {
			if _, ok := scores[sym.ID]; !ok {
				scores[sym.ID] = 0
			}
		}
	}

	var results []SearchResult
	modified := map[string]int64{}
	for symbolID, keywordScore := range scores {
		sym, err := s.SymbolByID(symbolID)
		if err != nil || sym == nil {
			continue
		}
		if len(resultTypes) > 0 && !resultTypes[sym.Type] {
			continue
		}
		file, err := s.FileByID(sym.FileID)
		if err != nil || file == nil {
			continue
		}
		if opts.Language != "" && file.Language != opts.Language {
			continue
		}
		if !opts.IncludeTests && isTestPath(file.Path) {
			continue
		}
		if !pathWithinAny(file.Path, opts.TargetDirectories) {
			continue
		}
		if matchesAny(file.Path, opts.ExcludePatterns) {
			continue
		}

		content, _ := s.SymbolContentByID(symbolID)

		bonus := 0.0
		if exactSet[sym.Name] {
			bonus += 1.0
		}
		prior := pathClassPrior(file.Path)

		rank := keywordScore*0.6 + bonus*0.3 + prior*0.1
		if rank > 1 {
			rank = 1
		}

		results = append(results, SearchResult{
			File:      file.Path,
			Line:      sym.Line,
			Column:    sym.Column,
			Context:   content,
			Relevance: rank,
			Type:      sym.Type,
			Symbol:    sym.Name,
			Signature: sym.Signature,
			Language:  file.Language,
		})
		modified[file.Path] = file.LastModified
	}

	sortResults(results, opts.SortBy)
	if opts.SortBy == SortByModified {
		sort.SliceStable(results, func(i, j int) bool { return modified[results[i].File] > modified[results[j].File] })
	}

	if opts.MaxResults > 0 && len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return results, nil
}

func sortResults(results []SearchResult, sortBy SortBy) {
	switch sortBy {
	case SortByPath:
		sort.SliceStable(results, func(i, j int) bool { return results[i].File < results[j].File })
	case SortByModified:
		// Relevance carries the only ordering signal available on
		// SearchResult; Search then re-sorts stably by the file's
		// last_modified, most recent first, from the file rows it loaded.
		sort.SliceStable(results, func(i, j int) bool { return results[i].Relevance > results[j].Relevance })
	default:
		sort.SliceStable(results, func(i, j int) bool { return results[i].Relevance > results[j].Relevance })
	}
}

var testDirSegments = map[string]bool{"test": true, "tests": true, "spec": true, "coverage": true, "__tests__": true, "__test__": true, "__mocks__": true}
var coreDirSegments = map[string]bool{"src": true, "lib": true, "app": true, "core": true}

func isTestPath(path string) bool {
	for _, seg := range strings.Split(strings.ToLower(path), "/") {
		if testDirSegments[seg] {
			return true
		}
	}
	return false
}

// pathClassPrior implements spec.md §4.7's "core-dir > general >
// test-dir" path-class prior, scaled to [0,1].
func pathClassPrior(path string) float64 {
	if isTestPath(path) {
		return 0.0
	}
	for _, seg := range strings.Split(strings.ToLower(path), "/") {
		if coreDirSegments[seg] {
			return 1.0
		}
	}
	return 0.5
}

func pathWithinAny(path string, dirs []string) bool {
	if len(dirs) == 0 {
		return true
	}
	for _, d := range dirs {
		if strings.HasPrefix(path, strings.TrimSuffix(d, "/")+"/") || path == d {
			return true
		}
	}
	return false
}

func matchesAny(path string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
