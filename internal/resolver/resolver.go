package resolver

import (
	"context"
	"crypto/sha1"
	"fmt"
	"sync"

	"github.com/coolcline/codeindex/internal/resolver/imports"
)

// locationCapacity and parseCapacity are the two LRU sizes spec.md §4.6
// names: "(file, line, column, symbol, options_hash) -> locations
// (capacity 200)" and "file -> (definitions, references) (capacity 50)".
const (
	locationCapacity = 200
	parseCapacity    = 50
)

// maxConcurrentFiles bounds import-following fan-out (spec.md §4.6 step
// 3: "Parallelism is capped at 5 files concurrent").
const maxConcurrentFiles = 5

// Resolver is the reference resolver (spec.md §4.6). One Resolver is
// created per workspace/engine instance; its caches are
// instance-private, matching the "thread-local to the resolver
// instance" language in spec.md §9.
type Resolver struct {
	locCache   *ttlCache[string, []Location]
	parseCache *ttlCache[string, parsed]
}

// New builds a Resolver with fresh, empty caches.
func New() *Resolver {
	return &Resolver{
		locCache:   newTTLCache[string, []Location](locationCapacity),
		parseCache: newTTLCache[string, parsed](parseCapacity),
	}
}

// CleanExpired evicts cache entries past their 60-minute TTL.
func (r *Resolver) CleanExpired() {
	r.locCache.CleanExpired()
	r.parseCache.CleanExpired()
}

func (r *Resolver) parse(ctx context.Context, path string) (parsed, error) {
	if p, ok := r.parseCache.Get(path); ok {
		return p, nil
	}
	p, err := parseFile(ctx, path)
	if err != nil {
		return parsed{}, err
	}
	r.parseCache.Add(path, p)
	return p, nil
}

// FindReferences implements spec.md §4.6's algorithm end to end.
func (r *Resolver) FindReferences(ctx context.Context, symbolName, file string, line, column int, opts Options) ([]Location, error) {
	cacheKey := locationCacheKey(file, line, column, symbolName, opts)
	if cached, ok := r.locCache.Get(cacheKey); ok {
		return cached, nil
	}

	origin, err := r.parse(ctx, file)
	if err != nil {
		return nil, err
	}

	info, found := probe(origin, line, column)
	if !found {
		info = SymbolInfo{Name: symbolName}
	} else if info.Name == "" {
		info.Name = symbolName
	}

	visited := newVisitedSet(file)
	var locations []Location
	locations = append(locations, matchInFile(origin, info, file, origin.lang)...)

	if opts.IncludeImports && opts.MaxDepth > 0 {
		more, err := r.followImports(ctx, file, origin.lang, info, opts.MaxDepth, visited)
		if err != nil {
			return nil, err
		}
		locations = append(locations, more...)
	}

	if !opts.IncludeSelf {
		locations = filterOrigin(locations, file, line, column)
	}

	if opts.MaxResults > 0 && len(locations) > opts.MaxResults {
		locations = locations[:opts.MaxResults]
	}

	r.locCache.Add(cacheKey, locations)
	return locations, nil
}

func matchInFile(p parsed, info SymbolInfo, file, lang string) []Location {
	var out []Location
	for _, d := range p.result.Definitions {
		if matches(info, d.Name, d.ParentName, "", lang) {
			out = append(out, Location{File: file, Line: d.Line, Column: d.Column})
		}
	}
	for _, ref := range p.result.References {
		if matches(info, ref.Name, ref.Parent, ref.Namespace, lang) {
			out = append(out, Location{File: file, Line: ref.Line, Column: ref.Column})
		}
	}
	return out
}

func (r *Resolver) followImports(ctx context.Context, file, lang string, info SymbolInfo, maxDepth int, visited *visitedSet) ([]Location, error) {
	direct := imports.DirectImports(lang, file)

	sem := make(chan struct{}, maxConcurrentFiles)
	var mu sync.Mutex
	var wg sync.WaitGroup
	var out []Location
	var firstErr error

	var toVisit []string
	for _, imp := range direct {
		if visited.claim(imp) {
			toVisit = append(toVisit, imp)
		}
	}

	for _, imp := range toVisit {
		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			p, err := r.parse(ctx, path)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			matched := matchInFile(p, info, path, lang)

			var nested []Location
			if maxDepth-1 > 0 {
				nested, _ = r.followImports(ctx, path, lang, info, maxDepth-1, visited)
			}

			mu.Lock()
			out = append(out, matched...)
			out = append(out, nested...)
			mu.Unlock()
		}(imp)
	}
	wg.Wait()

	if firstErr != nil {
		return out, firstErr
	}
	return out, nil
}

func filterOrigin(locs []Location, file string, line, column int) []Location {
	out := locs[:0]
	for _, l := range locs {
		if l.File == file && l.Line == line && l.Column == column {
			continue
		}
		out = append(out, l)
	}
	return out
}

func locationCacheKey(file string, line, column int, symbol string, opts Options) string {
	h := sha1.Sum([]byte(fmt.Sprintf("%s|%d|%d|%s|%v", file, line, column, symbol, opts)))
	return fmt.Sprintf("%x", h)
}

// visitedSet is a concurrency-safe "guard with a visited-files set"
// (spec.md §4.6 step 3), shared across every goroutine in one
// FindReferences call's import-following fan-out.
type visitedSet struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newVisitedSet(initial string) *visitedSet {
	return &visitedSet{seen: map[string]bool{initial: true}}
}

// claim reports whether path had not yet been visited, atomically
// marking it visited if so.
func (v *visitedSet) claim(path string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seen[path] {
		return false
	}
	v.seen[path] = true
	return true
}
