package query

import "github.com/coolcline/codeindex/internal/store"

// FindImplementations returns every symbol with an "implements" or
// "extends" relation targeting a symbol named interfaceName (spec.md
// §4.7's expansion: the teacher's QueryBuilder.Implementations, grounded
// on symbol_relations rows rather than a live type check).
func FindImplementations(s *store.Store, interfaceName string) ([]SearchResult, error) {
	targets, err := s.SymbolsByName(interfaceName)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	seen := map[int64]bool{}
	for _, target := range targets {
		rels, err := s.RelationsToSymbol(target.ID, store.RelationImplements)
		if err != nil {
			return nil, err
		}
		extendRels, err := s.RelationsToSymbol(target.ID, store.RelationExtends)
		if err != nil {
			return nil, err
		}
		rels = append(rels, extendRels...)

		for _, rel := range rels {
			if seen[rel.SourceID] {
				continue
			}
			seen[rel.SourceID] = true

			sym, err := s.SymbolByID(rel.SourceID)
			if err != nil || sym == nil {
				continue
			}
			file, err := s.FileByID(sym.FileID)
			if err != nil || file == nil {
				continue
			}
			content, _ := s.SymbolContentByID(sym.ID)

			results = append(results, SearchResult{
				File:      file.Path,
				Line:      sym.Line,
				Column:    sym.Column,
				Context:   content,
				Relevance: 1.0,
				Type:      sym.Type,
				Symbol:    sym.Name,
				Signature: sym.Signature,
				Language:  file.Language,
			})
		}
	}
	return results, nil
}
