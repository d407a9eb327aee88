package extract

import "github.com/coolcline/codeindex/internal/store"

// RelationEdge is a detected relation keyed by symbol name rather than
// id: the extractor runs before symbols have been inserted, so name
// resolution to concrete source/target ids is left to the indexer, which
// has the freshly-inserted id table for the file (and, for calls that
// cross definitions within the same file, the full per-file symbol set).
type RelationEdge struct {
	SourceName string
	TargetName string
	Type       string // a store.Relation* value
}

// DeriveRelations inspects a Result's definitions and references and
// produces the relation edges "detected relations" in spec.md §4.5
// refers to. Grounded in the inheritance/implementation markers Pass 1
// attaches to class/struct definitions, and in Pass 2's call references
// scoped to an enclosing definition.
func DeriveRelations(r Result) []RelationEdge {
	var edges []RelationEdge

	for _, d := range r.Definitions {
		for _, base := range d.InheritsFrom {
			edges = append(edges, RelationEdge{SourceName: d.Name, TargetName: base, Type: store.RelationExtends})
		}
		for _, iface := range d.Implements {
			edges = append(edges, RelationEdge{SourceName: d.Name, TargetName: iface, Type: store.RelationImplements})
		}
		if d.ParentName != "" {
			edges = append(edges, RelationEdge{SourceName: d.ParentName, TargetName: d.Name, Type: store.RelationDefines})
		}
	}

	for _, ref := range r.References {
		if ref.Kind != "call" || ref.Parent == "" {
			continue
		}
		edges = append(edges, RelationEdge{SourceName: ref.Parent, TargetName: ref.Name, Type: store.RelationCalls})
	}

	return dedupeEdges(edges)
}

func dedupeEdges(edges []RelationEdge) []RelationEdge {
	seen := make(map[RelationEdge]bool, len(edges))
	out := make([]RelationEdge, 0, len(edges))
	for _, e := range edges {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
