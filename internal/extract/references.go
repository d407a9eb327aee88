package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/coolcline/codeindex/internal/grammar"
)

// accessChainKinds are node types whose text is a dotted member-access
// chain ("a.b.c"), used to derive a reference's namespace (spec.md
// §4.4: "for a.b.c, namespace is a.b").
var accessChainKinds = map[string]bool{
	"selector_expression": true,
	"member_expression":   true,
	"field_expression":    true,
	"attribute":           true,
	"scoped_identifier":   true,
	"qualified_name":      true,
}

var importStmtKinds = map[string]bool{
	"import_statement":          true,
	"import_from_statement":     true,
	"import_declaration":        true,
	"import_spec":                true,
	"using_directive":            true,
	"use_declaration":            true,
	"preproc_include":            true,
	"import_header":              true,
	"namespace_use_declaration":  true,
	"namespace_use_clause":       true,
}

// extractReferencesAndImports runs Pass 2 of spec.md §4.4.
func extractReferencesAndImports(captures []grammar.Capture, source []byte, defs []*Definition) ([]Reference, []Import) {
	defPositions := map[[2]int]bool{}
	for _, d := range defs {
		defPositions[[2]int{d.Line, d.Column}] = true
	}

	var refs []Reference
	for _, c := range captures {
		// Only the name.reference[.call] captures carry the precise
		// identifier node; the bare @reference/@reference.call captures
		// on the same match wrap the whole expression and are skipped to
		// avoid double-counting a usage.
		var kind string
		switch {
		case c.Name == "name.reference.call":
			kind = "call"
		case c.Name == "name.reference":
			kind = "reference"
		default:
			continue
		}

		line, col := lineOf(c.Node), columnOf(c.Node)
		if defPositions[[2]int{line, col}] {
			continue // suppressed: coincides with a definition
		}

		namespace := ""
		if chain := enclosingChain(c.Node); chain != nil {
			text := nodeText(chain, source)
			if idx := strings.LastIndex(text, "."); idx > 0 {
				namespace = text[:idx]
			}
		}

		refs = append(refs, Reference{
			Name:      nodeText(c.Node, source),
			Kind:      kind,
			Namespace: namespace,
			Parent:    enclosingDefName(c.Node, defs),
			Line:      line,
			Column:    col,
		})
	}

	imports := extractImports(captures, source)
	return refs, imports
}

func enclosingChain(n *sitter.Node) *sitter.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if accessChainKinds[p.Type()] {
			return p
		}
	}
	return nil
}

func enclosingDefName(n *sitter.Node, defs []*Definition) string {
	d := innermostEnclosing(n, defs)
	if d == nil {
		return ""
	}
	return d.Name
}

func enclosingImportStmt(n *sitter.Node) *sitter.Node {
	for p := n; p != nil; p = p.Parent() {
		if importStmtKinds[p.Type()] {
			return p
		}
	}
	return nil
}

func extractImports(captures []grammar.Capture, source []byte) []Import {
	bySrc := map[*sitter.Node]*Import{}
	var order []*sitter.Node

	for _, c := range captures {
		if c.Name != "import.source" {
			continue
		}
		stmt := enclosingImportStmt(c.Node)
		if stmt == nil {
			stmt = c.Node
		}
		text := strings.Trim(nodeText(c.Node, source), `"'`)
		if imp, ok := bySrc[stmt]; ok {
			imp.Source = text
			continue
		}
		bySrc[stmt] = &Import{Source: text}
		order = append(order, stmt)
	}

	for _, c := range captures {
		if c.Name != "import.name" {
			continue
		}
		stmt := enclosingImportStmt(c.Node)
		if imp, ok := bySrc[stmt]; ok {
			imp.Names = append(imp.Names, nodeText(c.Node, source))
		}
	}

	imports := make([]Import, 0, len(order))
	for _, stmt := range order {
		imports = append(imports, *bySrc[stmt])
	}
	return imports
}
