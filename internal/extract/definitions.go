package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/coolcline/codeindex/internal/grammar"
)

// relMarker is a bare inheritance/implementation capture awaiting
// attachment to the class/struct definition it decorates.
type relMarker struct {
	node   *sitter.Node
	extend bool // true: inheritance, false: implementation
}

// extractDefinitions runs Pass 1 of spec.md §4.4: definitions plus the
// relationship markers (inheritance/implementation) that ride alongside
// them in the same capture stream.
func extractDefinitions(captures []grammar.Capture, source []byte) []*Definition {
	defNodes := map[*sitter.Node]string{} // definition node -> kind suffix
	for _, c := range captures {
		if suffix, ok := strings.CutPrefix(c.Name, "definition."); ok {
			defNodes[c.Node] = suffix
		}
	}

	var defs []*Definition
	defsByNode := map[*sitter.Node]*Definition{}

	for _, c := range captures {
		suffix, ok := strings.CutPrefix(c.Name, "name.definition.")
		if !ok {
			continue
		}
		nameNode := c.Node
		var defNode *sitter.Node
		for p := nameNode; p != nil; p = p.Parent() {
			if s, ok := defNodes[p]; ok && s == suffix {
				defNode = p
				break
			}
		}
		if defNode == nil {
			defNode = nameNode.Parent()
			if defNode == nil {
				defNode = nameNode
			}
		}
		d := &Definition{
			Name:    nodeText(nameNode, source),
			Kind:    kindForSuffix(suffix),
			Line:    lineOf(nameNode),
			Column:  columnOf(nameNode),
			Context: lineContext(nameNode, source),
			node:    defNode,
		}
		defs = append(defs, d)
		if _, taken := defsByNode[defNode]; !taken {
			defsByNode[defNode] = d
		}
	}

	for _, d := range defs {
		d.ParentKind, d.ParentName = ancestorContainer(d.node, defsByNode)
	}

	// Go methods relate to their receiver struct structurally, not by
	// AST nesting (method_declaration sits at the top level). The
	// receiver identifier rides along as a bare @struct.method capture
	// spanning the same method_declaration node.
	for _, c := range captures {
		if c.Name != "struct.method" {
			continue
		}
		for _, d := range defs {
			if d.ParentName == "" && d.node != nil && contains(d.node, c.Node) {
				d.ParentKind = "struct"
				d.ParentName = nodeText(c.Node, source)
			}
		}
	}

	var markers []relMarker
	for _, c := range captures {
		switch c.Name {
		case "inheritance":
			markers = append(markers, relMarker{node: c.Node, extend: true})
		case "implementation":
			markers = append(markers, relMarker{node: c.Node, extend: false})
		}
	}
	for _, m := range markers {
		owner := innermostEnclosing(m.node, defs)
		if owner == nil {
			continue
		}
		name := nodeText(m.node, source)
		if m.extend {
			owner.InheritsFrom = append(owner.InheritsFrom, name)
		} else {
			owner.Implements = append(owner.Implements, name)
		}
	}

	return defs
}

// innermostEnclosing finds the definition whose node most tightly
// contains n, preferring class/struct/interface containers since that is
// what inheritance/implementation markers decorate.
func innermostEnclosing(n *sitter.Node, defs []*Definition) *Definition {
	var best *Definition
	bestSpan := -1
	for _, d := range defs {
		if d.node == nil || !contains(d.node, n) {
			continue
		}
		span := int(d.node.EndByte()) - int(d.node.StartByte())
		if bestSpan == -1 || span < bestSpan {
			best = d
			bestSpan = span
		}
	}
	return best
}

func contains(outer, inner *sitter.Node) bool {
	return outer.StartByte() <= inner.StartByte() && outer.EndByte() >= inner.EndByte()
}
