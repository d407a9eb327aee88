// Package extract lifts a grammar capture stream into typed
// definitions, references, imports and doc comments (spec.md §4.4).
//
// There is no teacher equivalent for this pass — mvp-joe-canopy offloads
// the work to Risor scripts driven by its runtime host functions. The
// node/source bookkeeping here (recovering text and line/column for a
// *sitter.Node) is grounded on internal/runtime/hostfuncs.go's
// node_text/node_child helpers, ported from the proxy-object calling
// convention to direct Go values.
package extract

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/coolcline/codeindex/internal/grammar"
)

// Definition is one definition site lifted from the capture stream.
type Definition struct {
	Name         string
	Kind         string // a store.Type* value
	Line         int    // 1-based
	Column       int    // 0-based
	Context      string // one-line source snippet at Line
	Doc          string
	ParentKind   string // container kind recognized by ancestor walk, e.g. "class"
	ParentName   string // name of the enclosing definition, if any
	InheritsFrom []string
	Implements   []string
	node         *sitter.Node
}

// Reference is one usage site lifted from the capture stream.
type Reference struct {
	Name      string
	Kind      string // "call" or "reference"
	Namespace string // for a.b.c, "a.b"
	Parent    string // enclosing class/struct/module name, if any
	Line      int
	Column    int
}

// Import is one import/require statement.
type Import struct {
	Source string
	Names  []string
}

// DocComment is a raw comment capture before Pass 3 association.
type DocComment struct {
	Line int
	Text string
}

// Result is the full output of a single file's extraction.
type Result struct {
	Definitions []Definition
	References  []Reference
	Imports     []Import
	DocComments []DocComment
}

// containerKinds are the node kinds recognized as symbol containers when
// walking ancestors for parent-of-definition / parent-of-reference
// (spec.md §4.4's "class body, struct body, module/namespace, interface
// body, impl block").
var containerKinds = map[string]string{
	"class_declaration":     "class",
	"class_definition":      "class",
	"class_specifier":       "class",
	"class_body":            "class",
	"struct_specifier":      "struct",
	"struct_item":           "struct",
	"struct_type":           "struct",
	"interface_declaration": "interface",
	"interface_type":        "interface",
	"interface_body":        "interface",
	"trait_item":            "trait",
	"impl_item":             "impl",
	"module":                "module",
	"mod_item":              "module",
	"namespace_definition":  "namespace",
	"namespace_declaration": "namespace",
}

// Extract runs all three passes (spec.md §4.4) over captures and returns
// the typed result. source is the full file content the captures were
// parsed from, needed to recover node text.
func Extract(captures []grammar.Capture, source []byte) Result {
	defPtrs := extractDefinitions(captures, source)
	docs := extractDocComments(captures, source)
	refs, imports := extractReferencesAndImports(captures, source, defPtrs)
	associateDocs(defPtrs, docs)

	sort.Slice(defPtrs, func(i, j int) bool {
		if defPtrs[i].Line != defPtrs[j].Line {
			return defPtrs[i].Line < defPtrs[j].Line
		}
		return defPtrs[i].Column < defPtrs[j].Column
	})
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Line != refs[j].Line {
			return refs[i].Line < refs[j].Line
		}
		return refs[i].Column < refs[j].Column
	})

	defs := make([]Definition, len(defPtrs))
	for i, d := range defPtrs {
		defs[i] = *d
	}

	return Result{Definitions: defs, References: refs, Imports: imports, DocComments: docs}
}

func nodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(source)
}

func lineOf(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Row) + 1
}

func columnOf(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Column)
}

// lineContext returns the single source line containing n's start.
func lineContext(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	row := int(n.StartPoint().Row)
	lines := strings.Split(string(source), "\n")
	if row < 0 || row >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[row])
}

// ancestorContainer walks n's ancestors looking for a recognized
// container kind, returning its kind label and, if findable, the name of
// the definition that introduces it.
func ancestorContainer(n *sitter.Node, defsByNode map[*sitter.Node]*Definition) (kind, name string) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if k, ok := containerKinds[p.Type()]; ok {
			if d, ok := defsByNode[p]; ok {
				return k, d.Name
			}
			return k, ""
		}
	}
	return "", ""
}
