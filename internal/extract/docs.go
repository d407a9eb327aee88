package extract

import (
	"strings"

	"github.com/coolcline/codeindex/internal/grammar"
)

// extractDocComments collects raw doc.comment captures (Pass 1's
// comment-gathering half).
func extractDocComments(captures []grammar.Capture, source []byte) []DocComment {
	var docs []DocComment
	for _, c := range captures {
		if c.Name != "doc.comment" {
			continue
		}
		docs = append(docs, DocComment{Line: lineOf(c.Node), Text: nodeText(c.Node, source)})
	}
	return docs
}

// associateDocs runs Pass 3 of spec.md §4.4: attach the nearest doc
// comment within 3 lines above a definition that doesn't already carry
// one.
func associateDocs(defs []*Definition, docs []DocComment) {
	for _, d := range defs {
		if d.Doc != "" {
			continue
		}
		best := -1
		for _, doc := range docs {
			if doc.Line >= d.Line || d.Line-doc.Line > 3 {
				continue
			}
			if doc.Line > best {
				best = doc.Line
			}
		}
		if best == -1 {
			continue
		}
		for _, doc := range docs {
			if doc.Line == best {
				d.Doc = formatDoc(doc.Text)
				break
			}
		}
	}
}

// formatDoc strips comment delimiters and surrounding whitespace
// (spec.md §4.4: "/** */", leading "*", "//", "#").
func formatDoc(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, "///")
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimPrefix(line, "#")
		out = append(out, strings.TrimSpace(line))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
