package grammar

import (
	"context"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
)

// Capture is one (capture_name, node) pair from running a language's
// query against a parsed syntax tree (spec.md §4.3).
type Capture struct {
	Name string
	Node *sitter.Node
}

// Tree bundles a parsed syntax tree with the language it was parsed as,
// since callers (the extractor) need both to interpret capture node
// kinds correctly.
type Tree struct {
	Root     *sitter.Node
	Language string
	raw      *sitter.Tree
}

// Close releases the underlying tree-sitter tree. Syntax trees are
// transient and owned by the parser (spec.md §9): callers should Close
// after a single extraction pass.
func (t *Tree) Close() {
	if t.raw != nil {
		t.raw.Close()
	}
}

// Parse parses source as lang and returns the resulting Tree. Returns an
// error if lang is unsupported; callers should treat that as
// ParserUnavailable and skip the file (spec.md §7).
func Parse(ctx context.Context, lang string, source []byte) (*Tree, error) {
	g, ok := GrammarForLanguage(lang)
	if !ok {
		return nil, fmt.Errorf("grammar: unsupported language %q", lang)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(g)
	raw, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("grammar: parse %s: %w", lang, err)
	}
	return &Tree{Root: raw.RootNode(), Language: lang, raw: raw}, nil
}

// Captures runs lang's capture query against tree and returns the
// resulting (capture_name, node) stream. A failure to load or compile the
// query for one language is logged and yields an empty stream rather
// than aborting the caller's batch — spec.md §4.3: "failing to load one
// grammar does not prevent others from initializing; the file is simply
// skipped with a logged warning."
func Captures(tree *Tree) []Capture {
	g, ok := GrammarForLanguage(tree.Language)
	if !ok {
		return nil
	}
	q, err := QueryForLanguage(tree.Language, g)
	if err != nil {
		slog.Warn("grammar: query unavailable, skipping file", "language", tree.Language, "error", err)
		return nil
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q, tree.Root)

	var captures []Capture
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, c := range match.Captures {
			captures = append(captures, Capture{
				Name: q.CaptureNameForId(c.Index),
				Node: c.Node,
			})
		}
	}
	return captures
}
