package indexer

import (
	"context"
	"fmt"
	"os"

	"github.com/coolcline/codeindex/internal/coordinator"
	"github.com/coolcline/codeindex/internal/extract"
	"github.com/coolcline/codeindex/internal/grammar"
	"github.com/coolcline/codeindex/internal/store"
)

// IngestFile runs the per-file ingestion pipeline spec.md §4.5
// describes: read, parse, extract, then a single transaction that
// replaces the file's symbols/keywords/relations. On any failure the
// transaction rolls back and the file is left at its previous state —
// ingestion never half-applies.
//
// Grounded on mvp-joe-canopy's Engine.indexFile: the
// read-parse-delete-reinsert shape is carried forward (with no
// unchanged-content check: every call re-ingests the file), adapted to
// this store's upsert-in-place File row (the teacher deletes and
// reinserts the file row on every change; spec.md §3 calls for an
// in-place update instead) and to this package's name-based relation
// resolution.
func IngestFile(ctx context.Context, s *store.Store, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("indexer: read %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("indexer: stat %s: %w", path, err)
	}

	lang := grammar.LanguageForFile(path)
	mtime := info.ModTime().UnixMilli()

	var result extract.Result
	if grammar.Supported(lang) {
		tree, err := grammar.Parse(ctx, lang, content)
		if err != nil {
			return fmt.Errorf("indexer: parse %s: %w", path, err)
		}
		captures := grammar.Captures(tree)
		result = extract.Extract(captures, content)
		tree.Close()
	}

	fileRow := &store.File{
		Path:         path,
		Language:     lang,
		LastModified: mtime,
		IndexedAt:    mtime,
		ContentHash:  mtime,
	}

	coord := coordinator.For(s)
	return coord.ExecuteInTransaction(func() error {
		fileID, err := s.UpsertFile(fileRow)
		if err != nil {
			return err
		}
		if err := s.DeleteSymbolsByFile(fileID); err != nil {
			return err
		}
		return writeExtraction(s, fileID, result)
	})
}

// writeExtraction writes one file's extraction result inside the
// caller's already-open transaction: symbols, one content row per
// symbol, keyword postings, and detected relations, in that order
// (spec.md §4.5 step 4).
func writeExtraction(s *store.Store, fileID int64, result extract.Result) error {
	nameToID := make(map[string]int64, len(result.Definitions))
	ids := make([]int64, len(result.Definitions))

	for i, d := range result.Definitions {
		id, err := s.InsertSymbol(&store.Symbol{
			FileID: fileID,
			Name:   d.Name,
			Type:   d.Kind,
			Line:   d.Line,
			Column: d.Column,
		})
		if err != nil {
			return err
		}
		ids[i] = id
		nameToID[d.Name] = id

		content := d.Context
		if content == "" {
			content = d.Doc
		}
		if content != "" {
			if err := s.InsertSymbolContent(&store.SymbolContent{SymbolID: id, Line: content}); err != nil {
				return err
			}
		}

		for _, kw := range extract.Keywords(d.Name, d.Context+" "+d.Doc) {
			if err := s.InsertKeyword(&store.KeywordPosting{Keyword: kw, SymbolID: id, Relevance: 1.0}); err != nil {
				return err
			}
		}
	}

	for i, d := range result.Definitions {
		if d.ParentName == "" {
			continue
		}
		parentID, ok := nameToID[d.ParentName]
		if !ok || parentID == ids[i] {
			continue
		}
		if err := s.Exec("UPDATE symbols SET parent_id = ? WHERE id = ?", parentID, ids[i]); err != nil {
			return err
		}
	}

	for _, edge := range extract.DeriveRelations(result) {
		sourceID, ok := nameToID[edge.SourceName]
		if !ok {
			continue
		}
		targetID, ok := nameToID[edge.TargetName]
		if !ok {
			continue
		}
		if err := s.InsertRelation(&store.SymbolRelation{SourceID: sourceID, TargetID: targetID, RelationType: edge.Type}); err != nil {
			return err
		}
	}

	return nil
}

// RemoveFile deletes a file and its dependent rows (cascade) in a single
// transaction.
func RemoveFile(s *store.Store, path string) error {
	coord := coordinator.For(s)
	return coord.ExecuteInTransaction(func() error {
		return s.DeleteFileByPath(path)
	})
}

// DeleteMissing removes every path in toDelete inside one batched
// transaction, in FK-respecting order (spec.md §4.5 step 5: relations →
// contents → keywords → symbols, then files — handled here by cascade
// off of the files delete, per this store's schema).
func DeleteMissing(s *store.Store, toDelete []string) error {
	if len(toDelete) == 0 {
		return nil
	}
	coord := coordinator.For(s)
	return coord.ExecuteInTransaction(func() error {
		for _, path := range toDelete {
			if err := s.DeleteFileByPath(path); err != nil {
				return err
			}
		}
		return nil
	})
}
