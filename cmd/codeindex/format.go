package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/coolcline/codeindex"
)

// output dispatches to the text or JSON formatter based on --format.
func output(v any) error {
	if flagFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return outputText(os.Stdout, v)
}

func outputText(w io.Writer, v any) error {
	switch r := v.(type) {
	case codeindex.IndexStats:
		formatStatsText(w, r)
	case []codeindex.SearchResult:
		formatSearchResultsText(w, r)
	case []codeindex.Location:
		formatLocationsText(w, r)
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

func formatStatsText(w io.Writer, s codeindex.IndexStats) {
	fmt.Fprintf(w, "files: %d\nsymbols: %d\nkeywords: %d\nlast_indexed: %d\nstatus: %s\n",
		s.FilesCount, s.SymbolsCount, s.KeywordsCount, s.LastIndexed, s.Status)
}

func formatSearchResultsText(w io.Writer, results []codeindex.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tTYPE\tFILE\tLINE\tRELEVANCE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\n", r.Symbol, r.Type, r.File, r.Line, r.Relevance)
	}
	tw.Flush()
}

func formatLocationsText(w io.Writer, locs []codeindex.Location) {
	for _, l := range locs {
		fmt.Fprintf(w, "%s:%d:%d\n", l.File, l.Line, l.Column)
	}
}
