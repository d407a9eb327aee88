package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/coolcline/codeindex"
	"github.com/spf13/cobra"
)

var (
	flagDB     string
	flagFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "codeindex",
	Short:         "Multi-language codebase indexing and semantic search",
	Long:          "codeindex parses source files with tree-sitter, extracts symbols, and serves semantic search and reference queries against a SQLite-backed index.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "host storage root for the workspace database (default: <workspace>/.codeindex)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")

	rootCmd.AddCommand(indexCmd, refreshCmd, clearCmd, indexFileCmd, removeFileCmd, statsCmd, searchCmd, findReferencesCmd, findImplementationsCmd)
}

var validFormats = []string{"json", "text"}

func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}

// openEngine initializes an Engine rooted at workspacePath (or cwd if empty).
func openEngine(workspacePath string) (*codeindex.Engine, error) {
	if workspacePath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting cwd: %w", err)
		}
		workspacePath = cwd
	}
	abs, err := filepath.Abs(workspacePath)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace path %q: %w", workspacePath, err)
	}
	return codeindex.Initialize(abs, codeindex.Options{HostStorageRoot: flagDB})
}

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a workspace",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		engine, err := openEngine(path)
		if err != nil {
			return err
		}
		defer engine.Close()
		if err := engine.StartIndexing(context.Background()); err != nil {
			return err
		}
		stats, err := engine.GetIndexStats()
		if err != nil {
			return err
		}
		return output(stats)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [path]",
	Short: "Re-scan a workspace and re-ingest new or changed files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		engine, err := openEngine(path)
		if err != nil {
			return err
		}
		defer engine.Close()
		if err := engine.RefreshIndex(context.Background()); err != nil {
			return err
		}
		stats, err := engine.GetIndexStats()
		if err != nil {
			return err
		}
		return output(stats)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear [path]",
	Short: "Empty the index",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		engine, err := openEngine(path)
		if err != nil {
			return err
		}
		defer engine.Close()
		return engine.ClearIndex()
	},
}

var indexFileCmd = &cobra.Command{
	Use:   "index-file <file>",
	Short: "Ingest a single file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine("")
		if err != nil {
			return err
		}
		defer engine.Close()
		return engine.IndexFile(context.Background(), args[0])
	},
}

var removeFileCmd = &cobra.Command{
	Use:   "remove-file <file>",
	Short: "Remove a single file from the index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine("")
		if err != nil {
			return err
		}
		defer engine.Close()
		return engine.RemoveFileFromIndex(args[0])
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print index statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine("")
		if err != nil {
			return err
		}
		defer engine.Close()
		stats, err := engine.GetIndexStats()
		if err != nil {
			return err
		}
		return output(stats)
	},
}

var (
	flagMaxResults int
	flagLanguage   string
	flagSortBy     string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the index with a free-form query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine("")
		if err != nil {
			return err
		}
		defer engine.Close()
		results, err := engine.Search(args[0], codeindex.SearchOptions{
			MaxResults: flagMaxResults,
			Language:   flagLanguage,
			SortBy:     codeindex.SortBy(flagSortBy),
		})
		if err != nil {
			return err
		}
		return output(results)
	},
}

func init() {
	searchCmd.Flags().IntVar(&flagMaxResults, "max-results", 20, "maximum results to return")
	searchCmd.Flags().StringVar(&flagLanguage, "language", "", "restrict results to one language")
	searchCmd.Flags().StringVar(&flagSortBy, "sort-by", "relevance", "relevance|path|modified")
}

var (
	flagIncludeImports bool
	flagMaxDepth        int
)

var findReferencesCmd = &cobra.Command{
	Use:   "find-references <symbol> <file> <line> <column>",
	Short: "Find references to a symbol at a position",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid line %q: %w", args[2], err)
		}
		column, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid column %q: %w", args[3], err)
		}

		engine, err := openEngine("")
		if err != nil {
			return err
		}
		defer engine.Close()

		locs, err := engine.FindReferences(context.Background(), args[0], args[1], line, column, codeindex.ResolveOptions{
			IncludeImports: flagIncludeImports,
			IncludeSelf:    true,
			MaxDepth:       flagMaxDepth,
			MaxResults:     200,
		})
		if err != nil {
			return err
		}
		return output(locs)
	},
}

func init() {
	findReferencesCmd.Flags().BoolVar(&flagIncludeImports, "include-imports", true, "follow direct imports while resolving")
	findReferencesCmd.Flags().IntVar(&flagMaxDepth, "max-depth", 1, "import-following depth")
}

var findImplementationsCmd = &cobra.Command{
	Use:   "find-implementations <interface>",
	Short: "Find symbols implementing or extending a named type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine("")
		if err != nil {
			return err
		}
		defer engine.Close()
		results, err := engine.FindImplementations(args[0])
		if err != nil {
			return err
		}
		return output(results)
	},
}
