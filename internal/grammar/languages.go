// Package grammar is the grammar parser layer (spec.md §4.3): for each
// source file it returns a capture stream produced by running a
// per-language tree-sitter query over the file's syntax tree.
//
// Grounded on mvp-joe-canopy's internal/runtime/languages.go: the closed
// extension map and the sync.Once-guarded lazy grammar table are carried
// forward almost unchanged, generalized from the teacher's 10 languages
// to spec.md's 13-language closed set.
package grammar

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/swift"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Canonical language names, the closed set spec.md §4.3 names.
const (
	TypeScript = "typescript"
	JavaScript = "javascript"
	Python     = "python"
	Java       = "java"
	CSharp     = "csharp"
	PHP        = "php"
	Go         = "go"
	Ruby       = "ruby"
	C          = "c"
	Cpp        = "cpp"
	Rust       = "rust"
	Swift      = "swift"
	Kotlin     = "kotlin"

	// Plaintext is assigned to any file whose extension isn't in the
	// closed map (spec.md §6): stored, but skipped by the parser layer.
	Plaintext = "plaintext"
)

// extToLanguage maps file extensions to canonical language names. Closed
// set: files with other extensions are language Plaintext (spec.md §6).
var extToLanguage = map[string]string{
	".ts":  TypeScript,
	".tsx": TypeScript,
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".py":  Python,
	".java": Java,
	".cs":   CSharp,
	".php":  PHP,
	".go":   Go,
	".rb":   Ruby,
	".c":    C,
	".h":    C,
	".cpp":  Cpp,
	".cc":   Cpp,
	".cxx":  Cpp,
	".hpp":  Cpp,
	".hh":   Cpp,
	".rs":   Rust,
	".swift": Swift,
	".kt":    Kotlin,
	".kts":   Kotlin,
}

// langToGrammar maps canonical language names to tree-sitter Language
// objects. Lazily initialized on first call via sync.Once (spec.md §4.3:
// "Grammar loading is lazy and memoized; an initialization flag guards
// one-time runtime setup").
var (
	langToGrammar map[string]*sitter.Language
	grammarsOnce  sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		langToGrammar = map[string]*sitter.Language{
			Go:         golang.GetLanguage(),
			TypeScript: ts.GetLanguage(),
			JavaScript: javascript.GetLanguage(),
			Python:     python.GetLanguage(),
			Java:       java.GetLanguage(),
			CSharp:     csharp.GetLanguage(),
			PHP:        php.GetLanguage(),
			Ruby:       ruby.GetLanguage(),
			C:          c.GetLanguage(),
			Cpp:        cpp.GetLanguage(),
			Rust:       rust.GetLanguage(),
			Swift:      swift.GetLanguage(),
			Kotlin:     kotlin.GetLanguage(),
		}
	})
}

// LanguageForFile returns the canonical language name for a file path
// based on its extension, and Plaintext if the extension is unrecognized.
func LanguageForFile(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extToLanguage[ext]; ok {
		return lang
	}
	return Plaintext
}

// Supported reports whether the grammar parser layer can parse lang.
func Supported(lang string) bool {
	return lang != Plaintext && lang != ""
}

// GrammarForLanguage returns the tree-sitter Language for a canonical
// language name. Returns (nil, false) if unsupported.
func GrammarForLanguage(lang string) (*sitter.Language, bool) {
	initGrammars()
	l, ok := langToGrammar[lang]
	return l, ok
}
