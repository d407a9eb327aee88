package resolver

import "strings"

// matches implements spec.md §4.6's matching rules for one candidate
// reference against the probed symbol. lang is the origin language,
// needed for the Go-specific relaxations.
func matches(info SymbolInfo, candName, candParent, candNamespace string, lang string) bool {
	name := info.Name
	cParent := candParent
	// "Methods captured as <name>.method strip the .method suffix when
	// comparing to the symbol name."
	if idx := strings.LastIndex(candName, ".method"); idx >= 0 && idx == len(candName)-len(".method") {
		candName = candName[:idx]
	}

	if candName != name {
		return false
	}

	if info.Parent != "" && cParent != "" && info.Parent != cParent {
		if !goInterfaceOrEmbeddedRelaxation(lang, info, cParent) {
			return false
		}
	}

	if info.Namespace != "" && candNamespace != "" && info.Namespace != candNamespace {
		return false
	}

	if info.IsNested && info.ParentContext != "" {
		if !strings.HasPrefix(nestingPath(candParent, lang), nestingPrefix(info, lang)) {
			return false
		}
	}

	return true
}

// goInterfaceOrEmbeddedRelaxation implements spec.md §4.6's Go-specific
// relaxations: an interface method may match a reference on a
// structurally-satisfying but differently-named struct, and an embedded
// field may be referenced through an outer struct whose parent name
// differs. Since structural satisfaction can't be verified without a
// type checker, both relaxations are applied permissively: a parent
// mismatch is tolerated for Go method/field kinds rather than rejected
// outright.
func goInterfaceOrEmbeddedRelaxation(lang string, info SymbolInfo, _ string) bool {
	if lang != "go" {
		return false
	}
	return info.Kind == "interface.method" || info.Kind == "method" ||
		info.Kind == "struct.method" || info.Kind == "embedded.field" || info.Kind == ""
}

// nestingPrefix builds the qualified-path prefix a nested symbol's
// reference must share, using the language's nesting separator (spec.md
// §4.6: Ruby "::", PHP "\", Java/Kotlin ".").
func nestingPrefix(info SymbolInfo, lang string) string {
	if info.Parent == "" {
		return ""
	}
	return info.Parent + nestingSeparator(lang)
}

func nestingPath(parent, lang string) string {
	if parent == "" {
		return ""
	}
	return parent + nestingSeparator(lang)
}

func nestingSeparator(lang string) string {
	switch lang {
	case "ruby":
		return "::"
	case "php":
		return `\`
	default:
		return "."
	}
}
