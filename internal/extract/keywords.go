package extract

import (
	"strings"
	"unicode"
)

// noiseWords are reserved words and punctuation-adjacent filler common
// enough across the supported languages that they carry no search
// signal (spec.md §3: "keyword posting... with language-noise words
// removed").
var noiseWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "this": true,
	"that": true, "from": true, "into": true, "func": true, "function": true,
	"def": true, "class": true, "struct": true, "interface": true, "return": true,
	"import": true, "public": true, "private": true, "protected": true,
	"static": true, "const": true, "var": true, "let": true, "new": true,
	"null": true, "nil": true, "true": true, "false": true, "void": true,
	"async": true, "await": true, "self": true, "this_": true,
}

// Keywords normalizes a symbol's name and its one-line content into the
// deduplicated lowercase token set stored as keyword postings (spec.md
// §4.5 step 4: "lowercase, strip common code punctuation and reserved
// words, split on whitespace, keep tokens of length > 2, deduplicate").
func Keywords(name, content string) []string {
	seen := map[string]bool{}
	var out []string
	for _, tok := range tokenize(name + " " + content) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var splitFields []string
	for _, f := range fields {
		splitFields = append(splitFields, splitCamelCase(f)...)
	}

	var tokens []string
	for _, f := range splitFields {
		f = strings.ToLower(f)
		if len(f) <= 2 || noiseWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// splitCamelCase additionally splits identifier-style tokens
// ("getUserName", "UserID") into their constituent words so that
// "get_user_name" and "getUserName" yield comparable keyword sets.
func splitCamelCase(s string) []string {
	var parts []string
	var cur strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	if len(parts) == 0 {
		return []string{s}
	}
	return parts
}
