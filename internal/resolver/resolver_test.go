package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func TestFindReferences_MatchesWithinOriginFile(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "greeter.go", `package greeter

type Greeter struct{}

func (g *Greeter) Greet(name string) string {
	return "hello " + name
}

func useIt() {
	g := &Greeter{}
	g.Greet("world")
}
`)

	r := New()
	locs, err := r.FindReferences(context.Background(), "Greeter", file, 3, 6, Options{IncludeSelf: true, MaxResults: 50})
	require.NoError(t, err)
	assert.NotEmpty(t, locs)
}

func TestFindReferences_ExcludesOriginWhenIncludeSelfFalse(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "greeter.go", `package greeter

type Greeter struct{}
`)

	r := New()
	locs, err := r.FindReferences(context.Background(), "Greeter", file, 3, 5, Options{IncludeSelf: false, MaxResults: 50})
	require.NoError(t, err)
	for _, l := range locs {
		assert.False(t, l.File == file && l.Line == 3 && l.Column == 5)
	}
}

func TestFindReferences_FollowsDirectImports(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example.com/sample\n\ngo 1.21\n")
	writeFile(t, root, "util/util.go", `package util

func Helper() string {
	return "hi"
}
`)
	main := writeFile(t, root, "main.go", `package main

import "example.com/sample/util"

func run() {
	util.Helper()
}
`)

	r := New()
	locs, err := r.FindReferences(context.Background(), "Helper", main, 3, 8, Options{
		IncludeImports: true,
		IncludeSelf:    true,
		MaxDepth:       2,
		MaxResults:     50,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, locs)
}

func TestFindReferences_CachesRepeatedCalls(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "greeter.go", `package greeter

type Greeter struct{}
`)

	r := New()
	opts := Options{IncludeSelf: true, MaxResults: 50}
	first, err := r.FindReferences(context.Background(), "Greeter", file, 3, 6, opts)
	require.NoError(t, err)

	key := locationCacheKey(file, 3, 6, "Greeter", opts)
	_, ok := r.locCache.Get(key)
	assert.True(t, ok)

	second, err := r.FindReferences(context.Background(), "Greeter", file, 3, 6, opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMatches_StripsMethodSuffixAndAppliesGoRelaxation(t *testing.T) {
	info := SymbolInfo{Name: "Greet", Parent: "OtherType", Kind: "struct.method"}
	assert.True(t, matches(info, "Greet.method", "Greeter", "", "go"))
	assert.False(t, matches(info, "Greet.method", "Greeter", "", "python"))
}

func TestVisitedSet_ClaimIsOneShot(t *testing.T) {
	v := newVisitedSet("a")
	assert.False(t, v.claim("a"))
	assert.True(t, v.claim("b"))
	assert.False(t, v.claim("b"))
}
