package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsablic/licbundle/internal/cache"
	"github.com/dsablic/licbundle/internal/spdx"
	"github.com/dsablic/licbundle/internal/textmatch"
)

func openDB(t *testing.T) *cache.DB {
	t.Helper()
	db, err := cache.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLookupMiss(t *testing.T) {
	db := openDB(t)
	_, ok := db.Lookup("text", "template")
	assert.False(t, ok)
}

func TestStoreAndLookup(t *testing.T) {
	db := openDB(t)
	want := textmatch.Score{Offset: 3, Distance: 7, Length: 100}

	db.Store("text", "template", want)
	got, ok := db.Lookup("text", "template")
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok = db.Lookup("template", "text")
	assert.False(t, ok, "key depends on argument order")

	updated := textmatch.Score{Offset: 0, Distance: 1, Length: 100}
	db.Store("text", "template", updated)
	got, ok = db.Lookup("text", "template")
	require.True(t, ok)
	assert.Equal(t, updated, got)
}

func TestCachedMatcherAgreesWithUncached(t *testing.T) {
	tmpl, ok := spdx.Known(spdx.MIT).Template()
	require.True(t, ok)
	text := "Copyright 2024 Example\n\n" + tmpl

	plain := textmatch.NewMatcher(0)
	cached := textmatch.NewMatcher(0)
	cached.Cache = openDB(t)

	for i := 0; i < 2; i++ {
		assert.Equal(t, plain.Score(text, tmpl), cached.Score(text, tmpl))
		assert.Equal(t, plain.Matches(text, spdx.Known(spdx.MIT)), cached.Matches(text, spdx.Known(spdx.MIT)))
	}
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, cache.Key("a", "b"), cache.Key("a", "b"))
	assert.NotEqual(t, cache.Key("a", "b"), cache.Key("b", "a"))
	assert.Len(t, cache.Key("", ""), 64)
}
