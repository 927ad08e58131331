// Package testutil provides fixture databases and helpers shared by tests.
package testutil

import (
	"bytes"
	"context"
	"embed"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/worm-world/worm-world-sub000/internal/bulk"
	"github.com/worm-world/worm-world-sub000/internal/store"
)

//go:embed testdata/*.csv
var fixtures embed.FS

// FixtureOrder lists the fixture entities in foreign-key order.
var FixtureOrder = []string{"gene", "allele", "phenotype", "allele_expression", "strain", "task"}

var fixtureFiles = map[string]string{
	"gene":              "genes.csv",
	"allele":            "alleles.csv",
	"phenotype":         "phenotypes.csv",
	"allele_expression": "allele_exprs.csv",
	"strain":            "strains.csv",
	"task":              "tasks.csv",
}

// Fixture returns the fixture CSV of entity.
func Fixture(t testing.TB, entity string) []byte {
	t.Helper()
	name, ok := fixtureFiles[entity]
	require.True(t, ok, "no fixture for entity %q", entity)
	data, err := fixtures.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

// OpenStore opens an empty store in a temp directory, closed on cleanup.
func OpenStore(t testing.TB, opts ...store.Option) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// OpenFixtureStore opens a store with every fixture imported.
func OpenFixtureStore(t testing.TB, opts ...store.Option) *store.Store {
	t.Helper()
	s := OpenStore(t, opts...)
	importFixtures(t, s)
	return s
}

// FixtureDB writes a database holding every fixture and returns its path.
// The store is closed, so the file can be reopened by the code under test.
func FixtureDB(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	importFixtures(t, s)
	require.NoError(t, s.Close())
	return path
}

func importFixtures(t testing.TB, s *store.Store) {
	t.Helper()
	ctx := context.Background()
	for _, name := range FixtureOrder {
		entity, err := s.Entity(name)
		require.NoError(t, err)
		_, err = entity.Import(ctx, bytes.NewReader(Fixture(t, name)), bulk.Options{})
		require.NoError(t, err, "import %s fixture", name)
	}
}
