package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worm-world/worm-world-sub000/internal/filter"
	"github.com/worm-world/worm-world-sub000/internal/records"
	"github.com/worm-world/worm-world-sub000/internal/store"
	"github.com/worm-world/worm-world-sub000/internal/testutil"
)

func TestEntity_NameForms(t *testing.T) {
	s := testutil.OpenStore(t)

	for _, name := range []string{"allele", "Allele", "alleles", " ALLELES "} {
		e, err := s.Entity(name)
		require.NoError(t, err, name)
		assert.Equal(t, "allele", e.Name)
		assert.Equal(t, "alleles", e.Table)
	}

	e, err := s.Entity("AlleleExpression")
	require.NoError(t, err)
	assert.Equal(t, "allele_exprs", e.Table)

	_, err = s.Entity("worms")
	assert.ErrorIs(t, err, store.ErrUnknownEntity)
}

func TestEntity_EveryNameResolves(t *testing.T) {
	s := testutil.OpenStore(t)
	for _, name := range store.EntityNames() {
		e, err := s.Entity(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, e.Name)
		assert.NotEmpty(t, e.Fields)
		assert.NotEmpty(t, e.Columns)
	}
}

func TestEntity_QueryFromDocument(t *testing.T) {
	s := testutil.OpenFixtureStore(t)
	ctx := context.Background()

	doc, err := filter.ParseDocument([]byte(`
groups:
  - - {field: SysGeneName, predicate: {kind: equal, value: F27D9.1}}
    - {field: sys_gene_name, predicate: {kind: equal, value: T14B4.7}}
order_by:
  - {field: name}
`))
	require.NoError(t, err)

	e, err := s.Entity("allele")
	require.NoError(t, err)

	rows, err := e.Query(ctx, doc)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "cn64", rows[0].(records.Allele).Name)
	assert.Equal(t, "md299", rows[1].(records.Allele).Name)

	n, err := e.Count(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestEntity_UnknownFieldInDocument(t *testing.T) {
	s := testutil.OpenFixtureStore(t)

	e, err := s.Entity("strain")
	require.NoError(t, err)

	doc := filter.Document{Groups: [][]filter.ClauseDoc{{
		{Field: "name; DROP TABLE strains", Predicate: filter.PredicateDoc{Kind: filter.KindNull}},
	}}}
	_, err = e.Query(context.Background(), doc)
	var derr *filter.DecodeError
	require.True(t, errors.As(err, &derr))

	n, err := e.Count(context.Background(), filter.Document{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestEntity_DeleteRequiresFilter(t *testing.T) {
	s := testutil.OpenFixtureStore(t)

	e, err := s.Entity("task")
	require.NoError(t, err)

	_, err = e.Delete(context.Background(), filter.Document{})
	assert.ErrorIs(t, err, store.ErrUnfilteredDelete)
}
