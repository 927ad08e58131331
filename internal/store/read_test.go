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

func alleleNames(as []records.Allele) []string {
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = a.Name
	}
	return names
}

func TestQuery_NoGroupsReturnsEverything(t *testing.T) {
	s := testutil.OpenFixtureStore(t)
	ctx := context.Background()

	all, err := s.Alleles().Query(ctx, filter.New[records.AlleleField]())
	require.NoError(t, err)
	assert.Len(t, all, 8)
}

func TestQuery_OrGroupIsUnion(t *testing.T) {
	s := testutil.OpenFixtureStore(t)

	e := filter.New[records.AlleleField]().
		Or(
			filter.Where(records.AlleleSysGeneName, filter.Equal{Value: "F27D9.1"}),
			filter.Where(records.AlleleSysGeneName, filter.Equal{Value: "T14B4.7"}),
		).
		OrderBy(records.AlleleName, filter.Asc)

	got, err := s.Alleles().Query(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, []string{"cn64", "md299"}, alleleNames(got))
}

func TestQuery_GroupsAreIntersected(t *testing.T) {
	s := testutil.OpenFixtureStore(t)

	e := filter.New[records.GeneField]().
		Or(filter.Where(records.GeneChromosome, filter.Equal{Value: "X"})).
		Or(filter.Where(records.GenePhysLoc, filter.LessThan{Value: "10000000"}))

	got, err := s.Genes().Query(context.Background(), e)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "F27D9.1", got[0].SysName)
	require.NotNil(t, got[0].GenLoc)
	assert.InDelta(t, -1.35, *got[0].GenLoc, 1e-9)
}

func TestQuery_MultiKeyOrdering(t *testing.T) {
	s := testutil.OpenFixtureStore(t)

	e := filter.New[records.AlleleExpressionField]().
		OrderBy(records.ExprDominance, filter.Asc).
		OrderBy(records.ExprPhenotypeName, filter.Asc).
		OrderBy(records.ExprAlleleName, filter.Asc)

	got, err := s.AlleleExpressions().Query(context.Background(), e)
	require.NoError(t, err)

	type row struct {
		allele, phenotype string
		wild              bool
		dominance         int64
	}
	rows := make([]row, len(got))
	for i, r := range got {
		require.NotNil(t, r.Dominance)
		rows[i] = row{r.AlleleName, r.ExpressingPhenotypeName, r.ExpressingPhenotypeWild, *r.Dominance}
	}

	assert.Equal(t, []row{
		{"cn64", "dpy-10", false, 0},
		{"n765", "lin-15B", false, 0},
		{"ed3", "unc-119", false, 0},
		{"md299", "unc-18", false, 0},
		{"ox1059", "kin-4", false, 1},
		{"ed3", "unc-119", true, 1},
		{"oxEx2254", "GFP", false, 2},
		{"oxEx219999", "mCherry", false, 2},
		{"oxTi302", "mCherry", false, 2},
		{"oxEx2254", "unc-119", true, 2},
	}, rows)
}

func TestQuery_LikeIsSubstring(t *testing.T) {
	s := testutil.OpenFixtureStore(t)

	e := filter.New[records.AlleleField]().
		Or(filter.Where(records.AlleleName, filter.Like{Substr: "oxEx"})).
		OrderBy(records.AlleleName, filter.Asc)

	got, err := s.Alleles().Query(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, []string{"oxEx219999", "oxEx2254"}, alleleNames(got))
}

func TestQuery_LikeMatchesWildcardsLiterally(t *testing.T) {
	s := testutil.OpenFixtureStore(t)
	ctx := context.Background()

	for _, substr := range []string{"_", "%", "ox_", `\`} {
		got, err := s.Alleles().Query(ctx, filter.New[records.AlleleField]().
			Or(filter.Where(records.AlleleName, filter.Like{Substr: substr})))
		require.NoError(t, err)
		assert.Empty(t, alleleNames(got), "substring %q", substr)
	}

	for _, name := range []string{"CB_1", "CB%2", `CB\3`, "CBX4"} {
		_, err := s.Strains().Insert(ctx, records.Strain{Name: name})
		require.NoError(t, err)
	}
	tests := map[string][]string{
		"B_": {"CB_1"},
		"B%": {"CB%2"},
		`B\`: {`CB\3`},
		"CB": {"CB%2", "CB4856", `CB\3`, "CB_1", "CBX4"},
	}
	for substr, want := range tests {
		got, err := s.Strains().Query(ctx, filter.New[records.StrainField]().
			Or(filter.Where(records.StrainName, filter.Like{Substr: substr})).
			OrderBy(records.StrainName, filter.Asc))
		require.NoError(t, err)
		names := make([]string, len(got))
		for i, st := range got {
			names[i] = st.Name
		}
		assert.Equal(t, want, names, "substring %q", substr)
	}
}

func TestQuery_NullPartition(t *testing.T) {
	s := testutil.OpenFixtureStore(t)
	ctx := context.Background()
	repo := s.Alleles()

	all, err := repo.Query(ctx, filter.New[records.AlleleField]())
	require.NoError(t, err)

	withContents, err := repo.Query(ctx, filter.New[records.AlleleField]().
		Or(filter.Where(records.AlleleContents, filter.NotNull{})))
	require.NoError(t, err)
	without, err := repo.Query(ctx, filter.New[records.AlleleField]().
		Or(filter.Where(records.AlleleContents, filter.IsNull{})))
	require.NoError(t, err)

	assert.Len(t, withContents, 3)
	assert.Len(t, without, 5)

	union := append(alleleNames(withContents), alleleNames(without)...)
	assert.ElementsMatch(t, alleleNames(all), union)
	for _, a := range withContents {
		assert.NotNil(t, a.Contents)
	}
	for _, a := range without {
		assert.Nil(t, a.Contents)
	}
}

func TestQuery_BooleanPredicates(t *testing.T) {
	s := testutil.OpenFixtureStore(t)
	ctx := context.Background()

	wild, err := s.Phenotypes().Query(ctx, filter.New[records.PhenotypeField]().
		Or(filter.Where(records.PhenotypeWild, filter.IsTrue{})))
	require.NoError(t, err)
	require.Len(t, wild, 1)
	assert.Equal(t, "unc-119", wild[0].Name)
	require.NotNil(t, wild[0].MaleMating)
	assert.Equal(t, int64(3), *wild[0].MaleMating)

	open, err := s.Tasks().Count(ctx, filter.New[records.TaskField]().
		Or(filter.Where(records.TaskCompleted, filter.IsFalse{})))
	require.NoError(t, err)
	assert.Equal(t, int64(3), open)
}

func TestQuery_RangeAndPaging(t *testing.T) {
	s := testutil.OpenFixtureStore(t)
	ctx := context.Background()

	e := filter.New[records.TaskField]().
		Or(filter.Where(records.TaskDate, filter.Range{
			Lo: "2024-02-01", LoInclusive: true, Hi: "2024-03-04", HiInclusive: false,
		})).
		OrderBy(records.TaskDueDate, filter.Desc)

	got, err := s.Tasks().Query(ctx, e)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Cross", got[0].Action)
	assert.Equal(t, "Freeze", got[1].Action)
	assert.True(t, got[1].Completed)

	paged, err := s.Strains().Query(ctx, filter.New[records.StrainField]().
		OrderBy(records.StrainName, filter.Asc).
		WithOffset(1).
		WithLimit(2))
	require.NoError(t, err)
	require.Len(t, paged, 2)
	assert.Equal(t, "EG6699", paged[0].Name)
	assert.Equal(t, "N2", paged[1].Name)

	tail, err := s.Strains().Query(ctx, filter.New[records.StrainField]().
		OrderBy(records.StrainName, filter.Asc).
		WithOffset(3))
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, "TN64", tail[0].Name)
}

func TestQuery_CollationParameter(t *testing.T) {
	s := testutil.OpenFixtureStore(t)
	ctx := context.Background()

	e := filter.New[records.PhenotypeField]().
		Or(filter.Where(records.PhenotypeShortName, filter.NotEqual{Value: "unc"}))

	nocase, err := s.Phenotypes().Query(ctx, e.OrderBy(records.PhenotypeName, filter.Asc))
	require.NoError(t, err)
	binary, err := s.Phenotypes().Query(ctx, e.OrderByCollate(records.PhenotypeName, filter.Asc, filter.Binary))
	require.NoError(t, err)

	names := func(ps []records.Phenotype) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.Name
		}
		return out
	}
	assert.Equal(t, []string{"dpy-10", "GFP", "kin-4", "lin-15B", "mCherry"}, names(nocase))
	assert.Equal(t, []string{"GFP", "dpy-10", "kin-4", "lin-15B", "mCherry"}, names(binary))
}

func TestQuery_EmptyResultIsNotNil(t *testing.T) {
	s := testutil.OpenFixtureStore(t)

	got, err := s.Strains().Query(context.Background(), filter.New[records.StrainField]().
		Or(filter.Where(records.StrainName, filter.Equal{Value: "nope"})))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQuery_CancelledContext(t *testing.T) {
	s := testutil.OpenFixtureStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Genes().Query(ctx, filter.New[records.GeneField]())
	require.Error(t, err)

	var qerr *store.QueryError
	require.True(t, errors.As(err, &qerr))
	assert.Equal(t, "gene", qerr.Entity)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCount_IgnoresPaging(t *testing.T) {
	s := testutil.OpenFixtureStore(t)

	n, err := s.Alleles().Count(context.Background(), filter.New[records.AlleleField]().
		Or(filter.Where(records.AlleleContents, filter.IsNull{})).
		OrderBy(records.AlleleName, filter.Desc).
		WithLimit(1))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
