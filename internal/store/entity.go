package store

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/worm-world/worm-world-sub000/internal/bulk"
	"github.com/worm-world/worm-world-sub000/internal/filter"
	"github.com/worm-world/worm-world-sub000/internal/records"
)

// Entity is the untyped view of a Repo, driven by filter documents. The CLI
// and the HTTP API use it to serve any entity by name.
type Entity struct {
	Name    string
	Table   string
	Fields  []string
	Columns []string

	Query  func(ctx context.Context, doc filter.Document) ([]any, error)
	Count  func(ctx context.Context, doc filter.Document) (int64, error)
	Delete func(ctx context.Context, doc filter.Document) (int64, error)
	Import func(ctx context.Context, src io.Reader, opts bulk.Options) (bulk.Report, error)
}

// EntityNames lists the names accepted by Store.Entity.
func EntityNames() []string {
	return []string{"gene", "allele", "phenotype", "allele_expression", "strain", "task"}
}

// Entity resolves an entity by name. Singular names, table names and any
// casing are accepted ("Allele", "alleles", "allele_exprs").
func (s *Store) Entity(name string) (Entity, error) {
	switch strcase.ToSnake(strings.TrimSpace(name)) {
	case "gene", "genes":
		return entityOf(s.Genes(), records.ParseGeneField, records.GeneFieldNames()), nil
	case "allele", "alleles":
		return entityOf(s.Alleles(), records.ParseAlleleField, records.AlleleFieldNames()), nil
	case "phenotype", "phenotypes":
		return entityOf(s.Phenotypes(), records.ParsePhenotypeField, records.PhenotypeFieldNames()), nil
	case "allele_expression", "allele_expressions", "allele_exprs":
		return entityOf(s.AlleleExpressions(), records.ParseAlleleExpressionField, records.AlleleExpressionFieldNames()), nil
	case "strain", "strains":
		return entityOf(s.Strains(), records.ParseStrainField, records.StrainFieldNames()), nil
	case "task", "tasks":
		return entityOf(s.Tasks(), records.ParseTaskField, records.TaskFieldNames()), nil
	}
	return Entity{}, fmt.Errorf("%w %q", ErrUnknownEntity, name)
}

func entityOf[T any, F filter.Field](r *Repo[T, F], parse func(string) (F, error), fields []string) Entity {
	return Entity{
		Name:    r.t.entity,
		Table:   r.t.name,
		Fields:  fields,
		Columns: r.Columns(),
		Query: func(ctx context.Context, doc filter.Document) ([]any, error) {
			e, err := filter.Resolve(doc, parse)
			if err != nil {
				return nil, err
			}
			rows, err := r.Query(ctx, e)
			if err != nil {
				return nil, err
			}
			out := make([]any, len(rows))
			for i := range rows {
				out[i] = rows[i]
			}
			return out, nil
		},
		Count: func(ctx context.Context, doc filter.Document) (int64, error) {
			e, err := filter.Resolve(doc, parse)
			if err != nil {
				return 0, err
			}
			return r.Count(ctx, e)
		},
		Delete: func(ctx context.Context, doc filter.Document) (int64, error) {
			e, err := filter.Resolve(doc, parse)
			if err != nil {
				return 0, err
			}
			return r.Delete(ctx, e)
		},
		Import: r.Import,
	}
}
