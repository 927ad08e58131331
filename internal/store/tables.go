package store

import (
	"database/sql"

	"github.com/worm-world/worm-world-sub000/internal/records"
)

var geneTable = table[records.Gene, records.GeneField]{
	entity:   "gene",
	name:     "genes",
	columns:  []string{"sys_name", "desc_name", "chromosome", "phys_loc", "gen_loc"},
	writable: []string{"sys_name", "desc_name", "chromosome", "phys_loc", "gen_loc"},
	key:      []string{"sys_name"},
	scan: func(sc scanner) (records.Gene, error) {
		var (
			g          records.Gene
			desc, chr  sql.Null[string]
			phys       sql.Null[int64]
			geneticLoc sql.Null[float64]
		)
		if err := sc.Scan(&g.SysName, &desc, &chr, &phys, &geneticLoc); err != nil {
			return g, err
		}
		g.DescName = fromNull(desc)
		g.Chromosome = fromNull(chr)
		g.PhysLoc = fromNull(phys)
		g.GenLoc = fromNull(geneticLoc)
		return g, nil
	},
	record: func(g records.Gene) map[string]any {
		return map[string]any{
			"sys_name":   g.SysName,
			"desc_name":  nullable(g.DescName),
			"chromosome": nullable(g.Chromosome),
			"phys_loc":   nullable(g.PhysLoc),
			"gen_loc":    nullable(g.GenLoc),
		}
	},
}

var alleleTable = table[records.Allele, records.AlleleField]{
	entity:   "allele",
	name:     "alleles",
	columns:  []string{"name", "contents", "sys_gene_name"},
	writable: []string{"name", "contents", "sys_gene_name"},
	key:      []string{"name"},
	scan: func(sc scanner) (records.Allele, error) {
		var (
			a              records.Allele
			contents, gene sql.Null[string]
		)
		if err := sc.Scan(&a.Name, &contents, &gene); err != nil {
			return a, err
		}
		a.Contents = fromNull(contents)
		a.SysGeneName = fromNull(gene)
		return a, nil
	},
	record: func(a records.Allele) map[string]any {
		return map[string]any{
			"name":          a.Name,
			"contents":      nullable(a.Contents),
			"sys_gene_name": nullable(a.SysGeneName),
		}
	},
}

var phenotypeColumns = []string{
	"name", "wild", "short_name", "description", "male_mating",
	"lethal", "female_sterile", "arrested", "maturation_days",
}

var phenotypeTable = table[records.Phenotype, records.PhenotypeField]{
	entity:   "phenotype",
	name:     "phenotypes",
	columns:  phenotypeColumns,
	writable: phenotypeColumns,
	key:      []string{"name", "wild"},
	scan: func(sc scanner) (records.Phenotype, error) {
		var (
			p                         records.Phenotype
			wild                      int64
			desc                      sql.Null[string]
			mating                    sql.Null[int64]
			lethal, sterile, arrested sql.Null[int64]
			maturation                sql.Null[float64]
		)
		if err := sc.Scan(&p.Name, &wild, &p.ShortName, &desc, &mating,
			&lethal, &sterile, &arrested, &maturation); err != nil {
			return p, err
		}
		p.Wild = intToBool(wild)
		p.Description = fromNull(desc)
		p.MaleMating = fromNull(mating)
		p.Lethal = fromNullBool(lethal)
		p.FemaleSterile = fromNullBool(sterile)
		p.Arrested = fromNullBool(arrested)
		p.MaturationDays = fromNull(maturation)
		return p, nil
	},
	record: func(p records.Phenotype) map[string]any {
		return map[string]any{
			"name":            p.Name,
			"wild":            boolToInt(p.Wild),
			"short_name":      p.ShortName,
			"description":     nullable(p.Description),
			"male_mating":     nullable(p.MaleMating),
			"lethal":          nullableBool(p.Lethal),
			"female_sterile":  nullableBool(p.FemaleSterile),
			"arrested":        nullableBool(p.Arrested),
			"maturation_days": nullable(p.MaturationDays),
		}
	},
}

var alleleExpressionColumns = []string{
	"allele_name", "expressing_phenotype_name", "expressing_phenotype_wild", "dominance",
}

var alleleExpressionTable = table[records.AlleleExpression, records.AlleleExpressionField]{
	entity:   "allele_expression",
	name:     "allele_exprs",
	columns:  alleleExpressionColumns,
	writable: alleleExpressionColumns,
	key:      []string{"allele_name", "expressing_phenotype_name", "expressing_phenotype_wild"},
	scan: func(sc scanner) (records.AlleleExpression, error) {
		var (
			e         records.AlleleExpression
			wild      int64
			dominance sql.Null[int64]
		)
		if err := sc.Scan(&e.AlleleName, &e.ExpressingPhenotypeName, &wild, &dominance); err != nil {
			return e, err
		}
		e.ExpressingPhenotypeWild = intToBool(wild)
		e.Dominance = fromNull(dominance)
		return e, nil
	},
	record: func(e records.AlleleExpression) map[string]any {
		return map[string]any{
			"allele_name":               e.AlleleName,
			"expressing_phenotype_name": e.ExpressingPhenotypeName,
			"expressing_phenotype_wild": boolToInt(e.ExpressingPhenotypeWild),
			"dominance":                 nullable(e.Dominance),
		}
	},
}

var strainTable = table[records.Strain, records.StrainField]{
	entity:   "strain",
	name:     "strains",
	columns:  []string{"name", "notes"},
	writable: []string{"name", "notes"},
	key:      []string{"name"},
	scan: func(sc scanner) (records.Strain, error) {
		var (
			s     records.Strain
			notes sql.Null[string]
		)
		if err := sc.Scan(&s.Name, &notes); err != nil {
			return s, err
		}
		s.Notes = fromNull(notes)
		return s, nil
	},
	record: func(s records.Strain) map[string]any {
		return map[string]any{
			"name":  s.Name,
			"notes": nullable(s.Notes),
		}
	},
}

var taskTable = table[records.Task, records.TaskField]{
	entity:   "task",
	name:     "tasks",
	columns:  []string{"id", "due_date", "action", "strain1", "strain2", "result", "notes", "completed"},
	writable: []string{"due_date", "action", "strain1", "strain2", "result", "notes", "completed"}, // id is assigned by SQLite
	key:      []string{"id"},
	scan: func(sc scanner) (records.Task, error) {
		var (
			t                           records.Task
			due, strain2, result, notes sql.Null[string]
			completed                   int64
		)
		if err := sc.Scan(&t.ID, &due, &t.Action, &t.Strain1, &strain2, &result, &notes, &completed); err != nil {
			return t, err
		}
		t.DueDate = fromNull(due)
		t.Strain2 = fromNull(strain2)
		t.Result = fromNull(result)
		t.Notes = fromNull(notes)
		t.Completed = intToBool(completed)
		return t, nil
	},
	record: func(t records.Task) map[string]any {
		return map[string]any{
			"id":        t.ID,
			"due_date":  nullable(t.DueDate),
			"action":    t.Action,
			"strain1":   t.Strain1,
			"strain2":   nullable(t.Strain2),
			"result":    nullable(t.Result),
			"notes":     nullable(t.Notes),
			"completed": boolToInt(t.Completed),
		}
	},
}

// Genes returns the gene repository.
func (s *Store) Genes() *Repo[records.Gene, records.GeneField] {
	return &Repo[records.Gene, records.GeneField]{s: s, t: geneTable}
}

// Alleles returns the allele repository.
func (s *Store) Alleles() *Repo[records.Allele, records.AlleleField] {
	return &Repo[records.Allele, records.AlleleField]{s: s, t: alleleTable}
}

// Phenotypes returns the phenotype repository.
func (s *Store) Phenotypes() *Repo[records.Phenotype, records.PhenotypeField] {
	return &Repo[records.Phenotype, records.PhenotypeField]{s: s, t: phenotypeTable}
}

// AlleleExpressions returns the allele expression repository.
func (s *Store) AlleleExpressions() *Repo[records.AlleleExpression, records.AlleleExpressionField] {
	return &Repo[records.AlleleExpression, records.AlleleExpressionField]{s: s, t: alleleExpressionTable}
}

// Strains returns the strain repository.
func (s *Store) Strains() *Repo[records.Strain, records.StrainField] {
	return &Repo[records.Strain, records.StrainField]{s: s, t: strainTable}
}

// Tasks returns the task repository.
func (s *Store) Tasks() *Repo[records.Task, records.TaskField] {
	return &Repo[records.Task, records.TaskField]{s: s, t: taskTable}
}
