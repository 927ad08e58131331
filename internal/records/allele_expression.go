package records

// AlleleExpression records that an allele expresses a phenotype with a
// given dominance (0 recessive, 1 semi-dominant, 2 dominant).
type AlleleExpression struct {
	AlleleName              string `csv:"allele_name" json:"allele_name" validate:"required"`
	ExpressingPhenotypeName string `csv:"expressing_phenotype_name" json:"expressing_phenotype_name" validate:"required"`
	ExpressingPhenotypeWild bool   `csv:"expressing_phenotype_wild" json:"expressing_phenotype_wild"`
	Dominance               *int64 `csv:"dominance" json:"dominance" validate:"omitempty,min=0,max=2"`
}

// AlleleExpressionField is a filterable allele expression column.
type AlleleExpressionField int

const (
	ExprAlleleName AlleleExpressionField = iota
	ExprPhenotypeName
	ExprPhenotypeWild
	ExprDominance
	alleleExpressionFieldCount
)

// Column returns the physical column of f.
func (f AlleleExpressionField) Column() string {
	switch f {
	case ExprAlleleName:
		return "allele_name"
	case ExprPhenotypeName:
		return "expressing_phenotype_name"
	case ExprPhenotypeWild:
		return "expressing_phenotype_wild"
	case ExprDominance:
		return "dominance"
	}
	panic(unknownField("allele expression", int(f)))
}

// String returns the external name of f.
func (f AlleleExpressionField) String() string {
	switch f {
	case ExprAlleleName:
		return "AlleleName"
	case ExprPhenotypeName:
		return "ExpressingPhenotypeName"
	case ExprPhenotypeWild:
		return "ExpressingPhenotypeWild"
	case ExprDominance:
		return "Dominance"
	}
	return unknownField("allele expression", int(f))
}

// ParseAlleleExpressionField resolves an external allele expression field name.
func ParseAlleleExpressionField(name string) (AlleleExpressionField, error) {
	return parseField("allele expression", name, alleleExpressionFieldCount)
}

// AlleleExpressionFieldNames lists the external allele expression field names.
func AlleleExpressionFieldNames() []string { return fieldNames(alleleExpressionFieldCount) }
