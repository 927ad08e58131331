package records

// Phenotype is an observable trait. The same name exists once for the
// mutant form and once for the wild-type form.
type Phenotype struct {
	Name           string   `csv:"name" json:"name" validate:"required"`
	Wild           bool     `csv:"wild" json:"wild"`
	ShortName      string   `csv:"short_name" json:"short_name" validate:"required"`
	Description    *string  `csv:"description" json:"description"`
	MaleMating     *int64   `csv:"male_mating" json:"male_mating" validate:"omitempty,min=0,max=3"`
	Lethal         *bool    `csv:"lethal" json:"lethal"`
	FemaleSterile  *bool    `csv:"female_sterile" json:"female_sterile"`
	Arrested       *bool    `csv:"arrested" json:"arrested"`
	MaturationDays *float64 `csv:"maturation_days" json:"maturation_days" validate:"omitempty,gt=0"`
}

// PhenotypeField is a filterable phenotype column.
type PhenotypeField int

const (
	PhenotypeName PhenotypeField = iota
	PhenotypeWild
	PhenotypeShortName
	PhenotypeDescription
	PhenotypeMaleMating
	PhenotypeLethal
	PhenotypeFemaleSterile
	PhenotypeArrested
	PhenotypeMaturationDays
	phenotypeFieldCount
)

// Column returns the physical column of f.
func (f PhenotypeField) Column() string {
	switch f {
	case PhenotypeName:
		return "name"
	case PhenotypeWild:
		return "wild"
	case PhenotypeShortName:
		return "short_name"
	case PhenotypeDescription:
		return "description"
	case PhenotypeMaleMating:
		return "male_mating"
	case PhenotypeLethal:
		return "lethal"
	case PhenotypeFemaleSterile:
		return "female_sterile"
	case PhenotypeArrested:
		return "arrested"
	case PhenotypeMaturationDays:
		return "maturation_days"
	}
	panic(unknownField("phenotype", int(f)))
}

// String returns the external name of f.
func (f PhenotypeField) String() string {
	switch f {
	case PhenotypeName:
		return "Name"
	case PhenotypeWild:
		return "Wild"
	case PhenotypeShortName:
		return "ShortName"
	case PhenotypeDescription:
		return "Description"
	case PhenotypeMaleMating:
		return "MaleMating"
	case PhenotypeLethal:
		return "Lethal"
	case PhenotypeFemaleSterile:
		return "FemaleSterile"
	case PhenotypeArrested:
		return "Arrested"
	case PhenotypeMaturationDays:
		return "MaturationDays"
	}
	return unknownField("phenotype", int(f))
}

// ParsePhenotypeField resolves an external phenotype field name.
func ParsePhenotypeField(name string) (PhenotypeField, error) {
	return parseField("phenotype", name, phenotypeFieldCount)
}

// PhenotypeFieldNames lists the external phenotype field names.
func PhenotypeFieldNames() []string { return fieldNames(phenotypeFieldCount) }
