package records

// Gene is a gene identified by its systematic (sequence) name.
type Gene struct {
	SysName    string   `csv:"sys_name" json:"sys_name" validate:"required"`
	DescName   *string  `csv:"desc_name" json:"desc_name"`
	Chromosome *string  `csv:"chromosome" json:"chromosome" validate:"omitempty,oneof=I II III IV V X Ex"`
	PhysLoc    *int64   `csv:"phys_loc" json:"phys_loc" validate:"omitempty,min=0"`
	GenLoc     *float64 `csv:"gen_loc" json:"gen_loc"`
}

// GeneField is a filterable gene column.
type GeneField int

const (
	GeneSysName GeneField = iota
	GeneDescName
	GeneChromosome
	GenePhysLoc
	GeneGenLoc
	geneFieldCount
)

// Column returns the physical column of f.
func (f GeneField) Column() string {
	switch f {
	case GeneSysName:
		return "sys_name"
	case GeneDescName:
		return "desc_name"
	case GeneChromosome:
		return "chromosome"
	case GenePhysLoc:
		return "phys_loc"
	case GeneGenLoc:
		return "gen_loc"
	}
	panic(unknownField("gene", int(f)))
}

// String returns the external name of f.
func (f GeneField) String() string {
	switch f {
	case GeneSysName:
		return "SysName"
	case GeneDescName:
		return "DescName"
	case GeneChromosome:
		return "Chromosome"
	case GenePhysLoc:
		return "PhysLoc"
	case GeneGenLoc:
		return "GenLoc"
	}
	return unknownField("gene", int(f))
}

// ParseGeneField resolves an external gene field name.
func ParseGeneField(name string) (GeneField, error) {
	return parseField("gene", name, geneFieldCount)
}

// GeneFieldNames lists the external gene field names.
func GeneFieldNames() []string { return fieldNames(geneFieldCount) }
