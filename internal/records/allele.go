package records

// Allele is a variant of a gene, or an extrachromosomal array / insertion
// when SysGeneName is nil.
type Allele struct {
	Name        string  `csv:"name" json:"name" validate:"required"`
	Contents    *string `csv:"contents" json:"contents"`
	SysGeneName *string `csv:"sys_gene_name" json:"sys_gene_name"`
}

// AlleleField is a filterable allele column.
type AlleleField int

const (
	AlleleName AlleleField = iota
	AlleleContents
	AlleleSysGeneName
	alleleFieldCount
)

// Column returns the physical column of f.
func (f AlleleField) Column() string {
	switch f {
	case AlleleName:
		return "name"
	case AlleleContents:
		return "contents"
	case AlleleSysGeneName:
		return "sys_gene_name"
	}
	panic(unknownField("allele", int(f)))
}

// String returns the external name of f.
func (f AlleleField) String() string {
	switch f {
	case AlleleName:
		return "Name"
	case AlleleContents:
		return "Contents"
	case AlleleSysGeneName:
		return "SysGeneName"
	}
	return unknownField("allele", int(f))
}

// ParseAlleleField resolves an external allele field name.
func ParseAlleleField(name string) (AlleleField, error) {
	return parseField("allele", name, alleleFieldCount)
}

// AlleleFieldNames lists the external allele field names.
func AlleleFieldNames() []string { return fieldNames(alleleFieldCount) }
