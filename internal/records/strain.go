package records

// Strain is a maintained worm strain.
type Strain struct {
	Name  string  `csv:"name" json:"name" validate:"required"`
	Notes *string `csv:"notes" json:"notes"`
}

// StrainField is a filterable strain column.
type StrainField int

const (
	StrainName StrainField = iota
	StrainNotes
	strainFieldCount
)

// Column returns the physical column of f.
func (f StrainField) Column() string {
	switch f {
	case StrainName:
		return "name"
	case StrainNotes:
		return "notes"
	}
	panic(unknownField("strain", int(f)))
}

// String returns the external name of f.
func (f StrainField) String() string {
	switch f {
	case StrainName:
		return "Name"
	case StrainNotes:
		return "Notes"
	}
	return unknownField("strain", int(f))
}

// ParseStrainField resolves an external strain field name.
func ParseStrainField(name string) (StrainField, error) {
	return parseField("strain", name, strainFieldCount)
}

// StrainFieldNames lists the external strain field names.
func StrainFieldNames() []string { return fieldNames(strainFieldCount) }
