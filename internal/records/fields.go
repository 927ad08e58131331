package records

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// enumField is satisfied by every field enumeration in this package.
type enumField interface {
	~int
	String() string
}

// parseField finds the variant of F whose external name matches name.
// count is the sentinel one past the last declared variant.
func parseField[F enumField](entity, name string, count F) (F, error) {
	want := strcase.ToSnake(strings.TrimSpace(name))
	for f := F(0); f < count; f++ {
		if strcase.ToSnake(f.String()) == want {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown %s field %q", entity, name)
}

// fieldNames lists the external names of all variants of F.
func fieldNames[F enumField](count F) []string {
	names := make([]string, 0, int(count))
	for f := F(0); f < count; f++ {
		names = append(names, f.String())
	}
	return names
}

func unknownField(entity string, f int) string {
	return fmt.Sprintf("records: unknown %s field %d", entity, f)
}
