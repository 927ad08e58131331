package bulk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/unicode/norm"
)

// Options configures Load.
type Options struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
}

// RowError is a row that could not be decoded or failed validation.
type RowError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// Container holds the outcome of one Load call.
type Container[T any] struct {
	Rows   []T
	Errors []RowError
}

// Err returns a *ValidationError when any row failed, nil otherwise.
func (c *Container[T]) Err() error {
	if c == nil || len(c.Errors) == 0 {
		return nil
	}
	return &ValidationError{Count: len(c.Errors), Errors: c.Errors}
}

// ErrNoHeader is returned by Load for an empty stream.
var ErrNoHeader = errors.New("bulk: missing header row")

// Load parses r into rows of T.
//
// Only stream-level problems (no header, unreadable input, an unsupported
// row type) are returned as errors. Row problems end up in the container.
func Load[T any](r io.Reader, opts Options) (*Container[T], error) {
	columns, err := csvColumns[T]()
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	// Field counts are checked per row so a short row is a row error.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	keys := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		keys[i] = columns[strcase.ToSnake(h)]
	}

	out := &Container[T]{}
	for index := 0; ; index++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				out.Errors = append(out.Errors, RowError{Index: index, Message: parseErr.Err.Error()})
				continue
			}
			return nil, fmt.Errorf("read row %d: %w", index, err)
		}
		if len(record) != len(header) {
			out.Errors = append(out.Errors, RowError{
				Index:   index,
				Message: fmt.Sprintf("expected %d fields, got %d", len(header), len(record)),
			})
			continue
		}

		row, err := decodeRow[T](keys, record)
		if err != nil {
			out.Errors = append(out.Errors, RowError{Index: index, Message: err.Error()})
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// decodeRow maps the non-empty cells of record onto a T and validates it.
func decodeRow[T any](keys, record []string) (T, error) {
	var row T

	values := make(map[string]any, len(record))
	for i, cell := range record {
		if keys[i] == "" {
			continue
		}
		cell = norm.NFC.String(strings.TrimSpace(cell))
		if cell == "" {
			continue
		}
		values[keys[i]] = cell
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "csv",
		WeaklyTypedInput: true,
		Result:           &row,
	})
	if err != nil {
		return row, err
	}
	if err := dec.Decode(values); err != nil {
		return row, err
	}
	if err := validateRow(row); err != nil {
		return row, err
	}
	return row, nil
}

// csvColumns maps the snake-cased csv tag of every importable field of T
// to the tag itself.
func csvColumns[T any]() (map[string]string, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("bulk: row type %s is not a struct", t)
	}
	columns := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := csvName(t.Field(i))
		if tag == "" {
			continue
		}
		columns[strcase.ToSnake(tag)] = tag
	}
	return columns, nil
}

func csvName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	name, _, _ := strings.Cut(f.Tag.Get("csv"), ",")
	if name == "-" {
		return ""
	}
	return name
}
