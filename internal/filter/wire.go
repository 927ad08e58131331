package filter

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var documentSchemaJSON []byte

// Predicate kinds accepted in documents.
const (
	KindRange       = "range"
	KindLessThan    = "less_than"
	KindGreaterThan = "greater_than"
	KindEqual       = "equal"
	KindNotEqual    = "not_equal"
	KindLike        = "like"
	KindNull        = "null"
	KindNotNull     = "not_null"
	KindTrue        = "true"
	KindFalse       = "false"
)

// Document is the wire shape of an expression as sent by UI and CLI
// callers. Field names are external names; they are only resolved to
// columns by Resolve.
type Document struct {
	Groups  [][]ClauseDoc `mapstructure:"groups" json:"groups,omitempty" yaml:"groups,omitempty"`
	OrderBy []SortDoc     `mapstructure:"order_by" json:"order_by,omitempty" yaml:"order_by,omitempty"`
	Limit   *uint64       `mapstructure:"limit" json:"limit,omitempty" yaml:"limit,omitempty"`
	Offset  *uint64       `mapstructure:"offset" json:"offset,omitempty" yaml:"offset,omitempty"`
}

// ClauseDoc is one {field, predicate} pair of an OR-group.
type ClauseDoc struct {
	Field     string       `mapstructure:"field" json:"field" yaml:"field"`
	Predicate PredicateDoc `mapstructure:"predicate" json:"predicate" yaml:"predicate"`
}

// PredicateDoc is the tagged form of a Predicate. Operands are always
// strings; numbers and booleans in a document are carried as written.
type PredicateDoc struct {
	Kind        string  `mapstructure:"kind" json:"kind" yaml:"kind"`
	Value       *string `mapstructure:"value" json:"value,omitempty" yaml:"value,omitempty"`
	Inclusive   bool    `mapstructure:"inclusive" json:"inclusive,omitempty" yaml:"inclusive,omitempty"`
	Lo          *string `mapstructure:"lo" json:"lo,omitempty" yaml:"lo,omitempty"`
	LoInclusive bool    `mapstructure:"lo_inclusive" json:"lo_inclusive,omitempty" yaml:"lo_inclusive,omitempty"`
	Hi          *string `mapstructure:"hi" json:"hi,omitempty" yaml:"hi,omitempty"`
	HiInclusive bool    `mapstructure:"hi_inclusive" json:"hi_inclusive,omitempty" yaml:"hi_inclusive,omitempty"`
}

// SortDoc is one {field, direction} sort key. Direction defaults to asc and
// collation to nocase.
type SortDoc struct {
	Field     string `mapstructure:"field" json:"field" yaml:"field"`
	Direction string `mapstructure:"direction" json:"direction,omitempty" yaml:"direction,omitempty"`
	Collation string `mapstructure:"collation" json:"collation,omitempty" yaml:"collation,omitempty"`
}

// DecodeError reports every problem found in a document.
type DecodeError struct {
	Problems []string
}

func (e *DecodeError) Error() string {
	return "invalid filter document: " + strings.Join(e.Problems, "; ")
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func documentSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(documentSchemaJSON))
	})
	return schema, schemaErr
}

// ParseDocument decodes a YAML or JSON document, validates it against the
// document schema and returns the typed wire shape.
//
// Scalars keep their literal text: an operand written as 0012 or 1.50 is
// carried as "0012" or "1.50", and bare null, true and false kinds are read
// as the kind names. An empty input yields the empty document (match all
// rows).
func ParseDocument(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Document{}, nil
	}

	var typed, text any
	if trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&typed); err != nil {
			return Document{}, fmt.Errorf("parse filter json: %w", err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return Document{}, errors.New("parse filter json: trailing data after document")
		}
		text = jsonText(typed)
	} else {
		var root yaml.Node
		if err := yaml.Unmarshal(trimmed, &root); err != nil {
			return Document{}, fmt.Errorf("parse filter yaml: %w", err)
		}
		var err error
		if typed, text, err = yamlValues(&root); err != nil {
			return Document{}, fmt.Errorf("parse filter yaml: %w", err)
		}
	}
	if typed == nil {
		return Document{}, nil
	}

	sch, err := documentSchema()
	if err != nil {
		return Document{}, fmt.Errorf("load filter schema: %w", err)
	}
	result, err := sch.Validate(gojsonschema.NewGoLoader(typed))
	if err != nil {
		return Document{}, fmt.Errorf("validate filter document: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			problems = append(problems, re.String())
		}
		return Document{}, &DecodeError{Problems: problems}
	}

	// The schema has checked the types; the text tree is what gets decoded.
	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return Document{}, fmt.Errorf("build document decoder: %w", err)
	}
	if err := dec.Decode(text); err != nil {
		return Document{}, &DecodeError{Problems: []string{err.Error()}}
	}
	return doc, nil
}

// nullText is the text of a null scalar. Only a kind may be null, where it
// names KindNull.
const nullText = KindNull

// jsonText mirrors a UseNumber-decoded JSON value with every scalar replaced
// by its text.
func jsonText(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = jsonText(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonText(e)
		}
		return out
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return nullText
	default:
		return v
	}
}

// yamlValues returns two trees for n: typed, with scalars resolved by their
// YAML tags for schema validation, and text, with every scalar left as
// written.
func yamlValues(n *yaml.Node) (typed, text any, err error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil, nil
		}
		return yamlValues(n.Content[0])
	case yaml.AliasNode:
		return yamlValues(n.Alias)
	case yaml.MappingNode:
		typedMap := make(map[string]any, len(n.Content)/2)
		textMap := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if typedMap[key], textMap[key], err = yamlValues(n.Content[i+1]); err != nil {
				return nil, nil, err
			}
		}
		return typedMap, textMap, nil
	case yaml.SequenceNode:
		typedSeq := make([]any, len(n.Content))
		textSeq := make([]any, len(n.Content))
		for i, c := range n.Content {
			if typedSeq[i], textSeq[i], err = yamlValues(c); err != nil {
				return nil, nil, err
			}
		}
		return typedSeq, textSeq, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if v == nil {
			return nil, nullText, nil
		}
		return v, n.Value, nil
	default:
		return nil, nil, nil
	}
}

// Resolve converts a document into a typed expression. parse maps an
// external field name to a field of the entity; unknown names, empty
// OR-groups, missing operands and unknown kinds, directions or collations
// are all reported together.
func Resolve[F Field](doc Document, parse func(string) (F, error)) (Expr[F], error) {
	var problems []string
	expr := Expr[F]{}

	for gi, g := range doc.Groups {
		if len(g) == 0 {
			problems = append(problems, fmt.Sprintf("groups[%d]: OR-group is empty", gi))
			continue
		}
		group := make(Group[F], 0, len(g))
		for ci, c := range g {
			field, err := parse(c.Field)
			if err != nil {
				problems = append(problems, fmt.Sprintf("groups[%d][%d]: %v", gi, ci, err))
				continue
			}
			pred, err := c.Predicate.predicate()
			if err != nil {
				problems = append(problems, fmt.Sprintf("groups[%d][%d]: %v", gi, ci, err))
				continue
			}
			group = append(group, Clause[F]{Field: field, Pred: pred})
		}
		expr.Groups = append(expr.Groups, group)
	}

	for si, s := range doc.OrderBy {
		field, err := parse(s.Field)
		if err != nil {
			problems = append(problems, fmt.Sprintf("order_by[%d]: %v", si, err))
			continue
		}
		dir, err := ParseDirection(s.Direction)
		if err != nil {
			problems = append(problems, fmt.Sprintf("order_by[%d]: %v", si, err))
			continue
		}
		coll, err := ParseCollation(s.Collation)
		if err != nil {
			problems = append(problems, fmt.Sprintf("order_by[%d]: %v", si, err))
			continue
		}
		expr.Order = append(expr.Order, Sort[F]{Field: field, Dir: dir, Collation: coll})
	}

	if len(problems) > 0 {
		return Expr[F]{}, &DecodeError{Problems: problems}
	}

	expr.Limit = doc.Limit
	expr.Offset = doc.Offset
	return expr, nil
}

// ParseDirection accepts "asc" or "desc" in any case; empty means asc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return Asc, fmt.Errorf("unknown sort direction %q", s)
	}
}

// ParseCollation accepts nocase, binary or rtrim in any case; empty means
// nocase.
func ParseCollation(s string) (Collation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nocase":
		return NoCase, nil
	case "binary":
		return Binary, nil
	case "rtrim":
		return RTrim, nil
	default:
		return NoCase, fmt.Errorf("unknown collation %q", s)
	}
}

// predicate converts the tagged form into a Predicate. Kind names are
// matched after snake-casing, so "LessThan" and "less_than" are equivalent.
func (p PredicateDoc) predicate() (Predicate, error) {
	kind := strcase.ToSnake(strings.TrimSpace(p.Kind))
	switch kind {
	case KindRange:
		if p.Lo == nil || p.Hi == nil {
			return nil, fmt.Errorf("predicate %q requires lo and hi", kind)
		}
		return Range{Lo: *p.Lo, LoInclusive: p.LoInclusive, Hi: *p.Hi, HiInclusive: p.HiInclusive}, nil
	case KindLessThan, KindGreaterThan, KindEqual, KindNotEqual, KindLike:
		if p.Value == nil {
			return nil, fmt.Errorf("predicate %q requires a value", kind)
		}
		v := *p.Value
		switch kind {
		case KindLessThan:
			return LessThan{Value: v, Inclusive: p.Inclusive}, nil
		case KindGreaterThan:
			return GreaterThan{Value: v, Inclusive: p.Inclusive}, nil
		case KindEqual:
			return Equal{Value: v}, nil
		case KindNotEqual:
			return NotEqual{Value: v}, nil
		default:
			return Like{Substr: v}, nil
		}
	case KindNull:
		return IsNull{}, nil
	case KindNotNull:
		return NotNull{}, nil
	case KindTrue:
		return IsTrue{}, nil
	case KindFalse:
		return IsFalse{}, nil
	default:
		return nil, fmt.Errorf("unknown predicate kind %q", p.Kind)
	}
}
