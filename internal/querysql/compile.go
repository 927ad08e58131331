// Package querysql compiles filter expressions into parameterized SQLite
// statements built with squirrel.
package querysql

import (
	"fmt"
	"math"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/worm-world/worm-world-sub000/internal/filter"
)

// statements produces builders with ? placeholders, which both SQLite
// drivers accept.
var statements = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// noLimit is emitted when an offset is given without a limit. SQLite rejects
// OFFSET on its own.
const noLimit = math.MaxInt64

// Select starts a SELECT of columns from table and applies e to it.
func Select[F filter.Field](table string, columns []string, e filter.Expr[F]) sq.SelectBuilder {
	return Apply(statements.Select(columns...).From(table), e)
}

// Count builds SELECT COUNT(*) over the rows of table matching e. Sort keys
// and paging are ignored.
func Count[F filter.Field](table string, e filter.Expr[F]) sq.SelectBuilder {
	return Apply(statements.Select("COUNT(*)").From(table), e.Unpaged())
}

// Delete builds a DELETE of the rows of table matching e. Sort keys and
// paging are ignored; callers must refuse match-all expressions themselves.
func Delete[F filter.Field](table string, e filter.Expr[F]) sq.DeleteBuilder {
	b := statements.Delete(table)
	for _, part := range Where(e) {
		b = b.Where(part)
	}
	return b
}

// Apply appends the WHERE, ORDER BY, LIMIT and OFFSET clauses of e to b.
//
// Each OR-group becomes one WHERE part, so the output reads
//
//	WHERE (p1 OR p2) AND (p3) ...
//
// and no groups means no WHERE clause at all. Column names come only from
// F.Column; every operand is a bound parameter. Apply cannot fail.
func Apply[F filter.Field](b sq.SelectBuilder, e filter.Expr[F]) sq.SelectBuilder {
	for _, part := range Where(e) {
		b = b.Where(part)
	}
	for _, s := range e.Order {
		b = b.OrderBy(OrderKey(s))
	}
	switch {
	case e.Limit != nil:
		b = b.Limit(*e.Limit)
	case e.Offset != nil:
		b = b.Limit(noLimit)
	}
	if e.Offset != nil {
		b = b.Offset(*e.Offset)
	}
	return b
}

// Where compiles the OR-groups of e, one sq.Or per group, in order.
func Where[F filter.Field](e filter.Expr[F]) []sq.Sqlizer {
	if len(e.Groups) == 0 {
		return nil
	}
	parts := make([]sq.Sqlizer, 0, len(e.Groups))
	for _, g := range e.Groups {
		or := make(sq.Or, 0, len(g))
		for _, c := range g {
			or = append(or, Predicate(c.Field.Column(), c.Pred))
		}
		parts = append(parts, or)
	}
	return parts
}

// OrderKey renders one sort key as "<column> COLLATE <collation> <dir>".
func OrderKey[F filter.Field](s filter.Sort[F]) string {
	return fmt.Sprintf("%s COLLATE %s %s", s.Field.Column(), s.Collation, s.Dir)
}

// likeEscaper escapes LIKE wildcards with the backslash named in the
// ESCAPE clause.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Predicate compiles p against column.
//
// Binding counts: Range binds 2 values; LessThan, GreaterThan, Equal,
// NotEqual and Like bind 1; IsNull, NotNull, IsTrue and IsFalse bind none.
// Like binds its operand wrapped in %...% with \, % and _ escaped, so the
// operand always matches literally. A nil predicate is always true.
func Predicate(column string, p filter.Predicate) sq.Sqlizer {
	switch pred := p.(type) {
	case nil:
		return sq.Expr("1 = 1")
	case filter.Range:
		return sq.Expr(
			fmt.Sprintf("(%s %s ? AND %s %s ?)", column, lowerOp(pred.LoInclusive), column, upperOp(pred.HiInclusive)),
			pred.Lo, pred.Hi,
		)
	case filter.LessThan:
		return sq.Expr(fmt.Sprintf("%s %s ?", column, upperOp(pred.Inclusive)), pred.Value)
	case filter.GreaterThan:
		return sq.Expr(fmt.Sprintf("%s %s ?", column, lowerOp(pred.Inclusive)), pred.Value)
	case filter.Equal:
		return sq.Expr(column+" = ?", pred.Value)
	case filter.NotEqual:
		return sq.Expr(column+" != ?", pred.Value)
	case filter.Like:
		return sq.Expr(column+` LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(pred.Substr)+"%")
	case filter.IsNull:
		return sq.Expr(column + " IS NULL")
	case filter.NotNull:
		return sq.Expr(column + " IS NOT NULL")
	case filter.IsTrue:
		return sq.Expr(column + " = 1")
	case filter.IsFalse:
		return sq.Expr(column + " = 0")
	}
	// Predicate is sealed; every kind is handled above.
	panic(fmt.Sprintf("querysql: unhandled predicate %T", p))
}

func lowerOp(inclusive bool) string {
	if inclusive {
		return ">="
	}
	return ">"
}

func upperOp(inclusive bool) string {
	if inclusive {
		return "<="
	}
	return "<"
}
