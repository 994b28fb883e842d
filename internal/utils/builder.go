package querybuilder

import (
	"fmt"
	"strings"
)

// QueryBuilder builds parameterized SQL with ? placeholders; rebind for
// the target driver before executing
type QueryBuilder interface {
	Select(cols ...string) QueryBuilder
	From(table string) QueryBuilder
	Where(clause string, args ...interface{}) QueryBuilder
	OrderBy(col string, asc bool) QueryBuilder

	Insert(cols ...string) QueryBuilder
	Into(table string) QueryBuilder
	Values(values ...interface{}) QueryBuilder
	OnConflict(cols ...string) QueryBuilder
	SetExclude(cols ...string) QueryBuilder

	Build() (string, []interface{})
}

type condition struct {
	clause string
	args   []interface{}
}

type queryBuilder struct {
	schema      string
	table       string
	cols        []string
	conditions  []condition
	orderBy     []string
	values      InsertRows
	onConflict  []string
	excludeCols []string
	isInsert    bool
}

// NewQueryBuilder creates a builder scoped to a schema
func NewQueryBuilder(schema string) QueryBuilder {
	return &queryBuilder{
		schema: schema,
	}
}

func (q *queryBuilder) Select(cols ...string) QueryBuilder {
	q.cols = append(q.cols, cols...)
	return q
}

func (q *queryBuilder) From(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Where(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, condition{clause: clause, args: args})
	return q
}

func (q *queryBuilder) OrderBy(col string, asc bool) QueryBuilder {
	orderVector := "ASC"
	if !asc {
		orderVector = "DESC"
	}
	q.orderBy = append(q.orderBy, fmt.Sprintf("%s %s", col, orderVector))
	return q
}

func (q *queryBuilder) Insert(cols ...string) QueryBuilder {
	q.cols = cols
	q.isInsert = true
	return q
}

func (q *queryBuilder) Into(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Values(values ...interface{}) QueryBuilder {
	q.values = append(q.values, values)
	return q
}

func (q *queryBuilder) OnConflict(cols ...string) QueryBuilder {
	q.onConflict = cols
	return q
}

func (q *queryBuilder) SetExclude(cols ...string) QueryBuilder {
	q.excludeCols = cols
	return q
}

func (q *queryBuilder) Build() (string, []interface{}) {
	if q.isInsert {
		return q.buildInsert()
	}
	return q.buildSelect()
}

func (q *queryBuilder) buildSelect() (string, []interface{}) {
	query := fmt.Sprintf("SELECT %s FROM %s.%s", strings.Join(q.cols, ", "), q.schema, q.table)

	var args []interface{}
	if len(q.conditions) > 0 {
		parts := make([]string, 0, len(q.conditions))
		for _, cond := range q.conditions {
			parts = append(parts, cond.clause)
			args = append(args, cond.args...)
		}
		query += fmt.Sprintf(" WHERE %s", strings.Join(parts, " AND "))
	}

	if len(q.orderBy) > 0 {
		query += fmt.Sprintf(" ORDER BY %s", strings.Join(q.orderBy, ", "))
	}

	return query, args
}

func (q *queryBuilder) buildInsert() (string, []interface{}) {
	if len(q.values) == 0 || len(q.cols) == 0 {
		return "", nil
	}

	valueTuples := make([]string, 0, len(q.values))
	args := make([]interface{}, 0, len(q.values)*len(q.cols))
	for _, row := range q.values {
		if len(row) != len(q.cols) {
			return "", nil
		}
		placeholders := make([]string, len(row))
		for i, val := range row {
			placeholders[i] = "?"
			args = append(args, val)
		}
		valueTuples = append(valueTuples, fmt.Sprintf("(%s)", strings.Join(placeholders, ", ")))
	}

	query := fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES %s",
		q.schema, q.table, strings.Join(q.cols, ", "), strings.Join(valueTuples, ", "))

	if len(q.onConflict) > 0 {
		query += fmt.Sprintf(" ON CONFLICT (%s)", strings.Join(q.onConflict, ", "))
		if len(q.excludeCols) == 0 {
			query += " DO NOTHING"
			return query, args
		}
		setClauses := make([]string, 0, len(q.excludeCols))
		for _, col := range q.excludeCols {
			setClauses = append(setClauses, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
		query += " DO UPDATE SET " + strings.Join(setClauses, ", ")
	}

	return query, args
}
