// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package query

import (
	"fmt"
	"strings"
)

// Fragment is a SQL snippet with the arguments for its placeholders.
type Fragment struct {
	SQL  string
	Args []interface{}
}

// Frag creates a Fragment.
func Frag(sql string, args ...interface{}) Fragment {
	return Fragment{SQL: sql, Args: args}
}

// IsZero reports whether the fragment has no SQL text.
func (f Fragment) IsZero() bool {
	return f.SQL == ""
}

// Placeholders returns "?, ?, ..." with n placeholders.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// StringArgs converts a string slice to placeholder arguments.
func StringArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates an empty WhereBuilder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// Add adds predicate fragments. Zero fragments are skipped.
func (wb *WhereBuilder) Add(preds ...Fragment) *WhereBuilder {
	for _, p := range preds {
		if p.IsZero() {
			continue
		}
		wb.AddClause(p.SQL, p.Args...)
	}
	return wb
}

// AddNotIn adds "column NOT IN (?, ...)". An empty values slice adds nothing.
func (wb *WhereBuilder) AddNotIn(column string, values []string) *WhereBuilder {
	return wb.Add(NotIn(column, values))
}

// AddIn adds "column IN (?, ...)". An empty values slice adds nothing.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	return wb.Add(In(column, values))
}

// Build joins the clauses with AND. Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the clause with a "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// In returns "column IN (?, ...)", or a zero Fragment for no values.
func In(column string, values []string) Fragment {
	if len(values) == 0 {
		return Fragment{}
	}
	return Frag(fmt.Sprintf("%s IN (%s)", column, Placeholders(len(values))), StringArgs(values)...)
}

// NotIn returns "column NOT IN (?, ...)", or a zero Fragment for no values.
func NotIn(column string, values []string) Fragment {
	if len(values) == 0 {
		return Fragment{}
	}
	return Frag(fmt.Sprintf("%s NOT IN (%s)", column, Placeholders(len(values))), StringArgs(values)...)
}

type join struct {
	kind string
	frag Fragment
}

// SelectBuilder composes a SELECT statement from fragments.
type SelectBuilder struct {
	columns []string
	from    Fragment
	joins   []join
	where   *WhereBuilder
	orderBy []string
	limit   *Fragment
}

// NewSelect starts a SELECT of the given column expressions.
func NewSelect(columns ...string) *SelectBuilder {
	return &SelectBuilder{
		columns: columns,
		where:   NewWhereBuilder(),
	}
}

// Columns appends column expressions.
func (sb *SelectBuilder) Columns(columns ...string) *SelectBuilder {
	sb.columns = append(sb.columns, columns...)
	return sb
}

// From sets the FROM source.
func (sb *SelectBuilder) From(f Fragment) *SelectBuilder {
	sb.from = f
	return sb
}

// Join adds an inner JOIN. f holds the source and its ON condition.
func (sb *SelectBuilder) Join(f Fragment) *SelectBuilder {
	sb.joins = append(sb.joins, join{kind: "JOIN", frag: f})
	return sb
}

// LeftJoin adds a LEFT JOIN.
func (sb *SelectBuilder) LeftJoin(f Fragment) *SelectBuilder {
	sb.joins = append(sb.joins, join{kind: "LEFT JOIN", frag: f})
	return sb
}

// Where adds predicates to the WHERE clause.
func (sb *SelectBuilder) Where(preds ...Fragment) *SelectBuilder {
	sb.where.Add(preds...)
	return sb
}

// OrderBy appends ORDER BY terms.
func (sb *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	sb.orderBy = append(sb.orderBy, terms...)
	return sb
}

// Limit sets LIMIT and OFFSET.
func (sb *SelectBuilder) Limit(limit, offset int) *SelectBuilder {
	f := Frag("LIMIT ? OFFSET ?", limit, offset)
	sb.limit = &f
	return sb
}

// Build renders the statement and its arguments in placeholder order.
func (sb *SelectBuilder) Build() (string, []interface{}) {
	var b strings.Builder
	var args []interface{}

	b.WriteString("SELECT ")
	b.WriteString(strings.Join(sb.columns, ", "))

	if !sb.from.IsZero() {
		b.WriteString("\nFROM ")
		b.WriteString(sb.from.SQL)
		args = append(args, sb.from.Args...)
	}

	for _, j := range sb.joins {
		b.WriteString("\n")
		b.WriteString(j.kind)
		b.WriteString(" ")
		b.WriteString(j.frag.SQL)
		args = append(args, j.frag.Args...)
	}

	if !sb.where.IsEmpty() {
		whereClause, whereArgs := sb.where.BuildWithPrefix()
		b.WriteString("\n")
		b.WriteString(whereClause)
		args = append(args, whereArgs...)
	}

	if len(sb.orderBy) > 0 {
		b.WriteString("\nORDER BY ")
		b.WriteString(strings.Join(sb.orderBy, ", "))
	}

	if sb.limit != nil {
		b.WriteString("\n")
		b.WriteString(sb.limit.SQL)
		args = append(args, sb.limit.Args...)
	}

	return b.String(), args
}

// Fragment renders the statement as a fragment, for use as a subquery.
func (sb *SelectBuilder) Fragment() Fragment {
	sql, args := sb.Build()
	return Frag(sql, args...)
}
