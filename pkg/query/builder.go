package query

import (
	"fmt"
	"reflect"
	"strings"
)

// condition renders its clause from the first placeholder index it owns.
type condition struct {
	render func(next func() string) string
	args   []any
}

// SortField is one ORDER BY term. Field is a view name resolved through
// the projection.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// Builder constructs SELECT statements with numbered placeholders.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	orderBy     []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for the given projection with optional default sort fields.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields parses a comma-separated sort string such as
// "Decision,-CreatedAt". A leading "-" sorts descending.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	fields := make([]SortField, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}

	return fields
}

// Build returns a SELECT with the current conditions and ordering.
func (b *Builder) Build() (string, []any) {
	where, args := b.buildWhere()
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.Table() + where + b.buildOrderBy(), args
}

// BuildCount returns a COUNT(*) query with the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.buildWhere()
	return "SELECT COUNT(*) FROM " + b.projection.Table() + where, args
}

// BuildPage returns Build with LIMIT and OFFSET for a 1-indexed page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	sql, args := b.Build()
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", sql, pageSize, (page-1)*pageSize), args
}

// BuildSingleOrNull returns a SELECT limited to one row with the current conditions.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	where, args := b.buildWhere()
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.Table() + where + " LIMIT 1", args
}

// OrderByFields overrides the default sort. Fields the projection does not
// map are dropped.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.orderBy = fields
	return b
}

// WhereEquals adds an equality condition. No-op for nil values.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	return b.compare(field, "=", value)
}

// WhereAtLeast adds an inclusive lower bound. No-op for nil values.
func (b *Builder) WhereAtLeast(field string, value any) *Builder {
	return b.compare(field, ">=", value)
}

// WhereBefore adds an exclusive upper bound. No-op for nil values.
func (b *Builder) WhereBefore(field string, value any) *Builder {
	return b.compare(field, "<", value)
}

// WhereSearch adds an OR of case-insensitive substring matches across
// fields. No-op for nil or empty search.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" {
		return b
	}

	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		if col, ok := b.projection.Column(f); ok {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return b
	}

	pattern := "%" + escapeLike(*search) + "%"
	args := make([]any, len(cols))
	for i := range cols {
		args[i] = pattern
	}

	b.conditions = append(b.conditions, condition{
		render: func(next func() string) string {
			parts := make([]string, len(cols))
			for i, col := range cols {
				parts[i] = col + " ILIKE " + next()
			}
			return "(" + strings.Join(parts, " OR ") + ")"
		},
		args: args,
	})
	return b
}

func (b *Builder) compare(field, op string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col, ok := b.projection.Column(field)
	if !ok {
		panic(fmt.Sprintf("query: field %q is not projected", field))
	}
	b.conditions = append(b.conditions, condition{
		render: func(next func() string) string {
			return col + " " + op + " " + next()
		},
		args: []any{value},
	})
	return b
}

func (b *Builder) buildOrderBy() string {
	fields := b.orderBy
	if len(fields) == 0 {
		fields = b.defaultSort
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := b.projection.Column(f.Field)
		if !ok {
			continue
		}
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}

	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) buildWhere() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	n := 0
	next := func() string {
		n++
		return fmt.Sprintf("$%d", n)
	}

	clauses := make([]string, len(b.conditions))
	var args []any
	for i, c := range b.conditions {
		clauses[i] = c.render(next)
		args = append(args, c.args...)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user search text match literally under ILIKE.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}

	return false
}
