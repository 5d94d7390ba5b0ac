// Package query builds parameterized PostgreSQL statements from a
// projection of view field names onto table columns.
package query

import "strings"

// ProjectionMap maps view field names to columns of a single aliased table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns map[string]string
	names   []string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps column to viewName. Columns are selected in projection order.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	p.columns[viewName] = column
	p.names = append(p.names, column)
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Source returns the schema-qualified table name without alias, for use
// in INSERT and DELETE statements.
func (p *ProjectionMap) Source() string {
	return p.schema + "." + p.table
}

// Table returns the schema-qualified table with its alias.
func (p *ProjectionMap) Table() string {
	return p.Source() + " " + p.alias
}

// Column returns the alias-qualified column for viewName and whether the
// name is projected.
func (p *ProjectionMap) Column(viewName string) (string, bool) {
	col, ok := p.columns[viewName]
	if !ok {
		return "", false
	}
	return p.alias + "." + col, true
}

// Columns returns every projected column, alias-qualified and comma-separated.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ColumnList(), ", ")
}

// ColumnList returns every projected column, alias-qualified.
func (p *ProjectionMap) ColumnList() []string {
	out := make([]string, len(p.names))
	for i, n := range p.names {
		out[i] = p.alias + "." + n
	}
	return out
}

// Returning returns a RETURNING clause listing the projected columns
// unqualified, so rows from INSERT or DELETE scan like a SELECT.
func (p *ProjectionMap) Returning() string {
	return "RETURNING " + strings.Join(p.names, ", ")
}
