package query_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/JaimeStill/verdict/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "analyses", "a").
		Project("id", "ID").
		Project("decision", "Decision").
		Project("post_text", "PostText").
		Project("created_at", "CreatedAt")
}

const selectAll = "SELECT a.id, a.decision, a.post_text, a.created_at FROM public.analyses a"

func ptr(s string) *string { return &s }

func TestProjectionMap(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"alias", p.Alias(), "a"},
		{"source", p.Source(), "public.analyses"},
		{"table", p.Table(), "public.analyses a"},
		{"columns", p.Columns(), "a.id, a.decision, a.post_text, a.created_at"},
		{"returning", p.Returning(), "RETURNING id, decision, post_text, created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestProjectionMapColumn(t *testing.T) {
	p := testProjection()

	if col, ok := p.Column("CreatedAt"); !ok || col != "a.created_at" {
		t.Errorf("Column(CreatedAt) = %q, %v", col, ok)
	}
	if col, ok := p.Column("created_at; DROP TABLE analyses"); ok || col != "" {
		t.Errorf("Column(unmapped) = %q, %v, want empty and false", col, ok)
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		input string
		want  []query.SortField
	}{
		{"", nil},
		{"Decision", []query.SortField{{Field: "Decision"}}},
		{"-CreatedAt", []query.SortField{{Field: "CreatedAt", Descending: true}}},
		{"Decision, -CreatedAt", []query.SortField{{Field: "Decision"}, {Field: "CreatedAt", Descending: true}}},
		{"Decision,,", []query.SortField{{Field: "Decision"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	byNewest := query.SortField{Field: "CreatedAt", Descending: true}

	tests := []struct {
		name     string
		build    func() (string, []any)
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "select all",
			build:   query.NewBuilder(testProjection()).Build,
			wantSQL: selectAll,
		},
		{
			name:    "count",
			build:   query.NewBuilder(testProjection()).BuildCount,
			wantSQL: "SELECT COUNT(*) FROM public.analyses a",
		},
		{
			name: "page with default sort",
			build: func() (string, []any) {
				return query.NewBuilder(testProjection(), byNewest).BuildPage(2, 10)
			},
			wantSQL: selectAll + " ORDER BY a.created_at DESC LIMIT 10 OFFSET 10",
		},
		{
			name: "single or null",
			build: query.NewBuilder(testProjection()).
				WhereEquals("ID", "abc").
				WhereEquals("Decision", "HOLD").
				BuildSingleOrNull,
			wantSQL:  selectAll + " WHERE a.id = $1 AND a.decision = $2 LIMIT 1",
			wantArgs: []any{"abc", "HOLD"},
		},
		{
			name: "nil equals skipped",
			build: query.NewBuilder(testProjection()).
				WhereEquals("Decision", (*string)(nil)).
				Build,
			wantSQL: selectAll,
		},
		{
			name: "time range",
			build: query.NewBuilder(testProjection()).
				WhereAtLeast("CreatedAt", &since).
				WhereBefore("CreatedAt", &until).
				BuildCount,
			wantSQL:  "SELECT COUNT(*) FROM public.analyses a WHERE a.created_at >= $1 AND a.created_at < $2",
			wantArgs: []any{&since, &until},
		},
		{
			name: "nil bounds skipped",
			build: query.NewBuilder(testProjection()).
				WhereAtLeast("CreatedAt", (*time.Time)(nil)).
				WhereBefore("CreatedAt", (*time.Time)(nil)).
				BuildCount,
			wantSQL: "SELECT COUNT(*) FROM public.analyses a",
		},
		{
			name: "search numbers after equals",
			build: query.NewBuilder(testProjection()).
				WhereEquals("Decision", "GO").
				WhereSearch(ptr("launch"), "PostText", "Decision").
				Build,
			wantSQL:  selectAll + " WHERE a.decision = $1 AND (a.post_text ILIKE $2 OR a.decision ILIKE $3)",
			wantArgs: []any{"GO", "%launch%", "%launch%"},
		},
		{
			name: "search escapes wildcards",
			build: query.NewBuilder(testProjection()).
				WhereSearch(ptr("50%_off"), "PostText").
				Build,
			wantSQL:  selectAll + " WHERE (a.post_text ILIKE $1)",
			wantArgs: []any{`%50\%\_off%`},
		},
		{
			name: "empty search skipped",
			build: query.NewBuilder(testProjection()).
				WhereSearch(ptr(""), "PostText").
				Build,
			wantSQL: selectAll,
		},
		{
			name: "explicit order overrides default",
			build: query.NewBuilder(testProjection(), byNewest).
				OrderByFields([]query.SortField{{Field: "Decision"}, {Field: "CreatedAt", Descending: true}}).
				Build,
			wantSQL: selectAll + " ORDER BY a.decision ASC, a.created_at DESC",
		},
		{
			name: "unmapped sort dropped",
			build: query.NewBuilder(testProjection()).
				OrderByFields([]query.SortField{{Field: "id; DROP TABLE analyses"}, {Field: "Decision"}}).
				Build,
			wantSQL: selectAll + " ORDER BY a.decision ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build()
			if sql != tt.wantSQL {
				t.Errorf("sql:\ngot  %s\nwant %s", sql, tt.wantSQL)
			}
			if len(args) != len(tt.wantArgs) || (len(args) > 0 && !reflect.DeepEqual(args, tt.wantArgs)) {
				t.Errorf("args: got %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuilderUnprojectedFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unprojected field")
		}
	}()
	query.NewBuilder(testProjection()).WhereEquals("Missing", "x")
}
