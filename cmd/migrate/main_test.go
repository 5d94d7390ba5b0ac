package main

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsArePaired(t *testing.T) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("no migrations embedded")
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file %s", name)
		}
	}

	for base := range ups {
		if !downs[base] {
			t.Errorf("%s has no down migration", base)
		}
	}
	for base := range downs {
		if !ups[base] {
			t.Errorf("%s has no up migration", base)
		}
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		args    []string
		want    command
		wantErr bool
	}{
		{[]string{"up"}, command{name: "up"}, false},
		{[]string{"down"}, command{name: "down"}, false},
		{[]string{"version"}, command{name: "version"}, false},
		{[]string{"steps", "-1"}, command{name: "steps", n: -1}, false},
		{[]string{"force", "1"}, command{name: "force", n: 1}, false},
		{nil, command{}, true},
		{[]string{"up", "extra"}, command{}, true},
		{[]string{"steps"}, command{}, true},
		{[]string{"steps", "0"}, command{}, true},
		{[]string{"force", "latest"}, command{}, true},
		{[]string{"drop"}, command{}, true},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			got, err := parseCommand(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCommand(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseCommand(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestCreateAnalysesMigration(t *testing.T) {
	data, err := migrations.ReadFile("migrations/000001_create_analyses.up.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	sql := string(data)
	for _, want := range []string{"CREATE TABLE analyses", "result          JSONB NOT NULL", "'NO-GO'"} {
		if !strings.Contains(sql, want) {
			t.Errorf("migration missing %q", want)
		}
	}
}
