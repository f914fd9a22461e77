package split

import (
	"errors"
	"strings"
	"testing"

	"kr.dev/diff"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		withCmt  []string
		sansCmt  []string
		nonEmpty []string
	}{
		{
			name:     "trailing semicolon leaves an empty final statement",
			sql:      "select $tag$a;b$tag$;",
			withCmt:  []string{"select $tag$a;b$tag$", ""},
			sansCmt:  []string{"select $tag$a;b$tag$", ""},
			nonEmpty: []string{"select $tag$a;b$tag$"},
		},
		{
			name:     "only separators",
			sql:      ";; ;;",
			withCmt:  []string{"", "", "", "", ""},
			sansCmt:  []string{"", "", "", "", ""},
			nonEmpty: nil,
		},
		{
			name:     "comment only",
			sql:      "/* just a comment */",
			withCmt:  []string{"/* just a comment */"},
			sansCmt:  []string{""},
			nonEmpty: nil,
		},
		{
			name:     "comment kept with the statement it precedes",
			sql:      "select 1; -- note\nselect 2;",
			withCmt:  []string{"select 1", "-- note\nselect 2", ""},
			sansCmt:  []string{"select 1", "select 2", ""},
			nonEmpty: []string{"select 1", "-- note\nselect 2"},
		},
		{
			name:     "comments between tokens become spaces",
			sql:      "select--OK;\n1--;OK\n+2; select x;",
			withCmt:  []string{"select--OK;\n1--;OK\n+2", "select x", ""},
			sansCmt:  []string{"select 1 +2", "select x", ""},
			nonEmpty: []string{"select--OK;\n1--;OK\n+2", "select x"},
		},
		{
			name:     "nested comments",
			sql:      `select/*/* ;;; */*/"xyz"; /* blah; */ select/***/"abc";/**//*;select 1*/`,
			withCmt:  []string{`select/*/* ;;; */*/"xyz"`, `/* blah; */ select/***/"abc"`, `/**//*;select 1*/`},
			sansCmt:  []string{`select "xyz"`, `select "abc"`, ""},
			nonEmpty: []string{`select/*/* ;;; */*/"xyz"`, `/* blah; */ select/***/"abc"`},
		},
		{
			name:     "comment markers inside strings",
			sql:      `/**/select'"--;/**/;--"'/**/--`,
			withCmt:  []string{`/**/select'"--;/**/;--"'/**/--`},
			sansCmt:  []string{`select'"--;/**/;--"'`},
			nonEmpty: []string{`/**/select'"--;/**/;--"'/**/--`},
		},
		{
			name:     "end of text comment",
			sql:      "select 1 -- done",
			withCmt:  []string{"select 1 -- done"},
			sansCmt:  []string{"select 1"},
			nonEmpty: []string{"select 1 -- done"},
		},
		{
			name:     "comment next to whitespace adds nothing",
			sql:      "select /* x */1",
			withCmt:  []string{"select /* x */1"},
			sansCmt:  []string{"select 1"},
			nonEmpty: []string{"select /* x */1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Scan(tt.sql, true)
			if !res.Complete() {
				t.Fatalf("Scan() unterminated %q", res.Unterminated)
			}

			diff.Test(t, t.Errorf, SplitStatements(tt.sql, res.Points, false), tt.withCmt)
			diff.Test(t, t.Errorf, SplitStatements(tt.sql, res.Points, true), tt.sansCmt)
			diff.Test(t, t.Errorf, NonEmptyStatements(tt.sql, res.Points), tt.nonEmpty)
		})
	}
}

func TestSplitStatements_CountMatchesTerminators(t *testing.T) {
	sql := "a; /* c */ b; -- d\n; e"
	points := Scan(sql, true).Points
	want := countSemicolons(points) + 1
	for _, strip := range []bool{false, true} {
		if got := len(SplitStatements(sql, points, strip)); got != want {
			t.Errorf("SplitStatements(strip=%v) returned %d statements, want %d", strip, got, want)
		}
	}
}

func TestSplitStatements_DoesNotModifyPoints(t *testing.T) {
	points := make([]SplitPoint, 1, 8)
	points[0] = SemicolonAt(1)
	SplitStatements("a;b", points, false)
	if got := points[:cap(points)][1]; got != (SplitPoint{}) {
		t.Errorf("SplitStatements wrote %v past the end of points", got)
	}
}

func TestSpans(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"select 1",
		"  select 1 ;\n\n select 2 ; ",
		"select 1; -- note\nselect 2;",
		`select/*/* ;;; */*/"xyz"; /* blah; */ select/***/"abc";/**//*;select 1*/`,
		"create function f() returns int as $body$ select 1; $body$ language sql; select f();",
		"　select 'ü'; ",
	}

	for _, sql := range inputs {
		res := Scan(sql, true)
		if !res.Complete() {
			t.Fatalf("Scan(%q) unterminated %q", sql, res.Unterminated)
		}
		spans := Spans(sql, res.Points)
		statements := SplitStatements(sql, res.Points, false)
		if len(spans) != len(statements) {
			t.Fatalf("Spans(%q) returned %d spans, want %d", sql, len(spans), len(statements))
		}
		for i, span := range spans {
			if got := sql[span.Start:span.End]; got != statements[i] {
				t.Errorf("Spans(%q)[%d] = %q, want %q", sql, i, got, statements[i])
			}
		}
	}
}

// Only white space and one separator lie between consecutive spans.
func TestSpans_Gaps(t *testing.T) {
	sql := "select 'a;b'; /* c; */ select 2 -- x;\n; select $$;$$"
	res := Scan(sql, true)
	spans := Spans(sql, res.Points)
	if len(spans) != 3 {
		t.Fatalf("Spans() returned %d spans, want 3", len(spans))
	}

	if gap := sql[:spans[0].Start]; strings.TrimSpace(gap) != "" {
		t.Errorf("leading gap = %q, want white space", gap)
	}
	for i := 1; i < len(spans); i++ {
		if gap := sql[spans[i-1].End:spans[i].Start]; strings.TrimSpace(gap) != ";" {
			t.Errorf("gap %d = %q, want a single separator", i, gap)
		}
	}
	if gap := sql[spans[len(spans)-1].End:]; strings.TrimSpace(gap) != "" {
		t.Errorf("trailing gap = %q, want white space", gap)
	}
}

func TestSplit(t *testing.T) {
	got, err := Split("select 1; /* only a comment */; select 2;", true)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	diff.Test(t, t.Errorf, got, []string{"select 1", "select 2"})

	_, err = Split("select 1; select 'x", true)
	var unterminated *UnterminatedError
	if !errors.As(err, &unterminated) {
		t.Fatalf("Split() error = %v, want *UnterminatedError", err)
	}
	if unterminated.Kind != UnterminatedString || unterminated.Offset != 17 {
		t.Errorf("Split() error = %+v, want quoted string at 17", unterminated)
	}
	if want := "unterminated quoted string at offset 17"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
