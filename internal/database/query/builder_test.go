// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package query

import (
	"strings"
	"testing"
)

func TestWhereBuilder_Empty(t *testing.T) {
	t.Parallel()

	wb := NewWhereBuilder()
	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}

	whereClause, args := wb.Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestWhereBuilder_AddNotIn(t *testing.T) {
	t.Parallel()

	wb := NewWhereBuilder()
	wb.AddNotIn("c.id", []string{"a", "b", "c"})
	wb.AddNotIn("c.creator_id", nil)

	whereClause, args := wb.Build()
	if whereClause != "c.id NOT IN (?, ?, ?)" {
		t.Errorf("unexpected clause %q", whereClause)
	}
	if len(args) != 3 || args[2] != "c" {
		t.Errorf("unexpected args %v", args)
	}
	if wb.Count() != 1 {
		t.Errorf("empty NOT IN should be skipped, count = %d", wb.Count())
	}
}

func TestWhereBuilder_AddSkipsZeroFragments(t *testing.T) {
	t.Parallel()

	wb := NewWhereBuilder()
	wb.Add(Frag("a = ?", 1), Fragment{}, Frag("b = ?", 2))

	whereClause, args := wb.BuildWithPrefix()
	if whereClause != "WHERE a = ? AND b = ?" {
		t.Errorf("unexpected clause %q", whereClause)
	}
	if len(args) != 2 || args[0] != 1 || args[1] != 2 {
		t.Errorf("unexpected args %v", args)
	}
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	tests := map[int]string{0: "", 1: "?", 3: "?, ?, ?"}
	for n, want := range tests {
		if got := Placeholders(n); got != want {
			t.Errorf("Placeholders(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestSelectBuilder_ArgumentOrder(t *testing.T) {
	t.Parallel()

	sb := NewSelect("c.id").
		From(Frag("(VALUES (?::VARCHAR, ?::DOUBLE)) AS uti(group_id, score)", "g1", 1.5)).
		Join(Frag("contracts c ON c.group_id = uti.group_id")).
		LeftJoin(Frag("(SELECT contract_id FROM views WHERE user_id = ?) v ON v.contract_id = c.id", "u1")).
		Where(Frag("c.close_time > ?", "now"), Frag("v.contract_id IS NULL")).
		OrderBy("uti.score * c.conversion_score DESC", "c.id").
		Limit(20, 40)

	sql, args := sb.Build()

	wantArgs := []interface{}{"g1", 1.5, "u1", "now", 20, 40}
	if len(args) != len(wantArgs) {
		t.Fatalf("args = %v, want %v", args, wantArgs)
	}
	for i := range wantArgs {
		if args[i] != wantArgs[i] {
			t.Errorf("args[%d] = %v, want %v", i, args[i], wantArgs[i])
		}
	}

	if strings.Count(sql, "?") != len(wantArgs) {
		t.Errorf("placeholder count %d does not match args %d:\n%s", strings.Count(sql, "?"), len(wantArgs), sql)
	}
	for _, part := range []string{"SELECT c.id", "\nJOIN contracts c", "\nLEFT JOIN (SELECT", "\nWHERE c.close_time > ? AND v.contract_id IS NULL", "\nORDER BY uti.score * c.conversion_score DESC, c.id", "\nLIMIT ? OFFSET ?"} {
		if !strings.Contains(sql, part) {
			t.Errorf("expected %q in:\n%s", part, sql)
		}
	}
}

func TestSelectBuilder_AsSubquery(t *testing.T) {
	t.Parallel()

	inner := NewSelect("a.id").From(Frag("ads a")).Where(Frag("a.owner = ?", "x")).Fragment()
	outer := NewSelect("*").From(Frag("t")).Join(Frag("("+inner.SQL+") ma ON ma.id = t.ad_id", inner.Args...))

	sql, args := outer.Build()
	if !strings.Contains(sql, "JOIN (SELECT a.id\nFROM ads a\nWHERE a.owner = ?) ma ON ma.id = t.ad_id") {
		t.Errorf("unexpected subquery rendering:\n%s", sql)
	}
	if len(args) != 1 || args[0] != "x" {
		t.Errorf("unexpected args %v", args)
	}
}
