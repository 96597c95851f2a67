package query

import (
	"errors"
	"testing"
)

func TestSortClause(t *testing.T) {
	sort := Sort{Field: "views", Direction: Descending}

	clause, err := sort.Clause(VideoSortFields, "")
	if err != nil {
		t.Fatalf("clause: %v", err)
	}
	want := "ORDER BY views DESC, created_at DESC, id DESC"
	if clause != want {
		t.Fatalf("clause = %q, want %q", clause, want)
	}
}

func TestSortClauseQualifiesColumns(t *testing.T) {
	clause, err := (Sort{Field: "title", Direction: Ascending}).Clause(VideoSortFields, "v")
	if err != nil {
		t.Fatalf("clause: %v", err)
	}
	want := "ORDER BY v.title ASC, v.created_at ASC, v.id ASC"
	if clause != want {
		t.Fatalf("clause = %q, want %q", clause, want)
	}
}

func TestSortClauseDefaultsToNewestFirst(t *testing.T) {
	clause, err := (Sort{}).Clause(VideoSortFields, "")
	if err != nil {
		t.Fatalf("clause: %v", err)
	}
	if clause != "ORDER BY created_at DESC, id DESC" {
		t.Fatalf("clause = %q", clause)
	}
}

func TestSortClauseRejectsUnknownField(t *testing.T) {
	_, err := (Sort{Field: "password", Direction: Ascending}).Clause(VideoSortFields, "")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestParseDirection(t *testing.T) {
	if ParseDirection(-1) != Descending {
		t.Fatal("-1 should sort descending")
	}
	if ParseDirection(1) != Ascending || ParseDirection(0) != Ascending {
		t.Fatal("non-negative values should sort ascending")
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("0b906657-8c02-4f46-a795-f5100f2a9e95")
	if err != nil {
		t.Fatalf("parse valid id: %v", err)
	}
	if id != "0b906657-8c02-4f46-a795-f5100f2a9e95" {
		t.Fatalf("id = %q", id)
	}

	if _, err := ParseID("123"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
