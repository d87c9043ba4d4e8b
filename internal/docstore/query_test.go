package docstore

import "testing"

func TestWhereClauseEquality(t *testing.T) {
	q := NewQuery().Eq("status", "DRAFT").Eq("clientNumber", "CLI-001")

	where, args := q.whereClause()
	want := ` WHERE doc->>'status' = $1 AND doc->>'clientNumber' = $2`
	if where != want {
		t.Fatalf("where = %q, want %q", where, want)
	}
	if len(args) != 2 || args[0] != "DRAFT" || args[1] != "CLI-001" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestWhereClauseDateRange(t *testing.T) {
	q := NewQuery().
		Gte("createdDate", "2026-01-01T00:00:00Z").
		Lte("createdDate", "2026-12-31T23:59:59Z")

	where, args := q.whereClause()
	want := ` WHERE doc->>'createdDate' >= $1 AND doc->>'createdDate' <= $2`
	if where != want {
		t.Fatalf("where = %q, want %q", where, want)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
}

func TestWhereClauseTimestampRange(t *testing.T) {
	q := NewQuery().
		GteTime("createdDate", "2026-01-01T00:00:00Z").
		LteTime("createdDate", "2026-12-31T23:59:59Z").
		LtTime("expirationDate", "2026-06-01T00:00:00.5Z")

	where, args := q.whereClause()
	want := ` WHERE (doc->>'createdDate')::timestamptz >= $1::timestamptz` +
		` AND (doc->>'createdDate')::timestamptz <= $2::timestamptz` +
		` AND (doc->>'expirationDate')::timestamptz < $3::timestamptz`
	if where != want {
		t.Fatalf("where = %q, want %q", where, want)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
}

func TestWhereClauseIn(t *testing.T) {
	q := NewQuery().In("status", "SENT_TO_CLIENT", "PENDING_APPROVAL")

	where, args := q.whereClause()
	want := ` WHERE doc->>'status' IN ($1, $2)`
	if where != want {
		t.Fatalf("where = %q, want %q", where, want)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
}

func TestWhereClauseContainsAny(t *testing.T) {
	q := NewQuery().ContainsAny("dupont", "clientNumber", "emailUser", "comment")

	where, args := q.whereClause()
	want := ` WHERE (doc->>'clientNumber' ILIKE $1 OR doc->>'emailUser' ILIKE $1 OR doc->>'comment' ILIKE $1)`
	if where != want {
		t.Fatalf("where = %q, want %q", where, want)
	}
	if len(args) != 1 || args[0] != "%dupont%" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestWhereClauseEscapesLikeWildcards(t *testing.T) {
	q := NewQuery().ContainsAny("100%_done", "comment")

	_, args := q.whereClause()
	if args[0] != `%100\%\_done%` {
		t.Fatalf("unexpected escaped term: %v", args[0])
	}
}

func TestWhereClauseRejectsInvalidFieldNames(t *testing.T) {
	q := NewQuery().Eq("status'; DROP TABLE offers; --", "DRAFT")

	where, _ := q.whereClause()
	if where != "" {
		t.Fatalf("expected invalid field to be dropped, got %q", where)
	}
}

func TestOrderClause(t *testing.T) {
	q := NewQuery().OrderBy("createdDate", true)
	if got := q.orderClause(); got != ` ORDER BY doc->>'createdDate' DESC` {
		t.Fatalf("unexpected order clause: %q", got)
	}

	q = NewQuery().OrderBy("bad field", false)
	if got := q.orderClause(); got != "" {
		t.Fatalf("expected invalid sort field to be dropped, got %q", got)
	}
}

func TestOrderClauseTime(t *testing.T) {
	q := NewQuery().OrderByTime("createdDate", true)
	if got := q.orderClause(); got != ` ORDER BY (doc->>'createdDate')::timestamptz DESC` {
		t.Fatalf("unexpected order clause: %q", got)
	}

	q = NewQuery().OrderByTime("updatedAt", false)
	if got := q.orderClause(); got != ` ORDER BY (doc->>'updatedAt')::timestamptz ASC` {
		t.Fatalf("unexpected order clause: %q", got)
	}
}

func TestPageClause(t *testing.T) {
	q := NewQuery().Page(20, 40)
	if got := q.pageClause(); got != " LIMIT 20 OFFSET 40" {
		t.Fatalf("unexpected page clause: %q", got)
	}

	q = NewQuery()
	if got := q.pageClause(); got != "" {
		t.Fatalf("expected empty page clause, got %q", got)
	}
}
