package daos

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

// newTestDB opens a fresh database file in a temp directory and returns a
// handle that is closed when the test finishes.
func newTestDB(t *testing.T) *Database {
	t.Helper()

	store := NewStore(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := store.Init(); err != nil {
		t.Fatalf("initializing store: %v", err)
	}
	if err := store.Create("test.db"); err != nil {
		t.Fatalf("creating database: %v", err)
	}

	db, err := store.Open("test.db")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(db.Close)

	return db
}

// newUsersDB returns a database holding a users table with an INTEGER
// primary key and the given rows already inserted.
func newUsersDB(t *testing.T, rows []Row) *Database {
	t.Helper()

	db := newTestDB(t)
	ctx := context.Background()

	defs := []ColumnDef{
		{Name: "id", Type: "INTEGER", PrimaryKey: true},
		{Name: "name", Type: "TEXT", NotNull: true},
		{Name: "email", Type: "TEXT"},
		{Name: "status", Type: "TEXT"},
	}
	if err := db.CreateTable(ctx, "users", defs); err != nil {
		t.Fatalf("creating users table: %v", err)
	}

	for _, row := range rows {
		if _, err := db.InsertRow(ctx, "users", row); err != nil {
			t.Fatalf("seeding users: %v", err)
		}
	}

	return db
}

func TestInsertRowRoundTrip(t *testing.T) {
	db := newUsersDB(t, nil)
	ctx := context.Background()

	id, err := db.InsertRow(ctx, "users", Row{"id": 1, "name": "Alice", "email": "a@x.com"})
	if err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	if id != 1 {
		t.Errorf("last insert id = %d, want 1", id)
	}

	page, err := db.FetchPage(ctx, "users", QueryOptions{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.TotalRowCount != 1 || len(page.Rows) != 1 {
		t.Fatalf("got %d rows (total %d), want 1", len(page.Rows), page.TotalRowCount)
	}

	row := page.Rows[0]
	if row["id"] != int64(1) || row["name"] != "Alice" || row["email"] != "a@x.com" {
		t.Errorf("fetched row = %#v, want inserted values", row)
	}
	if row["status"] != nil {
		t.Errorf("status = %#v, want nil for unset column", row["status"])
	}

	n, err := db.DeleteRow(ctx, "users", "id", 1)
	if err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d rows, want 1", n)
	}

	page, err = db.FetchPage(ctx, "users", QueryOptions{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("FetchPage after delete: %v", err)
	}
	if page.TotalRowCount != 0 || len(page.Rows) != 0 {
		t.Errorf("got %d rows (total %d) after delete, want 0", len(page.Rows), page.TotalRowCount)
	}
}

func TestInsertRowEmptyPayload(t *testing.T) {
	db := newUsersDB(t, nil)

	_, err := db.InsertRow(context.Background(), "users", Row{})
	if !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("InsertRow(empty) error = %v, want ErrEmptyPayload", err)
	}
}

func TestFetchPageTotalIndependentOfLimit(t *testing.T) {
	db := newUsersDB(t, []Row{
		{"id": 1, "name": "a", "status": "active"},
		{"id": 2, "name": "b", "status": "active"},
		{"id": 3, "name": "c", "status": "active"},
		{"id": 4, "name": "d", "status": "retired"},
	})
	ctx := context.Background()

	for _, limit := range []int{1, 2, 10} {
		page, err := db.FetchPage(ctx, "users", QueryOptions{
			Page:    1,
			Limit:   limit,
			Filters: []Filter{{Column: "status", Value: "active"}},
		})
		if err != nil {
			t.Fatalf("FetchPage limit %d: %v", limit, err)
		}
		if page.TotalRowCount != 3 {
			t.Errorf("limit %d: TotalRowCount = %d, want 3", limit, page.TotalRowCount)
		}
	}
}

func TestFetchPagePagination(t *testing.T) {
	rows := make([]Row, 12)
	for i := range rows {
		rows[i] = Row{"id": i + 1, "name": "user"}
	}
	db := newUsersDB(t, rows)
	ctx := context.Background()

	page1, err := db.FetchPage(ctx, "users", QueryOptions{Page: 1, Limit: 10, SortColumn: "id"})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(page1.Rows) != 10 || page1.TotalRowCount != 12 {
		t.Errorf("page 1: %d rows total %d, want 10 rows total 12", len(page1.Rows), page1.TotalRowCount)
	}

	page2, err := db.FetchPage(ctx, "users", QueryOptions{Page: 2, Limit: 10, SortColumn: "id"})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(page2.Rows) != 2 || page2.TotalRowCount != 12 {
		t.Errorf("page 2: %d rows total %d, want 2 rows total 12", len(page2.Rows), page2.TotalRowCount)
	}
	if page2.Rows[0]["id"] != int64(11) {
		t.Errorf("page 2 starts at id %v, want 11", page2.Rows[0]["id"])
	}
}

func TestFetchPageSortDirection(t *testing.T) {
	db := newUsersDB(t, []Row{
		{"id": 1, "name": "a"},
		{"id": 2, "name": "b"},
	})

	page, err := db.FetchPage(context.Background(), "users", QueryOptions{
		Page: 1, Limit: 10, SortColumn: "id", SortDirection: "DESC",
	})
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.Rows[0]["id"] != int64(2) {
		t.Errorf("first row id = %v, want 2 with descending sort", page.Rows[0]["id"])
	}
}

func TestFetchPageRejectsUnknownSortColumn(t *testing.T) {
	db := newUsersDB(t, []Row{{"id": 1, "name": "a"}})

	_, err := db.FetchPage(context.Background(), "users", QueryOptions{
		Page: 1, Limit: 10, SortColumn: "nope",
	})
	if !errors.Is(err, ErrInvalidSortColumn) {
		t.Errorf("error = %v, want ErrInvalidSortColumn", err)
	}
}

func TestFetchPageMissingTable(t *testing.T) {
	db := newTestDB(t)

	_, err := db.FetchPage(context.Background(), "ghost", QueryOptions{Page: 1, Limit: 10})
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("error = %v, want ErrTableNotFound", err)
	}
}

func TestFetchPageNullAndLikeFilters(t *testing.T) {
	db := newUsersDB(t, []Row{
		{"id": 1, "name": "Alice", "email": "alice@x.com"},
		{"id": 2, "name": "Bob", "email": nil},
		{"id": 3, "name": "Carol", "email": "carol@y.org"},
	})
	ctx := context.Background()

	page, err := db.FetchPage(ctx, "users", QueryOptions{
		Page: 1, Limit: 10,
		Filters: []Filter{{Column: "email", Value: "NULL"}},
	})
	if err != nil {
		t.Fatalf("NULL filter: %v", err)
	}
	if page.TotalRowCount != 1 || page.Rows[0]["name"] != "Bob" {
		t.Errorf("NULL filter matched %d rows, want the one NULL email", page.TotalRowCount)
	}

	page, err = db.FetchPage(ctx, "users", QueryOptions{
		Page: 1, Limit: 10,
		Filters: []Filter{{Column: "email", Value: "%x.com"}},
	})
	if err != nil {
		t.Fatalf("LIKE filter: %v", err)
	}
	if page.TotalRowCount != 1 || page.Rows[0]["name"] != "Alice" {
		t.Errorf("LIKE filter matched %d rows, want only alice@x.com", page.TotalRowCount)
	}
}

func TestUpdateRow(t *testing.T) {
	db := newUsersDB(t, []Row{{"id": 1, "name": "Alice", "email": "a@x.com"}})
	ctx := context.Background()

	n, err := db.UpdateRow(ctx, "users", "id", 1, Row{"email": "alice@new.com"})
	if err != nil {
		t.Fatalf("UpdateRow: %v", err)
	}
	if n != 1 {
		t.Errorf("changed %d rows, want 1", n)
	}

	page, err := db.FetchPage(ctx, "users", QueryOptions{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.Rows[0]["email"] != "alice@new.com" {
		t.Errorf("email = %v, want updated value", page.Rows[0]["email"])
	}
}

func TestUpdateRowZeroMatchesIsNotAnError(t *testing.T) {
	db := newUsersDB(t, []Row{{"id": 1, "name": "Alice"}})
	ctx := context.Background()

	n, err := db.UpdateRow(ctx, "users", "id", 99, Row{"name": "Nobody"})
	if err != nil {
		t.Fatalf("UpdateRow on absent key: %v", err)
	}
	if n != 0 {
		t.Errorf("changed %d rows, want 0", n)
	}

	n, err = db.DeleteRow(ctx, "users", "id", 99)
	if err != nil {
		t.Fatalf("DeleteRow on absent key: %v", err)
	}
	if n != 0 {
		t.Errorf("deleted %d rows, want 0", n)
	}
}

func TestUpdateRowConstraintViolation(t *testing.T) {
	db := newUsersDB(t, []Row{{"id": 1, "name": "Alice"}})

	_, err := db.UpdateRow(context.Background(), "users", "id", 1, Row{"name": nil})
	if !errors.Is(err, ErrNotNullViolation) {
		t.Errorf("error = %v, want ErrNotNullViolation", err)
	}
}

func TestInsertRowDuplicateKey(t *testing.T) {
	db := newUsersDB(t, []Row{{"id": 1, "name": "Alice"}})

	_, err := db.InsertRow(context.Background(), "users", Row{"id": 1, "name": "Twin"})
	if !errors.Is(err, ErrUniqueViolation) {
		t.Errorf("error = %v, want ErrUniqueViolation", err)
	}
}
