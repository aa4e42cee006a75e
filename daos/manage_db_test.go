package daos

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store := NewStore(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := store.Init(); err != nil {
		t.Fatalf("initializing store: %v", err)
	}
	return store
}

func TestValidateDatabaseName(t *testing.T) {
	cases := []struct {
		name   string
		dbName string
		ok     bool
	}{
		{"plain name", "app.db", true},
		{"dashes and underscores", "my-app_v2.sqlite", true},
		{"no extension", "app", true},
		{"empty", "", false},
		{"path separator", "a/b.db", false},
		{"backslash", `a\b.db`, false},
		{"traversal", "../escape.db", false},
		{"embedded traversal", "a..b.db", false},
		{"hidden file", ".secret.db", false},
		{"space", "my db.db", false},
		{"too long", strings.Repeat("a", MaxDatabaseNameLength+1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDatabaseName(tc.dbName)
			if tc.ok && err != nil {
				t.Errorf("ValidateDatabaseName(%q) = %v, want nil", tc.dbName, err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidDatabaseName) {
				t.Errorf("ValidateDatabaseName(%q) = %v, want ErrInvalidDatabaseName", tc.dbName, err)
			}
		})
	}
}

func TestStoreOpenMissingDatabase(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Open("absent.db")
	if !errors.Is(err, ErrDatabaseNotFound) {
		t.Fatalf("Open(absent) = %v, want ErrDatabaseNotFound", err)
	}

	// a browse must never create the file it failed to find
	if _, err := os.Stat(filepath.Join(store.Dir(), "absent.db")); !os.IsNotExist(err) {
		t.Error("Open created the missing database file")
	}
}

func TestStoreCreate(t *testing.T) {
	store := newTestStore(t)

	if err := store.Create("app.db"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create("app.db"); !errors.Is(err, ErrDatabaseExists) {
		t.Errorf("re-create error = %v, want ErrDatabaseExists", err)
	}

	db, err := store.Open("app.db")
	if err != nil {
		t.Fatalf("Open after create: %v", err)
	}
	defer db.Close()

	tables, err := db.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables on empty database: %v", err)
	}
	if len(tables) != 0 {
		t.Errorf("empty database lists %v", tables)
	}
}

func TestStoreSaveAndList(t *testing.T) {
	src := newTestStore(t)
	if err := src.Create("origin.db"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	db, err := src.Open("origin.db")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()
	if err := db.CreateTable(ctx, "notes", []ColumnDef{
		{Name: "id", Type: "INTEGER", PrimaryKey: true},
		{Name: "body", Type: "TEXT"},
	}); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if _, err := db.InsertRow(ctx, "notes", Row{"id": 1, "body": "hello"}); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	db.Close()

	f, err := os.Open(filepath.Join(src.Dir(), "origin.db"))
	if err != nil {
		t.Fatalf("opening source file: %v", err)
	}
	defer f.Close()

	dst := newTestStore(t)
	n, err := dst.Save("uploaded.db", f)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n == 0 {
		t.Fatal("Save reported zero bytes")
	}

	infos, err := dst.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "uploaded.db" || infos[0].SizeBytes != n {
		t.Errorf("List = %+v, want the uploaded file", infos)
	}

	// the uploaded copy must be browsable
	up, err := dst.Open("uploaded.db")
	if err != nil {
		t.Fatalf("Open uploaded: %v", err)
	}
	defer up.Close()

	page, err := up.FetchPage(ctx, "notes", QueryOptions{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("FetchPage on upload: %v", err)
	}
	if page.TotalRowCount != 1 || page.Rows[0]["body"] != "hello" {
		t.Errorf("uploaded rows = %+v, want the original note", page.Rows)
	}
}

func TestStoreSaveLeavesNoTempFileOnFailure(t *testing.T) {
	store := newTestStore(t)

	r := io.MultiReader(strings.NewReader("partial"), failingReader{})
	if _, err := store.Save("broken.db", r); err == nil {
		t.Fatal("Save with failing reader succeeded")
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dir holds %v after failed upload, want nothing", entries)
	}
}

// iotest always fails, simulating a dropped upload.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("stream cut") }

func TestStoreRemove(t *testing.T) {
	store := newTestStore(t)

	if err := store.Remove("absent.db"); !errors.Is(err, ErrDatabaseNotFound) {
		t.Errorf("Remove(absent) = %v, want ErrDatabaseNotFound", err)
	}

	if err := store.Create("gone.db"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Remove("gone.db"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	infos, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("List = %+v after remove, want empty", infos)
	}
}

func TestStoreListSkipsSidecars(t *testing.T) {
	store := newTestStore(t)
	if err := store.Create("app.db"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, side := range []string{"app.db-wal", "app.db-shm", "app.db-journal", ".hidden"} {
		if err := os.WriteFile(filepath.Join(store.Dir(), side), []byte("x"), 0o644); err != nil {
			t.Fatalf("writing %s: %v", side, err)
		}
	}

	infos, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "app.db" {
		t.Errorf("List = %+v, want only app.db", infos)
	}
}
