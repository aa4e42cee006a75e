package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sqlitedesk/sqlitedesk/daos"
)

// databaseHandler is a handler body that runs with an open database handle.
// The wrapper owns the handle's lifecycle.
type databaseHandler func(ctx context.Context, db *daos.Database, r *http.Request) (any, error)

// withDatabase opens the database named in the URL, runs the handler, and
// closes the handle on every exit path. This is the scoped acquisition the
// access layer's contract requires: one handle per request, released after
// success and failure alike.
func (s *Server) withDatabase(status int, fn databaseHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		db, err := s.store.Open(chi.URLParam(r, "db"))
		if err != nil {
			s.respondErr(w, err)
			return
		}
		defer db.Close()

		body, err := fn(r.Context(), db, r)
		if err != nil {
			s.respondErr(w, err)
			return
		}
		s.respondJSON(w, status, body)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}

func (s *Server) handleListDatabases(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List()
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"databases": infos,
	})
}

func (s *Server) handleCreateDatabase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondErr(w, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}

	if err := s.store.Create(req.Name); err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"name":    req.Name,
	})
}

func (s *Server) handleUploadDatabase(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondErr(w, fmt.Errorf("%w: multipart field \"file\" is required", errInvalidBody))
		return
	}
	defer file.Close()

	// an explicit name form field wins over the uploaded file's own name
	name := r.FormValue("name")
	if name == "" {
		name = filepath.Base(header.Filename)
	}

	n, err := s.store.Save(name, file)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"name":       name,
		"size_bytes": n,
	})
}

func (s *Server) handleDeleteDatabase(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Remove(chi.URLParam(r, "db")); err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleListTables() http.HandlerFunc {
	return s.withDatabase(http.StatusOK, func(ctx context.Context, db *daos.Database, r *http.Request) (any, error) {
		tables, err := db.ListTables(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "tables": tables}, nil
	})
}

func (s *Server) handleCreateTable() http.HandlerFunc {
	return s.withDatabase(http.StatusCreated, func(ctx context.Context, db *daos.Database, r *http.Request) (any, error) {
		var req struct {
			Name    string           `json:"name"`
			Columns []daos.ColumnDef `json:"columns"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		if err := db.CreateTable(ctx, req.Name, req.Columns); err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "table": req.Name}, nil
	})
}

func (s *Server) handleDescribeTable() http.HandlerFunc {
	return s.withDatabase(http.StatusOK, func(ctx context.Context, db *daos.Database, r *http.Request) (any, error) {
		table := chi.URLParam(r, "table")

		// a missing table introspects as zero columns, so the existence
		// check is what turns that into a 404
		exists, err := db.TableExists(ctx, table)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, daos.TableNotFoundErr(table)
		}

		schema, err := db.DescribeTable(ctx, table)
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "table": table, "columns": schema}, nil
	})
}

func (s *Server) handleDropTable() http.HandlerFunc {
	return s.withDatabase(http.StatusOK, func(ctx context.Context, db *daos.Database, r *http.Request) (any, error) {
		if err := db.DropTable(ctx, chi.URLParam(r, "table")); err != nil {
			return nil, err
		}
		return map[string]any{"success": true}, nil
	})
}

func (s *Server) handleFetchRows() http.HandlerFunc {
	return s.withDatabase(http.StatusOK, func(ctx context.Context, db *daos.Database, r *http.Request) (any, error) {
		opts, err := s.parseQueryOptions(r)
		if err != nil {
			return nil, err
		}

		page, err := db.FetchPage(ctx, chi.URLParam(r, "table"), opts)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"success":         true,
			"rows":            page.Rows,
			"total_row_count": page.TotalRowCount,
			"page":            opts.Page,
			"limit":           opts.Limit,
		}, nil
	})
}

func (s *Server) handleInsertRow() http.HandlerFunc {
	return s.withDatabase(http.StatusCreated, func(ctx context.Context, db *daos.Database, r *http.Request) (any, error) {
		var values daos.Row
		if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
		}

		id, err := db.InsertRow(ctx, chi.URLParam(r, "table"), values)
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "id": id}, nil
	})
}

func (s *Server) handleUpdateRow() http.HandlerFunc {
	return s.withDatabase(http.StatusOK, func(ctx context.Context, db *daos.Database, r *http.Request) (any, error) {
		table := chi.URLParam(r, "table")
		key, keyValue, err := resolveRowKey(ctx, db, table, chi.URLParam(r, "key"))
		if err != nil {
			return nil, err
		}

		var values daos.Row
		if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
		}

		n, err := db.UpdateRow(ctx, table, key, keyValue, values)
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "changed_row_count": n}, nil
	})
}

func (s *Server) handleDeleteRow() http.HandlerFunc {
	return s.withDatabase(http.StatusOK, func(ctx context.Context, db *daos.Database, r *http.Request) (any, error) {
		table := chi.URLParam(r, "table")
		key, keyValue, err := resolveRowKey(ctx, db, table, chi.URLParam(r, "key"))
		if err != nil {
			return nil, err
		}

		n, err := db.DeleteRow(ctx, table, key, keyValue)
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "changed_row_count": n}, nil
	})
}

func (s *Server) handleInsights() http.HandlerFunc {
	return s.withDatabase(http.StatusOK, func(ctx context.Context, db *daos.Database, r *http.Request) (any, error) {
		column := r.URL.Query().Get("column")
		filters, err := daos.ParseFilters(r.URL.Query()["filter"])
		if err != nil {
			return nil, err
		}

		summary, err := db.Summarize(ctx, chi.URLParam(r, "table"), column, filters)
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "summary": summary}, nil
	})
}

// resolveRowKey derives the key column for row-identifier operations and
// validates the raw key value from the URL path. A table without exactly
// one primary key column rejects before any SQL is built.
func resolveRowKey(ctx context.Context, db *daos.Database, table, rawKey string) (string, any, error) {
	if err := daos.ValidateKeyValue(rawKey); err != nil {
		return "", nil, err
	}

	schema, err := db.DescribeTable(ctx, table)
	if err != nil {
		return "", nil, err
	}
	if len(schema) == 0 {
		return "", nil, daos.TableNotFoundErr(table)
	}

	pk, ok := daos.PrimaryKey(schema)
	if !ok {
		return "", nil, fmt.Errorf("%w: table %s", daos.ErrNoUsablePrimaryKey, table)
	}
	return pk.Name, rawKey, nil
}

// parseQueryOptions reads page, limit, sort, dir, and filter parameters.
// Page and limit are normalized to sane bounds here so the query builder
// always sees positive values; sort and filter validation stays with the
// builder, which checks them against the live schema.
func (s *Server) parseQueryOptions(r *http.Request) (daos.QueryOptions, error) {
	q := r.URL.Query()

	page := 1
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 1 {
		page = v
	}

	limit := s.cfg.Pagination.DefaultLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > s.cfg.Pagination.MaxLimit {
		limit = s.cfg.Pagination.MaxLimit
	}

	filters, err := daos.ParseFilters(q["filter"])
	if err != nil {
		return daos.QueryOptions{}, err
	}

	return daos.QueryOptions{
		Page:          page,
		Limit:         limit,
		SortColumn:    q.Get("sort"),
		SortDirection: q.Get("dir"),
		Filters:       filters,
	}, nil
}
