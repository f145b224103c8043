package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/minutas/internal/common"
	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/textutil"
)

// catalogSchema is valid on both Postgres and SQLite.
var catalogSchema = []string{
	`CREATE TABLE IF NOT EXISTS catalog_entries (
		catalog    VARCHAR(40)  NOT NULL,
		id         INTEGER      NOT NULL,
		code       VARCHAR(40)  NOT NULL DEFAULT '',
		name       VARCHAR(255) NOT NULL,
		short_name VARCHAR(120) NOT NULL DEFAULT '',
		name_key   VARCHAR(255) NOT NULL,
		code_key   VARCHAR(40)  NOT NULL DEFAULT '',
		short_key  VARCHAR(120) NOT NULL DEFAULT '',
		active     INTEGER      NOT NULL DEFAULT 1,
		PRIMARY KEY (catalog, id)
	)`,
	`CREATE INDEX IF NOT EXISTS catalog_entries_name_key ON catalog_entries (catalog, name_key)`,
}

const (
	selectEntry = `SELECT id, code, name, short_name FROM catalog_entries`

	queryEntries = selectEntry + ` WHERE catalog = ? AND active = 1 ORDER BY id`

	queryByKey = selectEntry + ` WHERE catalog = ? AND active = 1 AND (name_key = ? OR code_key = ? OR short_key = ?)
		ORDER BY CASE WHEN name_key = ? THEN 0 WHEN code_key = ? THEN 1 ELSE 2 END, id LIMIT 1`

	queryByCode = selectEntry + ` WHERE catalog = ? AND active = 1 AND (code_key = ? OR CAST(id AS TEXT) = ?)
		ORDER BY id LIMIT 1`

	upsertEntry = `INSERT INTO catalog_entries (catalog, id, code, name, short_name, name_key, code_key, short_key, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT (catalog, id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			short_name = excluded.short_name,
			name_key = excluded.name_key,
			code_key = excluded.code_key,
			short_key = excluded.short_key,
			active = 1`

	queryCounts = `SELECT catalog, COUNT(*) FROM catalog_entries WHERE active = 1 GROUP BY catalog`
)

// SQLStore reads catalogs from the catalog_entries table.
type SQLStore struct {
	db      *sql.DB
	dialect string
	logger  *slog.Logger
}

func NewSQLStore(db *sql.DB, dialect string, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLStore{db: db, dialect: dialect, logger: logger}
}

// Migrate creates the catalog table when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range catalogSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return dbError("migrate catalog schema", err)
		}
	}
	s.logger.Info("catalog.migrate.done", "dialect", s.dialect)
	return nil
}

func (s *SQLStore) Entries(ctx context.Context, catalog string) ([]entity.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(queryEntries), catalog)
	if err != nil {
		return nil, dbError("list catalog entries", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			s.logger.Warn("catalog.rows_close_error", "error", err)
		}
	}(rows)

	var out []entity.CatalogEntry
	for rows.Next() {
		var e entity.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Code, &e.Name, &e.ShortName); err != nil {
			return nil, dbError("scan catalog entry", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list catalog entries", err)
	}
	return out, nil
}

func (s *SQLStore) FindByKey(ctx context.Context, catalog, key string) (*entity.CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(queryByKey), catalog, key, key, key, key, key)
	return scanEntry(row)
}

func (s *SQLStore) FindByCode(ctx context.Context, catalog, code string) (*entity.CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(queryByCode), catalog, textutil.Key(code), code)
	return scanEntry(row)
}

// Upsert writes entries in one transaction, reactivating rows that were disabled.
func (s *SQLStore) Upsert(ctx context.Context, catalog string, entries []entity.CatalogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dbError("begin catalog upsert", err)
	}
	stmt, err := tx.PrepareContext(ctx, s.rebind(upsertEntry))
	if err != nil {
		_ = tx.Rollback()
		return dbError("prepare catalog upsert", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmt)

	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		_, err := stmt.ExecContext(ctx,
			catalog, e.ID, e.Code, name, e.ShortName,
			textutil.Key(name), textutil.Key(e.Code), textutil.Key(e.ShortName),
		)
		if err != nil {
			_ = tx.Rollback()
			return dbError(fmt.Sprintf("upsert %s entry %d", catalog, e.ID), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return dbError("commit catalog upsert", err)
	}
	s.logger.Debug("catalog.upsert.done", "catalog", catalog, "entries", len(entries))
	return nil
}

func (s *SQLStore) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, queryCounts)
	if err != nil {
		return nil, dbError("count catalog entries", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	out := map[string]int{}
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, dbError("scan catalog count", err)
		}
		out[name] = n
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("count catalog entries", err)
	}
	return out, nil
}

// rebind turns "?" placeholders into "$n" for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func scanEntry(row *sql.Row) (*entity.CatalogEntry, error) {
	var e entity.CatalogEntry
	err := row.Scan(&e.ID, &e.Code, &e.Name, &e.ShortName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, dbError("find catalog entry", err)
	}
	return &e, nil
}

func dbError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrDatabase, err)
}
