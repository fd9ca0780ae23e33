// Package storage keeps imported dataset snapshots in SQLite so the
// dashboard can start from the last import instead of the original file.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// ErrNoSnapshot is returned when nothing has been imported yet.
var ErrNoSnapshot = errors.New("no snapshot imported")

// fixed-width so imported_at sorts as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Snapshot describes one imported table.
type Snapshot struct {
	ID         string
	Source     string
	Header     []string
	Rows       int
	ImportedAt time.Time
}

type SQLiteRepository struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, dbPath: dbPath, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Describe names the database for load errors and logs.
func (r *SQLiteRepository) Describe() string {
	return "sqlite:" + r.dbPath
}

// SaveSnapshot stores a table as a new snapshot in one transaction.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, source string, header []string, rows [][]string) (Snapshot, error) {
	if len(header) == 0 {
		return Snapshot{}, errors.New("snapshot has no header")
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode header: %w", err)
	}

	snap := Snapshot{
		ID:         uuid.NewString(),
		Source:     source,
		Header:     header,
		Rows:       len(rows),
		ImportedAt: r.now().UTC(),
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, header, row_count, imported_at) VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.Source, string(headerJSON), snap.Rows, snap.ImportedAt.Format(timeLayout)); err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_rows (snapshot_id, row_index, cells) VALUES (?, ?, ?)`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("prepare row insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return Snapshot{}, fmt.Errorf("encode row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, snap.ID, i, string(cells)); err != nil {
			return Snapshot{}, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot saved to SQLite",
		"import_id", snap.ID,
		"source", snap.Source,
		"rows", snap.Rows)

	return snap, nil
}

// LatestSnapshot returns the most recently imported snapshot.
func (r *SQLiteRepository) LatestSnapshot(ctx context.Context) (Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source, header, row_count, imported_at FROM snapshots ORDER BY imported_at DESC, rowid DESC LIMIT 1`)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	return snap, err
}

// ListSnapshots returns up to limit snapshots, newest first.
func (r *SQLiteRepository) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source, header, row_count, imported_at FROM snapshots ORDER BY imported_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// ReadTable returns the header and rows of the latest snapshot.
func (r *SQLiteRepository) ReadTable(ctx context.Context) ([]string, [][]string, error) {
	snap, err := r.LatestSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows, err := r.snapshotRows(ctx, snap.ID)
	if err != nil {
		return nil, nil, err
	}
	return snap.Header, rows, nil
}

func (r *SQLiteRepository) snapshotRows(ctx context.Context, id string) ([][]string, error) {
	rs, err := r.db.QueryContext(ctx,
		`SELECT cells FROM snapshot_rows WHERE snapshot_id = ? ORDER BY row_index`, id)
	if err != nil {
		return nil, fmt.Errorf("query snapshot rows: %w", err)
	}
	defer rs.Close()

	var out [][]string
	for rs.Next() {
		var raw string
		if err := rs.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("decode snapshot row: %w", err)
		}
		out = append(out, cells)
	}
	return out, rs.Err()
}

// PruneSnapshots deletes all but the newest keep snapshots and returns how
// many were removed.
func (r *SQLiteRepository) PruneSnapshots(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	const stale = `SELECT id FROM snapshots ORDER BY imported_at DESC, rowid DESC LIMIT -1 OFFSET ?`
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_rows WHERE snapshot_id IN (`+stale+`)`, keep); err != nil {
		return 0, fmt.Errorf("delete snapshot rows: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id IN (`+stale+`)`, keep)
	if err != nil {
		return 0, fmt.Errorf("delete snapshots: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(s scanner) (Snapshot, error) {
	var (
		snap       Snapshot
		headerJSON string
		importedAt string
	)
	if err := s.Scan(&snap.ID, &snap.Source, &headerJSON, &snap.Rows, &importedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, err
		}
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(headerJSON), &snap.Header); err != nil {
		return Snapshot{}, fmt.Errorf("decode header: %w", err)
	}
	t, err := time.Parse(timeLayout, importedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse imported_at: %w", err)
	}
	snap.ImportedAt = t
	return snap, nil
}
