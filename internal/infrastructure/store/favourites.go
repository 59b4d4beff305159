package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sustainscan/backend/internal/domain"
)

// recentScansKept is how many recent scans the history retains
const recentScansKept = 5

// FavouritesStore persists favourited scan results and a short scan
// history in SQLite. Scan results are stored as JSON blobs keyed by
// barcode.
type FavouritesStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite store at path. Use
// ":memory:" for an in-memory store.
func Open(path string) (*FavouritesStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// modernc sqlite serializes writes itself, a single connection
	// avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	s := &FavouritesStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *FavouritesStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS favourites (
		code       TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS recent_scans (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		code       TEXT NOT NULL,
		data       TEXT NOT NULL,
		scanned_at TIMESTAMP NOT NULL
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate store: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *FavouritesStore) Close() error {
	return s.db.Close()
}

// Get returns the favourited scan result for code, or ErrNotFavourite
func (s *FavouritesStore) Get(ctx context.Context, code string) (*domain.ScanResult, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM favourites WHERE code = ?`, code).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFavourite
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read favourite: %w", err)
	}
	return decodeResult(data)
}

// Put saves or replaces a favourite keyed by the product barcode
func (s *FavouritesStore) Put(ctx context.Context, result *domain.ScanResult) error {
	if result == nil || result.Product == nil || result.Product.Code == "" {
		return domain.ErrInvalidRequest
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode favourite: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO favourites (code, data, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET data = excluded.data`,
		result.Product.Code, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save favourite: %w", err)
	}
	return nil
}

// Delete removes a favourite. Deleting a non-favourite returns
// ErrNotFavourite.
func (s *FavouritesStore) Delete(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favourites WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("failed to delete favourite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete favourite: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFavourite
	}
	return nil
}

// All returns every favourite keyed by barcode
func (s *FavouritesStore) All(ctx context.Context) (map[string]*domain.ScanResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, data FROM favourites ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list favourites: %w", err)
	}
	defer rows.Close()

	favourites := make(map[string]*domain.ScanResult)
	for rows.Next() {
		var code, data string
		if err := rows.Scan(&code, &data); err != nil {
			return nil, fmt.Errorf("failed to scan favourite row: %w", err)
		}
		result, err := decodeResult(data)
		if err != nil {
			return nil, err
		}
		favourites[code] = result
	}
	return favourites, rows.Err()
}

// IsFavourite reports whether code has been favourited
func (s *FavouritesStore) IsFavourite(ctx context.Context, code string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM favourites WHERE code = ?`, code).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check favourite: %w", err)
	}
	return n > 0, nil
}

// RecentScans returns the scan history, newest first
func (s *FavouritesStore) RecentScans(ctx context.Context) ([]*domain.ScanResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM recent_scans ORDER BY id DESC LIMIT ?`, recentScansKept)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent scans: %w", err)
	}
	defer rows.Close()

	var results []*domain.ScanResult
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		result, err := decodeResult(data)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// AddRecentScan records a scan in the history. Rescanning a barcode
// moves it to the front, and only the newest entries are kept.
func (s *FavouritesStore) AddRecentScan(ctx context.Context, result *domain.ScanResult) error {
	if result == nil || result.Product == nil || result.Product.Code == "" {
		return domain.ErrInvalidRequest
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode scan: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to record scan: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recent_scans WHERE code = ?`, result.Product.Code); err != nil {
		return fmt.Errorf("failed to record scan: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO recent_scans (code, data, scanned_at) VALUES (?, ?, ?)`,
		result.Product.Code, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record scan: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recent_scans WHERE id NOT IN (
			SELECT id FROM recent_scans ORDER BY id DESC LIMIT ?
		)`, recentScansKept); err != nil {
		return fmt.Errorf("failed to trim scan history: %w", err)
	}

	return tx.Commit()
}

func decodeResult(data string) (*domain.ScanResult, error) {
	var result domain.ScanResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to decode stored scan: %w", err)
	}
	return &result, nil
}
