package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	apperrors "risk-engine/internal/errors"
)

// SQLiteStore implements Store using a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calculations (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		request_json TEXT NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_kind ON calculations(kind, created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save persists a calculation and returns its generated ID.
func (s *SQLiteStore) Save(ctx context.Context, kind string, request, result interface{}) (string, error) {
	requestJSON, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshaling result: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO calculations (id, kind, created_at, request_json, result_json)
		 VALUES (?, ?, ?, ?, ?)`,
		id, kind, time.Now().UTC(), string(requestJSON), string(resultJSON))
	if err != nil {
		return "", apperrors.NewStoreError("save", err)
	}

	return id, nil
}

// Get returns a saved calculation by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, created_at, request_json, result_json
		 FROM calculations WHERE id = ?`, id)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrDataNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get", err)
	}
	return record, nil
}

// List returns recent calculations, newest first, optionally filtered
// by kind.
func (s *SQLiteStore) List(ctx context.Context, kind string, limit int) ([]Record, error) {
	query := `SELECT id, kind, created_at, request_json, result_json
		 FROM calculations`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("list", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list", err)
	}

	return records, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		record      Record
		requestJSON string
		resultJSON  string
	)
	if err := row.Scan(&record.ID, &record.Kind, &record.CreatedAt, &requestJSON, &resultJSON); err != nil {
		return nil, err
	}
	record.Request = json.RawMessage(requestJSON)
	record.Result = json.RawMessage(resultJSON)
	return &record, nil
}
