package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"

	_ "modernc.org/sqlite"

	"github.com/lox/faixaclima/internal/models"
)

// ErrNotFound is returned when the database file or the requested table
// does not exist.
var ErrNotFound = errors.New("not found")

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens an existing SQLite file. It never creates one.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("stat database: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.Exec("PRAGMA busy_timeout=5000")
	return New(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ReadTable returns the column names and every row of table as strings.
// NULL values come back as empty strings.
func (s *Store) ReadTable(ctx context.Context, table string) ([]string, [][]string, error) {
	if !identRe.MatchString(table) {
		return nil, nil, fmt.Errorf("invalid table name %q", table)
	}

	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("table %s: %w", table, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("lookup table: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, table))
	if err != nil {
		return nil, nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var records [][]string
	vals := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range vals {
		dest[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("scan %s: %w", table, err)
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				rec[i] = v.String
			}
		}
		records = append(records, rec)
	}
	return cols, records, rows.Err()
}

// Create opens path for writing, creating the file if needed, and applies
// the schema.
func Create(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := New(db)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// InsertObservations writes all rows in one transaction.
func (s *Store) InsertObservations(ctx context.Context, obs []models.Observation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observacoes (estacao, temp_c, umidade_pct, precipitacao_mm, radiacao_kj, vento_vel_ms, pressao_mb, hora, faixa_climatica)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range obs {
		if _, err := stmt.ExecContext(ctx, o.Station, o.TempC, o.Humidity, o.Precip, o.Radiation, o.Wind, o.Pressure, o.Hour, o.Band); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert observation: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) CountObservations() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM observacoes`).Scan(&n)
	return n, err
}
