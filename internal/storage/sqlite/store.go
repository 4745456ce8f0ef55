// Package sqlite persists the encyclopedia in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/cory-johannsen/monfuse/internal/game/creature"
)

const schema = `CREATE TABLE IF NOT EXISTS creatures (
	id        TEXT    PRIMARY KEY,
	name      TEXT    NOT NULL,
	elements  TEXT    NOT NULL,
	species   TEXT    NOT NULL,
	attack    INTEGER NOT NULL,
	defense   INTEGER NOT NULL,
	speed     INTEGER NOT NULL,
	skills    TEXT    NOT NULL DEFAULT '[]',
	mutations TEXT    NOT NULL DEFAULT '[]'
)`

// Store persists encyclopedia snapshots. List columns hold JSON arrays.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and ensures the schema.
//
// Precondition: path must be non-empty.
// Postcondition: Returns a ready Store or a non-nil error.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Clean(path)+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create creatures table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database path.
func (s *Store) Path() string { return s.path }

// Load returns every stored record keyed by identifier.
func (s *Store) Load(ctx context.Context) (map[string]creature.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, elements, species, attack, defense, speed, skills, mutations FROM creatures`)
	if err != nil {
		return nil, fmt.Errorf("select creatures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := map[string]creature.Record{}
	for rows.Next() {
		var (
			id                          string
			rec                         creature.Record
			elements, skills, mutations []byte
		)
		if err := rows.Scan(&id, &rec.Name, &elements, &rec.Species,
			&rec.Attack, &rec.Defense, &rec.Speed, &skills, &mutations); err != nil {
			return nil, fmt.Errorf("scan creature: %w", err)
		}
		if err := decodeList(elements, &rec.Elements); err != nil {
			return nil, fmt.Errorf("decode %s elements: %w", id, err)
		}
		if err := decodeList(skills, &rec.Skills); err != nil {
			return nil, fmt.Errorf("decode %s skills: %w", id, err)
		}
		if err := decodeList(mutations, &rec.Mutations); err != nil {
			return nil, fmt.Errorf("decode %s mutations: %w", id, err)
		}
		out[id] = rec.Clone()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate creatures: %w", err)
	}
	return out, nil
}

// Save replaces the stored snapshot with records in one transaction.
//
// Postcondition: On success a subsequent Load returns records; on failure the
// previous snapshot is left intact.
func (s *Store) Save(ctx context.Context, records map[string]creature.Record) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM creatures`); err != nil {
		return fmt.Errorf("clear creatures: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO creatures (id, name, elements, species, attack, defense, speed, skills, mutations)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for id, rec := range records {
		rec = rec.Clone()
		elements, err := json.Marshal(rec.Elements)
		if err != nil {
			return fmt.Errorf("encode %s elements: %w", id, err)
		}
		skills, err := json.Marshal(rec.Skills)
		if err != nil {
			return fmt.Errorf("encode %s skills: %w", id, err)
		}
		mutations, err := json.Marshal(rec.Mutations)
		if err != nil {
			return fmt.Errorf("encode %s mutations: %w", id, err)
		}
		if _, err := stmt.ExecContext(ctx, id, rec.Name, string(elements), rec.Species,
			rec.Attack, rec.Defense, rec.Speed, string(skills), string(mutations)); err != nil {
			return fmt.Errorf("insert %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func decodeList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = []string{}
		return nil
	}
	return json.Unmarshal(raw, dst)
}
