package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/monfuse/internal/game/creature"
)

// CreatureRepository persists encyclopedia snapshots in the creatures table.
type CreatureRepository struct {
	db *pgxpool.Pool
}

// NewCreatureRepository creates a CreatureRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with migrations applied.
func NewCreatureRepository(db *pgxpool.Pool) *CreatureRepository {
	return &CreatureRepository{db: db}
}

// Load returns every stored record keyed by identifier.
//
// Postcondition: every returned record has non-nil Skills and Mutations.
func (r *CreatureRepository) Load(ctx context.Context) (map[string]creature.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, elements, species, attack, defense, speed, skills, mutations
		 FROM creatures`)
	if err != nil {
		return nil, fmt.Errorf("querying creatures: %w", err)
	}
	defer rows.Close()

	out := map[string]creature.Record{}
	for rows.Next() {
		var (
			id  string
			rec creature.Record
		)
		if err := rows.Scan(&id, &rec.Name, &rec.Elements, &rec.Species,
			&rec.Attack, &rec.Defense, &rec.Speed, &rec.Skills, &rec.Mutations); err != nil {
			return nil, fmt.Errorf("scanning creature: %w", err)
		}
		out[id] = rec.Clone()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating creatures: %w", err)
	}
	return out, nil
}

// Save replaces the stored snapshot with records in one transaction.
//
// Postcondition: On success a subsequent Load returns records; on failure the
// previous snapshot is left intact.
func (r *CreatureRepository) Save(ctx context.Context, records map[string]creature.Record) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM creatures`); err != nil {
		return fmt.Errorf("clearing creatures: %w", err)
	}

	batch := &pgx.Batch{}
	for id, rec := range records {
		rec = rec.Clone()
		batch.Queue(
			`INSERT INTO creatures (id, name, elements, species, attack, defense, speed, skills, mutations)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			id, rec.Name, rec.Elements, rec.Species, rec.Attack, rec.Defense, rec.Speed, rec.Skills, rec.Mutations,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting creatures: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (r *CreatureRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM creatures`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting creatures: %w", err)
	}
	return n, nil
}
