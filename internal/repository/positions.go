package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/warwickbarbell/blackboards/internal/models"
)

// ListPositions returns all exec positions ordered by id
func (r *Repository) ListPositions(ctx context.Context) ([]models.ExecPosition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, num_winners, open FROM exec_positions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []models.ExecPosition
	for rows.Next() {
		var p models.ExecPosition
		if err := rows.Scan(&p.ID, &p.Title, &p.NumWinners, &p.Open); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// GetPosition returns a single position, or ErrNotFound
func (r *Repository) GetPosition(ctx context.Context, id int) (*models.ExecPosition, error) {
	var p models.ExecPosition
	err := r.db.QueryRowContext(ctx, r.rebind(`
		SELECT id, title, num_winners, open FROM exec_positions WHERE id = ?
	`), id).Scan(&p.ID, &p.Title, &p.NumWinners, &p.Open)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// TogglePosition flips a position between open and closed and returns the
// new state.
func (r *Repository) TogglePosition(ctx context.Context, id int) (bool, error) {
	var open bool
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, r.rebind(`UPDATE exec_positions SET open = NOT open WHERE id = ?`), id)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return tx.QueryRowContext(ctx, r.rebind(`SELECT open FROM exec_positions WHERE id = ?`), id).Scan(&open)
	})
	return open, err
}

// CreatePosition inserts or renames a position. The open flag of an existing
// position is left alone.
func (r *Repository) CreatePosition(ctx context.Context, position models.ExecPosition) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO exec_positions (id, title, num_winners, open)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			num_winners = excluded.num_winners
	`), position.ID, position.Title, position.NumWinners, position.Open)
	return err
}
