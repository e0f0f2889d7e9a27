package repository

import (
	"context"
	"database/sql"

	"github.com/warwickbarbell/blackboards/internal/models"
)

// ListCandidates returns every candidate ordered by warwick id
func (r *Repository) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT warwick_id, name, elected FROM candidates ORDER BY warwick_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCandidates(rows)
}

// CreateCandidate inserts a candidate, updating the name if they already exist
func (r *Repository) CreateCandidate(ctx context.Context, candidate models.Candidate) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO candidates (warwick_id, name)
		VALUES (?, ?)
		ON CONFLICT (warwick_id) DO UPDATE SET name = excluded.name
	`), candidate.WarwickID, candidate.Name)
	return err
}

// CreateNomination puts a candidate forward for a position
func (r *Repository) CreateNomination(ctx context.Context, positionID, warwickID int) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO nominations (position_id, warwick_id)
		VALUES (?, ?)
		ON CONFLICT (position_id, warwick_id) DO NOTHING
	`), positionID, warwickID)
	return err
}

// Slate returns the nominees for a position who have not already been elected
func (r *Repository) Slate(ctx context.Context, positionID int) ([]models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT c.warwick_id, c.name, c.elected
		FROM nominations n
		INNER JOIN candidates c ON n.warwick_id = c.warwick_id
		WHERE n.position_id = ? AND c.elected IS FALSE
		ORDER BY c.warwick_id
	`), positionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCandidates(rows)
}

// IsNominated reports whether warwickID is standing for the position
func (r *Repository) IsNominated(ctx context.Context, positionID, warwickID int) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, r.rebind(`
		SELECT COUNT(*) FROM nominations WHERE position_id = ? AND warwick_id = ?
	`), positionID, warwickID).Scan(&count)
	return count > 0, err
}

// SetElected replaces the elected set: every flag is cleared and then set
// for warwickIDs, in one transaction.
func (r *Repository) SetElected(ctx context.Context, warwickIDs []int) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE candidates SET elected = FALSE`); err != nil {
			return err
		}
		if len(warwickIDs) == 0 {
			return nil
		}

		args := make([]any, len(warwickIDs))
		for i, id := range warwickIDs {
			args[i] = id
		}
		query := `UPDATE candidates SET elected = TRUE WHERE warwick_id IN (` + placeholders(len(warwickIDs)) + `)`
		_, err := tx.ExecContext(ctx, r.rebind(query), args...)
		return err
	})
}

func scanCandidates(rows *sql.Rows) ([]models.Candidate, error) {
	var candidates []models.Candidate
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.WarwickID, &c.Name, &c.Elected); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
