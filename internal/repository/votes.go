package repository

import (
	"context"
	"database/sql"

	"github.com/warwickbarbell/blackboards/internal/models"
)

const voteColumns = `warwick_id, position_id, candidate_id, ranking`

// GetVotes returns every vote row cast for a position
func (r *Repository) GetVotes(ctx context.Context, positionID int) ([]models.Vote, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT `+voteColumns+` FROM votes WHERE position_id = ?
		ORDER BY warwick_id, ranking
	`), positionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVotes(rows)
}

// ListVotes returns every vote row for every position
func (r *Repository) ListVotes(ctx context.Context) ([]models.Vote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+voteColumns+` FROM votes
		ORDER BY position_id, warwick_id, ranking
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVotes(rows)
}

// GetBallot returns a voter's current ballot for a position in rank order.
// A voter who has not voted gets an empty slice.
func (r *Repository) GetBallot(ctx context.Context, voterID, positionID int) ([]models.Vote, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT `+voteColumns+` FROM votes
		WHERE warwick_id = ? AND position_id = ?
		ORDER BY ranking
	`), voterID, positionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVotes(rows)
}

// ReplaceBallot atomically swaps a voter's ballot for a position.
// candidateIDs is in preference order and is stored with ranks 1..n.
func (r *Repository) ReplaceBallot(ctx context.Context, voterID, positionID int, candidateIDs []int) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.rebind(`
			DELETE FROM votes WHERE warwick_id = ? AND position_id = ?
		`), voterID, positionID); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, r.rebind(`
			INSERT INTO votes (`+voteColumns+`) VALUES (?, ?, ?, ?)
		`))
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, candidateID := range candidateIDs {
			if _, err := stmt.ExecContext(ctx, voterID, positionID, candidateID, i+1); err != nil {
				return err
			}
		}
		return nil
	})
}

func scanVotes(rows *sql.Rows) ([]models.Vote, error) {
	var votes []models.Vote
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.VoterID, &v.PositionID, &v.CandidateID, &v.Rank); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
