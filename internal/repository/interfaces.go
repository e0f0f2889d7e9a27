package repository

import (
	"context"

	"github.com/warwickbarbell/blackboards/internal/models"
)

// PositionRepository defines exec position data operations
type PositionRepository interface {
	ListPositions(ctx context.Context) ([]models.ExecPosition, error)
	GetPosition(ctx context.Context, id int) (*models.ExecPosition, error)
	TogglePosition(ctx context.Context, id int) (bool, error)
	CreatePosition(ctx context.Context, position models.ExecPosition) error
}

// CandidateRepository defines candidate and nomination data operations
type CandidateRepository interface {
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	CreateCandidate(ctx context.Context, candidate models.Candidate) error
	CreateNomination(ctx context.Context, positionID, warwickID int) error
	Slate(ctx context.Context, positionID int) ([]models.Candidate, error)
	IsNominated(ctx context.Context, positionID, warwickID int) (bool, error)
	SetElected(ctx context.Context, warwickIDs []int) error
}

// VoteRepository defines ballot data operations
type VoteRepository interface {
	GetVotes(ctx context.Context, positionID int) ([]models.Vote, error)
	ListVotes(ctx context.Context) ([]models.Vote, error)
	GetBallot(ctx context.Context, voterID, positionID int) ([]models.Vote, error)
	ReplaceBallot(ctx context.Context, voterID, positionID int, candidateIDs []int) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	PositionRepository
	CandidateRepository
	VoteRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
