package mock

import (
	"context"

	"github.com/warwickbarbell/blackboards/internal/models"
	"github.com/warwickbarbell/blackboards/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SetElectedError = errors.New("database error")
//	svc := services.NewResultsService(log, mockRepo, nil)
//	_, err := svc.ComputeResults(ctx, 0)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Position Errors =====
	ListPositionsError  error
	GetPositionError    error
	TogglePositionError error

	// ===== Candidate Errors =====
	ListCandidatesError error
	SlateError          error
	IsNominatedError    error
	SetElectedError     error

	// ===== Vote Errors =====
	GetVotesError      error
	ListVotesError     error
	GetBallotError     error
	ReplaceBallotError error

	// SetElectedCalls records every id set passed to SetElected
	SetElectedCalls [][]int
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Position Methods =====

func (m *Repository) ListPositions(ctx context.Context) ([]models.ExecPosition, error) {
	if m.ListPositionsError != nil {
		return nil, m.ListPositionsError
	}
	return m.FullRepository.ListPositions(ctx)
}

func (m *Repository) GetPosition(ctx context.Context, id int) (*models.ExecPosition, error) {
	if m.GetPositionError != nil {
		return nil, m.GetPositionError
	}
	return m.FullRepository.GetPosition(ctx, id)
}

func (m *Repository) TogglePosition(ctx context.Context, id int) (bool, error) {
	if m.TogglePositionError != nil {
		return false, m.TogglePositionError
	}
	return m.FullRepository.TogglePosition(ctx, id)
}

// ===== Candidate Methods =====

func (m *Repository) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	if m.ListCandidatesError != nil {
		return nil, m.ListCandidatesError
	}
	return m.FullRepository.ListCandidates(ctx)
}

func (m *Repository) Slate(ctx context.Context, positionID int) ([]models.Candidate, error) {
	if m.SlateError != nil {
		return nil, m.SlateError
	}
	return m.FullRepository.Slate(ctx, positionID)
}

func (m *Repository) IsNominated(ctx context.Context, positionID, warwickID int) (bool, error) {
	if m.IsNominatedError != nil {
		return false, m.IsNominatedError
	}
	return m.FullRepository.IsNominated(ctx, positionID, warwickID)
}

func (m *Repository) SetElected(ctx context.Context, warwickIDs []int) error {
	m.SetElectedCalls = append(m.SetElectedCalls, append([]int(nil), warwickIDs...))
	if m.SetElectedError != nil {
		return m.SetElectedError
	}
	return m.FullRepository.SetElected(ctx, warwickIDs)
}

// ===== Vote Methods =====

func (m *Repository) GetVotes(ctx context.Context, positionID int) ([]models.Vote, error) {
	if m.GetVotesError != nil {
		return nil, m.GetVotesError
	}
	return m.FullRepository.GetVotes(ctx, positionID)
}

func (m *Repository) ListVotes(ctx context.Context) ([]models.Vote, error) {
	if m.ListVotesError != nil {
		return nil, m.ListVotesError
	}
	return m.FullRepository.ListVotes(ctx)
}

func (m *Repository) GetBallot(ctx context.Context, voterID, positionID int) ([]models.Vote, error) {
	if m.GetBallotError != nil {
		return nil, m.GetBallotError
	}
	return m.FullRepository.GetBallot(ctx, voterID, positionID)
}

func (m *Repository) ReplaceBallot(ctx context.Context, voterID, positionID int, candidateIDs []int) error {
	if m.ReplaceBallotError != nil {
		return m.ReplaceBallotError
	}
	return m.FullRepository.ReplaceBallot(ctx, voterID, positionID, candidateIDs)
}
