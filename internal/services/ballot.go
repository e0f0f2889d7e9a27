package services

import (
	"context"
	"sort"

	"github.com/warwickbarbell/blackboards/internal/errors"
	"github.com/warwickbarbell/blackboards/internal/logger"
	"github.com/warwickbarbell/blackboards/internal/models"
	"github.com/warwickbarbell/blackboards/internal/repository"
)

// BallotServiceRepository defines the repository methods needed by BallotService
type BallotServiceRepository interface {
	GetPosition(ctx context.Context, id int) (*models.ExecPosition, error)
	Slate(ctx context.Context, positionID int) ([]models.Candidate, error)
	IsNominated(ctx context.Context, positionID, warwickID int) (bool, error)
	repository.VoteRepository
}

// BallotService handles ballot submission
type BallotService struct {
	log  logger.Logger
	repo BallotServiceRepository
}

// NewBallotService creates a new BallotService
func NewBallotService(log logger.Logger, repo BallotServiceRepository) *BallotService {
	return &BallotService{log: log, repo: repo}
}

// SubmitBallot validates a voter's rankings (rank -> candidate id) for a
// position and replaces any ballot they had already cast. Nothing is stored
// unless the whole ballot is valid.
func (s *BallotService) SubmitBallot(ctx context.Context, voterID, positionID int, rankings map[int]int) error {
	position, err := s.repo.GetPosition(ctx, positionID)
	if err == repository.ErrNotFound {
		return errors.NotFoundf("position %d not found", positionID)
	}
	if err != nil {
		return err
	}
	if !position.Open {
		return ErrVotingClosed
	}

	nominated, err := s.repo.IsNominated(ctx, positionID, voterID)
	if err != nil {
		return err
	}
	if nominated {
		return ErrCandidateSelfVote
	}

	slate, err := s.repo.Slate(ctx, positionID)
	if err != nil {
		return err
	}

	order, err := validateRankings(rankings, slate)
	if err != nil {
		s.log.Debug("Ballot rejected", "voter_id", voterID, "position_id", positionID, "reason", err)
		return err
	}

	if err := s.repo.ReplaceBallot(ctx, voterID, positionID, order); err != nil {
		return err
	}

	s.log.Info("Ballot recorded", "voter_id", voterID, "position_id", positionID, "candidates", len(order))
	return nil
}

// validateRankings checks rankings against the slate and returns the
// candidate ids in preference order.
func validateRankings(rankings map[int]int, slate []models.Candidate) ([]int, error) {
	if len(rankings) == 0 || len(rankings) != len(slate) {
		return nil, ErrIncompleteBallot
	}

	ranks := make([]int, 0, len(rankings))
	for rank := range rankings {
		ranks = append(ranks, rank)
	}
	sort.Ints(ranks)
	if ranks[0] <= 0 {
		return nil, ErrInvalidRank
	}

	onSlate := make(map[int]bool, len(slate))
	for _, c := range slate {
		onSlate[c.WarwickID] = true
	}

	order := make([]int, 0, len(ranks))
	seen := make(map[int]bool, len(ranks))
	for _, rank := range ranks {
		id := rankings[rank]
		if seen[id] {
			return nil, ErrDuplicateRanking
		}
		seen[id] = true
		if !onSlate[id] {
			return nil, ErrUnknownCandidate
		}
		order = append(order, id)
	}
	return order, nil
}

// CurrentBallot returns the voter's stored ballot as candidate ids in
// preference order; empty when they have not voted.
func (s *BallotService) CurrentBallot(ctx context.Context, voterID, positionID int) ([]int, error) {
	votes, err := s.repo.GetBallot(ctx, voterID, positionID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(votes))
	for _, v := range votes {
		ids = append(ids, v.CandidateID)
	}
	return ids, nil
}
