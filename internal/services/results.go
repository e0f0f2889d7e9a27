package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/warwickbarbell/blackboards/internal/election"
	"github.com/warwickbarbell/blackboards/internal/errors"
	"github.com/warwickbarbell/blackboards/internal/logger"
	"github.com/warwickbarbell/blackboards/internal/models"
)

// ResultsServiceRepository defines the repository methods needed by ResultsService
type ResultsServiceRepository interface {
	ListPositions(ctx context.Context) ([]models.ExecPosition, error)
	ListVotes(ctx context.Context) ([]models.Vote, error)
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	SetElected(ctx context.Context, warwickIDs []int) error
}

// ResultsService tallies every position and records who has been elected
type ResultsService struct {
	log         logger.Logger
	repo        ResultsServiceRepository
	notifier    Notifier
	broadcaster Broadcaster
}

// NewResultsService creates a new ResultsService. notifier may be nil.
func NewResultsService(log logger.Logger, repo ResultsServiceRepository, notifier Notifier) *ResultsService {
	return &ResultsService{log: log, repo: repo, notifier: notifier}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *ResultsService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// ComputeResults tallies every position from one snapshot of the ballot
// store. Winners of closed positions replace the stored elected set; open
// positions are reported but never elect anyone.
//
// A position whose tie cannot be broken because the tie-break voter has no
// ballot carries the reason in its Error field and elects no one; the other
// positions are unaffected. Storage errors abort the whole run.
func (s *ResultsService) ComputeResults(ctx context.Context, tieBreakVoterID int) ([]models.TallyResult, error) {
	snap, err := s.tallyAll(ctx, tieBreakVoterID)
	if err != nil {
		return nil, err
	}

	elected := make([]int, 0, len(snap.winners))
	for id := range snap.winners {
		elected = append(elected, id)
	}
	sort.Ints(elected)

	if err := s.repo.SetElected(ctx, elected); err != nil {
		return nil, fmt.Errorf("set elected: %w", err)
	}
	s.log.Info("Results computed", "positions", len(snap.results), "elected", len(elected))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastResults(snap.results)
	}
	s.notifyNewlyElected(ctx, snap.candidates, snap.winners)

	return snap.results, nil
}

// PreviewResults tallies like ComputeResults but records nothing
func (s *ResultsService) PreviewResults(ctx context.Context, tieBreakVoterID int) ([]models.TallyResult, error) {
	snap, err := s.tallyAll(ctx, tieBreakVoterID)
	if err != nil {
		return nil, err
	}
	return snap.results, nil
}

type tallySnapshot struct {
	results    []models.TallyResult
	candidates []models.Candidate
	// winners of closed positions
	winners map[int]bool
}

func (s *ResultsService) tallyAll(ctx context.Context, tieBreakVoterID int) (*tallySnapshot, error) {
	positions, err := s.repo.ListPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	votes, err := s.repo.ListVotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	candidates, err := s.repo.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	names := make(map[int]string, len(candidates))
	for _, c := range candidates {
		names[c.WarwickID] = c.Name
	}
	// open flags come from the same read as the positions themselves
	closed := make(map[int]bool, len(positions))
	for _, p := range positions {
		closed[p.ID] = !p.Open
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].ID < positions[j].ID })
	byPosition := election.VotesByPosition(votes)

	snap := &tallySnapshot{
		results:    make([]models.TallyResult, 0, len(positions)),
		candidates: candidates,
		winners:    make(map[int]bool),
	}
	for _, position := range positions {
		result := TallyPosition(position, byPosition[position.ID], names, tieBreakVoterID)
		result.Open = !closed[position.ID]
		if result.Error != "" {
			s.log.Warn("Position could not be resolved", "position_id", position.ID, "error", result.Error)
		}
		if closed[position.ID] {
			for _, w := range result.Winners {
				snap.winners[w.CandidateID] = true
			}
		}
		snap.results = append(snap.results, result)
	}
	return snap, nil
}

// notifyNewlyElected emails candidates who were not already marked elected
// before this run. Delivery failures are logged; the results stand.
func (s *ResultsService) notifyNewlyElected(ctx context.Context, before []models.Candidate, winners map[int]bool) {
	if s.notifier == nil {
		return
	}

	var fresh []models.Candidate
	for _, c := range before {
		if winners[c.WarwickID] && !c.Elected {
			c.Elected = true
			fresh = append(fresh, c)
		}
	}
	if len(fresh) == 0 {
		return
	}

	if err := s.notifier.NotifyElected(ctx, fresh); err != nil {
		s.log.Error("Failed to notify elected candidates", "count", len(fresh), "error", err)
	}
}

// TallyPosition runs grouping, the tally, the cutoff and, when more
// candidates share the cutoff than there are seats, the tie-break for one
// position. It never fails: an unresolvable tie is reported in Error.
func TallyPosition(position models.ExecPosition, votes []models.Vote, names map[int]string, tieBreakVoterID int) models.TallyResult {
	result := models.TallyResult{
		PositionID: position.ID,
		Title:      position.Title,
		Winners:    []models.Winner{},
		Open:       position.Open,
	}

	ballots := election.GroupBallots(votes)
	result.VoterCount = len(ballots)
	if len(ballots) == 0 {
		return result
	}

	cut := election.Cutoff(election.Tally(ballots, position.NumWinners), position.NumWinners)
	winners := make([]models.Winner, 0, len(cut))
	for _, r := range cut {
		winners = append(winners, models.Winner{CandidateID: r.CandidateID, Name: names[r.CandidateID], Rank: r.Rank})
	}

	if len(winners) > position.NumWinners {
		tieBreak := election.BallotFor(votes, tieBreakVoterID)
		if len(tieBreak) == 0 {
			result.Error = errors.NotFoundf("tie for position %d needs a ballot from tie-break voter %d", position.ID, tieBreakVoterID).Error()
			return result
		}
		winners = election.ResolveTies(winners, position.NumWinners, tieBreak)
		if winners == nil {
			winners = []models.Winner{}
		}
	}

	result.Winners = winners
	return result
}
