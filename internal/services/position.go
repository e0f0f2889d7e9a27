package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/warwickbarbell/blackboards/internal/errors"
	"github.com/warwickbarbell/blackboards/internal/logger"
	"github.com/warwickbarbell/blackboards/internal/models"
	"github.com/warwickbarbell/blackboards/internal/repository"
)

// PositionServiceRepository defines the repository methods needed by PositionService
type PositionServiceRepository interface {
	repository.PositionRepository
	CreateCandidate(ctx context.Context, candidate models.Candidate) error
	CreateNomination(ctx context.Context, positionID, warwickID int) error
}

// PositionService handles exec positions and their open/closed state
type PositionService struct {
	log         logger.Logger
	repo        PositionServiceRepository
	broadcaster Broadcaster
	baseURL     string
}

// NewPositionService creates a new PositionService
func NewPositionService(log logger.Logger, repo PositionServiceRepository) *PositionService {
	return &PositionService{log: log, repo: repo}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *PositionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetBaseURL sets the public address used in ballot links
func (s *PositionService) SetBaseURL(baseURL string) {
	s.baseURL = strings.TrimSuffix(baseURL, "/")
}

func (s *PositionService) ListPositions(ctx context.Context) ([]models.ExecPosition, error) {
	return s.repo.ListPositions(ctx)
}

func (s *PositionService) GetPosition(ctx context.Context, id int) (*models.ExecPosition, error) {
	position, err := s.repo.GetPosition(ctx, id)
	if err == repository.ErrNotFound {
		return nil, errors.NotFoundf("position %d not found", id)
	}
	return position, err
}

// TogglePosition opens a closed position or closes an open one, returning
// whether it is now open.
func (s *PositionService) TogglePosition(ctx context.Context, id int) (bool, error) {
	open, err := s.repo.TogglePosition(ctx, id)
	if err == repository.ErrNotFound {
		return false, errors.NotFoundf("position %d not found", id)
	}
	if err != nil {
		return false, err
	}

	s.log.Info("Position toggled", "position_id", id, "open", open)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastPositionStatus(id, open)
	}
	return open, nil
}

// CreatePosition adds a position, or renames an existing one
func (s *PositionService) CreatePosition(ctx context.Context, position models.ExecPosition) error {
	if position.ID <= 0 {
		return errors.Validationf("position id must be positive, got %d", position.ID)
	}
	if position.Title == "" {
		return errors.Validation("position title is required")
	}
	if position.NumWinners < 1 {
		return errors.Validationf("a position needs at least one seat, got %d", position.NumWinners)
	}
	if err := s.repo.CreatePosition(ctx, position); err != nil {
		return err
	}
	s.log.Info("Position saved", "position_id", position.ID, "title", position.Title, "seats", position.NumWinners)
	return nil
}

// Nominate records a candidate and puts them forward for a position
func (s *PositionService) Nominate(ctx context.Context, positionID int, candidate models.Candidate) error {
	if _, err := s.GetPosition(ctx, positionID); err != nil {
		return err
	}
	if candidate.WarwickID <= 0 || candidate.Name == "" {
		return errors.Validation("candidate needs a warwick id and a name")
	}
	if err := s.repo.CreateCandidate(ctx, candidate); err != nil {
		return err
	}
	if err := s.repo.CreateNomination(ctx, positionID, candidate.WarwickID); err != nil {
		return err
	}
	s.log.Info("Candidate nominated", "position_id", positionID, "warwick_id", candidate.WarwickID)
	return nil
}

// BallotLink returns the address members visit to vote for a position
func (s *PositionService) BallotLink(ctx context.Context, positionID int) (string, error) {
	if s.baseURL == "" {
		return "", errors.Validation("base_url not configured")
	}
	if _, err := s.GetPosition(ctx, positionID); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/elections/%d", s.baseURL, positionID), nil
}

// BallotQRCode renders the ballot link of a position as a PNG
func (s *PositionService) BallotQRCode(ctx context.Context, positionID, size int) ([]byte, error) {
	link, err := s.BallotLink(ctx, positionID)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(link, qrcode.Medium, size)
}
