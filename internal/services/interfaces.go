package services

import (
	"context"

	"github.com/warwickbarbell/blackboards/internal/models"
)

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastPositionStatus(positionID int, open bool)
	BroadcastResults(results []models.TallyResult)
}

// Notifier tells candidates they have been elected
type Notifier interface {
	NotifyElected(ctx context.Context, candidates []models.Candidate) error
}

// BallotServicer defines the interface for ballot operations
type BallotServicer interface {
	SubmitBallot(ctx context.Context, voterID, positionID int, rankings map[int]int) error
	CurrentBallot(ctx context.Context, voterID, positionID int) ([]int, error)
}

// PositionServicer defines the interface for position operations
type PositionServicer interface {
	ListPositions(ctx context.Context) ([]models.ExecPosition, error)
	GetPosition(ctx context.Context, id int) (*models.ExecPosition, error)
	TogglePosition(ctx context.Context, id int) (bool, error)
	CreatePosition(ctx context.Context, position models.ExecPosition) error
	Nominate(ctx context.Context, positionID int, candidate models.Candidate) error
	BallotLink(ctx context.Context, positionID int) (string, error)
	BallotQRCode(ctx context.Context, positionID, size int) ([]byte, error)
	SetBroadcaster(b Broadcaster)
	SetBaseURL(baseURL string)
}

// ResultsServicer defines the interface for results operations
type ResultsServicer interface {
	ComputeResults(ctx context.Context, tieBreakVoterID int) ([]models.TallyResult, error)
	PreviewResults(ctx context.Context, tieBreakVoterID int) ([]models.TallyResult, error)
	SetBroadcaster(b Broadcaster)
}

// Ensure concrete types implement interfaces
var (
	_ BallotServicer   = (*BallotService)(nil)
	_ PositionServicer = (*PositionService)(nil)
	_ ResultsServicer  = (*ResultsService)(nil)
)
