package testutil

import (
	"context"
	"testing"

	"github.com/warwickbarbell/blackboards/internal/models"
	"github.com/warwickbarbell/blackboards/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// Election describes a position and its nominees for seeding tests
type Election struct {
	Position   models.ExecPosition
	Candidates []models.Candidate
}

// Seed creates each position, its candidates and their nominations
func Seed(t *testing.T, repo *repository.Repository, elections ...Election) {
	t.Helper()
	ctx := context.Background()

	for _, e := range elections {
		if err := repo.CreatePosition(ctx, e.Position); err != nil {
			t.Fatalf("CreatePosition failed: %v", err)
		}
		for _, c := range e.Candidates {
			if err := repo.CreateCandidate(ctx, c); err != nil {
				t.Fatalf("CreateCandidate failed: %v", err)
			}
			if err := repo.CreateNomination(ctx, e.Position.ID, c.WarwickID); err != nil {
				t.Fatalf("CreateNomination failed: %v", err)
			}
		}
	}
}

// CastBallots stores one ballot per voter id for a position
func CastBallots(t *testing.T, repo *repository.Repository, positionID int, ballots map[int][]int) {
	t.Helper()
	ctx := context.Background()

	for voterID, candidateIDs := range ballots {
		if err := repo.ReplaceBallot(ctx, voterID, positionID, candidateIDs); err != nil {
			t.Fatalf("ReplaceBallot failed: %v", err)
		}
	}
}
