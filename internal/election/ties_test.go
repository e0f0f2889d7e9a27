package election

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warwickbarbell/blackboards/internal/models"
)

func winner(id int, name string, rank int) models.Winner {
	return models.Winner{CandidateID: id, Name: name, Rank: rank}
}

func TestResolveTies(t *testing.T) {
	tests := []struct {
		name     string
		winners  []models.Winner
		seats    int
		tieBreak Ballot
		want     []models.Winner
	}{
		{
			name:     "tie broken by ballot order",
			winners:  []models.Winner{winner(1, "A", 2), winner(2, "B", 2)},
			seats:    1,
			tieBreak: Ballot{2, 1},
			want:     []models.Winner{winner(2, "B", 2)},
		},
		{
			name:     "group that fits is taken whole",
			winners:  []models.Winner{winner(1, "A", 2), winner(2, "B", 2), winner(3, "C", 3)},
			seats:    2,
			tieBreak: Ballot{2, 1, 3},
			want:     []models.Winner{winner(1, "A", 2), winner(2, "B", 2)},
		},
		{
			name:     "ballot entries outside the group are skipped",
			winners:  []models.Winner{winner(1, "A", 2), winner(2, "B", 2)},
			seats:    1,
			tieBreak: Ballot{3, 2, 1},
			want:     []models.Winner{winner(2, "B", 2)},
		},
		{
			name:     "tied candidates missing from the ballot leave the seat empty",
			winners:  []models.Winner{winner(1, "A", 0), winner(2, "B", 0)},
			seats:    1,
			tieBreak: Ballot{9},
			want:     nil,
		},
		{
			name:     "stronger tier selected before the tie",
			winners:  []models.Winner{winner(4, "D", 0), winner(1, "A", 1), winner(2, "B", 1), winner(3, "C", 1)},
			seats:    3,
			tieBreak: Ballot{3, 1, 2},
			want:     []models.Winner{winner(4, "D", 0), winner(3, "C", 1), winner(1, "A", 1)},
		},
		{
			name:     "fewer candidates than seats",
			winners:  []models.Winner{winner(1, "A", 0)},
			seats:    2,
			tieBreak: Ballot{1},
			want:     []models.Winner{winner(1, "A", 0)},
		},
		{
			name:     "empty winners",
			winners:  nil,
			seats:    1,
			tieBreak: Ballot{1},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTies(tt.winners, tt.seats, tt.tieBreak)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTies_DoesNotModifyInput(t *testing.T) {
	winners := []models.Winner{winner(1, "A", 0), winner(2, "B", 0), winner(3, "C", 0)}
	ResolveTies(winners, 1, Ballot{3})
	assert.Equal(t, []models.Winner{winner(1, "A", 0), winner(2, "B", 0), winner(3, "C", 0)}, winners)
}

// Random tied groups: the resolver must fill exactly the remaining seats
// from the tied group, in tie-break order, and never touch the tiers above.
func TestResolveTies_TiedGroupProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		secure := rng.Intn(3)
		tied := 2 + rng.Intn(5)

		var winners []models.Winner
		id := 1
		for i := 0; i < secure; i++ {
			winners = append(winners, winner(id, "", 0))
			id++
		}
		var group []int
		for i := 0; i < tied; i++ {
			winners = append(winners, winner(id, "", 1))
			group = append(group, id)
			id++
		}

		remaining := 1 + rng.Intn(tied-1)
		seats := secure + remaining

		tieBreak := Ballot(rng.Perm(id + 2))
		got := ResolveTies(winners, seats, tieBreak)

		require.Len(t, got, seats)
		assert.Equal(t, winners[:secure], got[:secure])

		var expected []int
		inGroup := make(map[int]bool)
		for _, g := range group {
			inGroup[g] = true
		}
		for _, c := range tieBreak {
			if inGroup[c] && len(expected) < remaining {
				expected = append(expected, c)
			}
		}
		var picked []int
		for _, w := range got[secure:] {
			picked = append(picked, w.CandidateID)
		}
		assert.Equal(t, expected, picked)
	}
}

func TestCutoff(t *testing.T) {
	ranked := []Ranked{
		{CandidateID: 1, Rank: 0},
		{CandidateID: 2, Rank: 1},
		{CandidateID: 3, Rank: 1},
		{CandidateID: 4, Rank: 2},
	}

	tests := []struct {
		name  string
		seats int
		want  []int
	}{
		{"clean cut", 1, []int{1}},
		{"tie at the cut", 2, []int{1, 2, 3}},
		{"tie fully inside", 3, []int{1, 2, 3}},
		{"everyone", 4, []int{1, 2, 3, 4}},
		{"more seats than candidates", 9, []int{1, 2, 3, 4}},
		{"no seats", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for _, r := range Cutoff(ranked, tt.seats) {
				got = append(got, r.CandidateID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroupBallots(t *testing.T) {
	votes := []models.Vote{
		{VoterID: 20, PositionID: 1, CandidateID: 5, Rank: 2},
		{VoterID: 10, PositionID: 1, CandidateID: 6, Rank: 2},
		{VoterID: 20, PositionID: 1, CandidateID: 6, Rank: 1},
		{VoterID: 10, PositionID: 1, CandidateID: 5, Rank: 1},
		{VoterID: 10, PositionID: 1, CandidateID: 7, Rank: 3},
	}

	got := GroupBallots(votes)

	assert.Equal(t, []Ballot{{5, 6, 7}, {6, 5}}, got)
	assert.Empty(t, GroupBallots(nil))
}

func TestBallotFor(t *testing.T) {
	votes := []models.Vote{
		{VoterID: 1, CandidateID: 3, Rank: 2},
		{VoterID: 2, CandidateID: 4, Rank: 1},
		{VoterID: 1, CandidateID: 4, Rank: 1},
	}

	assert.Equal(t, Ballot{4, 3}, BallotFor(votes, 1))
	assert.Empty(t, BallotFor(votes, 99))
}

func TestVotesByPosition(t *testing.T) {
	votes := []models.Vote{
		{VoterID: 1, PositionID: 1, CandidateID: 3, Rank: 1},
		{VoterID: 1, PositionID: 2, CandidateID: 4, Rank: 1},
		{VoterID: 2, PositionID: 1, CandidateID: 3, Rank: 1},
	}

	got := VotesByPosition(votes)

	assert.Len(t, got[1], 2)
	assert.Len(t, got[2], 1)
	assert.Empty(t, got[3])
}
