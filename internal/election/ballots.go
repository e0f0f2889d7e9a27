// Package election turns ranked ballots into committee election results.
//
// The flow is GroupBallots → Tally → Cutoff → (when more candidates share the
// cutoff tier than there are seats) ResolveTies. Everything in this package is
// pure: no storage, no logging, identical input gives identical output.
package election

import (
	"sort"

	"github.com/warwickbarbell/blackboards/internal/models"
)

// Ballot is one voter's ranking for a position, most preferred candidate first
type Ballot []int

// GroupBallots builds one ballot per voter from the vote rows of a single position.
// Ballots are ordered by voter id; an empty input yields no ballots.
func GroupBallots(votes []models.Vote) []Ballot {
	if len(votes) == 0 {
		return nil
	}

	sorted := make([]models.Vote, len(votes))
	copy(sorted, votes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].VoterID != sorted[j].VoterID {
			return sorted[i].VoterID < sorted[j].VoterID
		}
		return sorted[i].Rank < sorted[j].Rank
	})

	var ballots []Ballot
	current := Ballot{sorted[0].CandidateID}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].VoterID != sorted[i-1].VoterID {
			ballots = append(ballots, current)
			current = Ballot{}
		}
		current = append(current, sorted[i].CandidateID)
	}
	return append(ballots, current)
}

// BallotFor extracts a single voter's ballot from a snapshot of vote rows.
// The result is empty when the voter has not voted.
func BallotFor(votes []models.Vote, voterID int) Ballot {
	var own []models.Vote
	for _, v := range votes {
		if v.VoterID == voterID {
			own = append(own, v)
		}
	}
	if grouped := GroupBallots(own); len(grouped) > 0 {
		return grouped[0]
	}
	return nil
}

// VotesByPosition splits a vote snapshot by position id
func VotesByPosition(votes []models.Vote) map[int][]models.Vote {
	byPosition := make(map[int][]models.Vote)
	for _, v := range votes {
		byPosition[v.PositionID] = append(byPosition[v.PositionID], v)
	}
	return byPosition
}
