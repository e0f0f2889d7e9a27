package election

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(b Ballot, n int) []Ballot {
	out := make([]Ballot, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func ballots(groups ...[]Ballot) []Ballot {
	var all []Ballot
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

func TestTally_NoBallots(t *testing.T) {
	assert.Empty(t, Tally(nil, 1))
	assert.Empty(t, Tally([]Ballot{}, 3))
}

func TestTally_SingleCandidate(t *testing.T) {
	got := Tally([]Ballot{{7}}, 1)
	assert.Equal(t, []Ranked{{CandidateID: 7, Rank: 0}}, got)
}

func TestTally_MajorityWinner(t *testing.T) {
	in := ballots(repeat(Ballot{1, 2}, 3), repeat(Ballot{2, 1}, 2))

	got := Tally(in, 1)

	assert.Equal(t, []Ranked{
		{CandidateID: 1, Rank: 0},
		{CandidateID: 2, Rank: 1},
	}, got)
}

func TestTally_ExclusionTransfersVotes(t *testing.T) {
	// 3 is excluded first; their ballots carry 2 over the quota
	in := ballots(repeat(Ballot{1}, 4), repeat(Ballot{2}, 3), repeat(Ballot{3, 2}, 2))

	got := Tally(in, 1)

	assert.Equal(t, []Ranked{
		{CandidateID: 2, Rank: 0},
		{CandidateID: 1, Rank: 1},
		{CandidateID: 3, Rank: 2},
	}, got)
}

func TestTally_SurplusTransferAndShrinkingQuota(t *testing.T) {
	in := ballots(repeat(Ballot{1, 2}, 7), repeat(Ballot{3}, 4), repeat(Ballot{4}, 3))

	got := Tally(in, 2)

	assert.Equal(t, []Ranked{
		{CandidateID: 1, Rank: 0},
		{CandidateID: 3, Rank: 1},
		{CandidateID: 4, Rank: 2},
		{CandidateID: 2, Rank: 3},
	}, got)
}

func TestTally_UnbreakableTieSharesTier(t *testing.T) {
	got := Tally([]Ballot{{1}, {2}}, 1)

	assert.Equal(t, []Ranked{
		{CandidateID: 1, Rank: 0},
		{CandidateID: 2, Rank: 0},
	}, got)
}

func TestTally_TiedLowestExcludedTogether(t *testing.T) {
	in := ballots(repeat(Ballot{1}, 3), repeat(Ballot{2}, 2), repeat(Ballot{3}, 2))

	got := Tally(in, 1)

	assert.Equal(t, []Ranked{
		{CandidateID: 1, Rank: 0},
		{CandidateID: 2, Rank: 1},
		{CandidateID: 3, Rank: 1},
	}, got)
}

func TestTally_ExclusionTieBrokenByEarlierStage(t *testing.T) {
	// 2 and 3 draw level once 4 is excluded; 2 had fewer votes a stage earlier
	in := ballots(
		repeat(Ballot{1}, 6),
		repeat(Ballot{3}, 4),
		repeat(Ballot{2}, 3),
		repeat(Ballot{4, 2}, 1),
	)

	got := Tally(in, 1)

	assert.Equal(t, []Ranked{
		{CandidateID: 1, Rank: 0},
		{CandidateID: 3, Rank: 1},
		{CandidateID: 2, Rank: 2},
		{CandidateID: 4, Rank: 3},
	}, got)
}

func TestTally_MoreSeatsThanCandidates(t *testing.T) {
	in := ballots(repeat(Ballot{1, 2}, 2), repeat(Ballot{2}, 1))

	got := Tally(in, 3)

	require.Len(t, got, 2)
	assert.ElementsMatch(t, []int{1, 2}, []int{got[0].CandidateID, got[1].CandidateID})
	assert.Equal(t, 0, got[0].Rank)
}

func TestTally_IncludesEveryCandidateOnAnyBallot(t *testing.T) {
	in := ballots(repeat(Ballot{1, 5, 9}, 3), repeat(Ballot{9, 5}, 2), repeat(Ballot{5}, 1))

	got := Tally(in, 1)

	var ids []int
	for _, r := range got {
		ids = append(ids, r.CandidateID)
	}
	assert.ElementsMatch(t, []int{1, 5, 9}, ids)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Rank, got[i].Rank, "ranks must be non-decreasing")
	}
}

func TestTally_IgnoresRepeatedPreference(t *testing.T) {
	got := Tally([]Ballot{{1, 1, 2}, {1, 2}, {2}}, 1)

	assert.Equal(t, 1, got[0].CandidateID)
	assert.Len(t, got, 2)
}

func TestTally_Deterministic(t *testing.T) {
	in := ballots(
		repeat(Ballot{1, 2, 3}, 5),
		repeat(Ballot{2, 3, 1}, 4),
		repeat(Ballot{3, 1}, 3),
		repeat(Ballot{4, 3, 2}, 2),
		repeat(Ballot{5}, 1),
	)

	first := Tally(in, 2)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Tally(in, 2))
	}

	// ballot order must not matter either
	reversed := make([]Ballot, len(in))
	for i, b := range in {
		reversed[len(in)-1-i] = b
	}
	assert.Equal(t, first, Tally(reversed, 2))
}

func TestTally_DoesNotModifyInput(t *testing.T) {
	in := []Ballot{{1, 2}, {2, 1}, {1}}
	Tally(in, 1)
	assert.Equal(t, []Ballot{{1, 2}, {2, 1}, {1}}, in)
}
