package election

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Precision is the number of decimal places kept for vote weights, keep
	// factors and the quota.
	Precision = 9

	// MaxIterations bounds the keep factor iteration of a single stage.
	MaxIterations = 500
)

var (
	// Omega is the total surplus under which a stage is considered converged.
	Omega = decimal.New(1, -6)

	unit = decimal.New(1, -Precision)
	one  = decimal.NewFromInt(1)
)

// Ranked is a candidate's place in a tally. Candidates resolved together
// share a Rank; rank 0 is the first tier elected.
type Ranked struct {
	CandidateID int
	Rank        int
}

type status int

const (
	hopeful status = iota
	elected
	excluded
)

type weightedBallot struct {
	prefs []int
	count decimal.Decimal
}

// counter holds the state of one Meek count
type counter struct {
	ballots    []weightedBallot
	seats      int
	candidates []int
	status     map[int]status
	keep       map[int]decimal.Decimal
	votes      map[int]decimal.Decimal
	quota      decimal.Decimal
	history    []map[int]decimal.Decimal
}

// Tally runs a Meek STV count for numWinners seats and returns every
// candidate appearing on any ballot, ordered by tier: elected candidates in
// the order they were elected, then unelected hopefuls by their final vote,
// then excluded candidates, most recently excluded first.
//
// Candidates tied for the last seats in a way the count cannot separate are
// returned in one shared tier so callers can see the tie at the cutoff.
func Tally(ballots []Ballot, numWinners int) []Ranked {
	c := newCounter(ballots, numWinners)
	if len(c.candidates) == 0 {
		return nil
	}

	var electedTiers, excludedTiers [][]int
	for {
		hopefuls := c.withStatus(hopeful)
		open := c.seats - len(c.withStatus(elected))
		if open <= 0 || len(hopefuls) == 0 {
			break
		}

		if len(hopefuls) <= open {
			c.count()
			electedTiers = append(electedTiers, c.tiersByVotes(hopefuls)...)
			c.mark(hopefuls, elected)
			break
		}

		if reached := c.converge(); len(reached) > 0 {
			electedTiers = append(electedTiers, c.tiersByVotes(reached)...)
			c.mark(reached, elected)
			continue
		}

		lowest := c.lowest(hopefuls)
		if len(hopefuls)-len(lowest) < open {
			stronger := without(hopefuls, lowest)
			electedTiers = append(electedTiers, c.tiersByVotes(stronger)...)
			electedTiers = append(electedTiers, lowest)
			c.mark(stronger, elected)
			c.mark(lowest, elected)
			break
		}

		excludedTiers = append(excludedTiers, lowest)
		c.mark(lowest, excluded)
	}

	tiers := electedTiers
	if remaining := c.withStatus(hopeful); len(remaining) > 0 {
		c.count()
		tiers = append(tiers, c.tiersByVotes(remaining)...)
	}
	for i := len(excludedTiers) - 1; i >= 0; i-- {
		tiers = append(tiers, excludedTiers[i])
	}

	ranked := make([]Ranked, 0, len(c.candidates))
	for rank, tier := range tiers {
		sorted := append([]int(nil), tier...)
		sort.Ints(sorted)
		for _, id := range sorted {
			ranked = append(ranked, Ranked{CandidateID: id, Rank: rank})
		}
	}
	return ranked
}

func newCounter(ballots []Ballot, seats int) *counter {
	c := &counter{
		seats:  seats,
		status: make(map[int]status),
		keep:   make(map[int]decimal.Decimal),
		votes:  make(map[int]decimal.Decimal),
	}

	index := make(map[string]int)
	for _, b := range ballots {
		prefs := make([]int, 0, len(b))
		seen := make(map[int]bool, len(b))
		for _, id := range b {
			if seen[id] {
				continue
			}
			seen[id] = true
			prefs = append(prefs, id)
			if _, ok := c.status[id]; !ok {
				c.status[id] = hopeful
				c.keep[id] = one
				c.candidates = append(c.candidates, id)
			}
		}

		key := ballotKey(prefs)
		if i, ok := index[key]; ok {
			c.ballots[i].count = c.ballots[i].count.Add(one)
			continue
		}
		index[key] = len(c.ballots)
		c.ballots = append(c.ballots, weightedBallot{prefs: prefs, count: one})
	}

	sort.Ints(c.candidates)
	return c
}

func ballotKey(prefs []int) string {
	parts := make([]string, len(prefs))
	for i, id := range prefs {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ">")
}

// count distributes every ballot using the current keep factors and
// recomputes the quota from the non-exhausted vote.
func (c *counter) count() {
	for _, id := range c.candidates {
		c.votes[id] = decimal.Zero
	}

	total, exhausted := decimal.Zero, decimal.Zero
	for _, b := range c.ballots {
		remaining := one
		for _, id := range b.prefs {
			kf := c.keep[id]
			if kf.IsZero() {
				continue
			}
			take := remaining.Mul(kf).RoundCeil(Precision)
			if take.GreaterThan(remaining) {
				take = remaining
			}
			c.votes[id] = c.votes[id].Add(take.Mul(b.count))
			remaining = remaining.Sub(take)
			if remaining.IsZero() {
				break
			}
		}
		exhausted = exhausted.Add(remaining.Mul(b.count))
		total = total.Add(b.count)
	}

	seats := decimal.NewFromInt(int64(c.seats + 1))
	c.quota = total.Sub(exhausted).Div(seats).Truncate(Precision).Add(unit)
}

// converge iterates keep factors until a hopeful reaches the quota or the
// surplus of elected candidates stops mattering. It returns the hopefuls
// that reached the quota, if any.
func (c *counter) converge() []int {
	var previous decimal.Decimal
	for iter := 0; iter < MaxIterations; iter++ {
		c.count()
		if reached := c.reachedQuota(); len(reached) > 0 {
			c.snapshot()
			return reached
		}

		surplus := c.surplus()
		if surplus.LessThan(Omega) || (iter > 0 && surplus.GreaterThanOrEqual(previous)) {
			c.snapshot()
			return nil
		}
		previous = surplus
		c.updateKeepFactors()
	}
	c.count()
	c.snapshot()
	return nil
}

func (c *counter) reachedQuota() []int {
	var reached []int
	for _, id := range c.withStatus(hopeful) {
		if c.votes[id].GreaterThanOrEqual(c.quota) {
			reached = append(reached, id)
		}
	}
	return reached
}

func (c *counter) surplus() decimal.Decimal {
	total := decimal.Zero
	for _, id := range c.withStatus(elected) {
		if extra := c.votes[id].Sub(c.quota); extra.IsPositive() {
			total = total.Add(extra)
		}
	}
	return total
}

func (c *counter) updateKeepFactors() {
	for _, id := range c.withStatus(elected) {
		if !c.votes[id].IsPositive() {
			continue
		}
		kf := c.keep[id].Mul(c.quota).Div(c.votes[id]).RoundCeil(Precision)
		if kf.GreaterThan(one) {
			kf = one
		}
		c.keep[id] = kf
	}
}

func (c *counter) snapshot() {
	votes := make(map[int]decimal.Decimal, len(c.votes))
	for id, v := range c.votes {
		votes[id] = v
	}
	c.history = append(c.history, votes)
}

// lowest returns the hopefuls with the fewest votes. Ties are narrowed by
// looking back through earlier stages for the most recent one where the
// tied candidates differed.
func (c *counter) lowest(hopefuls []int) []int {
	tied := minimal(hopefuls, c.votes)
	for i := len(c.history) - 2; i >= 0 && len(tied) > 1; i-- {
		tied = minimal(tied, c.history[i])
	}
	return tied
}

func minimal(ids []int, votes map[int]decimal.Decimal) []int {
	var low []int
	var min decimal.Decimal
	for _, id := range ids {
		v := votes[id]
		switch {
		case len(low) == 0 || v.LessThan(min):
			low = []int{id}
			min = v
		case v.Equal(min):
			low = append(low, id)
		}
	}
	return low
}

// tiersByVotes orders candidates by current votes, highest first; equal
// votes share a tier.
func (c *counter) tiersByVotes(ids []int) [][]int {
	sorted := append([]int(nil), ids...)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, vj := c.votes[sorted[i]], c.votes[sorted[j]]
		if !vi.Equal(vj) {
			return vi.GreaterThan(vj)
		}
		return sorted[i] < sorted[j]
	})

	var tiers [][]int
	for i, id := range sorted {
		if i > 0 && c.votes[id].Equal(c.votes[sorted[i-1]]) {
			tiers[len(tiers)-1] = append(tiers[len(tiers)-1], id)
			continue
		}
		tiers = append(tiers, []int{id})
	}
	return tiers
}

func (c *counter) withStatus(s status) []int {
	var ids []int
	for _, id := range c.candidates {
		if c.status[id] == s {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *counter) mark(ids []int, s status) {
	for _, id := range ids {
		c.status[id] = s
		if s == excluded {
			c.keep[id] = decimal.Zero
		}
	}
}

func without(ids, remove []int) []int {
	drop := make(map[int]bool, len(remove))
	for _, id := range remove {
		drop[id] = true
	}
	var kept []int
	for _, id := range ids {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	return kept
}
