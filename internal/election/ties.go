package election

import "github.com/warwickbarbell/blackboards/internal/models"

// Cutoff keeps every ranked candidate whose tier is at or above the tier of
// the candidate in the last seat. When fewer candidates than seats were
// ranked, all of them are kept.
func Cutoff(ranked []Ranked, numWinners int) []Ranked {
	if numWinners <= 0 || len(ranked) == 0 {
		return nil
	}
	if len(ranked) <= numWinners {
		return append([]Ranked(nil), ranked...)
	}

	cut := ranked[numWinners-1].Rank
	i := 0
	for i < len(ranked) && ranked[i].Rank <= cut {
		i++
	}
	return append([]Ranked(nil), ranked[:i]...)
}

// ResolveTies selects at most numWinners winners. Groups of winners sharing
// a rank are taken whole while they fit; the first group that does not fit
// is broken by walking tieBreak in order and selecting the group members it
// names. Tie-break entries that are not in the group are skipped, so the
// result can hold fewer than numWinners winners.
func ResolveTies(winners []models.Winner, numWinners int, tieBreak Ballot) []models.Winner {
	var selected []models.Winner
	for _, group := range groupByRank(winners) {
		remaining := numWinners - len(selected)
		if remaining <= 0 {
			break
		}
		if len(group) <= remaining {
			selected = append(selected, group...)
			continue
		}

		for _, id := range tieBreak {
			if remaining == 0 {
				break
			}
			for i, w := range group {
				if w.CandidateID == id {
					selected = append(selected, w)
					group = append(group[:i:i], group[i+1:]...)
					remaining--
					break
				}
			}
		}
	}
	return selected
}

// groupByRank partitions winners by rank, groups ordered by first appearance
func groupByRank(winners []models.Winner) [][]models.Winner {
	index := make(map[int]int)
	var groups [][]models.Winner
	for _, w := range winners {
		i, ok := index[w.Rank]
		if !ok {
			i = len(groups)
			index[w.Rank] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], w)
	}
	return groups
}
