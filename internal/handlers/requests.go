package handlers

// BallotSubmitRequest maps ranks to candidate ids, e.g. {"1": 1702502, "2": 1700001}
type BallotSubmitRequest struct {
	Rankings map[int]int `json:"rankings"`
}

// ResultsRequest optionally overrides the configured tie-break voter
type ResultsRequest struct {
	TieBreakVoterID *int `json:"tie_break_voter_id"`
}
