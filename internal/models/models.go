package models

// ExecPosition represents a committee position that can be voted on
type ExecPosition struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	NumWinners int    `json:"num_winners"`
	Open       bool   `json:"open"`
}

// Candidate represents someone standing for at least one position
type Candidate struct {
	WarwickID int    `json:"warwick_id"`
	Name      string `json:"name"`
	Elected   bool   `json:"elected"`
}

// Vote is a single row of a ranked ballot
type Vote struct {
	VoterID     int `json:"voter_id"`
	PositionID  int `json:"position_id"`
	CandidateID int `json:"candidate_id"`
	Rank        int `json:"rank"`
}

// Winner is a candidate at or above the cutoff of a tally.
// Rank is the tally tier (0 = resolved first), not a ballot ranking.
type Winner struct {
	CandidateID int    `json:"candidate_id"`
	Name        string `json:"name"`
	Rank        int    `json:"rank"`
}

// TallyResult holds the outcome of tallying one position
type TallyResult struct {
	PositionID int      `json:"position_id"`
	Title      string   `json:"title"`
	Winners    []Winner `json:"winners"`
	VoterCount int      `json:"voter_count"`
	Open       bool     `json:"open"`
	Error      string   `json:"error,omitempty"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
