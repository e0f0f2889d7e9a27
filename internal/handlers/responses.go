package handlers

// BallotResponse is a voter's stored ballot for one position
type BallotResponse struct {
	PositionID int   `json:"position_id"`
	Candidates []int `json:"candidates"`
}

// PositionStatusResponse is the response for toggling a position
type PositionStatusResponse struct {
	PositionID int  `json:"position_id"`
	Open       bool `json:"open"`
}

// MeResponse describes the signed-in user
type MeResponse struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}
