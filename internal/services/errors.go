package services

// Ballot validation errors
var (
	ErrVotingClosed      = &ServiceError{Code: "VOTING_CLOSED", Message: "voting is closed for this position"}
	ErrCandidateSelfVote = &ServiceError{Code: "SELF_VOTE", Message: "you are standing for this position and cannot vote in it"}
	ErrIncompleteBallot  = &ServiceError{Code: "INCOMPLETE_BALLOT", Message: "ballot must rank every candidate for the position"}
	ErrInvalidRank       = &ServiceError{Code: "INVALID_RANK", Message: "ranks must be positive"}
	ErrDuplicateRanking  = &ServiceError{Code: "DUPLICATE_RANKING", Message: "each candidate may only be ranked once"}
	ErrUnknownCandidate  = &ServiceError{Code: "UNKNOWN_CANDIDATE", Message: "ballot ranks someone who is not standing for this position"}
)

// ServiceError represents a service-level error. Code is stable and safe to
// hand to API clients.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
