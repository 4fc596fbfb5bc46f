package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Title             string `json:"title"`
	DescriptionRef    string `json:"description_ref,omitempty"`
	MetadataRef       string `json:"metadata_ref,omitempty"`
	Type              string `json:"type"`
	OrgID             string `json:"org_id,omitempty"`
	RegistrationStart string `json:"registration_start"`
	VotingStart       string `json:"voting_start"`
	VotingEnd         string `json:"voting_end"`
}

type ElectionResponse struct {
	ElectionID        uint64 `json:"election_id"`
	Title             string `json:"title"`
	DescriptionRef    string `json:"description_ref,omitempty"`
	MetadataRef       string `json:"metadata_ref,omitempty"`
	Type              string `json:"type"`
	OrgID             string `json:"org_id,omitempty"`
	AdminID           string `json:"admin_id"`
	Status            string `json:"status"`
	RegistrationStart string `json:"registration_start"`
	VotingStart       string `json:"voting_start"`
	VotingEnd         string `json:"voting_end"`
	TotalVotes        uint64 `json:"total_votes"`
	WinnerID          uint64 `json:"winner_id,omitempty"`
	CandidateCount    uint64 `json:"candidate_count,omitempty"`
}

type ListElectionsResponse struct {
	Elections []ElectionResponse `json:"elections"`
}

type AdvanceStatusRequest struct {
	Target string `json:"target"`
}

type AddCandidateRequest struct {
	Name       string `json:"name"`
	DetailsRef string `json:"details_ref,omitempty"`
}

type CandidateResponse struct {
	ElectionID  uint64 `json:"election_id"`
	CandidateID uint64 `json:"candidate_id"`
	Name        string `json:"name"`
	DetailsRef  string `json:"details_ref,omitempty"`
	VoteCount   uint64 `json:"vote_count"`
	Active      bool   `json:"active"`
}

type ListCandidatesResponse struct {
	ElectionID uint64              `json:"election_id"`
	Candidates []CandidateResponse `json:"candidates"`
}

type RegisterVoterRequest struct {
	VerificationRef string `json:"verification_ref,omitempty"`
}

type RegistrationResponse struct {
	ElectionID uint64 `json:"election_id"`
	Voter      string `json:"voter"`
	Status     string `json:"status"`
	ReviewedBy string `json:"reviewed_by,omitempty"`
}

type ReviewRegistrationRequest struct {
	Voter     string `json:"voter"`
	NewStatus string `json:"new_status"`
}

type BulkReviewRequest struct {
	Voters    []string `json:"voters"`
	NewStatus string   `json:"new_status"`
}

type BulkReviewResponse struct {
	ElectionID uint64 `json:"election_id"`
	Updated    int    `json:"updated"`
	Skipped    int    `json:"skipped"`
}

type CastVoteRequest struct {
	CandidateID uint64 `json:"candidate_id"`
}

type CastVoteResponse struct {
	ElectionID uint64 `json:"election_id"`
	Voter      string `json:"voter"`
	Receipt    string `json:"receipt"`
	CastAt     string `json:"cast_at"`
}

type VerifyReceiptRequest struct {
	Receipt string `json:"receipt"`
}

type VerifyReceiptResponse struct {
	ElectionID uint64 `json:"election_id"`
	Voter      string `json:"voter"`
	Valid      bool   `json:"valid"`
}

type HasVotedResponse struct {
	ElectionID uint64 `json:"election_id"`
	Voter      string `json:"voter"`
	HasVoted   bool   `json:"has_voted"`
}

type CandidateTallyItem struct {
	CandidateID uint64 `json:"candidate_id"`
	Name        string `json:"name"`
	VoteCount   uint64 `json:"vote_count"`
	Active      bool   `json:"active"`
}

type ResultsResponse struct {
	ElectionID uint64               `json:"election_id"`
	Status     string               `json:"status"`
	TotalVotes uint64               `json:"total_votes"`
	WinnerID   uint64               `json:"winner_id,omitempty"`
	Tallies    []CandidateTallyItem `json:"tallies"`
}

type FinalizeResponse struct {
	ElectionID uint64 `json:"election_id"`
	Status     string `json:"status"`
	WinnerID   uint64 `json:"winner_id"`
	TotalVotes uint64 `json:"total_votes"`
}
