package votes

import (
	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/gohornet/votereward/pkg/model/vote"
)

// RegistryResponse defines the response of a GET RouteRegistry REST API call.
type RegistryResponse struct {
	Initialized bool               `json:"initialized"`
	Admin       *account.Principal `json:"admin,omitempty"`
	NextVoteID  uint64             `json:"nextVoteId"`
}

// SetAdminRequest defines the request of a PUT RouteRegistryAdmin REST API call.
type SetAdminRequest struct {
	Admin account.Principal `json:"admin"`
}

// SweepResponse defines the response of a POST RouteRegistrySweep REST API call.
type SweepResponse struct {
	// The number of votes that were finalized.
	Finalized int `json:"finalized"`
}

// VoteIDsResponse defines the response of a GET RouteVotes or RouteVoterVotes REST API call.
type VoteIDsResponse struct {
	VoteIDs []uint64 `json:"voteIds"`
}

// CreateVoteRequest defines the request of a POST RouteVotes REST API call.
type CreateVoteRequest struct {
	// The id the vote gets. It has to match the next vote id, defaults to it if omitted.
	VoteID *uint64 `json:"voteId,omitempty"`
	vote.Parameters
}

// CreateVoteResponse defines the response of a POST RouteVotes REST API call.
type CreateVoteResponse struct {
	VoteID uint64 `json:"voteId"`
}

// SubmitVoteRequest defines the request of a POST RouteVoteSubmissions REST API call.
type SubmitVoteRequest struct {
	OptionIdx uint64 `json:"optionIdx"`
}

// PayoutsResponse defines the response of a GET RouteVotePayouts REST API call.
type PayoutsResponse struct {
	VoteID  uint64         `json:"voteId"`
	Token   string         `json:"token"`
	Payouts []*vote.Payout `json:"payouts"`
}

// SubmittedResponse defines the response of a GET RouteVoterVote REST API call.
type SubmittedResponse struct {
	Submitted bool `json:"submitted"`
}
