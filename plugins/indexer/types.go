package indexer

import (
	"github.com/gohornet/votereward/pkg/indexer"
)

// PayoutsResponse defines the response of the payout routes.
type PayoutsResponse struct {
	Payouts []*indexer.Payout `json:"payouts"`
}

// SubmissionsResponse defines the response of a GET submissions REST API call.
type SubmissionsResponse struct {
	Submissions []*indexer.Submission `json:"submissions"`
}

// VoteIDsResponse defines the response of a GET creator votes REST API call.
type VoteIDsResponse struct {
	VoteIDs []uint64 `json:"voteIds"`
}

// RewardTotalsResponse defines the response of a GET reward totals REST API call.
type RewardTotalsResponse struct {
	Totals []*indexer.RecipientTotal `json:"totals"`
}

// SweepFailuresResponse defines the response of a GET sweep failures REST API call.
type SweepFailuresResponse struct {
	VoteID   uint64 `json:"voteId"`
	Failures int64  `json:"failures"`
}

// StatusResponse defines the response of a GET status REST API call.
type StatusResponse struct {
	EventCount uint64 `json:"eventCount"`
}
