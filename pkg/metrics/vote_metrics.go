package metrics

import (
	"go.uber.org/atomic"

	"github.com/gohornet/votereward/pkg/model/vote"
)

// VoteMetrics defines vote metrics over the entire runtime of the node.
type VoteMetrics struct {
	// The number of created votes.
	VotesCreated atomic.Uint64
	// The number of edits on votes that did not start yet.
	VotesEdited atomic.Uint64
	// The number of finalized votes.
	VotesFinalized atomic.Uint64
	// The number of accepted submissions.
	Submissions atomic.Uint64
	// The number of rewards paid to voters.
	RewardsPaid atomic.Uint64
	// The sum of all rewards paid to voters.
	RewardAmount atomic.Uint64
	// The number of transfers back to creators or editors.
	Refunds atomic.Uint64
	// The sum of all refunded amounts.
	RefundAmount atomic.Uint64
	// The number of expired votes a sweep could not finalize.
	SweepFailures atomic.Uint64
}

// Attach counts the events of the registry.
func (m *VoteMetrics) Attach(events *vote.Events) {
	events.VoteCreated.Attach(voteInfoClosure(func(*vote.VoteInfo) { m.VotesCreated.Inc() }))
	events.VoteEdited.Attach(voteInfoClosure(func(*vote.VoteInfo) { m.VotesEdited.Inc() }))
	events.VoteFinalized.Attach(voteInfoClosure(func(*vote.VoteInfo) { m.VotesFinalized.Inc() }))
	events.VoteSubmitted.Attach(submissionClosure(func(*vote.SubmissionEvent) { m.Submissions.Inc() }))
	events.RewardPaid.Attach(payoutClosure(func(event *vote.PayoutEvent) {
		m.RewardsPaid.Inc()
		m.RewardAmount.Add(event.Payout.Amount)
	}))
	events.EscrowRefunded.Attach(payoutClosure(func(event *vote.PayoutEvent) {
		m.Refunds.Inc()
		m.RefundAmount.Add(event.Payout.Amount)
	}))
	events.SweepFailed.Attach(sweepFailureClosure(func(*vote.SweepFailure) { m.SweepFailures.Inc() }))
}
