package metrics

import (
	"github.com/iotaledger/hive.go/events"

	"github.com/gohornet/votereward/pkg/model/vote"
)

func voteInfoClosure(f func(*vote.VoteInfo)) *events.Closure {
	return events.NewClosure(f)
}

func submissionClosure(f func(*vote.SubmissionEvent)) *events.Closure {
	return events.NewClosure(f)
}

func payoutClosure(f func(*vote.PayoutEvent)) *events.Closure {
	return events.NewClosure(f)
}

func sweepFailureClosure(f func(*vote.SweepFailure)) *events.Closure {
	return events.NewClosure(f)
}
