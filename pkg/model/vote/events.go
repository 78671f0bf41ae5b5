package vote

import (
	"github.com/iotaledger/hive.go/events"

	"github.com/gohornet/votereward/pkg/model/account"
)

// Events are the events issued by the vote registry.
// They are triggered after the operation committed and outside of the registry lock.
type Events struct {
	// Fired when a vote was created.
	VoteCreated *events.Event
	// Fired when a vote was edited before its start.
	VoteEdited *events.Event
	// Fired when a submission was accepted.
	VoteSubmitted *events.Event
	// Fired when a vote was finalized, explicitly or by a sweep.
	VoteFinalized *events.Event
	// Fired for every reward paid out of an escrow.
	RewardPaid *events.Event
	// Fired when funds were returned from an escrow, at finalization or on a shrinking edit.
	EscrowRefunded *events.Event
	// Fired when an expired vote could not be finalized by a sweep.
	SweepFailed *events.Event
	// Fired when the admin changed.
	AdminChanged *events.Event
}

func newEvents() *Events {
	return &Events{
		VoteCreated:    events.NewEvent(VoteInfoCaller),
		VoteEdited:     events.NewEvent(VoteInfoCaller),
		VoteSubmitted:  events.NewEvent(SubmissionCaller),
		VoteFinalized:  events.NewEvent(VoteInfoCaller),
		RewardPaid:     events.NewEvent(PayoutCaller),
		EscrowRefunded: events.NewEvent(PayoutCaller),
		SweepFailed:    events.NewEvent(SweepFailureCaller),
		AdminChanged:   events.NewEvent(AdminChangeCaller),
	}
}

// SubmissionEvent is an accepted submission.
type SubmissionEvent struct {
	VoteID     uint64
	Submission *SubmissionRecord
}

// PayoutEvent is a transfer out of an escrow.
type PayoutEvent struct {
	VoteID uint64
	Token  string
	Payout *Payout
}

// SweepFailure is an expired vote that could not be finalized.
type SweepFailure struct {
	VoteID uint64
	Error  error
}

// AdminChange is a reassignment of the admin.
type AdminChange struct {
	Previous account.Principal
	Admin    account.Principal
}

func VoteInfoCaller(handler interface{}, params ...interface{}) {
	handler.(func(*VoteInfo))(params[0].(*VoteInfo))
}

func SubmissionCaller(handler interface{}, params ...interface{}) {
	handler.(func(*SubmissionEvent))(params[0].(*SubmissionEvent))
}

func PayoutCaller(handler interface{}, params ...interface{}) {
	handler.(func(*PayoutEvent))(params[0].(*PayoutEvent))
}

func SweepFailureCaller(handler interface{}, params ...interface{}) {
	handler.(func(*SweepFailure))(params[0].(*SweepFailure))
}

func AdminChangeCaller(handler interface{}, params ...interface{}) {
	handler.(func(*AdminChange))(params[0].(*AdminChange))
}
