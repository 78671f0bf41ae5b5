package vote

import (
	"github.com/gohornet/votereward/pkg/model/account"
)

// VoteInfo is a snapshot of a vote.
type VoteInfo struct {
	ID               uint64            `json:"id"`
	Creator          account.Principal `json:"creator"`
	Title            string            `json:"title"`
	StartAt          uint64            `json:"startAt"`
	EndAt            uint64            `json:"endAt"`
	Policy           RewardPolicy      `json:"policy"`
	Token            string            `json:"token"`
	RewardPerPerson  uint64            `json:"rewardPerPerson"`
	RewardMaxWinners uint64            `json:"rewardMaxWinners"`
	Options          []string          `json:"options"`
	Tallies          []uint64          `json:"tallies"`
	Escrow           account.Principal `json:"escrow"`
	EscrowBalance    uint64            `json:"escrowBalance"`
	Deposited        uint64            `json:"deposited"`
	Paid             uint64            `json:"paid"`
	PaidCount        uint64            `json:"paidCount"`
	Refunded         uint64            `json:"refunded"`
	Withdrawn        uint64            `json:"withdrawn"`
	SubmissionCount  uint64            `json:"submissionCount"`
	Finalized        bool              `json:"finalized"`
	Status           string            `json:"status"`
}

// OptionActions are the submissions on a single option as parallel lists.
type OptionActions struct {
	Voters     []account.Principal `json:"voters"`
	Timestamps []uint64            `json:"timestamps"`
}

func newVoteInfo(v *Vote, escrowBalance uint64, now uint64) *VoteInfo {
	return &VoteInfo{
		ID:               v.ID,
		Creator:          v.Creator,
		Title:            v.Title,
		StartAt:          v.StartAt,
		EndAt:            v.EndAt,
		Policy:           v.Policy,
		Token:            v.Token,
		RewardPerPerson:  v.RewardPerPerson,
		RewardMaxWinners: v.RewardMaxWinners,
		Options:          v.OptionTexts(),
		Tallies:          v.Tallies(),
		Escrow:           v.Escrow(),
		EscrowBalance:    escrowBalance,
		Deposited:        v.Deposited,
		Paid:             v.Paid,
		PaidCount:        v.PaidCount,
		Refunded:         v.Refunded,
		Withdrawn:        v.Withdrawn,
		SubmissionCount:  uint64(len(v.Submissions)),
		Finalized:        v.Finalized,
		Status:           v.Status(now),
	}
}

func newOptionActions(v *Vote, optionIdx uint64) *OptionActions {
	submissions := v.OptionSubmissions(optionIdx)

	actions := &OptionActions{
		Voters:     make([]account.Principal, len(submissions)),
		Timestamps: make([]uint64, len(submissions)),
	}
	for i, submission := range submissions {
		actions.Voters[i] = submission.Voter
		actions.Timestamps[i] = submission.Timestamp
	}
	return actions
}
