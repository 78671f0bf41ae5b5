package vote

import (
	"github.com/gohornet/votereward/pkg/model/account"
)

// PayoutKind tells why funds left an escrow.
type PayoutKind byte

const (
	// PayoutKindReward is a reward paid to a voter.
	PayoutKindReward PayoutKind = 0
	// PayoutKindRefund is the remainder returned to the creator at finalization.
	PayoutKindRefund PayoutKind = 1
	// PayoutKindWithdrawal is returned to the editor of a vote whose reward pool shrank.
	PayoutKindWithdrawal PayoutKind = 2
)

func (k PayoutKind) String() string {
	switch k {
	case PayoutKindReward:
		return "reward"
	case PayoutKindRefund:
		return "refund"
	case PayoutKindWithdrawal:
		return "withdrawal"
	default:
		return "unknown"
	}
}

func (k PayoutKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Payout is a transfer out of a vote's escrow.
type Payout struct {
	Recipient account.Principal `json:"recipient"`
	Amount    uint64            `json:"amount"`
	Kind      PayoutKind        `json:"kind"`
	Timestamp uint64            `json:"timestamp"`
}
