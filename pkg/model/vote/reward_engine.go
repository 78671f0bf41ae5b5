package vote

// The reward engine only computes payouts. Moving the funds is up to the registry.

func remainingWinners(v *Vote) uint64 {
	if v.PaidCount >= v.RewardMaxWinners {
		return 0
	}
	return v.RewardMaxWinners - v.PaidCount
}

// FIFOPayout returns the reward for a freshly accepted submission of a FIFO vote.
// It returns nil if the vote is not FIFO, the cap of paid voters is reached
// or the escrow can not cover another reward.
func FIFOPayout(v *Vote, submission *SubmissionRecord, escrowBalance uint64) *Payout {
	if v.Policy != RewardPolicyFIFO {
		return nil
	}
	if remainingWinners(v) == 0 || v.RewardPerPerson == 0 || escrowBalance < v.RewardPerPerson {
		return nil
	}

	return &Payout{
		Recipient: submission.Voter,
		Amount:    v.RewardPerPerson,
		Kind:      PayoutKindReward,
		Timestamp: submission.Timestamp,
	}
}

// MaxVoteCount returns the highest vote count of all options, 0 if there are none.
func MaxVoteCount(v *Vote) uint64 {
	var maxVotes uint64
	for _, option := range v.Options {
		if option.VoteCount > maxVotes {
			maxVotes = option.VoteCount
		}
	}
	return maxVotes
}

// WinnerPayouts computes the rewards of a WINNER vote.
// Submissions on an option with the highest vote count are paid in submission order,
// regardless of which of the tied options they picked.
func WinnerPayouts(v *Vote, escrowBalance uint64, now uint64) []*Payout {
	if v.Policy != RewardPolicyWinner || v.RewardPerPerson == 0 {
		return nil
	}

	maxVotes := MaxVoteCount(v)
	if maxVotes == 0 {
		return nil
	}

	remaining := remainingWinners(v)
	var payouts []*Payout
	for _, submission := range v.Submissions {
		if remaining == 0 || escrowBalance < v.RewardPerPerson {
			break
		}
		if submission.OptionIdx >= uint64(len(v.Options)) {
			continue
		}
		if v.Options[submission.OptionIdx].VoteCount != maxVotes {
			continue
		}

		payouts = append(payouts, &Payout{
			Recipient: submission.Voter,
			Amount:    v.RewardPerPerson,
			Kind:      PayoutKindReward,
			Timestamp: now,
		})
		escrowBalance -= v.RewardPerPerson
		remaining--
	}

	return payouts
}

// FinalizationPayouts returns the transfers that drain the escrow at finalization:
// the WINNER rewards followed by the refund of the remainder to the creator.
func FinalizationPayouts(v *Vote, escrowBalance uint64, now uint64) []*Payout {
	payouts := WinnerPayouts(v, escrowBalance, now)
	for _, payout := range payouts {
		escrowBalance -= payout.Amount
	}

	if escrowBalance > 0 {
		payouts = append(payouts, &Payout{
			Recipient: v.Creator,
			Amount:    escrowBalance,
			Kind:      PayoutKindRefund,
			Timestamp: now,
		})
	}

	return payouts
}
