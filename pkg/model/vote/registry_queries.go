package vote

import (
	"github.com/pkg/errors"

	"github.com/gohornet/votereward/pkg/model/account"
)

// VoteInfo returns a snapshot of the vote including the current escrow balance.
func (r *Registry) VoteInfo(voteID uint64) (*VoteInfo, error) {
	r.RLock()
	defer r.RUnlock()

	v, err := r.vote(voteID)
	if err != nil {
		return nil, err
	}

	escrowBalance, err := r.ledger.Balance(v.Escrow(), v.Token)
	if err != nil {
		return nil, err
	}

	return newVoteInfo(v, escrowBalance, r.opts.clock.Now()), nil
}

// VoteOptionActions returns who submitted to the option and when, in submission order.
func (r *Registry) VoteOptionActions(voteID uint64, optionIdx uint64) (*OptionActions, error) {
	r.RLock()
	defer r.RUnlock()

	v, err := r.vote(voteID)
	if err != nil {
		return nil, err
	}

	if optionIdx >= uint64(len(v.Options)) {
		return nil, errors.WithMessagef(ErrInvalidOptionIdx, "%d, vote %d has %d options", optionIdx, voteID, len(v.Options))
	}

	return newOptionActions(v, optionIdx), nil
}

// VotePayouts returns all transfers out of the vote's escrow in the order they happened.
func (r *Registry) VotePayouts(voteID uint64) ([]*Payout, error) {
	r.RLock()
	defer r.RUnlock()

	v, err := r.vote(voteID)
	if err != nil {
		return nil, err
	}

	payouts := make([]*Payout, len(v.Payouts))
	for i, payout := range v.Payouts {
		p := *payout
		payouts[i] = &p
	}
	return payouts, nil
}

// Vote returns a copy of the vote.
func (r *Registry) Vote(voteID uint64) (*Vote, error) {
	r.RLock()
	defer r.RUnlock()

	v, err := r.vote(voteID)
	if err != nil {
		return nil, err
	}
	return v.Clone(), nil
}

// VoteIDs returns the ids of all votes, or only of the votes in one of the given statuses.
func (r *Registry) VoteIDs(statuses ...string) []uint64 {
	r.RLock()
	defer r.RUnlock()

	now := r.opts.clock.Now()

	ids := make([]uint64, 0, len(r.votes))
	for _, v := range r.votes {
		if len(statuses) > 0 && !containsStatus(statuses, v.Status(now)) {
			continue
		}
		ids = append(ids, v.ID)
	}
	return ids
}

func containsStatus(statuses []string, status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// VoterVotes returns the ids of all votes the voter submitted to.
func (r *Registry) VoterVotes(voter account.Principal) []uint64 {
	r.RLock()
	defer r.RUnlock()

	return r.voterLedger.Submitted(voter)
}

// HasSubmitted tells whether the voter already submitted to the vote.
func (r *Registry) HasSubmitted(voter account.Principal, voteID uint64) bool {
	r.RLock()
	defer r.RUnlock()

	return r.voterLedger.HasSubmitted(voter, voteID)
}
