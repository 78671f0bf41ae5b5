package vote

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/gohornet/votereward/pkg/model/account"
)

// VoterLedger records which votes each principal already submitted to.
// Entries are created on the first submission of a principal and are never removed.
type VoterLedger struct {
	submitted map[account.Principal]*bitset.BitSet
}

func newVoterLedger() *VoterLedger {
	return &VoterLedger{
		submitted: make(map[account.Principal]*bitset.BitSet),
	}
}

// HasSubmitted tells whether the voter already submitted to the vote.
func (l *VoterLedger) HasSubmitted(voter account.Principal, voteID uint64) bool {
	set, exists := l.submitted[voter]
	if !exists {
		return false
	}
	return set.Test(uint(voteID))
}

// HasAnySubmission tells whether the principal ever submitted to a vote.
func (l *VoterLedger) HasAnySubmission(voter account.Principal) bool {
	_, exists := l.submitted[voter]
	return exists
}

func (l *VoterLedger) markSubmitted(voter account.Principal, voteID uint64) {
	set, exists := l.submitted[voter]
	if !exists {
		set = bitset.New(uint(voteID) + 1)
		l.submitted[voter] = set
	}
	set.Set(uint(voteID))
}

// Submitted returns the ids of all votes the voter submitted to, ascending.
func (l *VoterLedger) Submitted(voter account.Principal) []uint64 {
	set, exists := l.submitted[voter]
	if !exists {
		return nil
	}

	ids := make([]uint64, 0, set.Count())
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		ids = append(ids, uint64(i))
	}
	return ids
}

// VoterCount returns the number of principals that submitted at least once.
func (l *VoterLedger) VoterCount() int {
	return len(l.submitted)
}
