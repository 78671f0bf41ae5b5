package vote

import (
	"github.com/gohornet/votereward/pkg/model/account"
)

// Ledger is the asset custody the registry moves funds with.
type Ledger interface {
	Balance(principal account.Principal, token string) (uint64, error)
	Transfer(from account.Principal, to account.Principal, token string, amount uint64) error
}

// escrow is the handle to the funds held by a single vote.
// It is never handed out, so funds leave it only through the registry.
type escrow struct {
	principal account.Principal
	token     string
}

func newEscrow(creator account.Principal, voteID uint64, token string) *escrow {
	return &escrow{
		principal: account.EscrowPrincipal(creator, voteID),
		token:     token,
	}
}

// transfer is a single executed ledger transfer.
type transfer struct {
	from   account.Principal
	to     account.Principal
	amount uint64
}

// transferJournal executes transfers of one token and can revert all of them,
// so an operation that fails halfway leaves no trace in the ledger.
type transferJournal struct {
	ledger   Ledger
	token    string
	executed []*transfer
}

func newTransferJournal(ledger Ledger, token string) *transferJournal {
	return &transferJournal{ledger: ledger, token: token}
}

func (j *transferJournal) transfer(from account.Principal, to account.Principal, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := j.ledger.Transfer(from, to, j.token, amount); err != nil {
		return err
	}
	j.executed = append(j.executed, &transfer{from: from, to: to, amount: amount})
	return nil
}

func (j *transferJournal) deposit(e *escrow, from account.Principal, amount uint64) error {
	return j.transfer(from, e.principal, amount)
}

func (j *transferJournal) release(e *escrow, to account.Principal, amount uint64) error {
	return j.transfer(e.principal, to, amount)
}

// revert undoes the executed transfers in reverse order.
func (j *transferJournal) revert() error {
	for i := len(j.executed) - 1; i >= 0; i-- {
		t := j.executed[i]
		if err := j.ledger.Transfer(t.to, t.from, j.token, t.amount); err != nil {
			return err
		}
	}
	j.executed = nil
	return nil
}
