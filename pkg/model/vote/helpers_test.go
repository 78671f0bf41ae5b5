package vote_test

import (
	"github.com/pkg/errors"

	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/gohornet/votereward/pkg/model/ledger"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
)

var errTransferRejected = errors.New("transfer rejected")

func newLedger() *ledger.Ledger {
	return ledger.New(mapdb.NewMapDB())
}

// failingLedger rejects every transfer to a single principal.
type failingLedger struct {
	*ledger.Ledger
	failTo account.Principal
}

func (l *failingLedger) Transfer(from account.Principal, to account.Principal, token string, amount uint64) error {
	if to == l.failTo {
		return errTransferRejected
	}
	return l.Ledger.Transfer(from, to, token, amount)
}
