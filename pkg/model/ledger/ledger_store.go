package ledger

import (
	"github.com/pkg/errors"

	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/iotaledger/hive.go/marshalutil"
)

const (
	// Holds the balance per principal and token
	LedgerStoreKeyPrefixBalances byte = 0

	// Holds the minted supply per token
	LedgerStoreKeyPrefixSupply byte = 1
)

func balanceKeyPrefixForPrincipal(principal account.Principal) []byte {
	m := marshalutil.New(1 + account.PrincipalLength)
	m.WriteByte(LedgerStoreKeyPrefixBalances) // 1 byte
	m.WriteBytes(principal[:])                // 32 bytes
	return m.Bytes()
}

func balanceKeyForPrincipal(principal account.Principal, token string) []byte {
	m := marshalutil.New(1 + account.PrincipalLength + len(token))
	m.WriteByte(LedgerStoreKeyPrefixBalances) // 1 byte
	m.WriteBytes(principal[:])                // 32 bytes
	m.WriteBytes([]byte(token))               // max 255 bytes
	return m.Bytes()
}

func tokenFromBalanceKey(key []byte) string {
	return string(key[1+account.PrincipalLength:])
}

func supplyKeyForToken(token string) []byte {
	m := marshalutil.New(1 + len(token))
	m.WriteByte(LedgerStoreKeyPrefixSupply) // 1 byte
	m.WriteBytes([]byte(token))             // max 255 bytes
	return m.Bytes()
}

func amountBytes(amount uint64) []byte {
	m := marshalutil.New(8)
	m.WriteUint64(amount)
	return m.Bytes()
}

func amountFromBytes(value []byte) (uint64, error) {
	amount, err := marshalutil.New(value).ReadUint64()
	if err != nil {
		return 0, errors.Wrap(err, "invalid ledger amount")
	}
	return amount, nil
}
