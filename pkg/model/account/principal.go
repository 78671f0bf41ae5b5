package account

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/iotaledger/hive.go/marshalutil"
)

const (
	// PrincipalLength defines the length of a principal address.
	PrincipalLength = blake2b.Size256
)

var (
	// ErrInvalidPrincipal is returned if a principal could not be parsed.
	ErrInvalidPrincipal = errors.New("invalid principal")

	// NullPrincipal is the zero address. It never signs any call.
	NullPrincipal = Principal{}

	escrowDomainSeparator = []byte("vote-escrow")
)

// Principal is the address of an account which can make calls and hold balances.
type Principal [PrincipalLength]byte

// ParsePrincipal parses a hex encoded principal.
// The "0x" prefix is optional and short forms are left padded with zeros ("0x1").
func ParsePrincipal(s string) (Principal, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if len(s) == 0 || len(s) > PrincipalLength*2 {
		return NullPrincipal, errors.WithMessagef(ErrInvalidPrincipal, "length %d", len(s))
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return NullPrincipal, errors.WithMessage(ErrInvalidPrincipal, err.Error())
	}

	p := Principal{}
	copy(p[PrincipalLength-len(b):], b)
	return p, nil
}

// MustParsePrincipal parses a principal and panics on error.
func MustParsePrincipal(s string) Principal {
	p, err := ParsePrincipal(s)
	if err != nil {
		panic(err)
	}
	return p
}

// EscrowPrincipal derives the address of the escrow account exclusively owned by a vote.
// Nobody holds a key for this address, funds can only leave it through the vote logic.
func EscrowPrincipal(creator Principal, voteID uint64) Principal {
	m := marshalutil.New(len(escrowDomainSeparator) + PrincipalLength + 8)
	m.WriteBytes(escrowDomainSeparator)
	m.WriteBytes(creator[:])
	m.WriteUint64(voteID)
	return blake2b.Sum256(m.Bytes())
}

func (p Principal) IsNull() bool {
	return p == NullPrincipal
}

// String returns the "0x" prefixed hex representation.
func (p Principal) String() string {
	return "0x" + hex.EncodeToString(p[:])
}

func (p Principal) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Principal) UnmarshalText(text []byte) error {
	parsed, err := ParsePrincipal(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Principal) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Principal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return p.UnmarshalText([]byte(s))
}
