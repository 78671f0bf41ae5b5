package vote

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/marshalutil"
)

var (
	ErrInvalidVoteRecord = errors.New("invalid vote record")
)

// Config

func configKey() []byte {
	return []byte{VoteStoreKeyPrefixConfig}
}

func nextIDKey() []byte {
	return []byte{VoteStoreKeyPrefixNextID}
}

func (r *Registry) loadConfig() (*ProtocolConfig, error) {
	value, err := r.store.Get(configKey())
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	admin, err := readPrincipal(marshalutil.New(value))
	if err != nil {
		return nil, err
	}
	return &ProtocolConfig{Admin: admin}, nil
}

func storeConfig(config *ProtocolConfig, mutations kvstore.BatchedMutations) error {
	return mutations.Set(configKey(), config.Admin[:])
}

func (r *Registry) loadNextID() (uint64, error) {
	value, err := r.store.Get(nextIDKey())
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return marshalutil.New(value).ReadUint64()
}

func storeNextID(nextID uint64, mutations kvstore.BatchedMutations) error {
	m := marshalutil.New(8)
	m.WriteUint64(nextID)
	return mutations.Set(nextIDKey(), m.Bytes())
}

// Votes

func voteKeyForID(voteID uint64) []byte {
	m := marshalutil.New(9)
	m.WriteByte(VoteStoreKeyPrefixVotes) // 1 byte
	m.WriteUint64(voteID)                // 8 bytes
	return m.Bytes()
}

func voteBytes(v *Vote) []byte {
	m := marshalutil.New()
	m.WriteBytes(v.Creator[:])
	writeString16(m, v.Title)
	m.WriteUint64(v.StartAt)
	m.WriteUint64(v.EndAt)
	m.WriteByte(v.Policy.Code())
	m.WriteUint8(uint8(len(v.Token)))
	m.WriteBytes([]byte(v.Token))
	m.WriteUint64(v.RewardPerPerson)
	m.WriteUint64(v.RewardMaxWinners)
	m.WriteBool(v.Finalized)
	m.WriteUint64(v.Deposited)
	m.WriteUint64(v.Paid)
	m.WriteUint64(v.PaidCount)
	m.WriteUint64(v.Refunded)
	m.WriteUint64(v.Withdrawn)
	m.WriteUint16(uint16(len(v.Options)))
	for _, option := range v.Options {
		writeString16(m, option.Text)
		m.WriteUint64(option.VoteCount)
	}
	return m.Bytes()
}

func voteFromBytes(voteID uint64, data []byte) (*Vote, error) {
	m := marshalutil.New(data)
	v := &Vote{ID: voteID}

	var err error
	if v.Creator, err = readPrincipal(m); err != nil {
		return nil, err
	}
	if v.Title, err = readString16(m); err != nil {
		return nil, err
	}
	if v.StartAt, err = m.ReadUint64(); err != nil {
		return nil, err
	}
	if v.EndAt, err = m.ReadUint64(); err != nil {
		return nil, err
	}
	policyCode, err := m.ReadByte()
	if err != nil {
		return nil, err
	}
	if v.Policy, err = RewardPolicyFromCode(policyCode); err != nil {
		return nil, errors.WithMessage(ErrInvalidVoteRecord, err.Error())
	}
	tokenLength, err := m.ReadUint8()
	if err != nil {
		return nil, err
	}
	token, err := m.ReadBytes(int(tokenLength))
	if err != nil {
		return nil, err
	}
	v.Token = string(token)
	if v.RewardPerPerson, err = m.ReadUint64(); err != nil {
		return nil, err
	}
	if v.RewardMaxWinners, err = m.ReadUint64(); err != nil {
		return nil, err
	}
	if v.Finalized, err = m.ReadBool(); err != nil {
		return nil, err
	}
	for _, counter := range []*uint64{&v.Deposited, &v.Paid, &v.PaidCount, &v.Refunded, &v.Withdrawn} {
		if *counter, err = m.ReadUint64(); err != nil {
			return nil, err
		}
	}

	optionsCount, err := m.ReadUint16()
	if err != nil {
		return nil, err
	}
	v.Options = make([]*OptionRecord, optionsCount)
	for i := range v.Options {
		text, err := readString16(m)
		if err != nil {
			return nil, err
		}
		count, err := m.ReadUint64()
		if err != nil {
			return nil, err
		}
		v.Options[i] = &OptionRecord{Text: text, VoteCount: count}
	}

	v.escrow = newEscrow(v.Creator, v.ID, v.Token)
	return v, nil
}

func storeVote(v *Vote, mutations kvstore.BatchedMutations) error {
	return mutations.Set(voteKeyForID(v.ID), voteBytes(v))
}

// Submissions

func submissionKey(voteID uint64, seq uint64) []byte {
	m := marshalutil.New(17)
	m.WriteByte(VoteStoreKeyPrefixSubmissions) // 1 byte
	m.WriteUint64(voteID)                      // 8 bytes
	m.WriteUint64(seq)                         // 8 bytes
	return m.Bytes()
}

func storeSubmission(voteID uint64, seq uint64, submission *SubmissionRecord, mutations kvstore.BatchedMutations) error {
	m := marshalutil.New(account.PrincipalLength + 16)
	m.WriteBytes(submission.Voter[:])
	m.WriteUint64(submission.OptionIdx)
	m.WriteUint64(submission.Timestamp)
	return mutations.Set(submissionKey(voteID, seq), m.Bytes())
}

func submissionFromBytes(data []byte) (*SubmissionRecord, error) {
	m := marshalutil.New(data)
	submission := &SubmissionRecord{}

	var err error
	if submission.Voter, err = readPrincipal(m); err != nil {
		return nil, err
	}
	if submission.OptionIdx, err = m.ReadUint64(); err != nil {
		return nil, err
	}
	if submission.Timestamp, err = m.ReadUint64(); err != nil {
		return nil, err
	}
	return submission, nil
}

// Payouts

func payoutKey(voteID uint64, seq uint64) []byte {
	m := marshalutil.New(17)
	m.WriteByte(VoteStoreKeyPrefixPayouts) // 1 byte
	m.WriteUint64(voteID)                  // 8 bytes
	m.WriteUint64(seq)                     // 8 bytes
	return m.Bytes()
}

func storePayout(voteID uint64, seq uint64, payout *Payout, mutations kvstore.BatchedMutations) error {
	m := marshalutil.New(account.PrincipalLength + 17)
	m.WriteBytes(payout.Recipient[:])
	m.WriteUint64(payout.Amount)
	m.WriteByte(byte(payout.Kind))
	m.WriteUint64(payout.Timestamp)
	return mutations.Set(payoutKey(voteID, seq), m.Bytes())
}

func payoutFromBytes(data []byte) (*Payout, error) {
	m := marshalutil.New(data)
	payout := &Payout{}

	var err error
	if payout.Recipient, err = readPrincipal(m); err != nil {
		return nil, err
	}
	if payout.Amount, err = m.ReadUint64(); err != nil {
		return nil, err
	}
	kind, err := m.ReadByte()
	if err != nil {
		return nil, err
	}
	payout.Kind = PayoutKind(kind)
	if payout.Timestamp, err = m.ReadUint64(); err != nil {
		return nil, err
	}
	return payout, nil
}

// VoterLedger

func voterLedgerKey(voter account.Principal, voteID uint64) []byte {
	m := marshalutil.New(1 + account.PrincipalLength + 8)
	m.WriteByte(VoteStoreKeyPrefixVoterLedger) // 1 byte
	m.WriteBytes(voter[:])                     // 32 bytes
	m.WriteUint64(voteID)                      // 8 bytes
	return m.Bytes()
}

func storeVoterLedgerEntry(voter account.Principal, voteID uint64, mutations kvstore.BatchedMutations) error {
	return mutations.Set(voterLedgerKey(voter, voteID), []byte{})
}

// splits a log key into vote id and sequence number.
func logKeyIDs(key kvstore.Key) (uint64, uint64, error) {
	m := marshalutil.New(key[1:]) // Skip the prefix
	voteID, err := m.ReadUint64()
	if err != nil {
		return 0, 0, err
	}
	seq, err := m.ReadUint64()
	if err != nil {
		return 0, 0, err
	}
	return voteID, seq, nil
}

type sequencedSubmission struct {
	seq        uint64
	submission *SubmissionRecord
}

type sequencedPayout struct {
	seq    uint64
	payout *Payout
}

// loadVotes reads all votes with their logs. The store iteration order is not defined,
// so the logs are sorted by their sequence numbers afterwards.
func (r *Registry) loadVotes(nextID uint64) ([]*Vote, error) {

	votes := make([]*Vote, nextID)

	var innerErr error
	if err := r.store.Iterate(kvstore.KeyPrefix{VoteStoreKeyPrefixVotes}, func(key kvstore.Key, value kvstore.Value) bool {
		var voteID uint64
		voteID, innerErr = marshalutil.New(key[1:]).ReadUint64() // Skip the prefix
		if innerErr != nil {
			return false
		}
		if voteID >= nextID {
			innerErr = errors.WithMessagef(ErrInvalidVoteRecord, "vote %d beyond next id %d", voteID, nextID)
			return false
		}

		var v *Vote
		v, innerErr = voteFromBytes(voteID, value)
		if innerErr != nil {
			innerErr = errors.Wrapf(innerErr, "vote %d", voteID)
			return false
		}
		votes[voteID] = v
		return true
	}); err != nil {
		return nil, err
	}
	if innerErr != nil {
		return nil, innerErr
	}

	for voteID, v := range votes {
		if v == nil {
			return nil, errors.WithMessagef(ErrInvalidVoteRecord, "vote %d missing", voteID)
		}
	}

	submissions := make(map[uint64][]*sequencedSubmission)
	if err := r.store.Iterate(kvstore.KeyPrefix{VoteStoreKeyPrefixSubmissions}, func(key kvstore.Key, value kvstore.Value) bool {
		var voteID, seq uint64
		voteID, seq, innerErr = logKeyIDs(key)
		if innerErr != nil {
			return false
		}

		var submission *SubmissionRecord
		submission, innerErr = submissionFromBytes(value)
		if innerErr != nil {
			return false
		}
		submissions[voteID] = append(submissions[voteID], &sequencedSubmission{seq: seq, submission: submission})
		return true
	}); err != nil {
		return nil, err
	}
	if innerErr != nil {
		return nil, innerErr
	}

	payouts := make(map[uint64][]*sequencedPayout)
	if err := r.store.Iterate(kvstore.KeyPrefix{VoteStoreKeyPrefixPayouts}, func(key kvstore.Key, value kvstore.Value) bool {
		var voteID, seq uint64
		voteID, seq, innerErr = logKeyIDs(key)
		if innerErr != nil {
			return false
		}

		var payout *Payout
		payout, innerErr = payoutFromBytes(value)
		if innerErr != nil {
			return false
		}
		payouts[voteID] = append(payouts[voteID], &sequencedPayout{seq: seq, payout: payout})
		return true
	}); err != nil {
		return nil, err
	}
	if innerErr != nil {
		return nil, innerErr
	}

	for voteID, entries := range submissions {
		if voteID >= nextID {
			return nil, errors.WithMessagef(ErrInvalidVoteRecord, "submission for unknown vote %d", voteID)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
		v := votes[voteID]
		for _, entry := range entries {
			v.Submissions = append(v.Submissions, entry.submission)
		}
	}

	for voteID, entries := range payouts {
		if voteID >= nextID {
			return nil, errors.WithMessagef(ErrInvalidVoteRecord, "payout for unknown vote %d", voteID)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
		v := votes[voteID]
		for _, entry := range entries {
			v.Payouts = append(v.Payouts, entry.payout)
		}
	}

	for _, v := range votes {
		v.rebuildOptionIndex()
	}

	return votes, nil
}

func (r *Registry) loadVoterLedger() (*VoterLedger, error) {
	voterLedger := newVoterLedger()

	var innerErr error
	if err := r.store.Iterate(kvstore.KeyPrefix{VoteStoreKeyPrefixVoterLedger}, func(key kvstore.Key, value kvstore.Value) bool {
		m := marshalutil.New(key[1:]) // Skip the prefix

		var voter account.Principal
		voter, innerErr = readPrincipal(m)
		if innerErr != nil {
			return false
		}

		var voteID uint64
		voteID, innerErr = m.ReadUint64()
		if innerErr != nil {
			return false
		}

		voterLedger.markSubmitted(voter, voteID)
		return true
	}); err != nil {
		return nil, err
	}
	if innerErr != nil {
		return nil, innerErr
	}

	return voterLedger, nil
}

func readPrincipal(m *marshalutil.MarshalUtil) (account.Principal, error) {
	bytes, err := m.ReadBytes(account.PrincipalLength)
	if err != nil {
		return account.NullPrincipal, err
	}
	p := account.Principal{}
	copy(p[:], bytes)
	return p, nil
}

func writeString16(m *marshalutil.MarshalUtil, s string) {
	m.WriteUint16(uint16(len(s)))
	m.WriteBytes([]byte(s))
}

func readString16(m *marshalutil.MarshalUtil) (string, error) {
	length, err := m.ReadUint16()
	if err != nil {
		return "", err
	}
	bytes, err := m.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
