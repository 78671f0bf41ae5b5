package indexer

import (
	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/gohornet/votereward/pkg/model/vote"
)

type status struct {
	ID uint `gorm:"primaryKey;not null"`
	// the number of indexed events, used to detect a stale index.
	EventCount uint64
}

type voteRecord struct {
	VoteID           uint64 `gorm:"primaryKey;autoIncrement:false"`
	Creator          string `gorm:"index"`
	Title            string
	Policy           string
	Token            string
	StartAt          uint64
	EndAt            uint64
	RewardPerPerson  uint64
	RewardMaxWinners uint64
	Deposited        uint64
	Finalized        bool
	UpdatedAt        uint64
}

type submissionRecord struct {
	ID        uint   `gorm:"primaryKey"`
	VoteID    uint64 `gorm:"index"`
	Voter     string `gorm:"index"`
	OptionIdx uint64
	Timestamp uint64
}

type payoutRecord struct {
	ID        uint   `gorm:"primaryKey"`
	VoteID    uint64 `gorm:"index"`
	Recipient string `gorm:"index"`
	Token     string
	Kind      string
	Amount    uint64
	Timestamp uint64
}

type sweepFailureRecord struct {
	ID     uint   `gorm:"primaryKey"`
	VoteID uint64 `gorm:"index"`
	Error  string
}

// Payout is an indexed transfer out of an escrow.
type Payout struct {
	VoteID    uint64            `json:"voteId"`
	Recipient account.Principal `json:"recipient"`
	Token     string            `json:"token"`
	Kind      string            `json:"kind"`
	Amount    uint64            `json:"amount"`
	Timestamp uint64            `json:"timestamp"`
}

// Submission is an indexed submission.
type Submission struct {
	VoteID    uint64            `json:"voteId"`
	Voter     account.Principal `json:"voter"`
	OptionIdx uint64            `json:"optionIdx"`
	Timestamp uint64            `json:"timestamp"`
}

// RecipientTotal is the sum of rewards a principal received per token.
type RecipientTotal struct {
	Recipient string `json:"recipient"`
	Token     string `json:"token"`
	Total     uint64 `json:"total"`
	Count     uint64 `json:"count"`
}

func (p *payoutRecord) payout() (*Payout, error) {
	recipient, err := account.ParsePrincipal(p.Recipient)
	if err != nil {
		return nil, err
	}
	return &Payout{
		VoteID:    p.VoteID,
		Recipient: recipient,
		Token:     p.Token,
		Kind:      p.Kind,
		Amount:    p.Amount,
		Timestamp: p.Timestamp,
	}, nil
}

func (s *submissionRecord) submission() (*Submission, error) {
	voter, err := account.ParsePrincipal(s.Voter)
	if err != nil {
		return nil, err
	}
	return &Submission{
		VoteID:    s.VoteID,
		Voter:     voter,
		OptionIdx: s.OptionIdx,
		Timestamp: s.Timestamp,
	}, nil
}

func newVoteRecord(info *vote.VoteInfo) *voteRecord {
	return &voteRecord{
		VoteID:           info.ID,
		Creator:          info.Creator.String(),
		Title:            info.Title,
		Policy:           info.Policy.String(),
		Token:            info.Token,
		StartAt:          info.StartAt,
		EndAt:            info.EndAt,
		RewardPerPerson:  info.RewardPerPerson,
		RewardMaxWinners: info.RewardMaxWinners,
		Deposited:        info.Deposited,
		Finalized:        info.Finalized,
	}
}
