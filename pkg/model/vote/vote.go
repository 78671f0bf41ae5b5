package vote

import (
	"math"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/gohornet/votereward/pkg/model/ledger"
)

const (
	TitleMaxLength      = 255
	OptionTextMaxLength = 255
	OptionsMaxCount     = math.MaxUint16
)

const (
	// StatusUpcoming means the vote did not start yet and can still be edited.
	StatusUpcoming = "upcoming"
	// StatusOpen means the vote accepts submissions.
	StatusOpen = "open"
	// StatusClosed means the vote ended but was not finalized yet.
	StatusClosed = "closed"
	// StatusFinalized means rewards were distributed and the escrow was refunded.
	StatusFinalized = "finalized"
)

// OptionRecord is a declared option and the number of submissions it received.
type OptionRecord struct {
	Text      string `json:"text"`
	VoteCount uint64 `json:"voteCount"`
}

// SubmissionRecord is an accepted submission.
type SubmissionRecord struct {
	Voter     account.Principal `json:"voter"`
	OptionIdx uint64            `json:"optionIdx"`
	Timestamp uint64            `json:"timestamp"`
}

// Vote is a poll with an escrowed reward pool.
type Vote struct {
	ID               uint64
	Creator          account.Principal
	Title            string
	StartAt          uint64
	EndAt            uint64
	Policy           RewardPolicy
	Token            string
	RewardPerPerson  uint64
	RewardMaxWinners uint64
	Options          []*OptionRecord
	Submissions      []*SubmissionRecord
	Payouts          []*Payout
	Finalized        bool

	// Deposited is the cumulative amount ever moved into the escrow.
	Deposited uint64
	// Paid is the cumulative amount of rewards paid out of the escrow.
	Paid uint64
	// PaidCount is the number of rewarded submissions.
	PaidCount uint64
	// Refunded is the amount returned to the creator at finalization.
	Refunded uint64
	// Withdrawn is the amount returned to the editor when the reward pool shrank.
	Withdrawn uint64

	escrow *escrow

	// submission indices per option, in submission order.
	optionSubmissions [][]int
}

// RewardTotal returns the amount a vote with the given reward parameters must escrow.
func RewardTotal(rewardPerPerson uint64, rewardMaxWinners uint64) (uint64, error) {
	hi, total := bits.Mul64(rewardPerPerson, rewardMaxWinners)
	if hi != 0 {
		return 0, errors.WithMessagef(ErrInvalidRequest, "reward total overflows: %d * %d", rewardPerPerson, rewardMaxWinners)
	}
	return total, nil
}

// Escrow returns the address of the account holding the vote's funds.
func (v *Vote) Escrow() account.Principal {
	return v.escrow.principal
}

// RewardTotal returns the amount escrowed for rewards under the current parameters.
func (v *Vote) RewardTotal() uint64 {
	// validated when the parameters were set
	total, _ := RewardTotal(v.RewardPerPerson, v.RewardMaxWinners)
	return total
}

// Status returns the lifecycle status of the vote at the given time.
func (v *Vote) Status(now uint64) string {
	switch {
	case v.Finalized:
		return StatusFinalized
	case now < v.StartAt:
		return StatusUpcoming
	case now <= v.EndAt:
		return StatusOpen
	default:
		return StatusClosed
	}
}

// IsEditable tells whether the options, policy and reward fields may still change.
func (v *Vote) IsEditable(now uint64) bool {
	return now < v.StartAt
}

// IsAcceptingSubmissions tells whether a submission at the given time is inside the window.
func (v *Vote) IsAcceptingSubmissions(now uint64) bool {
	return !v.Finalized && v.StartAt <= now && now <= v.EndAt
}

// IsExpired tells whether the vote should be swept.
func (v *Vote) IsExpired(now uint64) bool {
	return !v.Finalized && v.EndAt < now
}

// OptionSubmissions returns the submissions for the given option in submission order.
func (v *Vote) OptionSubmissions(optionIdx uint64) []*SubmissionRecord {
	if optionIdx >= uint64(len(v.optionSubmissions)) {
		return nil
	}

	indices := v.optionSubmissions[optionIdx]
	submissions := make([]*SubmissionRecord, len(indices))
	for i, idx := range indices {
		submissions[i] = v.Submissions[idx]
	}
	return submissions
}

// Tallies returns the vote count per option.
func (v *Vote) Tallies() []uint64 {
	tallies := make([]uint64, len(v.Options))
	for i, option := range v.Options {
		tallies[i] = option.VoteCount
	}
	return tallies
}

// OptionTexts returns the text per option.
func (v *Vote) OptionTexts() []string {
	texts := make([]string, len(v.Options))
	for i, option := range v.Options {
		texts[i] = option.Text
	}
	return texts
}

func (v *Vote) rebuildOptionIndex() {
	v.optionSubmissions = make([][]int, len(v.Options))
	for i, submission := range v.Submissions {
		if submission.OptionIdx >= uint64(len(v.Options)) {
			continue
		}
		v.optionSubmissions[submission.OptionIdx] = append(v.optionSubmissions[submission.OptionIdx], i)
	}
}

// appends the submission and bumps the tally of its option.
func (v *Vote) addSubmission(submission *SubmissionRecord) {
	v.Submissions = append(v.Submissions, submission)
	v.Options[submission.OptionIdx].VoteCount++
	v.optionSubmissions[submission.OptionIdx] = append(v.optionSubmissions[submission.OptionIdx], len(v.Submissions)-1)
}

// reverts the last addSubmission.
func (v *Vote) removeLastSubmission() {
	last := v.Submissions[len(v.Submissions)-1]
	v.Submissions = v.Submissions[:len(v.Submissions)-1]
	v.Options[last.OptionIdx].VoteCount--
	indices := v.optionSubmissions[last.OptionIdx]
	v.optionSubmissions[last.OptionIdx] = indices[:len(indices)-1]
}

// applyPayout books a payout that was transferred out of the escrow.
func (v *Vote) applyPayout(payout *Payout) {
	switch payout.Kind {
	case PayoutKindReward:
		v.Paid += payout.Amount
		v.PaidCount++
	case PayoutKindRefund:
		v.Refunded += payout.Amount
	case PayoutKindWithdrawal:
		v.Withdrawn += payout.Amount
	}
	v.Payouts = append(v.Payouts, payout)
}

// Clone returns a deep copy of the vote.
func (v *Vote) Clone() *Vote {
	c := *v

	c.Options = make([]*OptionRecord, len(v.Options))
	for i, option := range v.Options {
		o := *option
		c.Options[i] = &o
	}

	c.Submissions = make([]*SubmissionRecord, len(v.Submissions))
	for i, submission := range v.Submissions {
		s := *submission
		c.Submissions[i] = &s
	}

	c.Payouts = make([]*Payout, len(v.Payouts))
	for i, payout := range v.Payouts {
		p := *payout
		c.Payouts[i] = &p
	}

	c.optionSubmissions = make([][]int, len(v.optionSubmissions))
	for i, indices := range v.optionSubmissions {
		c.optionSubmissions[i] = append([]int(nil), indices...)
	}

	return &c
}

// Parameters are the caller supplied fields of a vote.
type Parameters struct {
	Title            string       `json:"title"`
	StartAt          uint64       `json:"startAt"`
	EndAt            uint64       `json:"endAt"`
	Policy           RewardPolicy `json:"policy"`
	Token            string       `json:"token"`
	RewardPerPerson  uint64       `json:"rewardPerPerson"`
	RewardMaxWinners uint64       `json:"rewardMaxWinners"`
	Options          []string     `json:"options"`
}

// Validate checks the parameters and returns the reward total they require.
func (p *Parameters) Validate() (uint64, error) {
	if len(p.Title) > TitleMaxLength {
		return 0, errors.WithMessagef(ErrInvalidRequest, "title too long: %d > %d", len(p.Title), TitleMaxLength)
	}
	if p.StartAt >= p.EndAt {
		return 0, errors.WithMessagef(ErrInvalidEndTime, "end %d must be after start %d", p.EndAt, p.StartAt)
	}
	if _, err := RewardPolicyFromCode(p.Policy.Code()); err != nil {
		return 0, err
	}
	if len(p.Token) == 0 || len(p.Token) > ledger.TokenMaxLength {
		return 0, errors.WithMessagef(ErrInvalidRequest, "invalid token length: %d", len(p.Token))
	}
	if p.RewardMaxWinners == 0 {
		return 0, errors.WithMessage(ErrInvalidRequest, "reward max winners must be greater than zero")
	}
	if len(p.Options) > OptionsMaxCount {
		return 0, errors.WithMessagef(ErrInvalidRequest, "too many options: %d > %d", len(p.Options), OptionsMaxCount)
	}
	for i, text := range p.Options {
		if len(text) > OptionTextMaxLength {
			return 0, errors.WithMessagef(ErrInvalidRequest, "option %d too long: %d > %d", i, len(text), OptionTextMaxLength)
		}
	}

	return RewardTotal(p.RewardPerPerson, p.RewardMaxWinners)
}

func optionRecords(texts []string) []*OptionRecord {
	options := make([]*OptionRecord, len(texts))
	for i, text := range texts {
		options[i] = &OptionRecord{Text: text}
	}
	return options
}
