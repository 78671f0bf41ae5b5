package indexer

import (
	"github.com/gohornet/votereward/pkg/model/account"
)

const (
	// DefaultPageSize is used if no limit was given.
	DefaultPageSize = 100
)

func pageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	return limit
}

func toPayouts(records []*payoutRecord) ([]*Payout, error) {
	payouts := make([]*Payout, 0, len(records))
	for _, record := range records {
		payout, err := record.payout()
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, payout)
	}
	return payouts, nil
}

// PayoutsByRecipient returns the transfers a principal received, newest first.
func (i *Indexer) PayoutsByRecipient(recipient account.Principal, limit int) ([]*Payout, error) {
	var records []*payoutRecord
	if err := i.db.Where("recipient = ?", recipient.String()).Order("id desc").Limit(pageSize(limit)).Find(&records).Error; err != nil {
		return nil, err
	}
	return toPayouts(records)
}

// PayoutsByVote returns the transfers out of a vote's escrow in the order they happened.
func (i *Indexer) PayoutsByVote(voteID uint64) ([]*Payout, error) {
	var records []*payoutRecord
	if err := i.db.Where("vote_id = ?", voteID).Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return toPayouts(records)
}

// SubmissionsByVoter returns the submissions of a principal, newest first.
func (i *Indexer) SubmissionsByVoter(voter account.Principal, limit int) ([]*Submission, error) {
	var records []*submissionRecord
	if err := i.db.Where("voter = ?", voter.String()).Order("id desc").Limit(pageSize(limit)).Find(&records).Error; err != nil {
		return nil, err
	}

	submissions := make([]*Submission, 0, len(records))
	for _, record := range records {
		submission, err := record.submission()
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}
	return submissions, nil
}

// VotesByCreator returns the ids of the votes a principal created.
func (i *Indexer) VotesByCreator(creator account.Principal) ([]uint64, error) {
	var ids []uint64
	if err := i.db.Model(&voteRecord{}).Where("creator = ?", creator.String()).Order("vote_id asc").Pluck("vote_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// RewardTotals returns the rewards received per recipient and token, highest first.
func (i *Indexer) RewardTotals(limit int) ([]*RecipientTotal, error) {
	var totals []*RecipientTotal
	if err := i.db.Model(&payoutRecord{}).
		Select("recipient, token, sum(amount) as total, count(*) as count").
		Where("kind = ?", "reward").
		Group("recipient, token").
		Order("total desc").
		Limit(pageSize(limit)).
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// SweepFailures returns the number of failed sweeps per vote.
func (i *Indexer) SweepFailures(voteID uint64) (int64, error) {
	var count int64
	if err := i.db.Model(&sweepFailureRecord{}).Where("vote_id = ?", voteID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
