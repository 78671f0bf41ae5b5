package mqtt

import (
	"strconv"
	"strings"
)

// Topic names
const (
	topicVotes            = "votes"
	topicVote             = "votes/{voteId}"
	topicVoteSubmissions  = "votes/{voteId}/submissions"
	topicVotePayouts      = "votes/{voteId}/payouts"
	topicVoterSubmissions = "voters/{principal}/submissions"
	topicPrincipalPayouts = "voters/{principal}/payouts"
	topicAdmin            = "registry/admin"
)

func voteTopic(topic string, voteID uint64) string {
	return strings.Replace(topic, "{voteId}", strconv.FormatUint(voteID, 10), 1)
}

func principalTopic(topic string, principal string) string {
	return strings.Replace(topic, "{principal}", principal, 1)
}
