package vote

const (
	// Holds the protocol config (admin)
	VoteStoreKeyPrefixConfig byte = 0

	// Holds the next vote id
	VoteStoreKeyPrefixNextID byte = 1

	// Holds the votes without their submissions and payouts
	VoteStoreKeyPrefixVotes byte = 2

	// Append-only logs per vote
	VoteStoreKeyPrefixSubmissions byte = 3
	VoteStoreKeyPrefixPayouts     byte = 5

	// Tracks which votes a principal submitted to
	VoteStoreKeyPrefixVoterLedger byte = 4
)
