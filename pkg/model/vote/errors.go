package vote

import (
	"github.com/pkg/errors"
)

var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrAlreadyInitialized = errors.New("the vote registry was already initialized")
	ErrNotInitialized     = errors.New("the vote registry is not initialized")
	ErrAlreadyVoted       = errors.New("the voter already submitted to this vote")
	ErrAlreadyStarted     = errors.New("the vote already started")
	ErrInvalidStartTime   = errors.New("the vote has not started yet")
	ErrInvalidEndTime     = errors.New("the vote already ended")
	ErrInvalidRequest     = errors.New("invalid request")
	// ErrVoteNotFound is a more specific form of ErrInvalidRequest.
	ErrVoteNotFound        = errors.Wrap(ErrInvalidRequest, "vote not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidOptionIdx    = errors.New("invalid option index")
	ErrInvalidState        = errors.New("the vote is already finalized")

	ErrVoteCorruptedStorage = errors.New("the vote database was not shutdown properly")
)
