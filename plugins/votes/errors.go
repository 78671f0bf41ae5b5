package votes

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gohornet/votereward/pkg/model/ledger"
	"github.com/gohornet/votereward/pkg/model/vote"
	"github.com/gohornet/votereward/pkg/restapi"
)

// httpError maps the errors of the vote registry onto HTTP errors.
// Errors without a mapping are returned unchanged and end up as internal server errors.
func httpError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *echo.HTTPError
	switch {
	case errors.Is(err, vote.ErrVoteNotFound):
		httpErr = restapi.ErrNotFound
	case errors.Is(err, vote.ErrPermissionDenied):
		httpErr = restapi.ErrForbidden
	case errors.Is(err, vote.ErrAlreadyInitialized),
		errors.Is(err, vote.ErrNotInitialized),
		errors.Is(err, vote.ErrAlreadyVoted),
		errors.Is(err, vote.ErrAlreadyStarted),
		errors.Is(err, vote.ErrInvalidStartTime),
		errors.Is(err, vote.ErrInvalidEndTime),
		errors.Is(err, vote.ErrInvalidState):
		httpErr = restapi.ErrConflict
	case errors.Is(err, vote.ErrInvalidRequest),
		errors.Is(err, vote.ErrInvalidOptionIdx),
		errors.Is(err, vote.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrInvalidToken),
		errors.Is(err, ledger.ErrInvalidAmount):
		httpErr = restapi.ErrInvalidParameter
	default:
		return err
	}

	return errors.WithMessagef(httpErr, "%s", err)
}
