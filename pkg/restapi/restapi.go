package restapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gohornet/votereward/pkg/jwt"
	"github.com/gohornet/votereward/pkg/model/account"
)

const (
	// ParameterVoteID is used to identify a vote by its ID.
	ParameterVoteID = "voteID"

	// ParameterOptionIndex is used to identify an option of a vote.
	ParameterOptionIndex = "optionIdx"

	// ParameterPrincipal is used to identify an account.
	ParameterPrincipal = "principal"

	// ParameterToken is used to identify a token.
	ParameterToken = "token"

	// QueryParameterStatus is used to filter for vote statuses, comma separated.
	QueryParameterStatus = "status"

	// QueryParameterLimit is used to limit the number of returned entries.
	QueryParameterLimit = "limit"
)

var (
	// ErrInvalidParameter defines the invalid parameter error.
	ErrInvalidParameter = echo.NewHTTPError(http.StatusBadRequest, "invalid parameter")

	// ErrUnauthorized defines the error for requests without a valid caller identity.
	ErrUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")

	// ErrForbidden defines the forbidden error.
	ErrForbidden = echo.NewHTTPError(http.StatusForbidden, "forbidden")

	// ErrNotFound defines the not found error.
	ErrNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")

	// ErrConflict defines the error for requests that conflict with the current state.
	ErrConflict = echo.NewHTTPError(http.StatusConflict, "conflict")

	// ErrServiceNotImplemented defines the service not implemented error.
	ErrServiceNotImplemented = echo.NewHTTPError(http.StatusNotImplemented, "service not implemented")

	// ErrServiceUnavailable defines the service unavailable error.
	ErrServiceUnavailable = echo.NewHTTPError(http.StatusServiceUnavailable, "service unavailable")
)

// JSONResponse sends the JSON response with status code.
func JSONResponse(c echo.Context, statusCode int, result interface{}) error {
	return c.JSON(statusCode, result)
}

// HTTPErrorResponse defines the error struct for the HTTPErrorResponseEnvelope.
type HTTPErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HTTPErrorResponseEnvelope defines the error response schema for API responses.
type HTTPErrorResponseEnvelope struct {
	Error HTTPErrorResponse `json:"error"`
}

type (
	// AllowedRoute defines a function to allow or disallow routes.
	AllowedRoute func(echo.Context) bool
)

func ErrorHandler() func(error, echo.Context) {
	return func(err error, c echo.Context) {

		var statusCode int
		var message string

		var e *echo.HTTPError
		if errors.As(err, &e) {
			statusCode = e.Code
			message = fmt.Sprintf("%s, error: %s", e.Message, err)
		} else {
			statusCode = http.StatusInternalServerError
			message = fmt.Sprintf("internal server error. error: %s", err)
		}

		_ = c.JSON(statusCode, HTTPErrorResponseEnvelope{Error: HTTPErrorResponse{Code: strconv.Itoa(statusCode), Message: message}})
	}
}

func GetRequestContentType(c echo.Context, supportedContentTypes ...string) (string, error) {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	for _, supportedContentType := range supportedContentTypes {
		if strings.HasPrefix(ctype, supportedContentType) {
			return supportedContentType, nil
		}
	}
	return "", echo.ErrUnsupportedMediaType
}

// ParseJSONRequest decodes the JSON body of the request into the given value.
func ParseJSONRequest(c echo.Context, request interface{}) error {
	if _, err := GetRequestContentType(c, echo.MIMEApplicationJSON); err != nil {
		return err
	}
	if err := c.Bind(request); err != nil {
		return errors.WithMessagef(ErrInvalidParameter, "invalid request, error: %s", err)
	}
	return nil
}

func ParseUint64Param(c echo.Context, paramName string) (uint64, error) {
	param := strings.ToLower(c.Param(paramName))
	if param == "" {
		return 0, errors.WithMessagef(ErrInvalidParameter, "parameter \"%s\" not specified", paramName)
	}

	value, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, errors.WithMessagef(ErrInvalidParameter, "invalid %s: %s, error: %s", paramName, param, err)
	}
	return value, nil
}

func ParseVoteIDParam(c echo.Context) (uint64, error) {
	return ParseUint64Param(c, ParameterVoteID)
}

func ParseOptionIndexParam(c echo.Context) (uint64, error) {
	return ParseUint64Param(c, ParameterOptionIndex)
}

func ParsePrincipalParam(c echo.Context) (account.Principal, error) {
	principalParam := strings.ToLower(c.Param(ParameterPrincipal))

	principal, err := account.ParsePrincipal(principalParam)
	if err != nil {
		return account.NullPrincipal, errors.WithMessagef(ErrInvalidParameter, "invalid principal: %s, error: %s", principalParam, err)
	}
	return principal, nil
}

func ParseTokenParam(c echo.Context) (string, error) {
	tokenParam := c.Param(ParameterToken)
	if tokenParam == "" {
		return "", errors.WithMessagef(ErrInvalidParameter, "parameter \"%s\" not specified", ParameterToken)
	}

	token, err := url.PathUnescape(tokenParam)
	if err != nil {
		return "", errors.WithMessagef(ErrInvalidParameter, "invalid token: %s, error: %s", tokenParam, err)
	}
	return token, nil
}

// ParseStatusQueryParam returns the comma separated statuses, nil if none were given.
func ParseStatusQueryParam(c echo.Context, allowed ...string) ([]string, error) {
	statusParam := strings.ToLower(c.QueryParam(QueryParameterStatus))
	if statusParam == "" {
		return nil, nil
	}

	var statuses []string
	for _, status := range strings.Split(statusParam, ",") {
		status = strings.TrimSpace(status)
		if !contains(allowed, status) {
			return nil, errors.WithMessagef(ErrInvalidParameter, "invalid status: %s", status)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func ParseLimitQueryParam(c echo.Context, maxLimit int) (int, error) {
	limitParam := c.QueryParam(QueryParameterLimit)
	if limitParam == "" {
		return maxLimit, nil
	}

	limit, err := strconv.Atoi(limitParam)
	if err != nil || limit <= 0 {
		return 0, errors.WithMessagef(ErrInvalidParameter, "invalid limit: %s", limitParam)
	}
	if limit > maxLimit {
		return maxLimit, nil
	}
	return limit, nil
}

// CallerFromContext returns the principal the request was authenticated as.
func CallerFromContext(c echo.Context) (account.Principal, error) {
	subject, ok := jwt.SubjectFromContext(c)
	if !ok {
		return account.NullPrincipal, ErrUnauthorized
	}

	caller, err := account.ParsePrincipal(subject)
	if err != nil {
		return account.NullPrincipal, errors.WithMessagef(ErrUnauthorized, "invalid caller: %s", subject)
	}
	return caller, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
