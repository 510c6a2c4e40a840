package github

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
)

// ErrorKind categorizes a remote API failure.
type ErrorKind string

const (
	KindAuth       ErrorKind = "authentication"
	KindPermission ErrorKind = "permission"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindValidation ErrorKind = "validation"
	KindRateLimit  ErrorKind = "rate_limit"
	KindRemote     ErrorKind = "remote"
)

// APIError is a structured error from a GitHub API call.
type APIError struct {
	Kind     ErrorKind `json:"kind"`
	Resource string    `json:"resource,omitempty"`
	Message  string    `json:"message"`
	Cause    error     `json:"-"`
}

func (e *APIError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Kind, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// wrapAPIError converts a go-github error into an APIError, classifying it by
// HTTP status. The resource string names what was being accessed.
func wrapAPIError(err error, resource string) error {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &APIError{
			Kind:     KindRateLimit,
			Resource: resource,
			Message:  fmt.Sprintf("rate limit exceeded, resets at %v", rateErr.Rate.Reset.Time),
			Cause:    err,
		}
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		kind := KindRemote
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized:
			kind = KindAuth
		case http.StatusForbidden:
			kind = KindPermission
		case http.StatusNotFound:
			kind = KindNotFound
		case http.StatusConflict:
			kind = KindConflict
		case http.StatusUnprocessableEntity:
			kind = KindValidation
		}
		return &APIError{
			Kind:     kind,
			Resource: resource,
			Message:  ghErr.Message,
			Cause:    err,
		}
	}

	return &APIError{
		Kind:     KindRemote,
		Resource: resource,
		Message:  err.Error(),
		Cause:    err,
	}
}

// wrapGraphQLError wraps a GraphQL transport error. The GraphQL client does
// not expose status codes, so everything lands in KindRemote.
func wrapGraphQLError(err error, resource string) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Kind:     KindRemote,
		Resource: resource,
		Message:  err.Error(),
		Cause:    err,
	}
}

// IsNotFound reports whether err is an expected-absence signal.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// IsConflict reports whether err signals the resource already exists. GitHub
// reports duplicate repository names as 422 validation failures rather than
// 409, so both count.
func IsConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind == KindConflict || apiErr.Kind == KindValidation
}
