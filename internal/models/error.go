package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound   = errors.New("resource not found")
	ErrBadRequest = errors.New("bad request")
)

// Messages surfaced to the view when the upstream gives nothing better
const (
	MsgFetchFailed       = "Failed to fetch users"
	MsgFetchFilterFailed = "Failed to fetch filtered users"
	MsgUnexpected        = "An unexpected error occurred"
)

// FetchErrorKind classifies why a user listing fetch failed
type FetchErrorKind string

const (
	FetchErrTransport        FetchErrorKind = "transport"
	FetchErrStatusMessage    FetchErrorKind = "status_message"
	FetchErrStatusGeneric    FetchErrorKind = "status_generic"
	FetchErrNotModifiedEmpty FetchErrorKind = "not_modified_empty"
	FetchErrDecode           FetchErrorKind = "decode"
)

// FetchError is returned by the user store. Every kind collapses to a
// single human readable Message.
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ErrorMessage returns the message to show for err, falling back to fallback
// for errors that did not come from a fetch.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return fallback
}
