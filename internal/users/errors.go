package users

import (
	"errors"
	"fmt"
	"strings"
)

// Fixed messages written to the error channel, one per operation.
const (
	MsgFetchFailed  = "Failed to fetch users."
	MsgAddFailed    = "Failed to add user."
	MsgUpdateFailed = "Failed to update user."
	MsgDeleteFailed = "Failed to delete user."
)

var (
	// ErrUnknownUser is returned by EditByID for ids absent from the mirror.
	ErrUnknownUser = errors.New("users: no such user in mirror")
	// ErrNoSelection is returned by Update when the form carries no id.
	ErrNoSelection = errors.New("users: no user selected for update")
	// ErrStaleFetch is returned when a fetch result is dropped because the mirror changed.
	ErrStaleFetch = errors.New("users: fetch result is stale")
	// ErrUnknownField is returned by SetField for names outside the form.
	ErrUnknownField = errors.New("users: unknown form field")
)

// ActionError reports a failed Remote Directory call. Message is what the error channel shows.
type ActionError struct {
	Op      string
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// ValidationError lists the required form fields that were blank.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "users: required fields missing: " + strings.Join(e.Fields, ", ")
}
