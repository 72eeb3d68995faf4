package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation represents rejected input, caught before any transaction opens
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeGuard represents a vote refused by the duplicate/self-vote guard
	ErrorTypeGuard ErrorType = "guard"
	// ErrorTypeNotFound represents a missing vote target or voter
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeTransaction represents graph datastore failures
	ErrorTypeTransaction ErrorType = "transaction"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Validation Errors

// ValidationError is returned when a required argument is missing or malformed
type ValidationError struct {
	*BaseError
	Field string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("%s %s", field, reason), nil),
		Field:     field,
	}
}

// Guard Errors

// GuardReason identifies why the guard refused a vote
type GuardReason string

const (
	ReasonAlreadyVoted GuardReason = "already_voted"
	ReasonNotYetVoted  GuardReason = "not_yet_voted"
	ReasonSelfVote     GuardReason = "self_vote"
)

var guardMessages = map[GuardReason]string{
	ReasonAlreadyVoted: "You have already upvoted this.",
	ReasonNotYetVoted:  "You cannot undo a vote you never cast.",
	ReasonSelfVote:     "You cannot upvote your own content.",
}

// GuardRejection is returned when a vote would duplicate, undo a missing, or self-target a vote
type GuardRejection struct {
	*BaseError
	Reason   GuardReason
	Username string
	TargetID string
}

func NewGuardRejection(reason GuardReason, username, targetID string) *GuardRejection {
	return &GuardRejection{
		BaseError: NewBaseError(ErrorTypeGuard, guardMessages[reason], nil),
		Reason:    reason,
		Username:  username,
		TargetID:  targetID,
	}
}

// NewAlreadyVoted is returned by an upvote on a target the voter already upvoted
func NewAlreadyVoted(username, targetID string) *GuardRejection {
	return NewGuardRejection(ReasonAlreadyVoted, username, targetID)
}

// NewNotYetVoted is returned by an undo on a target the voter never upvoted
func NewNotYetVoted(username, targetID string) *GuardRejection {
	return NewGuardRejection(ReasonNotYetVoted, username, targetID)
}

// NewSelfVote is returned when the voter authored the target
func NewSelfVote(username, targetID string) *GuardRejection {
	return NewGuardRejection(ReasonSelfVote, username, targetID)
}

// Not Found Errors

// NotFoundError is returned when a vote target or voter does not exist
type NotFoundError struct {
	*BaseError
	Entity string
	Key    string
}

func NewNotFound(entity, key string) *NotFoundError {
	return &NotFoundError{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", entity, key), nil),
		Entity:    entity,
		Key:       key,
	}
}

// Transaction Errors

// TransactionError is returned when the graph datastore fails mid-vote
type TransactionError struct {
	*BaseError
	Op string
}

func NewTransactionError(op string, err error) *TransactionError {
	return &TransactionError{
		BaseError: NewBaseError(ErrorTypeTransaction, fmt.Sprintf("transaction failed during %s", op), err),
		Op:        op,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// GenericVoteFailure is shown to users for any failure that is not their fault
const GenericVoteFailure = "Could not complete the vote, try again."

type typed interface {
	errorType() ErrorType
}

func (e *BaseError) errorType() ErrorType { return e.Type }

// IsErrorType checks if an error, or anything it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if t, ok := err.(typed); ok && t.errorType() == errType {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// IsExpected reports whether err is a user-facing outcome rather than a fault
func IsExpected(err error) bool {
	return IsErrorType(err, ErrorTypeValidation) ||
		IsErrorType(err, ErrorTypeGuard) ||
		IsErrorType(err, ErrorTypeNotFound)
}

// UserMessage returns the message safe to show an end user for err
func UserMessage(err error) string {
	var guard *GuardRejection
	if stderrors.As(err, &guard) {
		return guard.Message
	}
	var validation *ValidationError
	if stderrors.As(err, &validation) {
		return validation.Message
	}
	var notFound *NotFoundError
	if stderrors.As(err, &notFound) {
		return notFound.Message
	}
	return GenericVoteFailure
}
