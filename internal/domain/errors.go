package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Session errors
	ErrMsgSessionActive  = "a reveal is already in progress"
	ErrMsgSessionIdle    = "no finished reveal to acknowledge"
	ErrMsgNoTargets      = "no targets to animate"
	ErrMsgWidgetNotFound = "widget not found"
	ErrMsgWidgetClosed   = "widget is closed"

	// Outcome errors
	ErrMsgProviderFailure   = "outcome provider failed"
	ErrMsgInvalidOutcome    = "invalid outcome payload"
	ErrMsgTargetNotEligible = "target not found among eligible entries"
	ErrMsgOutcomeMismatch   = "outcome does not match the displayed pool"
	ErrMsgSectorMismatch    = "wheel angle does not land on the declared sector"

	// Input errors
	ErrMsgInvalidMode  = "invalid mode"
	ErrMsgInvalidInput = "invalid input"
	ErrMsgEmptyPool    = "candidate pool is empty"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrSessionActive  = errors.New(ErrMsgSessionActive)
	ErrSessionIdle    = errors.New(ErrMsgSessionIdle)
	ErrNoTargets      = errors.New(ErrMsgNoTargets)
	ErrWidgetNotFound = errors.New(ErrMsgWidgetNotFound)
	ErrWidgetClosed   = errors.New(ErrMsgWidgetClosed)

	ErrProviderFailure   = errors.New(ErrMsgProviderFailure)
	ErrInvalidOutcome    = errors.New(ErrMsgInvalidOutcome)
	ErrTargetNotEligible = errors.New(ErrMsgTargetNotEligible)
	ErrOutcomeMismatch   = errors.New(ErrMsgOutcomeMismatch)
	ErrSectorMismatch    = errors.New(ErrMsgSectorMismatch)

	ErrInvalidMode  = errors.New(ErrMsgInvalidMode)
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
	ErrEmptyPool    = errors.New(ErrMsgEmptyPool)
)
