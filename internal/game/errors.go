package game

import "fmt"

// Validation error codes surfaced to the transport layer. They are part of
// the wire contract, so keep them stable.
const (
	CodeOutOfTurn      = "out_of_turn"
	CodeUnknownSeat    = "unknown_seat"
	CodeIllegalAction  = "illegal_action"
	CodeAmountRequired = "amount_required"
	CodeRaiseTooSmall  = "raise_too_small"
	CodeRaiseTooLarge  = "raise_too_large"
	CodeHandComplete   = "hand_complete"
)

// ValidationError reports a rejected player action. The hand state is
// unchanged and the same seat remains on turn.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid action (%s): %s", e.Code, e.Message)
}

func validationErrorf(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// SetupError reports that a hand could not be started, e.g. fewer than two
// funded seats. No state is created.
type SetupError struct {
	Message string
}

func (e *SetupError) Error() string {
	return "cannot start hand: " + e.Message
}

func setupErrorf(format string, args ...any) *SetupError {
	return &SetupError{Message: fmt.Sprintf(format, args...)}
}

// InvariantError reports an internal engine fault: deck exhaustion, a chip
// conservation mismatch, or a turn pointer on an ineligible seat. It is never
// reachable via legal external input; callers should treat it as fatal for
// the hand and log diagnostics rather than retry.
type InvariantError struct {
	Message string
	Cause   error
}

func (e *InvariantError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("engine invariant violated: %s: %v", e.Message, e.Cause)
	}
	return "engine invariant violated: " + e.Message
}

func (e *InvariantError) Unwrap() error {
	return e.Cause
}

func invariantErrorf(cause error, format string, args ...any) *InvariantError {
	return &InvariantError{Message: fmt.Sprintf(format, args...), Cause: cause}
}
