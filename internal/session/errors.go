package session

import "fmt"

// ValidationError is a client-side precondition failure. No network call
// was made; the user can correct the input and retry.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// WrongPhaseError reports an operation attempted from a phase it is not legal
// in, e.g. submitting while a load is still in flight.
type WrongPhaseError struct {
	Op   string
	From Phase
}

func (e *WrongPhaseError) Error() string {
	return fmt.Sprintf("%s not allowed in phase %s", e.Op, e.From)
}
