package webmail

import (
	"errors"
	"fmt"
)

// ErrLoginRequired is returned when the mail surface demands authentication
// and the session is headless, so nobody can complete the login form.
var ErrLoginRequired = errors.New("webmail: login required; run `outreach login` headed first")

// StateError reports an operation attempted in the wrong session state.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("webmail: %s not allowed in state %s", e.Op, e.State)
}

// ElementError reports a compose-surface element whose fallback chain was
// exhausted. The step names which lookup failed, not which selector.
type ElementError struct {
	Step string
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("webmail: could not resolve %s; the mail UI may have changed", e.Step)
}

// IsElementError reports whether err is an exhausted-fallback-chain failure.
func IsElementError(err error) bool {
	var ee *ElementError
	return errors.As(err, &ee)
}
