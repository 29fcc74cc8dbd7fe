package auth

import (
	"errors"
	"fmt"
)

// Kind is the stable tag callers branch on. Message text is for people and
// carries no contract.
type Kind string

const (
	// KindValidation: the input was rejected before any remote call.
	KindValidation Kind = "validation"

	// KindInvalidCredentials: authentication was rejected. Deliberately
	// covers both unknown username and wrong password so the two cases
	// stay indistinguishable to the caller.
	KindInvalidCredentials Kind = "invalid_credentials"

	// KindNetwork: the record store could not be reached.
	KindNetwork Kind = "network"

	// KindServer: the record store was reached but answered with an
	// unexpected fault.
	KindServer Kind = "server"
)

// Error is the typed failure surfaced by the auth service.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the kind tag from err, or "" when err did not originate in
// this package.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
