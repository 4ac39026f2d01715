// Package errs defines the failure taxonomy shared by the settlement core and
// the HTTP boundary. Entity-absent and access-denied are deliberately the same
// error so that callers cannot probe for the existence of records they may not
// see.
package errs

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound covers both a missing record and a record the caller is
	// not a party to.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers malformed input rejected before any transaction
	// is opened: a missing or non-positive amount, an unrecognized profile
	// type.
	ErrValidation = errors.New("invalid request")

	// ErrBusinessRule covers admissible requests the rules decline:
	// insufficient balance, a deposit over the ceiling, an already-paid job.
	ErrBusinessRule = errors.New("business rule violation")

	// ErrTransaction covers store-level commit or rollback failures.
	ErrTransaction = errors.New("transaction failed")
)

// HTTPStatus maps a core error to the status the boundary reports. Business
// rule rejections surface as 500, matching the observed service behavior.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
