package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidToken indicates a malformed or unknown service token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnassignedCompany indicates a supervisor identity without a company,
	// a configuration problem distinct from an empty aggregation scope.
	ErrUnassignedCompany = errors.New("no company currently assigned")
)
