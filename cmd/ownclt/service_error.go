// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/ownclt/ownclt/internal/issue"
)

// ServiceError tags an error with the issue catalog entry the shell shows
// for it in verbose mode. Create it with newServiceError.
type ServiceError struct {
	// Err is the underlying error (never nil).
	Err error
	// IssueID selects the catalog entry; zero means "classify Err".
	IssueID issue.Id
}

// newServiceError wraps err. It panics on a nil err.
func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }
