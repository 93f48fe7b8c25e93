// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateNamespace is the sentinel error wrapped by DuplicateNamespaceError.
	ErrDuplicateNamespace = errors.New("duplicate namespace")
	// ErrNamespaceNotFound is the sentinel error wrapped by NamespaceNotFoundError.
	ErrNamespaceNotFound = errors.New("namespace not found")
	// ErrReservedNamespace is the sentinel error wrapped by ReservedNamespaceError.
	ErrReservedNamespace = errors.New("reserved namespace")
	// ErrInvalidNamespace is the sentinel error wrapped by InvalidNamespaceError.
	ErrInvalidNamespace = errors.New("invalid namespace")
	// ErrInvalidEntry is returned when a CommandEntry has no module file.
	ErrInvalidEntry = errors.New("invalid command entry")
	// ErrLoad is the sentinel error wrapped by LoadError.
	ErrLoad = errors.New("registry load failed")
	// ErrPersistence is the sentinel error wrapped by PersistenceError.
	ErrPersistence = errors.New("registry save failed")
)

type (
	// DuplicateNamespaceError is returned by Register when the namespace is taken.
	DuplicateNamespaceError struct {
		Namespace Namespace
	}

	// NamespaceNotFoundError is returned by Unregister for an unknown namespace.
	NamespaceNotFoundError struct {
		Namespace Namespace
	}

	// ReservedNamespaceError is returned when removing the built-in namespace.
	ReservedNamespaceError struct {
		Namespace Namespace
	}

	// InvalidNamespaceError is returned for empty namespaces or ones containing
	// a path separator or whitespace.
	InvalidNamespaceError struct {
		Value Namespace
	}

	// LoadError is returned when the registry file is missing or corrupt.
	// It matches both ErrLoad and the underlying cause.
	LoadError struct {
		Path string
		Err  error
	}

	// PersistenceError is returned when the registry cannot be written.
	// It matches both ErrPersistence and the underlying cause.
	PersistenceError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface for DuplicateNamespaceError.
func (e *DuplicateNamespaceError) Error() string {
	return fmt.Sprintf("namespace %q already exists", e.Namespace)
}

// Unwrap returns ErrDuplicateNamespace for errors.Is() compatibility.
func (e *DuplicateNamespaceError) Unwrap() error { return ErrDuplicateNamespace }

// Error implements the error interface for NamespaceNotFoundError.
func (e *NamespaceNotFoundError) Error() string {
	return fmt.Sprintf("namespace %q is not linked", e.Namespace)
}

// Unwrap returns ErrNamespaceNotFound for errors.Is() compatibility.
func (e *NamespaceNotFoundError) Unwrap() error { return ErrNamespaceNotFound }

// Error implements the error interface for ReservedNamespaceError.
func (e *ReservedNamespaceError) Error() string {
	return fmt.Sprintf("namespace %q is reserved and cannot be unlinked", e.Namespace)
}

// Unwrap returns ErrReservedNamespace for errors.Is() compatibility.
func (e *ReservedNamespaceError) Unwrap() error { return ErrReservedNamespace }

// Error implements the error interface for InvalidNamespaceError.
func (e *InvalidNamespaceError) Error() string {
	return fmt.Sprintf("invalid namespace %q: must be non-empty without '/' or whitespace", e.Value)
}

// Unwrap returns ErrInvalidNamespace for errors.Is() compatibility.
func (e *InvalidNamespaceError) Unwrap() error { return ErrInvalidNamespace }

// Error implements the error interface for LoadError.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load registry %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrLoad and the cause.
func (e *LoadError) Unwrap() []error { return []error{ErrLoad, e.Err} }

// Error implements the error interface for PersistenceError.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save registry %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrPersistence and the cause.
func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }
