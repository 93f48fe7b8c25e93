// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage is the sentinel error wrapped by UsageError.
	ErrUsage = errors.New("invalid usage")
	// ErrFolderNotFound is the sentinel error wrapped by FolderNotFoundError.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrNotLinked is the sentinel error wrapped by NotLinkedError.
	ErrNotLinked = errors.New("folder is not linked")
	// ErrKeyNotFound is the sentinel error wrapped by KeyNotFoundError.
	ErrKeyNotFound = errors.New("key not found")
	// ErrGitNotFound is the sentinel error wrapped by GitNotFoundError.
	ErrGitNotFound = errors.New("git is not installed")
	// ErrInvalidGitURL is the sentinel error wrapped by InvalidGitURLError.
	ErrInvalidGitURL = errors.New("invalid git url")
	// ErrGitClone is the sentinel error wrapped by GitCloneError.
	ErrGitClone = errors.New("git clone failed")
	// ErrRepoMapFile is the sentinel error wrapped by RepoMapFileError.
	ErrRepoMapFile = errors.New("map file not found in repository")
)

type (
	// UsageError is returned when a command is called with missing arguments.
	UsageError struct {
		Command string
		Message string
	}

	// FolderNotFoundError is returned when a folder argument does not exist.
	FolderNotFoundError struct {
		Path string
	}

	// NotLinkedError is returned by unlink/folder when no namespace was
	// linked from the folder's module.
	NotLinkedError struct {
		Namespace string
		File      string
	}

	// KeyNotFoundError is returned by the remember commands.
	KeyNotFoundError struct {
		Key string
	}

	// GitNotFoundError is returned when the git binary cannot be run.
	GitNotFoundError struct {
		Binary string
		Err    error
	}

	// InvalidGitURLError is returned for URLs that are neither ssh nor https.
	InvalidGitURLError struct {
		URL string
	}

	// GitCloneError is returned when cloning fails.
	GitCloneError struct {
		URL    string
		Output string
		Err    error
	}

	// RepoMapFileError is returned when a cloned repository has no map file
	// in the requested folder. The clone is removed before it is returned.
	RepoMapFileError struct {
		Repo   string
		Folder string
	}
)

// Error implements the error interface.
func (e *UsageError) Error() string { return fmt.Sprintf("%s: %s", e.Command, e.Message) }

// Unwrap returns ErrUsage for errors.Is() compatibility.
func (e *UsageError) Unwrap() error { return ErrUsage }

// Error implements the error interface.
func (e *FolderNotFoundError) Error() string {
	return fmt.Sprintf("folder %s does not exist", e.Path)
}

// Unwrap returns ErrFolderNotFound for errors.Is() compatibility.
func (e *FolderNotFoundError) Unwrap() error { return ErrFolderNotFound }

// Error implements the error interface.
func (e *NotLinkedError) Error() string {
	return fmt.Sprintf("no command with namespace %q found for %s", e.Namespace, e.File)
}

// Unwrap returns ErrNotLinked for errors.Is() compatibility.
func (e *NotLinkedError) Unwrap() error { return ErrNotLinked }

// Error implements the error interface.
func (e *KeyNotFoundError) Error() string { return fmt.Sprintf("key %q not found", e.Key) }

// Unwrap returns ErrKeyNotFound for errors.Is() compatibility.
func (e *KeyNotFoundError) Unwrap() error { return ErrKeyNotFound }

// Error implements the error interface.
func (e *GitNotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("git binary %q is not installed", e.Binary)
	}
	return fmt.Sprintf("git binary %q is not usable: %v", e.Binary, e.Err)
}

// Unwrap returns ErrGitNotFound and the underlying cause.
func (e *GitNotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrGitNotFound}
	}
	return []error{ErrGitNotFound, e.Err}
}

// Error implements the error interface.
func (e *InvalidGitURLError) Error() string {
	return fmt.Sprintf("invalid git url %q (must start with git@ or https://)", e.URL)
}

// Unwrap returns ErrInvalidGitURL for errors.Is() compatibility.
func (e *InvalidGitURLError) Unwrap() error { return ErrInvalidGitURL }

// Error implements the error interface.
func (e *GitCloneError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("failed to clone %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to clone %s: %v\n%s", e.URL, e.Err, e.Output)
}

// Unwrap returns ErrGitClone and the underlying cause.
func (e *GitCloneError) Unwrap() []error { return []error{ErrGitClone, e.Err} }

// Error implements the error interface.
func (e *RepoMapFileError) Error() string {
	return fmt.Sprintf("map file not found in repo path %q", e.Repo+"/"+e.Folder)
}

// Unwrap returns ErrRepoMapFile for errors.Is() compatibility.
func (e *RepoMapFileError) Unwrap() error { return ErrRepoMapFile }
