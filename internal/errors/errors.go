// Package errors provides sentinel errors and custom error types for ksapply.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrMalformedDocument indicates the series file cannot be used: the sorted
	// subsection is missing or the sanity header does not match
	ErrMalformedDocument = errors.New("malformed series document")

	// ErrMissingProvenance indicates a sorted patch has no commit tag
	ErrMissingProvenance = errors.New("no provenance tag")

	// ErrAmbiguousProvenance indicates a patch carries several repository tags
	ErrAmbiguousProvenance = errors.New("ambiguous provenance")

	// ErrUnresolvedCommit indicates a commit tag that the repository does not
	// know and that is not qualified by a repository tag
	ErrUnresolvedCommit = errors.New("unresolved commit")

	// ErrInvalidRevision indicates a string that does not parse as a revision
	ErrInvalidRevision = errors.New("invalid revision")

	// ErrRevisionNotFound indicates a well-formed revision absent from the repository
	ErrRevisionNotFound = errors.New("revision not found")

	// ErrNotSorted indicates the sorted subsection is not in upstream order
	ErrNotSorted = errors.New("subseries is not sorted")

	// ErrNotIndexed indicates the upstream index does not know a commit
	ErrNotIndexed = errors.New("commit not indexed")

	// ErrPatchNotFound indicates a patch is missing from the series or from disk
	ErrPatchNotFound = errors.New("patch not found")

	// ErrNothingToDo signals that the requested state is already reached
	ErrNothingToDo = errors.New("nothing to do")

	// ErrAlreadyPresent signals that a commit is already backported
	ErrAlreadyPresent = errors.New("commit already present")
)

// MalformedDocumentError describes why a series document was rejected
type MalformedDocumentError struct {
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	return e.Reason
}

// Is returns true if the target error is ErrMalformedDocument
func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// NewMalformedDocumentError creates a new MalformedDocumentError
func NewMalformedDocumentError(reason string) *MalformedDocumentError {
	return &MalformedDocumentError{Reason: reason}
}

// MissingProvenanceError represents a sorted patch without a Git-commit tag
type MissingProvenanceError struct {
	Patch string
}

func (e *MissingProvenanceError) Error() string {
	return fmt.Sprintf("no Git-commit tag found in %s", e.Patch)
}

// Is returns true if the target error is ErrMissingProvenance
func (e *MissingProvenanceError) Is(target error) bool {
	return target == ErrMissingProvenance
}

// NewMissingProvenanceError creates a new MissingProvenanceError
func NewMissingProvenanceError(patch string) *MissingProvenanceError {
	return &MissingProvenanceError{Patch: patch}
}

// AmbiguousProvenanceError represents a patch with more than one Git-repo tag
type AmbiguousProvenanceError struct {
	Patch string
	Repos []string
}

func (e *AmbiguousProvenanceError) Error() string {
	return fmt.Sprintf("multiple Git-repo tags found (%s), patch %q is tagged improperly",
		strings.Join(e.Repos, ", "), e.Patch)
}

// Is returns true if the target error is ErrAmbiguousProvenance
func (e *AmbiguousProvenanceError) Is(target error) bool {
	return target == ErrAmbiguousProvenance
}

// NewAmbiguousProvenanceError creates a new AmbiguousProvenanceError
func NewAmbiguousProvenanceError(patch string, repos []string) *AmbiguousProvenanceError {
	return &AmbiguousProvenanceError{Patch: patch, Repos: repos}
}

// UnresolvedCommitError represents a Git-commit tag that names a commit absent
// from the repository while no Git-repo tag says where it lives instead
type UnresolvedCommitError struct {
	Rev   string
	Repo  string
	Patch string
}

func (e *UnresolvedCommitError) Error() string {
	return fmt.Sprintf("commit %q not found and no Git-repo specified. "+
		"Either the repository at %q is outdated or patch %q is tagged improperly",
		e.Rev, e.Repo, e.Patch)
}

// Is returns true if the target error is ErrUnresolvedCommit
func (e *UnresolvedCommitError) Is(target error) bool {
	return target == ErrUnresolvedCommit
}

// NewUnresolvedCommitError creates a new UnresolvedCommitError
func NewUnresolvedCommitError(rev, repo, patch string) *UnresolvedCommitError {
	return &UnresolvedCommitError{Rev: rev, Repo: repo, Patch: patch}
}

// InvalidRevisionError represents a revision string that does not parse.
// Patch is set when the revision came from a patch tag.
type InvalidRevisionError struct {
	Rev   string
	Patch string
}

func (e *InvalidRevisionError) Error() string {
	if e.Patch != "" {
		return fmt.Sprintf("Git-commit tag %q in patch %q is not a valid revision", e.Rev, e.Patch)
	}
	return fmt.Sprintf("%q is not a valid revision", e.Rev)
}

// Is returns true if the target error is ErrInvalidRevision
func (e *InvalidRevisionError) Is(target error) bool {
	return target == ErrInvalidRevision
}

// NewInvalidRevisionError creates a new InvalidRevisionError
func NewInvalidRevisionError(rev, patch string) *InvalidRevisionError {
	return &InvalidRevisionError{Rev: rev, Patch: patch}
}

// RevisionNotFoundError represents a revision missing from a repository
type RevisionNotFoundError struct {
	Rev  string
	Repo string
}

func (e *RevisionNotFoundError) Error() string {
	return fmt.Sprintf("revision %q not found in %q", e.Rev, e.Repo)
}

// Is returns true if the target error is ErrRevisionNotFound
func (e *RevisionNotFoundError) Is(target error) bool {
	return target == ErrRevisionNotFound
}

// NewRevisionNotFoundError creates a new RevisionNotFoundError
func NewRevisionNotFoundError(rev, repo string) *RevisionNotFoundError {
	return &RevisionNotFoundError{Rev: rev, Repo: repo}
}

// NotIndexedError represents a commit the upstream index could not place
type NotIndexedError struct {
	Rev string
}

func (e *NotIndexedError) Error() string {
	return fmt.Sprintf("requested revision %q could not be sorted. "+
		"Please make sure it is part of the commits indexed by git-sort", e.Rev)
}

// Is returns true if the target error is ErrNotIndexed
func (e *NotIndexedError) Is(target error) bool {
	return target == ErrNotIndexed
}

// NewNotIndexedError creates a new NotIndexedError
func NewNotIndexedError(rev string) *NotIndexedError {
	return &NotIndexedError{Rev: rev}
}

// PatchNotFoundError represents a patch that is not where it was expected
type PatchNotFoundError struct {
	Patch string
	Where string
}

func (e *PatchNotFoundError) Error() string {
	if e.Where != "" {
		return fmt.Sprintf("patch %q not in %s", e.Patch, e.Where)
	}
	return fmt.Sprintf("could not find patch %q", e.Patch)
}

// Is returns true if the target error is ErrPatchNotFound
func (e *PatchNotFoundError) Is(target error) bool {
	return target == ErrPatchNotFound
}

// NewPatchNotFoundError creates a new PatchNotFoundError
func NewPatchNotFoundError(patch, where string) *PatchNotFoundError {
	return &PatchNotFoundError{Patch: patch, Where: where}
}

// CommandError represents an error from an external command execution
type CommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s command failed", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(": %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError
func NewCommandError(command string, args []string, stdout, stderr string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
