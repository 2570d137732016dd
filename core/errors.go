package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotImplemented is returned when a code path that has not been built is reached, such as the
// CurseForge provider or local artifact sources
var ErrNotImplemented = errors.New("not implemented")

// ResolutionError is returned when every provider failed to resolve a mod
type ResolutionError struct {
	Name       string
	Providers  []ProviderName
	Constraint string
}

func (e *ResolutionError) Error() string {
	providers := make([]string, len(e.Providers))
	for i, p := range e.Providers {
		providers[i] = string(p)
	}
	return fmt.Sprintf("failed to pin mod '%s' (providers=[%s]) with constraint %s", e.Name, strings.Join(providers, ", "), e.Constraint)
}

// DependentsExistError is returned when removing a mod that other pinned mods depend on
type DependentsExistError struct {
	Name       string
	Dependents []string
}

func (e *DependentsExistError) Error() string {
	return fmt.Sprintf("cannot remove mod %s, the following mods depend on it: %s", e.Name, strings.Join(e.Dependents, ", "))
}

// IntegrityError is returned when a downloaded file doesn't match its pinned hash
type IntegrityError struct {
	Filename string
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("sha512 hash mismatch for file %s\nExpected:\n%s\nGot:\n%s", e.Filename, e.Expected, e.Actual)
}

// RollbackError is returned when a manifest change had to be reverted. RollbackErr is set when the
// revert itself failed, in which case the manifest on disk is left in its mutated state.
type RollbackError struct {
	Err         error
	RollbackErr error
}

func (e *RollbackError) Error() string {
	if e.RollbackErr != nil {
		return fmt.Sprintf("failed to revert modpack manifest: %v (original error: %v)", e.RollbackErr, e.Err)
	}
	return fmt.Sprintf("reverted modpack manifest: %v", e.Err)
}

func (e *RollbackError) Unwrap() error {
	return e.Err
}
