package episodes

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrEpisodeNotFound = errors.New("episode not found")
	ErrEpisodeTerminal = errors.New("episode already terminal")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s with identifier %v not found", e.Resource, e.ID)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrEpisodeNotFound
}

// TerminalError reports a write against an episode that already finished
type TerminalError struct {
	ID     string
	Status string
}

func (e TerminalError) Error() string {
	return fmt.Sprintf("episode %s is already %s", e.ID, e.Status)
}

func (e TerminalError) Is(target error) bool {
	return target == ErrEpisodeTerminal
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource string, id interface{}) error {
	return NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var notFoundErr NotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrEpisodeNotFound)
}

// IsTerminal checks if an error reports an already finished episode
func IsTerminal(err error) bool {
	return errors.Is(err, ErrEpisodeTerminal)
}
