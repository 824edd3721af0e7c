package fixture

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingPrerequisite is returned when a stage runs before the stages it reads from.
	ErrMissingPrerequisite = errors.New("missing prerequisite")

	// ErrUnavailableCapability is returned when a required capability (faker, sink format)
	// cannot be provided. It is fatal for the whole run.
	ErrUnavailableCapability = errors.New("capability unavailable")
)

// MissingPrerequisiteError names the stage that was invoked too early and the caches it needed.
type MissingPrerequisiteError struct {
	Stage    string
	Requires []string
}

// Error implements the error interface.
func (e *MissingPrerequisiteError) Error() string {
	return fmt.Sprintf("%s: %s cache empty", e.Stage, strings.Join(e.Requires, " and "))
}

// Unwrap returns ErrMissingPrerequisite.
func (e *MissingPrerequisiteError) Unwrap() error {
	return ErrMissingPrerequisite
}

// CapabilityError reports a capability the environment cannot provide.
type CapabilityError struct {
	Capability string
	Err        error
}

// Error implements the error interface.
func (e *CapabilityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable: %v", e.Capability, e.Err)
	}
	return fmt.Sprintf("%s unavailable", e.Capability)
}

// Unwrap returns ErrUnavailableCapability and the underlying cause, if any.
func (e *CapabilityError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUnavailableCapability, e.Err}
	}
	return []error{ErrUnavailableCapability}
}
