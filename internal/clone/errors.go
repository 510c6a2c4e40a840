package clone

import (
	"errors"
	"fmt"
)

// ErrNoIssues signals that the source repository has no issues to clone.
var ErrNoIssues = errors.New("no issues found")

// ErrNoProject signals that no project board matched the discovery query.
// The service adopts a pre-existing board and never creates one.
var ErrNoProject = errors.New("no project found")

// ProvisionError reports a setup step that could not complete even after its
// fallback was attempted. It is fatal to the whole clone request.
type ProvisionError struct {
	Step string
	Err  error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provisioning %s: %v", e.Step, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// CloneError wraps a fatal failure during a clone operation so the transport
// layer can map it to a response. Per-issue creation failures never surface
// here; they are absorbed into the Result counters.
type CloneError struct {
	Phase string
	Err   error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("clone failed during %s: %v", e.Phase, e.Err)
}

func (e *CloneError) Unwrap() error {
	return e.Err
}
