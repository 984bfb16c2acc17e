// Package hooks provides the build-hook contract assetstage uses to attach
// work to a documentation build. A hook is a plain, independently callable
// unit; the registry is the thin adapter between the host build pipeline and
// the hook logic, keeping the latter framework-agnostic and testable.
package hooks

import (
	"context"
	"fmt"
)

// Hook represents a build hook with metadata and lifecycle methods.
type Hook interface {
	// Metadata returns the hook's metadata (name, version, phase).
	Metadata() Metadata

	// Validate checks if the hook can run with the given settings.
	// Returns an error if the settings are invalid or incompatible.
	Validate(settings map[string]any) error

	// Execute runs the hook with the given context.
	// The context provides explicit paths and services instead of ambient
	// process state.
	Execute(ctx context.Context, hctx *Context) error
}

// Metadata describes a hook's identity and the build phase it attaches to.
type Metadata struct {
	// Name is the unique hook identifier (e.g., "stage-assets").
	Name string

	// Version is the semantic version (e.g., "v1.0.0").
	Version string

	// Phase identifies when in the build the hook runs.
	Phase Phase

	// Description provides a human-readable summary of the hook's purpose.
	Description string
}

// String returns a human-readable representation of the hook metadata.
func (m Metadata) String() string {
	return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Phase)
}

// Validate checks if the hook metadata is valid.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("hook name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("hook version is required")
	}
	if !m.Phase.IsValid() {
		return fmt.Errorf("invalid hook phase: %s", m.Phase)
	}
	return nil
}

// Phase identifies the build phase a hook attaches to.
type Phase string

const (
	// PhasePostBuild runs after the site generator has written its output.
	PhasePostBuild Phase = "post_build"

	// PhasePreBuild runs before the site generator starts. Reserved; no
	// built-in hook uses it yet.
	PhasePreBuild Phase = "pre_build"
)

// IsValid returns true if the phase is recognized.
func (p Phase) IsValid() bool {
	switch p {
	case PhasePostBuild, PhasePreBuild:
		return true
	default:
		return false
	}
}

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// HookError represents an error that occurred within a hook.
type HookError struct {
	// HookName identifies which hook failed.
	HookName string

	// Operation describes what the hook was doing when it failed.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *HookError) Error() string {
	return fmt.Sprintf("hook %s failed during %s: %v", e.HookName, e.Operation, e.Err)
}

// Unwrap returns the underlying error for error inspection.
func (e *HookError) Unwrap() error {
	return e.Err
}

// NewHookError creates a new hook error.
func NewHookError(hookName, operation string, err error) *HookError {
	return &HookError{
		HookName:  hookName,
		Operation: operation,
		Err:       err,
	}
}
