package hooks

import (
	"fmt"
	"sync"
)

// Registry manages hook registration and lookup.
type Registry struct {
	mu    sync.RWMutex
	hooks map[string]Hook
}

// NewRegistry creates a new empty hook registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks: make(map[string]Hook),
	}
}

// Register adds a hook to the registry.
// Returns an error if a hook with the same name already exists.
func (r *Registry) Register(hook Hook) error {
	if hook == nil {
		return fmt.Errorf("cannot register nil hook")
	}

	metadata := hook.Metadata()
	if err := metadata.Validate(); err != nil {
		return fmt.Errorf("invalid hook metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hooks[metadata.Name]; exists {
		return fmt.Errorf("hook %s already registered", metadata.Name)
	}

	r.hooks[metadata.Name] = hook
	return nil
}

// Get retrieves a hook by name.
// Returns an error if the hook is not found.
func (r *Registry) Get(name string) (Hook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hook, ok := r.hooks[name]
	if !ok {
		return nil, fmt.Errorf("hook %s not found", name)
	}

	return hook, nil
}

// List returns all registered hooks.
func (r *Registry) List() []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Hook, 0, len(r.hooks))
	for _, hook := range r.hooks {
		result = append(result, hook)
	}

	return result
}

// ListByPhase returns all hooks attached to a specific build phase.
func (r *Registry) ListByPhase(phase Phase) []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Hook
	for _, hook := range r.hooks {
		if hook.Metadata().Phase == phase {
			result = append(result, hook)
		}
	}

	return result
}

// Has checks if a hook with the given name exists.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.hooks[name]
	return ok
}

// Unregister removes a hook from the registry.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hooks[name]; !ok {
		return fmt.Errorf("hook %s not found", name)
	}

	delete(r.hooks, name)
	return nil
}

// Count returns the number of registered hooks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.hooks)
}

// globalRegistry is the default hook registry used throughout the application.
var globalRegistry = NewRegistry()

// DefaultRegistry returns the global hook registry.
func DefaultRegistry() *Registry {
	return globalRegistry
}

// Register adds a hook to the global registry.
func Register(hook Hook) error {
	return globalRegistry.Register(hook)
}

// Get retrieves a hook from the global registry.
func Get(name string) (Hook, error) {
	return globalRegistry.Get(name)
}

// ListByPhase returns hooks attached to a phase from the global registry.
func ListByPhase(phase Phase) []Hook {
	return globalRegistry.ListByPhase(phase)
}
