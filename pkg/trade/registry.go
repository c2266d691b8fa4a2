package trade

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrPluginNotFound is returned when no factory is registered under a name.
var ErrPluginNotFound = errors.New("plugin not found")

// Registry maps plugin names to factories.
type Registry[T any] struct {
	mu        sync.RWMutex
	factories map[string]func() T
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]func() T)}
}

// Register adds a factory. Registering a name twice replaces the factory.
func (r *Registry[T]) Register(name string, factory func() T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Instantiate creates a fresh plugin instance.
func (r *Registry[T]) Instantiate(name string) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s (available: %s)",
			ErrPluginNotFound, name, strings.Join(r.KnownNames(), ", "))
	}
	return factory(), nil
}

// KnownNames returns the registered names, sorted.
func (r *Registry[T]) KnownNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
