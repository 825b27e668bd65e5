// Package container provides a minimal dependency-injection container: an
// explicit registry mapping service names to factory functions, resolved on
// demand through a Scope that tracks the resolution chain. There is no
// reflection-based autowiring; factories declare their dependencies by
// resolving them from the scope they receive.
package container

import (
	"fmt"
	"slices"
	"sync"
)

// Factory constructs a service. It receives the resolution scope so it can
// pull its own dependencies; resolved instances are memoized, so a factory
// runs at most once per container.
type Factory func(s *Scope) (any, error)

// Container is a thread-safe registry of named factories and their memoized
// instances.
type Container struct {
	mu        sync.Mutex
	factories map[string]Factory
	instances map[string]any
}

// New creates an empty container.
func New() *Container {
	return &Container{
		factories: make(map[string]Factory),
		instances: make(map[string]any),
	}
}

// Register binds a factory under name. Registering an already-bound name
// returns ErrAlreadyRegistered; use Replace to overwrite deliberately.
func (c *Container) Register(name string, factory Factory) error {
	if name == "" {
		return ErrInvalidName
	}
	if factory == nil {
		return ErrNilFactory
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	c.factories[name] = factory
	return nil
}

// Replace binds a factory under name, overwriting any previous binding and
// dropping a memoized instance built from it.
func (c *Container) Replace(name string, factory Factory) error {
	if name == "" {
		return ErrInvalidName
	}
	if factory == nil {
		return ErrNilFactory
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = factory
	delete(c.instances, name)
	return nil
}

// Resolve returns the memoized instance for name, running its factory on
// first use. Factories execute under the container lock, so construction is
// single-flight; a factory that resolves an unregistered or cyclic
// dependency fails with a wrapped error naming the chain.
func (c *Container) Resolve(name string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolveLocked(name, &Scope{container: c})
}

func (c *Container) resolveLocked(name string, scope *Scope) (any, error) {
	if instance, ok := c.instances[name]; ok {
		return instance, nil
	}

	factory, ok := c.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}

	if slices.Contains(scope.chain, name) {
		return nil, fmt.Errorf("%w: %v -> %s", ErrCircularDependency, scope.chain, name)
	}
	scope.chain = append(scope.chain, name)

	instance, err := factory(scope)
	if err != nil {
		return nil, fmt.Errorf("container: building %s: %w", name, err)
	}

	c.instances[name] = instance
	scope.chain = scope.chain[:len(scope.chain)-1]
	return instance, nil
}

// Names returns the registered service names, unordered.
func (c *Container) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	return names
}

// Scope is the resolution context handed to factories. It carries the chain
// of names currently being constructed for cycle detection.
type Scope struct {
	container *Container
	chain     []string
}

// Resolve resolves a dependency from within a factory.
func (s *Scope) Resolve(name string) (any, error) {
	return s.container.resolveLocked(name, s)
}

// Resolve returns the instance bound to name, type-asserted to T.
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	instance, err := c.Resolve(name)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrWrongType, name, instance)
	}
	return typed, nil
}

// MustResolve is Resolve that panics on error, for composition-root wiring
// where a missing binding is unrecoverable.
func MustResolve[T any](c *Container, name string) T {
	v, err := Resolve[T](c, name)
	if err != nil {
		panic(err)
	}
	return v
}

// ScopeResolve resolves a dependency from within a factory, type-asserted
// to T.
func ScopeResolve[T any](s *Scope, name string) (T, error) {
	var zero T
	instance, err := s.Resolve(name)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrWrongType, name, instance)
	}
	return typed, nil
}
