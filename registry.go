package parsebench

import (
	"fmt"
	"slices"
	"sync"
)

// GrammarNotFoundError is returned when looking up a language that was never registered.
type GrammarNotFoundError struct {
	Name      string
	Available []string
}

func (e *GrammarNotFoundError) Error() string {
	return fmt.Sprintf("grammar %q not found (available: %v)", e.Name, e.Available)
}

// Factory builds a fresh Language.
type Factory func() (*Language, error)

// Registry maps grammar names to the factories of their languages.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// DefaultRegistry is where grammar packages register themselves from their init functions.
var DefaultRegistry = NewRegistry()

// Register makes a language available by name. It panics if the name is taken or the factory is nil.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f == nil {
		panic("parsebench: Register factory is nil")
	}
	if _, dup := r.factories[name]; dup {
		panic("parsebench: Register called twice for grammar " + name)
	}

	r.factories[name] = f
}

// Lookup builds the language registered as name.
func (r *Registry) Lookup(name string) (*Language, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &GrammarNotFoundError{Name: name, Available: r.Names()}
	}

	lang, err := f()
	if err != nil {
		return nil, fmt.Errorf("could not build grammar %s: %w", name, err)
	}

	return lang, nil
}

// Names returns the registered grammar names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

func Register(name string, f Factory) {
	DefaultRegistry.Register(name, f)
}

func Lookup(name string) (*Language, error) {
	return DefaultRegistry.Lookup(name)
}
