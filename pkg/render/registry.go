package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores renderers by name and remembers which one serves requests
// that do not ask for a specific renderer.
type Registry struct {
	mu          sync.RWMutex
	renderers   map[string]Renderer
	defaultName string
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
	}
}

// Register adds a renderer by its Name(). Duplicate names return an error.
// The first registered renderer becomes the default.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}

	r.renderers[name] = renderer
	if r.defaultName == "" {
		r.defaultName = name
	}
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// SetDefault selects the renderer returned by Resolve("").
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.renderers[name]; !ok {
		return fmt.Errorf("render: renderer %q not found", name)
	}
	r.defaultName = name
	return nil
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// Resolve returns the named renderer, or the default one when name is empty.
func (r *Registry) Resolve(name string) (Renderer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		r.mu.RLock()
		name = r.defaultName
		r.mu.RUnlock()
		if name == "" {
			return nil, fmt.Errorf("render: no renderers registered")
		}
	}
	return r.Get(name)
}

// List returns a sorted list of renderer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a renderer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[name]
	return ok
}
