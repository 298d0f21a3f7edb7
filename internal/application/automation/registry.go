// Package automation executes user-authored rules against registered module
// handlers and records every run.
package automation

import (
	"context"
	"sort"
	"sync"
)

// ModuleHandler performs one module's automation action. The payload is the
// rule's action payload, merged with the triggering event under "event" for
// event-bound rules. The returned map becomes the run's result payload.
type ModuleHandler interface {
	Execute(ctx context.Context, payload map[string]any) (map[string]any, error)
}

// ModuleHandlerFunc adapts a function to the ModuleHandler interface.
type ModuleHandlerFunc func(ctx context.Context, payload map[string]any) (map[string]any, error)

func (f ModuleHandlerFunc) Execute(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return f(ctx, payload)
}

// Registry maps module names to handlers. Registration happens at startup;
// lookups happen on every rule execution and notification module action.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]ModuleHandler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]ModuleHandler)}
}

// Register binds a handler to a module name, replacing any previous binding.
func (r *Registry) Register(name string, handler ModuleHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

func (r *Registry) Get(name string) (ModuleHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[name]
	return handler, ok
}

// Names returns the registered module names sorted for stable output.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
