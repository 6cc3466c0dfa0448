package topics

import (
	"fmt"
	"sort"

	"DailyKnowledge/internal/ports"
)

// Registry keeps a mapping from topic source names to their implementations.
type Registry struct {
	sources map[string]ports.TopicSource
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]ports.TopicSource{}}
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(source ports.TopicSource) {
	if r.sources == nil {
		r.sources = map[string]ports.TopicSource{}
	}
	r.sources[source.Name()] = source
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.TopicSource, error) {
	if source, ok := r.sources[name]; ok {
		return source, nil
	}
	return nil, fmt.Errorf("topic source %s is not registered (known: %v)", name, r.Names())
}

// Names lists registered sources in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
