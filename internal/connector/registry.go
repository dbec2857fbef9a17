package connector

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is an explicit connector lookup table keyed by data-source
// type, populated at startup. No dynamic module resolution: the sync
// protocol assumes a static lookup.
type Registry struct {
	byType map[string]Connector
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[string]Connector),
	}
}

// Register adds a connector for its data-source type. Registering a second
// connector for the same type is a wiring bug and fails loudly.
func (r *Registry) Register(c Connector) error {
	if c == nil {
		return fmt.Errorf("connector cannot be nil")
	}
	if c.DataSourceType() == "" {
		return fmt.Errorf("connector %q declares no data source type", c.ID())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byType[c.DataSourceType()]; exists {
		return fmt.Errorf("data source type %q already registered", c.DataSourceType())
	}
	r.byType[c.DataSourceType()] = c
	return nil
}

// Lookup returns the connector for a data-source type.
func (r *Registry) Lookup(dataSourceType string) (Connector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byType[dataSourceType]
	return c, ok
}

// LookupByID returns the connector with the given plugin id.
func (r *Registry) LookupByID(id string) (Connector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.byType {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// All returns the registered connectors ordered by data-source type.
func (r *Registry) All() []Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	sort.Strings(types)

	connectors := make([]Connector, 0, len(types))
	for _, t := range types {
		connectors = append(connectors, r.byType[t])
	}
	return connectors
}
