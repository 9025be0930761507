// Package strategy implements configurable value generation. A Strategy
// produces one cell value per call from its configuration plus the row under
// construction; a Registry builds strategies from name + parameter maps; a
// Manager binds instances to field names for one generation session.
package strategy

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/Rana718/Forge/internal/metadata"
)

// Context is everything a strategy may read while producing a value. Rng is
// the session PRNG; all randomness must flow through it so seeded sessions
// stay reproducible.
type Context struct {
	Rng       *rand.Rand
	Row       map[string]interface{}
	RowIndex  int
	TotalRows int
	Field     *metadata.Field
	Table     *metadata.Table
	Extra     map[string]interface{}
}

// Strategy produces one value per Generate call. Stateful strategies carry
// their cursor between calls and drop it on Reset.
type Strategy interface {
	Name() string
	Generate(ctx *Context) (interface{}, error)
	Reset()
}

// Factory builds a strategy instance from its configuration map. Factories
// validate eagerly so a bad configuration fails at bind time, not mid-batch.
type Factory func(params map[string]interface{}) (Strategy, error)

// Callable is a registered named function usable through the
// custom_function strategy.
type Callable func(ctx *Context) (interface{}, error)

// Registry maps strategy names to factories. NewRegistry comes loaded with
// every built-in.
type Registry struct {
	factories map[string]Factory
	functions map[string]Callable
}

// NewRegistry returns a registry with all built-in strategies installed.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		functions: make(map[string]Callable),
	}
	r.Register("sequential", newSequential)
	r.Register("random_range", newRandomRange)
	r.Register("weighted_choice", newWeightedChoice)
	r.Register("conditional", newConditional)
	r.Register("dependent_field", newDependentField)
	r.Register("date_range", newDateRange)
	r.Register("distribution", newDistribution)
	r.Register("custom_function", func(params map[string]interface{}) (Strategy, error) {
		return newCustomFunction(params, r)
	})
	return r
}

// Register installs a factory, replacing any previous one with the same name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// RegisterFunction installs a named callable for the custom_function
// strategy.
func (r *Registry) RegisterFunction(name string, fn Callable) {
	r.functions[name] = fn
}

// Has reports whether a strategy name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Names returns every registered strategy name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds a configured strategy instance by name.
func (r *Registry) Create(name string, params map[string]interface{}) (Strategy, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy '%s' (available: %s)",
			name, strings.Join(r.Names(), ", "))
	}
	s, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("failed to configure strategy '%s': %w", name, err)
	}
	return s, nil
}

// Manager holds the strategy instances bound to field names for one
// generation session.
type Manager struct {
	registry *Registry
	bound    map[string]Strategy
}

// NewManager returns an empty manager backed by the given registry.
func NewManager(registry *Registry) *Manager {
	return &Manager{
		registry: registry,
		bound:    make(map[string]Strategy),
	}
}

// Registry exposes the backing registry, for function registration.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Bind attaches a ready strategy instance to a field name.
func (m *Manager) Bind(fieldName string, s Strategy) {
	m.bound[fieldName] = s
}

// BindConfig builds a strategy from name + params and binds it to a field.
func (m *Manager) BindConfig(fieldName, strategyName string, params map[string]interface{}) error {
	s, err := m.registry.Create(strategyName, params)
	if err != nil {
		return err
	}
	m.bound[fieldName] = s
	return nil
}

// Unbind removes the strategy bound to a field, if any.
func (m *Manager) Unbind(fieldName string) {
	delete(m.bound, fieldName)
}

// Get returns the strategy bound to a field.
func (m *Manager) Get(fieldName string) (Strategy, bool) {
	s, ok := m.bound[fieldName]
	return s, ok
}

// Apply runs the strategy bound to a field. An unbound field is an error.
func (m *Manager) Apply(fieldName string, ctx *Context) (interface{}, error) {
	s, ok := m.bound[fieldName]
	if !ok {
		return nil, fmt.Errorf("no strategy bound to field '%s'", fieldName)
	}
	return s.Generate(ctx)
}

// ResetAll clears every bound strategy's cursor state. Called between
// batches so each batch starts from the same footing.
func (m *Manager) ResetAll() {
	for _, s := range m.bound {
		s.Reset()
	}
}
