package rules

import "sync"

// globalRegistry holds the rules registered from init() functions.
var globalRegistry = NewRegistry()

// Registry stores rules and check providers keyed by identifier, remembering
// registration order for listings.
type Registry struct {
	mu        sync.RWMutex
	order     []string
	rules     map[string]Rule
	providers map[string]CheckProvider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules:     make(map[string]Rule),
		providers: make(map[string]CheckProvider),
	}
}

// RegisterRule adds a pre-configured rule. Registering an existing identifier
// replaces it in place.
func (r *Registry) RegisterRule(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.track(rule.ID())
	delete(r.providers, rule.ID())
	r.rules[rule.ID()] = rule
}

// RegisterProvider adds a check provider. Registering an existing identifier
// replaces it in place.
func (r *Registry) RegisterProvider(p CheckProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.track(p.ID())
	delete(r.rules, p.ID())
	r.providers[p.ID()] = p
}

func (r *Registry) track(id string) {
	if _, ok := r.rules[id]; ok {
		return
	}
	if _, ok := r.providers[id]; ok {
		return
	}
	r.order = append(r.order, id)
}

// Rule returns the pre-configured rule registered under id.
func (r *Registry) Rule(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// Provider returns the check provider registered under id.
func (r *Registry) Provider(id string) (CheckProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	return p, ok
}

// All describes every registered rule in registration order.
func (r *Registry) All() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.order))
	for _, id := range r.order {
		if rule, ok := r.rules[id]; ok {
			infos = append(infos, RuleInfo(rule))
		} else if p, ok := r.providers[id]; ok {
			infos = append(infos, ProviderInfo(p))
		}
	}
	return infos
}

// Count returns the number of registered rules and providers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// RegisterRule adds a rule to the global registry.
// Call this from init() functions in rule packages.
func RegisterRule(rule Rule) {
	globalRegistry.RegisterRule(rule)
}

// RegisterProvider adds a check provider to the global registry.
// Call this from init() functions in rule packages.
func RegisterProvider(p CheckProvider) {
	globalRegistry.RegisterProvider(p)
}

// Default returns the global registry.
func Default() *Registry {
	return globalRegistry
}
