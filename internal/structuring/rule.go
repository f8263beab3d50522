package structuring

import (
	"context"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// Rule is the interface for a single built-in output validation rule.
type Rule interface {
	Validate(ctx context.Context, doc *domain.StructuredDocument) []domain.RuleResult
	RuleKey() string
	RuleName() string
	Severity() domain.ValidationSeverity
}

// Registry maps rule keys to Rule implementations.
type Registry struct {
	rules map[string]Rule
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule to the registry.
func (r *Registry) Register(rule Rule) {
	if _, exists := r.rules[rule.RuleKey()]; !exists {
		r.order = append(r.order, rule.RuleKey())
	}
	r.rules[rule.RuleKey()] = rule
}

// Get returns the rule for a given key, or nil if not found.
func (r *Registry) Get(key string) Rule {
	return r.rules[key]
}

// All returns all registered rules in registration order.
func (r *Registry) All() []Rule {
	out := make([]Rule, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.rules[key])
	}
	return out
}

// NewBuiltinRegistry returns a Registry with every built-in rule registered.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.Register(&RawContentRule{})
	r.Register(&ElementOrderRule{})
	r.Register(&TableShapeRule{})
	r.Register(&ConfidenceRangeRule{})
	r.Register(&EntitySpanRule{})
	return r
}
