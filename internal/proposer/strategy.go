// Package proposer turns classified violations into concrete fix
// proposals, preferring deterministic rewrites and falling back to the
// AI fixer for everything else.
package proposer

import (
	"github.com/vraravam/api-governance-agent/pkg/models"
)

// Strategy deterministically rewrites file content to resolve violations
// of the rules it claims. A strategy that cannot safely fix the given
// content returns an error; the coordinator then demotes those
// violations to the AI fixer.
type Strategy interface {
	// Info describes the strategy for review output.
	Info() models.StrategyInfo
	// Rules lists the rule identifiers this strategy fixes.
	Rules() []string
	// Apply rewrites content, resolving the given violations.
	Apply(path, content string, violations []models.Violation) (string, error)
}

// Registry maps rule identifiers to their deterministic strategies.
type Registry struct {
	byRule map[string]Strategy
}

// NewRegistry builds a registry from the given strategies. Later
// strategies win on rule collisions.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{byRule: make(map[string]Strategy)}
	for _, s := range strategies {
		for _, rule := range s.Rules() {
			r.byRule[rule] = s
		}
	}
	return r
}

// DefaultRegistry returns the built-in deterministic strategies.
func DefaultRegistry() *Registry {
	return NewRegistry(
		&KebabCasePaths{},
		&PluralResources{},
		&UUIDPathIDs{},
		&OperationDescriptions{},
		&CamelCaseProperties{},
		&VersionedPaths{},
		&ErrorResponses{},
		&NoStdStreams{},
		&NoJavaUtilLogging{},
		&SecureRandomSource{},
		&SerialVersionUID{},
		&TransactionalServices{},
	)
}

// For returns the strategy owning a rule, if any.
func (r *Registry) For(rule string) (Strategy, bool) {
	s, ok := r.byRule[rule]
	return s, ok
}
