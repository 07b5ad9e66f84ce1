package arch

import (
	"slices"
	"strings"
)

// RuleBuilder collects predicates for a rule under construction.
type RuleBuilder struct {
	predicates []Predicate
}

// Types starts a rule over every type in the universe.
func Types() *RuleBuilder {
	return &RuleBuilder{}
}

// That returns a builder restricted to types matching all predicates. The
// receiver is left unchanged, so a partial rule can be shared.
func (b *RuleBuilder) That(preds ...Predicate) *RuleBuilder {
	return &RuleBuilder{predicates: append(slices.Clone(b.predicates), preds...)}
}

// Should completes the rule with the conditions every selected type must
// satisfy.
func (b *RuleBuilder) Should(conds ...Condition) *Rule {
	return &Rule{predicates: slices.Clone(b.predicates), conditions: slices.Clone(conds)}
}

// Rule is a Check built from predicates and conditions.
type Rule struct {
	predicates []Predicate
	conditions []Condition
	because    string
	as         string
	priority   Priority
	report     func(t Type, detail string) string
}

// Because appends a rationale to the description.
func (r *Rule) Because(reason string) *Rule {
	r.because = reason
	return r
}

// As replaces the generated description.
func (r *Rule) As(description string) *Rule {
	r.as = description
	return r
}

// WithPriority sets the priority of reported violations.
func (r *Rule) WithPriority(p Priority) *Rule {
	r.priority = p
	return r
}

// Report rewrites detail lines. When set, each offending type contributes at
// most one line per distinct rewritten message.
func (r *Rule) Report(fn func(t Type, detail string) string) *Rule {
	r.report = fn
	return r
}

// Description implements Check.
func (r *Rule) Description() string {
	if r.as != "" {
		return r.as
	}
	var sb strings.Builder
	sb.WriteString("types")
	for i, p := range r.predicates {
		if i == 0 {
			sb.WriteString(" that ")
		} else {
			sb.WriteString(" and ")
		}
		sb.WriteString(p.Description)
	}
	sb.WriteString(" should ")
	for i, c := range r.conditions {
		if i > 0 {
			sb.WriteString(" and ")
		}
		sb.WriteString(c.Description)
	}
	if r.because != "" {
		sb.WriteString(", because ")
		sb.WriteString(r.because)
	}
	return sb.String()
}

// Evaluate implements Check. All offending details are collected into a
// single violation.
func (r *Rule) Evaluate(u Universe) ([]Violation, error) {
	var details []string
	for _, t := range u.types {
		if !r.selects(t) {
			continue
		}
		seen := map[string]bool{}
		for _, c := range r.conditions {
			for _, d := range c.Test(t) {
				if r.report != nil {
					d = r.report(t, d)
					if seen[d] {
						continue
					}
					seen[d] = true
				}
				details = append(details, d)
			}
		}
	}
	if len(details) == 0 {
		return nil, nil
	}
	return []Violation{{
		Description: r.Description(),
		Priority:    r.priority,
		Details:     details,
	}}, nil
}

func (r *Rule) selects(t Type) bool {
	for _, p := range r.predicates {
		if !p.Match(t) {
			return false
		}
	}
	return true
}
