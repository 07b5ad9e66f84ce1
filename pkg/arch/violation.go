package arch

import (
	"fmt"
	"strings"
)

// Priority ranks a violation. The zero value is PriorityMedium.
type Priority int

// Priorities.
const (
	PriorityMedium Priority = iota
	PriorityLow
	PriorityHigh
)

// String returns the upper-case name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "LOW"
	case PriorityHigh:
		return "HIGH"
	default:
		return "MEDIUM"
	}
}

// ParsePriority parses "low", "medium" or "high" (any case). The empty string
// is medium.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	case "high":
		return PriorityHigh, nil
	default:
		return PriorityMedium, fmt.Errorf("invalid priority %q: must be low, medium, or high", s)
	}
}

// Violation is one failed check: what was required and every offending
// location, in evaluation order.
type Violation struct {
	Description string
	Priority    Priority
	Details     []string
}

// Count returns the number of offending locations.
func (v Violation) Count() int {
	return len(v.Details)
}
