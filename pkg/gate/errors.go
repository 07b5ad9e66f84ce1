package gate

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	// ErrNoRules means neither pre-configured nor configurable rules were given.
	ErrNoRules = errors.New("archgate should have at least one preconfigured/configurable rule")
	// ErrRuleNotFound means an identifier resolved to nothing.
	ErrRuleNotFound = errors.New("rule not found")
)

// ConfigurationError reports a structurally invalid rule configuration.
type ConfigurationError struct {
	// RuleID is set when the problem concerns a single rule.
	RuleID string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("invalid configuration for %s: %v", e.RuleID, e.Err)
	}
	return e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// RuleResolutionError reports a rule identifier that could not be resolved.
type RuleResolutionError struct {
	RuleID string
	Err    error
}

func (e *RuleResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve rule %s: %v", e.RuleID, e.Err)
}

func (e *RuleResolutionError) Unwrap() error { return e.Err }

// UnknownCheckError lists every requested check missing from a rule's catalog.
type UnknownCheckError struct {
	RuleID string
	// Missing is sorted.
	Missing []string
}

func (e *UnknownCheckError) Error() string {
	return fmt.Sprintf("The following configured checks are not present within %s: [%s]",
		e.RuleID, strings.Join(e.Missing, ", "))
}

// ExecutionError reports a check that failed to run, as opposed to one that
// found violations.
type ExecutionError struct {
	RuleID string
	Check  string
	Err    error
}

func (e *ExecutionError) Error() string {
	label := e.RuleID
	if e.Check != "" {
		label += "#" + e.Check
	}
	return fmt.Sprintf("executing %s: %v", label, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// FailureError is returned when violations were found and failing is enabled.
// Its message is the full aggregated report.
type FailureError struct {
	Message string
}

func (e *FailureError) Error() string { return e.Message }
