package gate

import (
	"fmt"

	"github.com/leapstack-labs/archgate/pkg/arch"
)

// Execute runs one check against u and tags each violation with its origin.
// An error or panic from the check becomes an *ExecutionError. Pre-configured
// rules pass an empty checkName.
func Execute(ruleID, checkName string, check arch.Check, u arch.Universe) (fragment []RuleViolation, err error) {
	defer func() {
		if r := recover(); r != nil {
			fragment = nil
			err = &ExecutionError{RuleID: ruleID, Check: checkName, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	vs, err := check.Evaluate(u)
	if err != nil {
		return nil, &ExecutionError{RuleID: ruleID, Check: checkName, Err: err}
	}

	for _, v := range vs {
		fragment = append(fragment, RuleViolation{RuleID: ruleID, Check: checkName, Violation: v})
	}
	return fragment, nil
}
