package gate

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/archgate/pkg/arch"
)

// ReportHeader prefixes every aggregated failure message.
const ReportHeader = "archgate reported architecture failures listed below :"

// RuleViolation is a violation tagged with the rule and check that found it.
// Check is empty for pre-configured rules.
type RuleViolation struct {
	RuleID    string
	Check     string
	Violation arch.Violation
}

// Label returns "ruleID" or "ruleID#check".
func (rv RuleViolation) Label() string {
	if rv.Check == "" {
		return rv.RuleID
	}
	return rv.RuleID + "#" + rv.Check
}

// Outcome is the result of one engine run.
type Outcome struct {
	// Skipped is set when the skip gate short-circuited the run.
	Skipped    bool
	SkipReason string

	// Violations in execution order.
	Violations []RuleViolation
	// Failed is set when violations were found and the fail policy applied.
	Failed bool

	ChecksRun     int
	TypesAnalyzed int
}

// HasViolations reports whether any check found a violation.
func (o *Outcome) HasViolations() bool {
	return o != nil && len(o.Violations) > 0
}

// Report renders violations in order, one group per violation:
//
//	Rule Violated - <label>
//	Architecture Violation [Priority: <P>] - Rule '<description>' was violated (<n> times):
//	<detail>
func Report(violations []RuleViolation) string {
	var sb strings.Builder
	for _, rv := range violations {
		v := rv.Violation
		fmt.Fprintf(&sb, "Rule Violated - %s\n", rv.Label())
		fmt.Fprintf(&sb, "Architecture Violation [Priority: %s] - Rule '%s' was violated (%d times):\n",
			v.Priority, v.Description, v.Count())
		for _, d := range v.Details {
			sb.WriteString(d)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ActionKind is what the caller should do with an outcome.
type ActionKind int

// Actions.
const (
	ActionPass ActionKind = iota
	ActionFail
	ActionLogOnly
)

func (k ActionKind) String() string {
	switch k {
	case ActionFail:
		return "fail"
	case ActionLogOnly:
		return "log-only"
	default:
		return "pass"
	}
}

// Action is the decision for an outcome. Message is empty for ActionPass.
type Action struct {
	Kind    ActionKind
	Message string
}

// Decide applies the failure policy to an outcome.
func Decide(o *Outcome, noFailOnError bool) Action {
	if !o.HasViolations() {
		return Action{Kind: ActionPass}
	}
	msg := ReportHeader + Report(o.Violations)
	if noFailOnError {
		return Action{Kind: ActionLogOnly, Message: msg}
	}
	return Action{Kind: ActionFail, Message: msg}
}
