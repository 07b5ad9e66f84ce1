package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/archgate/pkg/arch"
)

// UniverseLoader produces the types checks run against.
type UniverseLoader interface {
	Load(ctx context.Context) (arch.Universe, error)
}

// UniverseLoaderFunc adapts a function into a UniverseLoader.
type UniverseLoaderFunc func(ctx context.Context) (arch.Universe, error)

// Load implements UniverseLoader.
func (f UniverseLoaderFunc) Load(ctx context.Context) (arch.Universe, error) {
	return f(ctx)
}

// Request is one engine invocation.
type Request struct {
	Skip          bool
	Unit          UnitKind
	PreConfigured []string
	Configurable  []ConfigurableRuleSpec
	NoFailOnError bool
}

// Engine maps a rule configuration onto check executions.
type Engine struct {
	resolver Resolver
	loader   UniverseLoader
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine.
func New(resolver Resolver, loader UniverseLoader, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		loader:   loader,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ruleRun is one resolved rule: its checks share a single scoped view.
type ruleRun struct {
	ruleID string
	scope  *arch.Scope
	checks []arch.NamedCheck
	// preConfigured rules report without a check name.
	preConfigured bool
}

// Run executes a request. Every rule is resolved before the universe is
// loaded, so configuration problems abort before any work is done. When
// violations fail the run, the outcome is returned together with a
// *FailureError.
func (e *Engine) Run(ctx context.Context, req Request) (*Outcome, error) {
	if reason, skip := ShouldSkip(req.Skip, req.Unit); skip {
		e.logger.Debug(reason)
		return &Outcome{Skipped: true, SkipReason: reason}, nil
	}

	rs, err := NewRuleSet(req.PreConfigured, req.Configurable)
	if err != nil {
		return nil, err
	}

	plan, err := e.plan(rs)
	if err != nil {
		return nil, err
	}

	u, err := e.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading types: %w", err)
	}

	outcome := &Outcome{TypesAnalyzed: u.Len()}
	for _, run := range plan {
		view := withoutIgnored(ApplyScope(u, run.scope), run.ruleID)
		for _, nc := range run.checks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			checkName := nc.Name
			if run.preConfigured {
				checkName = ""
			}
			e.logger.Debug("running check", "rule", run.ruleID, "check", checkName, "types", view.Len())
			frag, err := Execute(run.ruleID, checkName, nc.Check, view)
			if err != nil {
				return nil, err
			}
			outcome.ChecksRun++
			outcome.Violations = append(outcome.Violations, frag...)
		}
	}

	action := Decide(outcome, req.NoFailOnError)
	switch action.Kind {
	case ActionFail:
		outcome.Failed = true
		return outcome, &FailureError{Message: action.Message}
	case ActionLogOnly:
		e.logger.Info(action.Message)
	default:
		e.logger.Info("architecture rules passed", "checks", outcome.ChecksRun, "types", outcome.TypesAnalyzed)
	}
	return outcome, nil
}

// Validate resolves a request without loading or executing anything. It
// reports the same configuration errors Run would.
func (e *Engine) Validate(req Request) error {
	rs, err := NewRuleSet(req.PreConfigured, req.Configurable)
	if err != nil {
		return err
	}
	_, err = e.plan(rs)
	return err
}

// plan resolves every rule in rs into executable checks: pre-configured rules
// first, then configurable rules, each in declaration order. All resolution
// problems are reported together.
func (e *Engine) plan(rs *RuleSet) ([]ruleRun, error) {
	var (
		plan []ruleRun
		errs []error
	)

	for _, id := range rs.PreConfigured() {
		rule, err := e.resolver.ResolveRule(id)
		if err != nil {
			errs = append(errs, &RuleResolutionError{RuleID: id, Err: err})
			continue
		}
		check := rule.Check()
		if check == nil {
			errs = append(errs, &RuleResolutionError{RuleID: id, Err: errors.New("rule has no check")})
			continue
		}
		plan = append(plan, ruleRun{
			ruleID:        id,
			checks:        []arch.NamedCheck{{Name: id, Check: check}},
			preConfigured: true,
		})
	}

	for _, spec := range rs.Configurable() {
		if spec.Scope != nil {
			kind, err := arch.ParseScopeKind(string(spec.Scope.Kind))
			if err != nil {
				errs = append(errs, &ConfigurationError{RuleID: spec.Rule, Err: err})
				continue
			}
			spec.Scope.Kind = kind
		}
		cat, err := Discover(e.resolver, spec.Rule)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		checks, err := Select(spec, cat)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		plan = append(plan, ruleRun{ruleID: spec.Rule, scope: spec.Scope, checks: checks})
	}

	if len(errs) == 1 {
		return nil, errs[0]
	}
	if len(errs) > 1 {
		return nil, errors.Join(errs...)
	}
	return plan, nil
}
