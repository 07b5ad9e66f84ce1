package gate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/archgate/pkg/arch"
	"github.com/leapstack-labs/archgate/pkg/rules"
)

// recordingHandler keeps every log record for assertions.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) at(level slog.Level) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var msgs []string
	for _, r := range h.records {
		if r.Level == level {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}

// countingLoader returns a fixed universe and counts calls.
type countingLoader struct {
	universe arch.Universe
	calls    int
}

func (l *countingLoader) Load(context.Context) (arch.Universe, error) {
	l.calls++
	return l.universe, nil
}

// violating returns a check reporting one detail per type name in the
// universe whose name is listed in offenders.
func violating(desc string, offenders ...string) arch.Check {
	bad := map[string]bool{}
	for _, o := range offenders {
		bad[o] = true
	}
	return arch.NewCheck(desc, func(u arch.Universe) ([]arch.Violation, error) {
		var details []string
		for _, t := range u.Types() {
			if bad[t.Name] {
				details = append(details, desc+" - "+t.FullName())
			}
		}
		if len(details) == 0 {
			return nil, nil
		}
		return []arch.Violation{{Description: desc, Details: details}}, nil
	})
}

func testUniverse() arch.Universe {
	return arch.NewUniverse([]arch.Type{
		{Package: "example.com/app/svc", Name: "Service", File: "svc.go"},
		{Package: "example.com/app/svc", Name: "Repo", File: "repo.go"},
		{Package: "example.com/app/svc", Name: "fakeRepo", File: "repo_test.go", Test: true},
		{Package: "example.com/lib", Name: "Helper", File: "helper.go"},
	})
}

func testRegistry() *rules.Registry {
	reg := rules.NewRegistry()
	reg.RegisterRule(rules.RuleDef{
		Name: "test.NoPowermock",
		Impl: arch.NewCheck("classes should not use Powermock", func(u arch.Universe) ([]arch.Violation, error) {
			if _, ok := u.Lookup("example.com/app/svc.fakeRepo"); !ok {
				return nil, nil
			}
			return []arch.Violation{{
				Description: "classes should not use Powermock",
				Details:     []string{"Favor Mockito and proper dependency injection - example.com/app/svc.fakeRepo"},
			}}, nil
		}),
	})
	reg.RegisterRule(rules.RuleDef{Name: "test.Clean", Impl: violating("types should be clean")})
	reg.RegisterProvider(rules.ProviderDef{
		Name: "test.Conventions",
		Catalog: []arch.NamedCheck{
			{Name: "noService", Check: violating("types should not be services", "Service")},
			{Name: "noRepo", Check: violating("types should not be repos", "Repo")},
			{Name: "noHelper", Check: violating("types should not be helpers", "Helper")},
		},
	})
	return reg
}
