package rulepack

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/archgate/pkg/arch"
)

// checksGlobal is the optional module-level list of declarative checks.
const checksGlobal = "checks"

type scriptDef struct {
	name string
	doc  string
}

func loadStarlark(id, path string, logger *slog.Logger) (*Pack, error) {
	src, err := os.ReadFile(path) //nolint:gosec // G304: path comes from rule configuration
	if err != nil {
		return nil, &LoadError{File: path, Message: err.Error()}
	}

	f, err := syntax.Parse(path, src, 0) //nolint:staticcheck // SA1019: matches ExecFile below
	if err != nil {
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	defs, doc := scanDefs(f)

	thread := &starlark.Thread{
		Name:  "load:" + filepath.Base(path),
		Print: printer(logger, path),
	}
	predeclared := starlark.StringDict{
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
	}
	globals, err := starlark.ExecFile(thread, path, src, predeclared) //nolint:staticcheck // SA1019: will migrate to ExecFileOptions later
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("Starlark execution error: %v", err)}
	}

	pack := &Pack{id: id, path: path, doc: doc}
	for _, def := range defs {
		fn, ok := globals[def.name].(*starlark.Function)
		if !ok {
			continue
		}
		if fn.NumParams() != 1 {
			return nil, &LoadError{File: path, Message: fmt.Sprintf("check %s must take exactly one parameter", def.name)}
		}
		desc := def.doc
		if desc == "" {
			desc = "types should satisfy " + def.name
		}
		pack.checks = append(pack.checks, arch.NamedCheck{
			Name:  def.name,
			Check: &scriptCheck{name: def.name, desc: desc, fn: fn, logger: logger, path: path},
		})
	}

	if v, ok := globals[checksGlobal]; ok {
		specs, err := decodeSpecs(v)
		if err != nil {
			return nil, &LoadError{File: path, Message: err.Error()}
		}
		for i, spec := range specs {
			check, err := spec.Compile()
			if err != nil {
				return nil, &LoadError{File: path, Message: fmt.Sprintf("%s[%d]: %v", checksGlobal, i, err)}
			}
			pack.checks = append(pack.checks, check)
		}
	}
	return pack, nil
}

// scanDefs returns public top-level functions in source order and the module
// docstring.
func scanDefs(f *syntax.File) ([]scriptDef, string) {
	var defs []scriptDef
	for _, stmt := range f.Stmts {
		def, ok := stmt.(*syntax.DefStmt)
		if !ok || strings.HasPrefix(def.Name.Name, "_") {
			continue
		}
		defs = append(defs, scriptDef{name: def.Name.Name, doc: docstring(def.Body)})
	}
	return defs, docstring(f.Stmts)
}

func docstring(body []syntax.Stmt) string {
	if len(body) == 0 {
		return ""
	}
	expr, ok := body[0].(*syntax.ExprStmt)
	if !ok {
		return ""
	}
	lit, ok := expr.X.(*syntax.Literal)
	if !ok || lit.Token != syntax.STRING {
		return ""
	}
	s, _ := lit.Value.(string)
	return strings.TrimSpace(s)
}

func decodeSpecs(v starlark.Value) ([]CheckSpec, error) {
	raw, err := toGo(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", checksGlobal, err)
	}
	var specs []CheckSpec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &specs,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", checksGlobal, err)
	}
	return specs, nil
}

func printer(logger *slog.Logger, path string) func(*starlark.Thread, string) {
	return func(th *starlark.Thread, msg string) {
		logger.Debug(msg, "pack", path, "thread", th.Name)
	}
}

// scriptCheck calls a Starlark function once per type. The function returns
// None, a string, or a list of strings describing each offence.
type scriptCheck struct {
	name   string
	desc   string
	fn     *starlark.Function
	logger *slog.Logger
	path   string
}

func (c *scriptCheck) Description() string { return c.desc }

func (c *scriptCheck) Evaluate(u arch.Universe) ([]arch.Violation, error) {
	thread := &starlark.Thread{
		Name:  "check:" + c.name,
		Print: printer(c.logger, c.path),
	}

	var details []string
	for _, t := range u.Types() {
		res, err := starlark.Call(thread, c.fn, starlark.Tuple{typeValue(t)}, nil)
		if err != nil {
			return nil, fmt.Errorf("%s on %s: %w", c.name, t.FullName(), err)
		}
		lines, err := detailLines(res)
		if err != nil {
			return nil, fmt.Errorf("%s on %s: %w", c.name, t.FullName(), err)
		}
		details = append(details, lines...)
	}

	if len(details) == 0 {
		return nil, nil
	}
	return []arch.Violation{{Description: c.desc, Details: details}}, nil
}

func detailLines(v starlark.Value) ([]string, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.String:
		if val == "" {
			return nil, nil
		}
		return []string{string(val)}, nil
	case starlark.Indexable:
		lines := make([]string, 0, val.Len())
		for i := 0; i < val.Len(); i++ {
			s, ok := val.Index(i).(starlark.String)
			if !ok {
				return nil, fmt.Errorf("result[%d] is %s, want string", i, val.Index(i).Type())
			}
			lines = append(lines, string(s))
		}
		return lines, nil
	default:
		return nil, fmt.Errorf("check returned %s, want list of strings or None", v.Type())
	}
}

func typeValue(t arch.Type) starlark.Value {
	fields := make(starlark.Tuple, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = starlarkstruct.FromStringDict(starlark.String("field"), starlark.StringDict{
			"name":     starlark.String(f.Name),
			"type":     starlark.String(f.Type),
			"tag":      starlark.String(f.Tag),
			"exported": starlark.Bool(f.Exported),
		})
	}
	return starlarkstruct.FromStringDict(starlark.String("type"), starlark.StringDict{
		"name":             starlark.String(t.Name),
		"package":          starlark.String(t.Package),
		"full_name":        starlark.String(t.FullName()),
		"kind":             starlark.String(t.Kind),
		"file":             starlark.String(t.File),
		"test":             starlark.Bool(t.Test),
		"exported":         starlark.Bool(t.Exported),
		"implements_error": starlark.Bool(t.ImplementsError),
		"imports":          stringTuple(t.Imports),
		"references":       stringTuple(t.References),
		"methods":          stringTuple(t.Methods),
		"embeds":           stringTuple(t.Embeds),
		"directives":       stringTuple(t.Directives),
		"fields":           fields,
	})
}

func stringTuple(ss []string) starlark.Tuple {
	t := make(starlark.Tuple, len(ss))
	for i, s := range ss {
		t[i] = starlark.String(s)
	}
	return t
}

// toGo converts the data subset of Starlark values into plain Go values.
func toGo(v starlark.Value) (any, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.String:
		return string(val), nil
	case starlark.Bool:
		return bool(val), nil
	case starlark.Int:
		i64, ok := val.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s out of range", val)
		}
		return i64, nil
	case starlark.Float:
		return float64(val), nil
	case *starlark.Dict:
		out := make(map[string]any, val.Len())
		for _, item := range val.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict key must be string, got %s", item[0].Type())
			}
			gv, err := toGo(item[1])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", string(key), err)
			}
			out[string(key)] = gv
		}
		return out, nil
	case starlark.Indexable:
		out := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			gv, err := toGo(val.Index(i))
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = gv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", v.Type())
	}
}
