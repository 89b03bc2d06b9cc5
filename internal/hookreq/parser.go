// Package hookreq implements the hook request parser: for a "run" request,
// it prompts the client for the fixed preamble and then the hook-specific
// argument sequence, decoding and validating each value in turn.
package hookreq

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/danshapiro/hookd/internal/backendspec"
	"github.com/danshapiro/hookd/internal/classify"
	"github.com/danshapiro/hookd/internal/hookkind"
	"github.com/danshapiro/hookd/internal/protocol"
	"github.com/danshapiro/hookd/internal/pyrepr"
)

var configSettingsSchema = mustCompileObjectSchema()

func mustCompileObjectSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("config_settings.json", strings.NewReader(`{"type":"object"}`)); err != nil {
		panic(err)
	}
	s, err := c.Compile("config_settings.json")
	if err != nil {
		panic(err)
	}
	return s
}

// Arg is one decoded hook argument, in prompt order.
type Arg struct {
	Name string

	// Path-typed arguments (*_directory): PathSet is false when the client
	// sent an empty line ("unspecified"); otherwise PathValue is the
	// absolute, cwd-resolved path.
	PathSet   bool
	PathValue string

	// config_settings: SettingsSet is false when the client sent an empty
	// line; otherwise Settings is the decoded JSON object.
	SettingsSet bool
	Settings    map[string]any
}

// Request is a fully parsed "run" request, ready to hand to the worker.
type Request struct {
	Spec        backendspec.Spec
	BackendPath string
	Hook        hookkind.Kind
	Args        []Arg
}

// Formatted renders this request's arguments as "name=value, ..." in prompt
// order, Python-repr style, for the DEBUG Calling line.
func (r *Request) Formatted() string {
	names := make([]string, len(r.Args))
	values := make([]string, len(r.Args))
	for i, a := range r.Args {
		names[i] = a.Name
		switch {
		case hookkind.IsPathArg(a.Name):
			values[i] = pyrepr.OptionalPath(a.PathValue, a.PathSet)
		default:
			if a.SettingsSet {
				values[i] = pyrepr.JSONObject(a.Settings)
			} else {
				values[i] = pyrepr.None
			}
		}
	}
	return pyrepr.KeywordArgs(names, values)
}

// Parse prompts c for the run preamble and, once a valid hook name is read,
// for that hook's argument sequence, resolving path arguments against cwd.
//
// Three outcomes are distinguished by design: a transport error (the third
// return) means the control pipe itself failed and is fatal — the caller
// must propagate it and exit, never report it as a protocol ERROR line. A
// classified error (the second return) is a non-fatal protocol failure
// reported as ERROR/TRACEBACK, with no STDOUT/STDERR announcement since the
// capture phase is never reached. Otherwise the request is ready to hand to
// the worker.
func Parse(c *protocol.IO, cwd string) (*Request, *classify.Error, error) {
	backend, cerr, err := expectLine(c, "build-backend")
	if cerr != nil || err != nil {
		return nil, cerr, err
	}
	backendPath, cerr, err := expectLine(c, "backend-path")
	if cerr != nil || err != nil {
		return nil, cerr, err
	}
	hookName, cerr, err := expectLine(c, "hook-name")
	if cerr != nil || err != nil {
		return nil, cerr, err
	}

	kind, ok := hookkind.Valid(hookName)
	if !ok {
		return nil, classify.New(classify.InvalidHookName, fmt.Sprintf(
			"The name '%s' is not valid hook. Expected one of: %s", hookName, hookkind.QuotedList())), nil
	}

	names := hookkind.ArgNames(kind)
	args := make([]Arg, 0, len(names))
	for _, name := range names {
		raw, cerr, err := expectLine(c, name)
		if cerr != nil || err != nil {
			return nil, cerr, err
		}
		arg, cerr := decodeArg(name, raw, cwd)
		if cerr != nil {
			return nil, cerr, nil
		}
		args = append(args, arg)
	}

	return &Request{
		Spec:        backendspec.Parse(backend),
		BackendPath: backendPath,
		Hook:        kind,
		Args:        args,
	}, nil, nil
}

// expectLine emits "EXPECT <field>" and reads the reply. Its first error
// return is always nil — it exists purely so callers can propagate via the
// same three-value shape as decodeArg and Parse itself.
func expectLine(c *protocol.IO, field string) (string, *classify.Error, error) {
	if err := c.Expect(field); err != nil {
		return "", nil, err
	}
	line, err := c.ReadLine()
	if err != nil {
		return "", nil, err
	}
	return line, nil, nil
}

func decodeArg(name, raw, cwd string) (Arg, *classify.Error) {
	if name == "config_settings" {
		if raw == "" {
			return Arg{Name: name}, nil
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return Arg{}, malformed(raw)
		}
		if err := configSettingsSchema.Validate(v); err != nil {
			return Arg{}, malformed(raw)
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return Arg{}, malformed(raw)
		}
		return Arg{Name: name, SettingsSet: true, Settings: obj}, nil
	}

	if raw == "" {
		return Arg{Name: name}, nil
	}
	path := raw
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	return Arg{Name: name, PathSet: true, PathValue: path}, nil
}

func malformed(raw string) *classify.Error {
	return classify.New(classify.MalformedHookArgument,
		fmt.Sprintf("Malformed content for argument 'config_settings': '%s'", raw))
}
