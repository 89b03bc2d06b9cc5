// Package hookkind defines the closed set of build-backend hooks the daemon
// knows how to drive, and the fixed, ordered argument schema each one prompts
// for. Dispatch is a closed match, not reflective method discovery: adding a
// hook means adding a table entry, not opening up the wire protocol.
package hookkind

import "fmt"

// Kind identifies one of the standardized build-backend hooks.
type Kind string

const (
	BuildWheel                      Kind = "build_wheel"
	BuildSdist                      Kind = "build_sdist"
	BuildEditable                   Kind = "build_editable"
	PrepareMetadataForBuildWheel    Kind = "prepare_metadata_for_build_wheel"
	PrepareMetadataForBuildEditable Kind = "prepare_metadata_for_build_editable"
	GetRequiresForBuildWheel        Kind = "get_requires_for_build_wheel"
	GetRequiresForBuildEditable     Kind = "get_requires_for_build_editable"
	GetRequiresForBuildSdist        Kind = "get_requires_for_build_sdist"
)

// All lists every valid hook name in enumeration order, the same order used
// when listing candidates in an InvalidHookName message.
var All = []Kind{
	BuildWheel,
	BuildSdist,
	BuildEditable,
	PrepareMetadataForBuildWheel,
	PrepareMetadataForBuildEditable,
	GetRequiresForBuildWheel,
	GetRequiresForBuildEditable,
	GetRequiresForBuildSdist,
}

// schemas lists the argument names of each hook in prompt order. The
// path-typed ones (see IsPathArg) are resolved relative to the daemon's
// working tree when non-empty; empty means unspecified.
var schemas = map[Kind][]string{
	BuildWheel:                      {"wheel_directory", "config_settings", "metadata_directory"},
	BuildEditable:                   {"wheel_directory", "config_settings", "metadata_directory"},
	BuildSdist:                      {"sdist_directory", "config_settings"},
	PrepareMetadataForBuildWheel:    {"metadata_directory", "config_settings"},
	PrepareMetadataForBuildEditable: {"metadata_directory", "config_settings"},
	GetRequiresForBuildWheel:        {"config_settings"},
	GetRequiresForBuildEditable:     {"config_settings"},
	GetRequiresForBuildSdist:        {"config_settings"},
}

// IsPathArg reports whether name (a "*_directory" name) denotes a filesystem
// path argument, resolved relative to the daemon's cwd rather than decoded
// as JSON or left as a bare string.
func IsPathArg(name string) bool {
	return len(name) > len("_directory") && name[len(name)-len("_directory"):] == "_directory"
}

// Valid reports whether name is one of the known hook kinds.
func Valid(name string) (Kind, bool) {
	for _, k := range All {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// ArgNames returns the ordered argument names prompted for k. Panics if k is
// not a member of All — callers must validate with Valid first.
func ArgNames(k Kind) []string {
	names, ok := schemas[k]
	if !ok {
		panic(fmt.Sprintf("hookkind: no argument schema for %q", k))
	}
	return names
}

// QuotedList renders every known hook name, single-quoted and comma-joined,
// in enumeration order, for use in InvalidHookName messages.
func QuotedList() string {
	out := ""
	for i, k := range All {
		if i > 0 {
			out += ", "
		}
		out += "'" + string(k) + "'"
	}
	return out
}
