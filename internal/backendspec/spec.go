// Package backendspec parses the client-supplied "build-backend" specifier
// string of the form module[(:|.)attr] into its module and attribute parts.
package backendspec

import "strings"

// Spec is a parsed backend specifier. Sep is the byte that separated module
// from attr in the original string ('.' or ':'), or 0 if there was no
// separator. Sep is remembered only for diagnostics — it never affects how
// the module or attribute are resolved.
type Spec struct {
	Module  string
	Attr    string
	HasAttr bool
	Sep     byte
	raw     string
}

// Parse splits raw on the first occurrence of either ':' or '.', whichever
// appears first. If neither appears, Attr is absent and the whole string is
// Module.
//
// Subtlety: a dotted import path like
// "pkg.sub" splits at the first dot into Module="pkg", Attr="sub" — the
// submodule is loaded by attribute access after importing the parent, which
// is the standardized convention. If the caller writes "pkg:sub" when sub is
// actually a submodule rather than an attribute, attribute lookup will fail
// downstream; that is by design, not a parsing bug.
func Parse(raw string) Spec {
	idx := strings.IndexAny(raw, ":.")
	if idx < 0 {
		return Spec{Module: raw, raw: raw}
	}
	return Spec{
		Module:  raw[:idx],
		Attr:    raw[idx+1:],
		HasAttr: true,
		Sep:     raw[idx],
		raw:     raw,
	}
}

// String renders the specifier exactly as originally supplied, preserving
// the caller's separator verbatim — required for diagnostics that must echo
// the client's own un-normalized input (e.g. MissingBackendAttribute,
// DEBUG Calling).
func (s Spec) String() string {
	if s.raw != "" {
		return s.raw
	}
	if !s.HasAttr {
		return s.Module
	}
	return s.Module + string(s.Sep) + s.Attr
}

// QualifiedHook renders "<spec>.<hook>" for the DEBUG Calling line, always
// using '.' between the specifier and the hook name regardless of the
// specifier's own separator.
func (s Spec) QualifiedHook(hook string) string {
	return s.String() + "." + hook
}
