package plan

import (
	"fmt"

	"proxy-generator/internal/analyze"
	"proxy-generator/internal/diagnostic"
	"proxy-generator/internal/sharing"
)

// EnumRegistry collects the enum types generated code refers to. The resulting
// set depends only on which distinct enums were referenced, never on order.
type EnumRegistry struct {
	model  *analyze.Model
	oracle sharing.Oracle
	sink   diagnostic.Sink

	registered map[analyze.TypeRef]bool
	exposable  map[analyze.TypeRef]bool
	generate   map[analyze.TypeRef]bool
}

// NewEnumRegistry creates an empty registry for one planning run.
func NewEnumRegistry(model *analyze.Model, oracle sharing.Oracle, sink diagnostic.Sink) *EnumRegistry {
	return &EnumRegistry{
		model:      model,
		oracle:     oracle,
		sink:       sink,
		registered: make(map[analyze.TypeRef]bool),
		exposable:  make(map[analyze.TypeRef]bool),
		generate:   make(map[analyze.TypeRef]bool),
	}
}

// CanExpose reports whether enum may be referenced from generated code.
// Non-public and nested enums never can, shared or not. An unshared enum owned
// by a system module cannot be synthesized either. The first failing check for
// an enum is reported once.
func (r *EnumRegistry) CanExpose(enum analyze.TypeRef) bool {
	if ok, seen := r.exposable[enum]; seen {
		return ok
	}

	info := r.model.Type(enum)
	name := info.ID.String()
	ok := true

	switch {
	case !info.Public || info.Nested:
		r.sink.LogError(diagnostic.CodeEnumNotExposable,
			fmt.Sprintf("enum %s must be public and not nested to be generated", name), name, "")

		ok = false

	case info.System && r.oracle.TypeShareKind(info.ID) == sharing.NotShared:
		r.sink.LogError(diagnostic.CodeEnumSystemType,
			fmt.Sprintf("enum %s belongs to a system module and is not shared with the target", name), name, "")

		ok = false
	}

	r.exposable[enum] = ok

	return ok
}

// RegisterUse records a reference to enum. Enums the target already sees are
// remembered but not generated.
func (r *EnumRegistry) RegisterUse(enum analyze.TypeRef) {
	if r.isRegistered(enum) {
		return
	}

	r.registered[enum] = true

	if r.oracle.TypeShareKind(r.model.ID(enum)).IsShared() {
		return
	}

	r.generate[enum] = true
}

// isRegistered reports whether enum has been registered.
func (r *EnumRegistry) isRegistered(enum analyze.TypeRef) bool {
	return r.registered[enum]
}

// Generated returns the enums to synthesize, sorted by identity.
func (r *EnumRegistry) Generated() []analyze.TypeRef {
	out := make([]analyze.TypeRef, 0, len(r.generate))
	for ref := range r.generate {
		out = append(out, ref)
	}

	r.model.SortRefs(out)

	return out
}
