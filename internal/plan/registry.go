package plan

import (
	"sort"

	"proxy-generator/internal/analyze"
)

// TypeRegistry tracks which simple names are in use inside each target
// namespace. A collision marks the whole namespace as conflicted, after which
// every reference emitted into it must be fully qualified. Conflict state only
// grows; a registry belongs to exactly one planning run.
type TypeRegistry struct {
	names      map[string]map[string]analyze.TypeID
	conflicted map[string]bool
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		names:      make(map[string]map[string]analyze.TypeID),
		conflicted: make(map[string]bool),
	}
}

// Register records that id is referenced by its simple name from namespace.
// It returns false when a different type already claimed the same simple name
// there. Registering the same pair again is a no-op.
func (r *TypeRegistry) Register(id analyze.TypeID, namespace string) bool {
	byName, ok := r.names[namespace]
	if !ok {
		byName = make(map[string]analyze.TypeID)
		r.names[namespace] = byName
	}

	existing, ok := byName[id.Name]
	if !ok {
		byName[id.Name] = id
		return true
	}

	if existing == id {
		return true
	}

	r.conflicted[namespace] = true

	return false
}

// IsQualified reports whether references emitted into namespace must carry
// their namespace.
func (r *TypeRegistry) IsQualified(namespace string) bool {
	return r.conflicted[namespace]
}

// Conflicts returns the conflicted namespaces in sorted order.
func (r *TypeRegistry) Conflicts() []string {
	out := make([]string, 0, len(r.conflicted))
	for ns := range r.conflicted {
		out = append(out, ns)
	}

	sort.Strings(out)

	return out
}

// Known returns the identities registered in namespace, sorted.
func (r *TypeRegistry) Known(namespace string) []analyze.TypeID {
	out := make([]analyze.TypeID, 0, len(r.names[namespace]))
	for _, id := range r.names[namespace] {
		out = append(out, id)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })

	return out
}
