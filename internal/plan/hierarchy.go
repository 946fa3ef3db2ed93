package plan

import (
	"fmt"
	"sort"

	"proxy-generator/internal/analyze"
	"proxy-generator/internal/common"
	"proxy-generator/internal/diagnostic"
)

// Unit is a generation unit: a named set of entity types exposed together.
type Unit struct {
	Name     string
	Entities []analyze.TypeID
}

// Aggregate is the set of entity types visible alongside an entity: the union
// of the entity sets of every unit exposing it.
type Aggregate struct {
	units   []string
	members map[analyze.TypeRef]bool
}

// NewAggregate creates an aggregate over the given units and entity types.
func NewAggregate(units []string, entities []analyze.TypeRef) *Aggregate {
	a := &Aggregate{
		units:   append([]string(nil), units...),
		members: make(map[analyze.TypeRef]bool, len(entities)),
	}

	sort.Strings(a.units)

	for _, e := range entities {
		a.members[e] = true
	}

	return a
}

// Contains reports whether t is part of the aggregate.
func (a *Aggregate) Contains(t analyze.TypeRef) bool {
	return a.members[t]
}

// IsShared is true when the aggregate spans more than one unit.
func (a *Aggregate) IsShared() bool {
	return common.IsMultiple(a.units)
}

// Units returns the unit names, sorted.
func (a *Aggregate) Units() []string {
	return a.units
}

type hierarchyKey struct {
	t   analyze.TypeRef
	agg *Aggregate
}

// Hierarchy answers base/root questions relative to an aggregate. Results are
// memoized per (type, aggregate).
type Hierarchy struct {
	model *analyze.Model
	bases map[hierarchyKey]analyze.TypeRef
	roots map[hierarchyKey]analyze.TypeRef
}

// NewHierarchy creates a resolver over model.
func NewHierarchy(model *analyze.Model) *Hierarchy {
	return &Hierarchy{
		model: model,
		bases: make(map[hierarchyKey]analyze.TypeRef),
		roots: make(map[hierarchyKey]analyze.TypeRef),
	}
}

// VisibleBaseType returns the nearest ancestor of t contained in agg, or
// analyze.NoType when t is a root within agg.
func (h *Hierarchy) VisibleBaseType(t analyze.TypeRef, agg *Aggregate) analyze.TypeRef {
	key := hierarchyKey{t: t, agg: agg}
	if b, ok := h.bases[key]; ok {
		return b
	}

	base := analyze.NoType

	for _, b := range h.model.Bases(t) {
		if agg.Contains(b) {
			base = b
			break
		}
	}

	h.bases[key] = base

	return base
}

// RootType returns the furthest ancestor of t contained in agg, or t itself.
func (h *Hierarchy) RootType(t analyze.TypeRef, agg *Aggregate) analyze.TypeRef {
	key := hierarchyKey{t: t, agg: agg}
	if r, ok := h.roots[key]; ok {
		return r
	}

	root := t

	for _, b := range h.model.Bases(t) {
		if agg.Contains(b) {
			root = b
		}
	}

	h.roots[key] = root

	return root
}

// VerifySharedRoot checks that every unit exposing t agrees on its root type.
// A disagreement is reported as an error and false is returned.
func (h *Hierarchy) VerifySharedRoot(
	t analyze.TypeRef,
	agg *Aggregate,
	unitAggs map[string]*Aggregate,
	sink diagnostic.Sink,
) bool {
	if !agg.IsShared() {
		return true
	}

	var (
		firstUnit string
		firstRoot analyze.TypeRef
	)

	for _, unit := range agg.Units() {
		unitAgg, ok := unitAggs[unit]
		if !ok {
			continue
		}

		root := h.RootType(t, unitAgg)
		if firstUnit == "" {
			firstUnit, firstRoot = unit, root
			continue
		}

		if root != firstRoot {
			sink.LogError(diagnostic.CodeSharedRootMismatch,
				fmt.Sprintf("entity %s has root %s in unit %q but root %s in unit %q",
					h.model.ID(t), h.model.ID(firstRoot), firstUnit, h.model.ID(root), unit),
				h.model.ID(t).String(), "")

			return false
		}
	}

	return true
}
