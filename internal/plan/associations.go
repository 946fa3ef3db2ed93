package plan

import (
	"fmt"
	"strings"

	"proxy-generator/internal/analyze"
	"proxy-generator/internal/common"
	"proxy-generator/internal/diagnostic"
)

// AssociationPlanner pairs association ends and plans their fixup wiring.
type AssociationPlanner struct {
	model   *analyze.Model
	members *MemberPlanner
	known   map[analyze.TypeRef]bool
	aggs    map[analyze.TypeRef]*Aggregate
	// generated holds the entities that are synthesized in this run
	generated map[analyze.TypeRef]bool
	sink      diagnostic.Sink
}

// NewAssociationPlanner creates an association planner. aggs maps every known
// entity to its aggregate; generated is the subset synthesized in this run.
func NewAssociationPlanner(
	model *analyze.Model,
	members *MemberPlanner,
	aggs map[analyze.TypeRef]*Aggregate,
	generated map[analyze.TypeRef]bool,
	sink diagnostic.Sink,
) *AssociationPlanner {
	known := make(map[analyze.TypeRef]bool, len(aggs))
	for ref := range aggs {
		known[ref] = true
	}

	return &AssociationPlanner{
		model:     model,
		members:   members,
		known:     known,
		aggs:      aggs,
		generated: generated,
		sink:      sink,
	}
}

// Target returns the known entity type prop refers to (through collection and
// nullable wrappers), or analyze.NoType when prop is a plain member.
func (p *AssociationPlanner) Target(prop *analyze.Member) analyze.TypeRef {
	elem := p.model.ElementType(prop.Type)
	if p.known[elem] {
		return elem
	}

	return analyze.NoType
}

// Plan plans the association end owned by prop on entity. It returns false
// when the end cannot be generated; the reason has already been reported.
func (p *AssociationPlanner) Plan(entity analyze.TypeRef, prop *analyze.Member) (AssociationDecl, bool) {
	typeName := p.model.ID(entity).String()
	target := p.Target(prop)

	decl := AssociationDecl{
		Member:      prop.Name,
		Cardinality: CardinalitySingleton,
	}

	if p.model.IsCollection(prop.Type) {
		decl.Cardinality = CardinalityCollection
	}

	info := prop.Association
	if info == nil {
		// No association metadata: a one-way navigation without key wiring
		return decl, true
	}

	decl.Name = info.Name
	decl.ThisKey = append([]string(nil), info.ThisKey...)
	decl.OtherKey = append([]string(nil), info.OtherKey...)
	decl.IsForeignKey = info.IsForeignKey

	if !p.validateKeys(entity, target, prop, typeName) {
		return decl, false
	}

	reverse, ok := p.reverse(target, prop, typeName)
	if !ok {
		return decl, false
	}

	if reverse != nil {
		decl.Reverse = reverse.Name
		if p.model.IsCollection(reverse.Type) {
			decl.ReverseCardinality = CardinalityCollection
		}

		decl.IsBiDirectional = p.reverseDeclared(target, reverse)
	}

	if decl.IsForeignKey {
		for i := range decl.ThisKey {
			decl.KeySync = append(decl.KeySync, KeyPair{This: decl.ThisKey[i], Other: decl.OtherKey[i]})
		}
	}

	if decl.Cardinality == CardinalityCollection {
		if decl.IsBiDirectional {
			decl.Attach = "Attach" + prop.Name
			decl.Detach = "Detach" + prop.Name
		}

		return decl, true
	}

	decl.Setter = setterSteps(decl)

	return decl, true
}

// reverseDeclared reports whether the generated type in target's chain that
// owns reverse actually declares it. The owner is target itself or the
// generated base the member is flattened into.
func (p *AssociationPlanner) reverseDeclared(target analyze.TypeRef, reverse *analyze.Member) bool {
	agg := p.aggs[target]
	chain := append([]analyze.TypeRef{target}, p.model.Bases(target)...)

	for _, t := range chain {
		if t != target && !agg.Contains(t) {
			continue
		}

		if p.members.ShouldFlatten(t, agg, reverse) {
			return p.generated[t] && p.members.Decide(t, p.aggs[t], reverse).Declare
		}
	}

	return false
}

// setterSteps orders the work of a singleton setter. Keys are synchronized
// before the reference is stored so key-indexed lookups stay valid.
func setterSteps(decl AssociationDecl) []AssignStep {
	steps := []AssignStep{StepSkipIfUnchanged}

	if decl.IsBiDirectional {
		steps = append(steps, StepDetachPrevious)
	}

	if decl.IsForeignKey && len(decl.KeySync) > 0 {
		steps = append(steps, StepSyncKeys, StepResetKeys)
	}

	steps = append(steps, StepAssign)

	if decl.IsBiDirectional {
		steps = append(steps, StepAttachNew)
	}

	return append(steps, StepNotify)
}

// reverse finds the member on target that forms the other end of prop's
// association. A missing reverse is a legal one-way association; more than one
// candidate is reported as ambiguous.
func (p *AssociationPlanner) reverse(target analyze.TypeRef, prop *analyze.Member, typeName string) (*analyze.Member, bool) {
	var candidates []*analyze.Member

	for _, q := range p.model.Properties(target) {
		if q == prop || q.Association == nil || q.Association.Name != prop.Association.Name {
			continue
		}

		candidates = append(candidates, q)
	}

	if !common.IsMultiple(candidates) {
		q, _ := common.First(candidates)
		return q, true
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}

	p.sink.LogError(diagnostic.CodeAmbiguousAssociation,
		fmt.Sprintf("association %q has several candidate reverse members on %s: %s",
			prop.Association.Name, p.model.ID(target), strings.Join(names, ", ")),
		typeName, prop.Name)

	return nil, false
}

func (p *AssociationPlanner) validateKeys(entity, target analyze.TypeRef, prop *analyze.Member, typeName string) bool {
	info := prop.Association
	ok := true

	if len(info.ThisKey) != len(info.OtherKey) {
		p.sink.LogError(diagnostic.CodeAssociationKeyMismatch,
			fmt.Sprintf("association %q pairs %d this-key members with %d other-key members",
				info.Name, len(info.ThisKey), len(info.OtherKey)),
			typeName, prop.Name)

		ok = false
	}

	for _, k := range info.ThisKey {
		if p.model.Property(entity, k) == nil {
			p.sink.LogError(diagnostic.CodeAssociationKeyNotFound,
				fmt.Sprintf("association %q: this-key member %q not found on %s", info.Name, k, p.model.ID(entity)),
				typeName, prop.Name)

			ok = false
		}
	}

	for _, k := range info.OtherKey {
		if p.model.Property(target, k) == nil {
			p.sink.LogError(diagnostic.CodeAssociationKeyNotFound,
				fmt.Sprintf("association %q: other-key member %q not found on %s", info.Name, k, p.model.ID(target)),
				typeName, prop.Name)

			ok = false
		}
	}

	return ok
}
