package plan

import (
	"fmt"

	"proxy-generator/internal/analyze"
	"proxy-generator/internal/diagnostic"
	"proxy-generator/internal/sharing"
)

// Decision is the outcome of planning a single property on an entity.
type Decision struct {
	// Declare is true when the entity must declare the property.
	Declare bool
	// Code and Reason explain a skip. They are empty for declarations.
	Code   string
	Reason string
	// IsError is true when the skip is a reportable error.
	IsError bool
}

func declare() Decision {
	return Decision{Declare: true}
}

func skip(code, reason string) Decision {
	return Decision{Code: code, Reason: reason}
}

func reject(code, reason string) Decision {
	return Decision{Code: code, Reason: reason, IsError: true}
}

// MemberPlanner decides, property by property, what a generated entity declares.
// Decide has no side effects so the association planner can ask about the
// reverse end of an association without producing diagnostics.
type MemberPlanner struct {
	model  *analyze.Model
	oracle sharing.Oracle
	known  map[analyze.TypeRef]bool
}

// NewMemberPlanner creates a member planner. known is the set of entity types
// exposed by any unit.
func NewMemberPlanner(model *analyze.Model, oracle sharing.Oracle, known map[analyze.TypeRef]bool) *MemberPlanner {
	return &MemberPlanner{model: model, oracle: oracle, known: known}
}

// Decide applies the ordered member rules; the first matching rule wins.
func (p *MemberPlanner) Decide(entity analyze.TypeRef, agg *Aggregate, prop *analyze.Member) Decision {
	if prop.Excluded {
		return skip(diagnostic.CodeMemberSkipped, "member is explicitly excluded")
	}

	declaring := p.model.ID(prop.Declaring)
	if p.oracle.PropertyShareKind(declaring, prop.Name) == sharing.SharedByReference {
		return skip(diagnostic.CodeMemberSkipped, "member is already visible by reference")
	}

	if !p.ShouldFlatten(entity, agg, prop) {
		return skip(diagnostic.CodeMemberSkipped, "member is declared by a generated ancestor")
	}

	if prop.IsKey && !p.model.IsSimple(prop.Type) {
		return reject(diagnostic.CodeKeyTypeNotSupported,
			fmt.Sprintf("key member type %s is not a supported simple type", p.model.ID(prop.Type)))
	}

	elem := p.model.ElementType(prop.Type)
	if !p.known[elem] {
		// An entity no unit exposes is never generated, so it cannot be referenced
		unexposed := p.isEntity(elem)

		if prop.NotSerialized || unexposed || !p.model.IsSerializable(prop.Type) {
			if prop.IsKey {
				return reject(diagnostic.CodeKeyNotSerializable, "key member is not serializable")
			}

			reason := fmt.Sprintf("member type %s is not serializable", p.model.ID(prop.Type))
			if unexposed {
				reason = fmt.Sprintf("member type %s is an entity no unit exposes", p.model.ID(elem))
			}

			return skip(diagnostic.CodeNonSerializableSkipped, reason)
		}
	}

	if p.hidesVisibleOverride(entity, agg, prop) {
		return skip(diagnostic.CodePolymorphicMemberSkipped,
			"overridable member is already declared by a generated base type")
	}

	return declare()
}

func (p *MemberPlanner) isEntity(ref analyze.TypeRef) bool {
	info := p.model.Type(ref)
	return info != nil && info.Kind == analyze.TypeKindEntity
}

// ShouldFlatten reports whether entity is the one generated type that declares
// prop. Across a hierarchy with ancestors missing from agg, exactly one
// entity answers true for each member.
func (p *MemberPlanner) ShouldFlatten(entity analyze.TypeRef, agg *Aggregate, prop *analyze.Member) bool {
	declaring := prop.Declaring
	if declaring == entity {
		return true
	}

	// Projected members come from outside the hierarchy
	if !p.model.IsAncestor(entity, declaring) {
		return true
	}

	if agg.Contains(declaring) {
		return false
	}

	for _, b := range p.model.Bases(entity) {
		if b == declaring {
			return true
		}

		if agg.Contains(b) {
			return false
		}
	}

	return false
}

// hidesVisibleOverride reports whether prop is an overridable accessor declared
// on entity itself while a generated ancestor already exposes the same name.
func (p *MemberPlanner) hidesVisibleOverride(entity analyze.TypeRef, agg *Aggregate, prop *analyze.Member) bool {
	if prop.Declaring != entity || !prop.Overridable || prop.HidesBase {
		return false
	}

	for _, b := range p.model.Bases(entity) {
		if agg.Contains(b) && p.model.Property(b, prop.Name) != nil {
			return true
		}
	}

	return false
}
