package plan

import (
	"proxy-generator/internal/analyze"
	"proxy-generator/internal/common"
)

// ProxyPlan is the final output of the planning pipeline.
// It contains every declaration the emission backend has to render.
type ProxyPlan struct {
	// Language is the target language tag the plan was produced for.
	Language string `yaml:"language"`
	// Types is the list of entity types to synthesize, bases before derived types.
	Types []TypeDecl `yaml:"types"`
	// Enums is the list of enum types to synthesize, sorted by identity.
	Enums []EnumDecl `yaml:"enums,omitempty"`
	// QualifiedNamespaces lists target namespaces whose references must be fully qualified.
	QualifiedNamespaces []string `yaml:"qualified_namespaces,omitempty"`
}

// Type returns the declaration for the source type id, or nil.
func (p *ProxyPlan) Type(id analyze.TypeID) *TypeDecl {
	for i := range p.Types {
		if p.Types[i].Source == id {
			return &p.Types[i]
		}
	}

	return nil
}

// TypeUse is a language-neutral reference to a type from generated code.
type TypeUse struct {
	Namespace string `yaml:"namespace,omitempty"`
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	// Qualified is true when the reference must be emitted with its namespace.
	Qualified bool     `yaml:"qualified,omitempty"`
	Elem      *TypeUse `yaml:"elem,omitempty"`
}

// String returns a readable form such as "[]Shop.Order" or "int32?".
func (u TypeUse) String() string {
	switch {
	case u.Elem != nil && u.Kind == analyze.TypeKindCollection.String():
		return "[]" + u.Elem.String()
	case u.Elem != nil:
		return u.Elem.String() + "?"
	case u.Qualified && u.Namespace != "":
		return u.Namespace + "." + u.Name
	default:
		return u.Name
	}
}

// TypeDecl plans a single generated entity type.
type TypeDecl struct {
	// Source is the identity of the server-side entity type.
	Source analyze.TypeID `yaml:"source"`
	// Namespace is the target namespace after remapping.
	Namespace string `yaml:"namespace"`
	Name      string `yaml:"name"`
	// Base is the nearest ancestor that is generated alongside, nil for roots.
	Base *TypeUse `yaml:"base,omitempty"`
	// Root is the furthest generated ancestor (the type itself for roots).
	Root analyze.TypeID `yaml:"root"`
	// Units lists the generation units exposing the type.
	Units []string `yaml:"units"`
	// IsShared is true when more than one unit exposes the type.
	IsShared     bool              `yaml:"is_shared,omitempty"`
	Attributes   []AttributeDecl   `yaml:"attributes,omitempty"`
	Properties   []PropertyDecl    `yaml:"properties,omitempty"`
	Associations []AssociationDecl `yaml:"associations,omitempty"`
	Methods      []MethodDecl      `yaml:"methods,omitempty"`
	// IdentityKeys lists the key members used for identity checks. Only set on roots.
	IdentityKeys []string `yaml:"identity_keys,omitempty"`
}

// Property returns the planned property with the given name, or nil.
func (d *TypeDecl) Property(name string) *PropertyDecl {
	for i := range d.Properties {
		if d.Properties[i].Name == name {
			return &d.Properties[i]
		}
	}

	return nil
}

// Association returns the planned association for the given member, or nil.
func (d *TypeDecl) Association(member string) *AssociationDecl {
	for i := range d.Associations {
		if d.Associations[i].Member == member {
			return &d.Associations[i]
		}
	}

	return nil
}

// PropertyDecl plans a plain data member.
type PropertyDecl struct {
	Name       string          `yaml:"name"`
	Type       TypeUse         `yaml:"type"`
	IsKey      bool            `yaml:"is_key,omitempty"`
	Attributes []AttributeDecl `yaml:"attributes,omitempty"`
	// LiftedFrom names the declaring type when the member was flattened out of
	// an ancestor that is not generated.
	LiftedFrom string `yaml:"lifted_from,omitempty"`
}

// AttributeDecl is an attribute carried over to a declaration.
type AttributeDecl struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args,omitempty"`
}

// MethodDecl plans a custom method on an entity.
type MethodDecl struct {
	Name   string    `yaml:"name"`
	Params []TypeUse `yaml:"params,omitempty"`
}

// EnumDecl plans a generated enum type.
type EnumDecl struct {
	Source    analyze.TypeID      `yaml:"source"`
	Namespace string              `yaml:"namespace"`
	Name      string              `yaml:"name"`
	Values    []analyze.EnumValue `yaml:"values,omitempty"`
}

// Cardinality is the multiplicity of one association end.
type Cardinality int

const (
	// CardinalitySingleton - the member holds at most one entity.
	CardinalitySingleton Cardinality = iota
	// CardinalityCollection - the member holds a collection of entities.
	CardinalityCollection
)

// String returns a human-readable cardinality name.
func (c Cardinality) String() string {
	switch c {
	case CardinalitySingleton:
		return "singleton"
	case CardinalityCollection:
		return "collection"
	default:
		return common.UnknownStr
	}
}

// MarshalYAML renders the cardinality by name.
func (c Cardinality) MarshalYAML() (any, error) {
	return c.String(), nil
}

// AssignStep is one step of a planned singleton association setter.
type AssignStep int

const (
	// StepSkipIfUnchanged - return early when the new value equals the current one.
	StepSkipIfUnchanged AssignStep = iota
	// StepDetachPrevious - remove this entity from the previous target's reverse end.
	StepDetachPrevious
	// StepSyncKeys - copy other-key values into this-key members (non-nil value).
	StepSyncKeys
	// StepResetKeys - reset this-key members to their defaults (nil value).
	StepResetKeys
	// StepAssign - store the new reference.
	StepAssign
	// StepAttachNew - add this entity to the new target's reverse end.
	StepAttachNew
	// StepNotify - raise a single change notification.
	StepNotify
)

// String returns a human-readable step name.
func (s AssignStep) String() string {
	switch s {
	case StepSkipIfUnchanged:
		return "skip_if_unchanged"
	case StepDetachPrevious:
		return "detach_previous"
	case StepSyncKeys:
		return "sync_keys"
	case StepResetKeys:
		return "reset_keys"
	case StepAssign:
		return "assign"
	case StepAttachNew:
		return "attach_new"
	case StepNotify:
		return "notify"
	default:
		return common.UnknownStr
	}
}

// MarshalYAML renders the step by name.
func (s AssignStep) MarshalYAML() (any, error) {
	return s.String(), nil
}

// KeyPair maps a this-key member onto the other-key member it mirrors.
type KeyPair struct {
	This  string `yaml:"this"`
	Other string `yaml:"other"`
}

// AssociationDecl plans one end of an association.
type AssociationDecl struct {
	// Name is the association name shared by both ends.
	Name string `yaml:"name"`
	// Member is the owning member on this end.
	Member      string      `yaml:"member"`
	Target      TypeUse     `yaml:"target"`
	Cardinality Cardinality `yaml:"cardinality"`
	ThisKey     []string    `yaml:"this_key,omitempty"`
	OtherKey    []string    `yaml:"other_key,omitempty"`
	// IsForeignKey is true when this end owns the foreign key.
	IsForeignKey bool `yaml:"is_foreign_key,omitempty"`
	// Reverse is the member on the target forming the other end, if any.
	Reverse string `yaml:"reverse,omitempty"`
	// ReverseCardinality is meaningful only when Reverse is set.
	ReverseCardinality Cardinality `yaml:"reverse_cardinality,omitempty"`
	// IsBiDirectional is true when the reverse end is also generated.
	IsBiDirectional bool `yaml:"is_bidirectional,omitempty"`
	// Attach and Detach name the mutators a bidirectional collection end uses
	// to fix up the reverse reference of added and removed entities.
	Attach string `yaml:"attach,omitempty"`
	Detach string `yaml:"detach,omitempty"`
	// KeySync lists this-key <- other-key copies performed on assignment.
	KeySync []KeyPair `yaml:"key_sync,omitempty"`
	// Setter is the ordered assignment plan of a singleton end.
	Setter     []AssignStep    `yaml:"setter,omitempty"`
	Attributes []AttributeDecl `yaml:"attributes,omitempty"`
	// LiftedFrom names the declaring type when the member was flattened.
	LiftedFrom string `yaml:"lifted_from,omitempty"`
}

// HasStep reports whether the setter plan contains step.
func (a *AssociationDecl) HasStep(step AssignStep) bool {
	for _, s := range a.Setter {
		if s == step {
			return true
		}
	}

	return false
}
