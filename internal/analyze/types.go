package analyze

import (
	"sort"

	"proxy-generator/internal/common"
)

// TypeID uniquely identifies a type by its namespace and simple name.
type TypeID struct {
	Namespace string // e.g., "Shop.Models"
	Name      string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.Namespace == "" {
		return t.Name
	}

	return t.Namespace + "." + t.Name
}

// TypeRef is a stable interned handle to a TypeInfo inside a Model.
// The zero value is NoType.
type TypeRef int32

// NoType is the absent type reference (e.g. the base of a root entity).
const NoType TypeRef = 0

// IsValid returns true if the reference points at a type.
func (r TypeRef) IsValid() bool {
	return r != NoType
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown    TypeKind = iota
	TypeKindPrimitive           // int, string, bool, time, etc.
	TypeKindEnum                // named set of constants
	TypeKindEntity              // keyed data-model type
	TypeKindComplex             // structured type without identity
	TypeKindCollection          // enumerable of another type
	TypeKindNullable            // optional wrapper of another type
	TypeKindExternal            // opaque type owned by some other module
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindPrimitive:
		return "primitive"
	case TypeKindEnum:
		return "enum"
	case TypeKindEntity:
		return "entity"
	case TypeKindComplex:
		return "complex"
	case TypeKindCollection:
		return "collection"
	case TypeKindNullable:
		return "nullable"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a type in the metadata model.
type TypeInfo struct {
	ID         TypeID        // Unique identifier (synthesized for collections and nullables)
	Kind       TypeKind      // Kind of type
	Primitive  PrimitiveKind // For primitives, the simple kind
	Elem       TypeRef       // For collections and nullables, the element type
	Base       TypeRef       // For entities, the declared base type (NoType for roots)
	Members    []Member      // Members declared on this type, in adapter order
	Methods    []Method      // Custom methods exposed by an entity
	Attributes []Attribute   // Explicit (non-inherited) attributes
	EnumValues []EnumValue   // For enums, the declared values
	Public     bool          // Visible outside its owning module
	Nested     bool          // Declared inside another type
	System     bool          // Owned by a platform/system module
	// Serializable marks complex and external types that can cross the wire.
	// Primitives, enums and entities are always serializable.
	Serializable bool
}

// IsEntity returns true for entity types.
func (t *TypeInfo) IsEntity() bool {
	return t.Kind == TypeKindEntity
}

// Member describes a property of a type.
type Member struct {
	Name        string
	Declaring   TypeRef     // Type that declares the member (may differ from the owner for projected members)
	Type        TypeRef     // Value type
	Attributes  []Attribute // Explicit attributes
	IsKey       bool
	Excluded    bool
	Overridable bool // Accessor is virtual/overrides a base accessor
	HidesBase   bool // Accessor hides a same-named base member
	// NotSerialized marks members the adapter found excluded from the data contract.
	NotSerialized bool
	Association   *AssociationInfo
}

// AssociationInfo is the association metadata attached to a member.
type AssociationInfo struct {
	Name         string
	ThisKey      []string
	OtherKey     []string
	IsForeignKey bool
}

// Attribute is an explicit attribute recorded by the metadata adapter.
type Attribute struct {
	Name string
	Args []string
	// Failure holds the adapter's error text when the attribute could not be
	// materialized. Such attributes are dropped from the plan.
	Failure string
}

// Method is a custom method exposed by an entity.
type Method struct {
	Name   string
	Params []TypeRef
}

// EnumValue is a single named enum constant.
type EnumValue struct {
	Name  string
	Value string
}

// Model is an immutable snapshot of the metadata graph. Types are stored in an
// arena and addressed by TypeRef so cyclic references never nest by value.
type Model struct {
	types []TypeInfo // index 0 is reserved for NoType
	byID  map[TypeID]TypeRef
}

// Type returns the TypeInfo for a reference, or nil for NoType or an out of range ref.
func (m *Model) Type(ref TypeRef) *TypeInfo {
	if ref <= NoType || int(ref) >= len(m.types) {
		return nil
	}

	return &m.types[ref]
}

// Lookup returns the reference of a named type.
func (m *Model) Lookup(id TypeID) (TypeRef, bool) {
	ref, ok := m.byID[id]
	return ref, ok
}

// ID returns the identifier of a referenced type, or the zero TypeID.
func (m *Model) ID(ref TypeRef) TypeID {
	if t := m.Type(ref); t != nil {
		return t.ID
	}

	return TypeID{}
}

// Len returns the number of types in the model.
func (m *Model) Len() int {
	return len(m.types) - 1
}

// Entities returns all entity types sorted by identifier.
func (m *Model) Entities() []TypeRef {
	return m.ofKind(TypeKindEntity)
}

// Enums returns all enum types sorted by identifier.
func (m *Model) Enums() []TypeRef {
	return m.ofKind(TypeKindEnum)
}

func (m *Model) ofKind(kind TypeKind) []TypeRef {
	var refs []TypeRef

	for i := 1; i < len(m.types); i++ {
		if m.types[i].Kind == kind {
			refs = append(refs, TypeRef(i))
		}
	}

	m.SortRefs(refs)

	return refs
}

// SortRefs sorts references by their identifier string.
func (m *Model) SortRefs(refs []TypeRef) {
	sort.Slice(refs, func(a, b int) bool {
		return m.ID(refs[a]).String() < m.ID(refs[b]).String()
	})
}

// IsAncestor reports whether anc appears on the base chain of t (t itself excluded).
func (m *Model) IsAncestor(t, anc TypeRef) bool {
	found := false

	m.walkBases(t, func(b TypeRef) bool {
		if b == anc {
			found = true
			return false
		}

		return true
	})

	return found
}

// walkBases calls fn for each ancestor of t, nearest first, until fn returns false.
// The walk is bounded by the arena size so a malformed chain cannot loop forever.
func (m *Model) walkBases(t TypeRef, fn func(TypeRef) bool) {
	cur := m.Type(t)
	for steps := 0; cur != nil && cur.Base.IsValid() && steps < len(m.types); steps++ {
		if !fn(cur.Base) {
			return
		}

		cur = m.Type(cur.Base)
	}
}

// Bases returns the ancestors of t, nearest first.
func (m *Model) Bases(t TypeRef) []TypeRef {
	var out []TypeRef

	m.walkBases(t, func(b TypeRef) bool {
		out = append(out, b)
		return true
	})

	return out
}

// Properties returns every member visible on t: its own members plus the members
// of all ancestors, where a nearer declaration hides a farther one with the same
// name. The result is sorted by name.
func (m *Model) Properties(t TypeRef) []*Member {
	seen := make(map[string]bool)

	var out []*Member

	collect := func(ref TypeRef) {
		info := m.Type(ref)
		if info == nil {
			return
		}

		for i := range info.Members {
			member := &info.Members[i]
			if seen[member.Name] {
				continue
			}

			seen[member.Name] = true
			out = append(out, member)
		}
	}

	collect(t)

	for _, b := range m.Bases(t) {
		collect(b)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Name < out[b].Name
	})

	return out
}

// Property returns the visible member named name on t, or nil.
func (m *Model) Property(t TypeRef, name string) *Member {
	for _, p := range m.Properties(t) {
		if p.Name == name {
			return p
		}
	}

	return nil
}

// ElementType strips collection and nullable wrappers.
func (m *Model) ElementType(ref TypeRef) TypeRef {
	for steps := 0; steps < len(m.types); steps++ {
		info := m.Type(ref)
		if info == nil || (info.Kind != TypeKindCollection && info.Kind != TypeKindNullable) {
			return ref
		}

		ref = info.Elem
	}

	return ref
}

// IsCollection reports whether ref is a collection (optionally behind a nullable).
func (m *Model) IsCollection(ref TypeRef) bool {
	info := m.Type(ref)
	if info != nil && info.Kind == TypeKindNullable {
		info = m.Type(info.Elem)
	}

	return info != nil && info.Kind == TypeKindCollection
}

// IsSerializable reports whether values of ref can cross the wire.
func (m *Model) IsSerializable(ref TypeRef) bool {
	for steps := 0; steps < len(m.types); steps++ {
		info := m.Type(ref)
		if info == nil {
			return false
		}

		switch info.Kind {
		case TypeKindPrimitive, TypeKindEnum, TypeKindEntity:
			return true
		case TypeKindCollection, TypeKindNullable:
			ref = info.Elem
		case TypeKindComplex, TypeKindExternal:
			return info.Serializable
		default:
			return false
		}
	}

	return false
}

// EnumOf returns the enum referenced by ref through nullable and collection
// wrappers, or NoType.
func (m *Model) EnumOf(ref TypeRef) TypeRef {
	elem := m.ElementType(ref)
	if info := m.Type(elem); info != nil && info.Kind == TypeKindEnum {
		return elem
	}

	return NoType
}

// IsSimple reports whether ref is a primitive or an enum, optionally nullable.
func (m *Model) IsSimple(ref TypeRef) bool {
	info := m.Type(ref)
	if info != nil && info.Kind == TypeKindNullable {
		info = m.Type(info.Elem)
	}

	if info == nil {
		return false
	}

	return info.Kind == TypeKindEnum || (info.Kind == TypeKindPrimitive && info.Primitive.IsSimpleKey())
}
