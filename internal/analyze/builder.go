package analyze

import (
	"errors"
	"fmt"
	"sort"
)

type compositeKey struct {
	kind TypeKind
	elem TypeRef
}

// Builder assembles a Model. References may be taken before the referenced
// type is declared, which is how self-referencing and mutually referencing
// entities are described.
type Builder struct {
	types     []TypeInfo
	byID      map[TypeID]TypeRef
	composite map[compositeKey]TypeRef
	declared  map[TypeRef]bool
	errs      []error
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		types:     make([]TypeInfo, 1), // slot 0 is NoType
		byID:      make(map[TypeID]TypeRef),
		composite: make(map[compositeKey]TypeRef),
		declared:  make(map[TypeRef]bool),
	}
}

func (b *Builder) alloc(info TypeInfo) TypeRef {
	b.types = append(b.types, info)
	return TypeRef(len(b.types) - 1)
}

// Ref returns the interned reference for a named type, creating a placeholder
// if the type has not been declared yet.
func (b *Builder) Ref(id TypeID) TypeRef {
	if ref, ok := b.byID[id]; ok {
		return ref
	}

	ref := b.alloc(TypeInfo{ID: id})
	b.byID[id] = ref

	return ref
}

// Declare fills in the type identified by info.ID. Declaring the same id twice
// is recorded as an error and the second declaration is ignored.
func (b *Builder) Declare(info TypeInfo) TypeRef {
	ref := b.Ref(info.ID)
	if b.declared[ref] {
		b.errs = append(b.errs, fmt.Errorf("type %s declared more than once", info.ID))
		return ref
	}

	members := info.Members
	info.Members = nil
	b.types[ref] = info
	b.declared[ref] = true

	for _, m := range members {
		b.AddMember(ref, m)
	}

	return ref
}

// Declared reports whether the type has been declared.
func (b *Builder) Declared(id TypeID) bool {
	ref, ok := b.byID[id]
	return ok && b.declared[ref]
}

// Names returns the identifiers of every declared named type, sorted.
// Primitives and composite types are not included.
func (b *Builder) Names() []TypeID {
	var out []TypeID

	for id, ref := range b.byID {
		if b.declared[ref] && id.Namespace != "" {
			out = append(out, id)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })

	return out
}

// Primitive returns the reference for a primitive kind.
func (b *Builder) Primitive(kind PrimitiveKind) TypeRef {
	id := TypeID{Name: kind.String()}
	if ref, ok := b.byID[id]; ok && b.declared[ref] {
		return ref
	}

	return b.Declare(TypeInfo{ID: id, Kind: TypeKindPrimitive, Primitive: kind, Public: true, System: true})
}

// Collection returns the reference for a collection of elem.
func (b *Builder) Collection(elem TypeRef) TypeRef {
	return b.wrap(TypeKindCollection, elem, "[]"+b.types[elem].ID.String())
}

// Nullable returns the reference for an optional elem.
func (b *Builder) Nullable(elem TypeRef) TypeRef {
	return b.wrap(TypeKindNullable, elem, b.types[elem].ID.String()+"?")
}

func (b *Builder) wrap(kind TypeKind, elem TypeRef, name string) TypeRef {
	key := compositeKey{kind: kind, elem: elem}
	if ref, ok := b.composite[key]; ok {
		return ref
	}

	ref := b.alloc(TypeInfo{ID: TypeID{Name: name}, Kind: kind, Elem: elem, Public: true})
	b.composite[key] = ref
	b.declared[ref] = true

	return ref
}

// AddMember appends a member to owner. A member without an explicit declaring
// type is declared by its owner.
func (b *Builder) AddMember(owner TypeRef, m Member) {
	if !m.Declaring.IsValid() {
		m.Declaring = owner
	}

	b.types[owner].Members = append(b.types[owner].Members, m)
}

// Info gives mutable access to a type while the model is being built.
func (b *Builder) Info(ref TypeRef) *TypeInfo {
	if ref <= NoType || int(ref) >= len(b.types) {
		return nil
	}

	return &b.types[ref]
}

// Build validates the collected types and returns the immutable Model.
func (b *Builder) Build() (*Model, error) {
	errs := append([]error{}, b.errs...)

	ids := make([]TypeID, 0, len(b.byID))
	for id := range b.byID {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		if !b.declared[b.byID[id]] {
			errs = append(errs, fmt.Errorf("type %s is referenced but never declared", id))
		}
	}

	for i := 1; i < len(b.types); i++ {
		t := &b.types[i]
		if !t.Base.IsValid() {
			continue
		}

		if base := &b.types[t.Base]; base.Kind != TypeKindEntity || t.Kind != TypeKindEntity {
			errs = append(errs, fmt.Errorf("type %s: base %s must be an entity deriving an entity", t.ID, base.ID))
		}

		if b.hasBaseCycle(TypeRef(i)) {
			errs = append(errs, fmt.Errorf("type %s: base type chain is cyclic", t.ID))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	m := &Model{
		types: append([]TypeInfo(nil), b.types...),
		byID:  make(map[TypeID]TypeRef, len(b.byID)),
	}
	for id, ref := range b.byID {
		m.byID[id] = ref
	}

	return m, nil
}

func (b *Builder) hasBaseCycle(start TypeRef) bool {
	seen := map[TypeRef]bool{start: true}

	for cur := b.types[start].Base; cur.IsValid(); cur = b.types[cur].Base {
		if seen[cur] {
			return true
		}

		seen[cur] = true
	}

	return false
}
