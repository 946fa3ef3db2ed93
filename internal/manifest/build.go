package manifest

import (
	"fmt"
	"sort"
	"strings"

	"proxy-generator/internal/analyze"
	"proxy-generator/internal/common"
	"proxy-generator/internal/diagnostic"
	"proxy-generator/internal/match"
	"proxy-generator/internal/plan"
	"proxy-generator/internal/sharing"
)

// Result is the planner input described by a manifest.
type Result struct {
	// Model is nil when the metadata could not be assembled.
	Model  *analyze.Model
	Units  []plan.Unit
	Oracle *sharing.Static
}

var typeKinds = map[string]analyze.TypeKind{
	KindEntity:   analyze.TypeKindEntity,
	KindComplex:  analyze.TypeKindComplex,
	KindEnum:     analyze.TypeKindEnum,
	KindExternal: analyze.TypeKindExternal,
}

// Build validates f and converts it into planner input.
func Build(f *File) (*Result, *diagnostic.Diagnostics) {
	return BuildInto(f, analyze.NewBuilder())
}

// BuildInto adds the manifest types to b, which may already hold types loaded
// from Go packages, and resolves units and sharing against both. Structural
// problems are reported as diagnostics rather than returned as errors.
func BuildInto(f *File, b *analyze.Builder) (*Result, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}
	res := &Result{Oracle: sharing.NewStatic()}

	if f == nil {
		diags.AddError(diagnostic.CodeInvalidModel, "manifest is nil", "", "")
		return res, diags
	}

	c := &buildContext{b: b, diags: diags, defs: make(map[analyze.TypeID]*TypeDef)}

	declared := c.declareTypes(f.Types)
	for _, d := range declared {
		c.fillType(d.ref, d.def)
	}

	res.Units = c.units(f.Units)
	c.sharing(f.Sharing, res.Oracle)

	model, err := b.Build()
	if err != nil {
		diags.AddError(diagnostic.CodeInvalidModel, err.Error(), "", "")
		return res, diags
	}

	res.Model = model

	return res, diags
}

type buildContext struct {
	b     *analyze.Builder
	diags *diagnostic.Diagnostics
	defs  map[analyze.TypeID]*TypeDef
	names []string
}

type declaredType struct {
	ref analyze.TypeRef
	def *TypeDef
}

// SplitName splits a qualified name at its last dot.
func SplitName(qualified string) analyze.TypeID {
	i := strings.LastIndex(qualified, ".")
	if i < 0 {
		return analyze.TypeID{Name: qualified}
	}

	return analyze.TypeID{Namespace: qualified[:i], Name: qualified[i+1:]}
}

func (c *buildContext) declareTypes(defs []TypeDef) []declaredType {
	for _, id := range c.b.Names() {
		c.names = append(c.names, id.String())
	}

	var out []declaredType

	for i := range defs {
		def := &defs[i]

		name := strings.TrimSpace(def.Name)
		if name == "" {
			c.diags.AddError(diagnostic.CodeInvalidTypeRef, fmt.Sprintf("type #%d has no name", i+1), "", "")
			continue
		}

		kind, ok := typeKinds[def.Kind]
		if !ok {
			c.diags.AddError(diagnostic.CodeInvalidTypeRef,
				fmt.Sprintf("unknown kind %q (expected entity, complex, enum or external)", def.Kind), name, "")

			continue
		}

		id := SplitName(name)
		if _, dup := c.defs[id]; dup || c.b.Declared(id) {
			c.diags.AddError(diagnostic.CodeDuplicateType, fmt.Sprintf("type %s is declared more than once", id), name, "")
			continue
		}

		c.defs[id] = def
		c.names = append(c.names, id.String())

		info := analyze.TypeInfo{
			ID:     id,
			Kind:   kind,
			Public: def.Public == nil || *def.Public,
			Nested: def.Nested,
			System: def.System,
		}

		switch kind {
		case analyze.TypeKindComplex:
			info.Serializable = def.Serializable == nil || *def.Serializable
		case analyze.TypeKindExternal:
			info.Serializable = def.Serializable != nil && *def.Serializable
		case analyze.TypeKindEnum:
			for _, v := range def.Values {
				info.EnumValues = append(info.EnumValues, analyze.EnumValue{Name: v.Name, Value: v.Value})
			}
		}

		out = append(out, declaredType{ref: c.b.Declare(info), def: def})
	}

	sort.Strings(c.names)

	return out
}

// fillType resolves base, members and methods once every type is declared.
func (c *buildContext) fillType(ref analyze.TypeRef, def *TypeDef) {
	ns := SplitName(def.Name).Namespace
	owner := def.Name

	attrs := attributes(def.Attributes)

	var base analyze.TypeRef

	if def.Base != "" {
		if id, ok := c.resolve(def.Base, ns); ok {
			base = c.b.Ref(id)
		} else {
			c.unknown(def.Base, owner, "")
		}
	}

	var methods []analyze.Method

	for _, md := range def.Methods {
		m := analyze.Method{Name: md.Name}
		ok := true

		for _, p := range md.Params {
			param, found := c.typeExpr(p, ns, owner, md.Name)
			ok = ok && found
			m.Params = append(m.Params, param)
		}

		if ok {
			methods = append(methods, m)
		}
	}

	// Info pointers are taken only after typeExpr stops growing the arena
	info := c.b.Info(ref)
	info.Base = base
	info.Attributes = attrs
	info.Methods = methods

	for _, md := range def.Members {
		c.member(ref, ns, owner, md)
	}
}

func (c *buildContext) member(owner analyze.TypeRef, ns, ownerName string, md MemberDef) {
	if md.Name == "" {
		c.diags.AddError(diagnostic.CodeInvalidTypeRef, "member has no name", ownerName, "")
		return
	}

	typ, ok := c.typeExpr(md.Type, ns, ownerName, md.Name)
	if !ok {
		return
	}

	m := analyze.Member{
		Name:          md.Name,
		Type:          typ,
		Attributes:    attributes(md.Attributes),
		IsKey:         md.Key,
		Excluded:      md.Exclude,
		Overridable:   md.Virtual,
		HidesBase:     md.New,
		NotSerialized: md.NotSerialized,
	}

	if md.Declaring != "" {
		id, found := c.resolve(md.Declaring, ns)
		if !found {
			c.unknown(md.Declaring, ownerName, md.Name)
			return
		}

		m.Declaring = c.b.Ref(id)
	}

	if a := md.Association; a != nil {
		m.Association = &analyze.AssociationInfo{
			Name:         a.Name,
			ThisKey:      append([]string(nil), a.This...),
			OtherKey:     append([]string(nil), a.Other...),
			IsForeignKey: a.ForeignKey,
		}
	}

	c.b.AddMember(owner, m)
}

func attributes(defs []AttributeDef) []analyze.Attribute {
	var out []analyze.Attribute
	for _, a := range defs {
		out = append(out, analyze.Attribute{Name: a.Name, Args: append([]string(nil), a.Args...), Failure: a.Failure})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// typeExpr resolves a type expression such as "[]Shop.Order", "int64?" or
// "*Customer" relative to namespace ns.
func (c *buildContext) typeExpr(expr, ns, owner, member string) (analyze.TypeRef, bool) {
	expr = strings.TrimSpace(expr)

	switch {
	case expr == "":
		c.diags.AddError(diagnostic.CodeInvalidTypeRef, "type expression is empty", owner, member)
		return analyze.NoType, false

	case strings.HasPrefix(expr, "[]"):
		elem, ok := c.typeExpr(expr[2:], ns, owner, member)
		if !ok {
			return analyze.NoType, false
		}

		return c.b.Collection(elem), true

	case strings.HasPrefix(expr, "*"):
		elem, ok := c.typeExpr(expr[1:], ns, owner, member)
		if !ok {
			return analyze.NoType, false
		}

		return c.b.Nullable(elem), true

	case strings.HasSuffix(expr, "?"):
		elem, ok := c.typeExpr(strings.TrimSuffix(expr, "?"), ns, owner, member)
		if !ok {
			return analyze.NoType, false
		}

		return c.b.Nullable(elem), true
	}

	if kind, ok := analyze.ParsePrimitive(expr); ok {
		return c.b.Primitive(kind), true
	}

	if id, ok := c.resolve(expr, ns); ok {
		return c.b.Ref(id), true
	}

	c.unknown(expr, owner, member)

	return analyze.NoType, false
}

// resolve looks name up in namespace ns first, then as written.
func (c *buildContext) resolve(name, ns string) (analyze.TypeID, bool) {
	candidates := []analyze.TypeID{SplitName(name)}
	if ns != "" && !strings.Contains(name, ".") {
		candidates = append([]analyze.TypeID{{Namespace: ns, Name: name}}, candidates...)
	}

	for _, id := range candidates {
		if _, ok := c.defs[id]; ok || c.b.Declared(id) {
			return id, true
		}
	}

	return analyze.TypeID{}, false
}

func (c *buildContext) unknown(name, owner, member string) {
	c.diags.AddError(diagnostic.CodeUnknownType, fmt.Sprintf("type %q is not declared", name),
		owner, member, c.suggest(name)...)
}

// suggest ranks declared names close to name. Unqualified names are compared
// with simple names and reported qualified.
func (c *buildContext) suggest(name string) []string {
	if strings.Contains(name, ".") {
		return match.Suggest(name, c.names)
	}

	byName := make(map[string][]string)

	var simple []string

	for _, q := range c.names {
		s := SplitName(q).Name
		if _, ok := byName[s]; !ok {
			simple = append(simple, s)
		}

		byName[s] = append(byName[s], q)
	}

	var out []string
	for _, s := range match.Suggest(name, simple) {
		out = append(out, byName[s]...)
	}

	return out
}

func (c *buildContext) units(defs []UnitDef) []plan.Unit {
	seen := make(map[string]bool)

	var out []plan.Unit

	for _, ud := range defs {
		if seen[ud.Name] {
			c.diags.AddError(diagnostic.CodeDuplicateUnit, fmt.Sprintf("unit %q is declared more than once", ud.Name), "", "")
			continue
		}

		seen[ud.Name] = true
		unit := plan.Unit{Name: ud.Name}

		for _, e := range ud.Entities {
			id, ok := c.resolve(e, "")
			if !ok {
				c.diags.AddError(diagnostic.CodeUnknownType,
					fmt.Sprintf("unit %q exposes undeclared type %q", ud.Name, e), e, "", c.suggest(e)...)

				continue
			}

			unit.Entities = append(unit.Entities, id)
		}

		out = append(out, unit)
	}

	return out
}

func (c *buildContext) sharing(defs []ShareDef, oracle *sharing.Static) {
	for _, sd := range defs {
		id, ok := c.resolve(sd.Type, "")
		if !ok {
			c.unknown(sd.Type, "", "")
			continue
		}

		if kind, ok := c.shareKind(sd.Kind, sd.Type, ""); ok && sd.Kind != "" {
			oracle.SetType(id, kind)
		}

		for _, p := range common.SortedKeys(sd.Properties) {
			if kind, ok := c.shareKind(sd.Properties[p], sd.Type, p); ok {
				oracle.SetProperty(id, p, kind)
			}
		}

		for _, md := range sd.Methods {
			kind, ok := c.shareKind(md.Kind, sd.Type, md.Name)
			if !ok {
				continue
			}

			params := make([]analyze.TypeID, 0, len(md.Params))
			resolved := true

			for _, p := range md.Params {
				ref, found := c.typeExpr(p, id.Namespace, sd.Type, md.Name)
				if !found {
					resolved = false
					break
				}

				params = append(params, c.b.Info(ref).ID)
			}

			if resolved {
				oracle.SetMethod(id, md.Name, params, kind)
			}
		}
	}
}

func (c *buildContext) shareKind(s, typeName, member string) (sharing.Kind, bool) {
	kind, err := sharing.ParseKind(s)
	if err != nil {
		c.diags.AddError(diagnostic.CodeInvalidShareKind, err.Error(), typeName, member)
		return sharing.NotShared, false
	}

	return kind, true
}
