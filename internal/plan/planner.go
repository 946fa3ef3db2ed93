package plan

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"proxy-generator/internal/analyze"
	"proxy-generator/internal/common"
	"proxy-generator/internal/diagnostic"
	"proxy-generator/internal/sharing"
)

// Run-level contract errors. They abort Plan before any diagnostic is logged.
var (
	ErrNilModel        = errors.New("metadata model is required")
	ErrNilOracle       = errors.New("sharing oracle is required")
	ErrNilSink         = errors.New("diagnostics sink is required")
	ErrMissingLanguage = errors.New("target language is not set")
)

// Options holds the driver configuration consumed by the planner.
type Options struct {
	// Language is the target language tag. Required.
	Language string
	// UseFullTypeNames forces every type reference to be fully qualified.
	UseFullTypeNames bool
	// NamespaceRemap maps server namespaces onto target namespaces.
	NamespaceRemap map[string]string
}

// Planner runs the declaration-planning pipeline over one model snapshot.
type Planner struct {
	model  *analyze.Model
	units  []Unit
	oracle sharing.Oracle
	sink   diagnostic.Sink
	opts   Options

	// Per-run state, rebuilt by every call to Plan
	hierarchy *Hierarchy
	types     *TypeRegistry
	enums     *EnumRegistry
	members   *MemberPlanner
	assocs    *AssociationPlanner
	aggs      map[analyze.TypeRef]*Aggregate
	unitAggs  map[string]*Aggregate
	generated map[analyze.TypeRef]bool
	// declared maps "namespace.name" of every generated declaration to its source
	declared map[string]analyze.TypeID
}

// NewPlanner creates a Planner. The oracle is memoized for the lifetime of the
// planner; it must be a pure function of its input.
func NewPlanner(
	model *analyze.Model,
	units []Unit,
	oracle sharing.Oracle,
	sink diagnostic.Sink,
	opts Options,
) *Planner {
	p := &Planner{
		model: model,
		units: units,
		sink:  sink,
		opts:  opts,
	}

	if oracle != nil {
		p.oracle = sharing.NewCached(oracle)
	}

	return p
}

// Registry returns the type registry of the last run, or nil before Plan.
func (p *Planner) Registry() *TypeRegistry {
	return p.types
}

// Plan runs the full pipeline and returns the ProxyPlan. Business-rule
// violations are logged to the sink and planning continues; only contract
// violations return an error.
func (p *Planner) Plan() (*ProxyPlan, error) {
	if err := p.checkContract(); err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	p.reset()
	p.resolveUnits()

	admitted := p.admit()
	p.registerNames(admitted)

	decls := make([]TypeDecl, 0, len(admitted))
	for _, t := range admitted {
		decls = append(decls, p.planType(t))
	}

	ordered, err := p.order(admitted, decls)
	if err != nil {
		return nil, fmt.Errorf("plan: order types: %w", err)
	}

	return &ProxyPlan{
		Language:            p.opts.Language,
		Types:               ordered,
		Enums:               p.planEnums(),
		QualifiedNamespaces: p.types.Conflicts(),
	}, nil
}

func (p *Planner) checkContract() error {
	switch {
	case p.model == nil:
		return ErrNilModel
	case p.oracle == nil:
		return ErrNilOracle
	case p.sink == nil:
		return ErrNilSink
	case strings.TrimSpace(p.opts.Language) == "":
		return ErrMissingLanguage
	}

	return nil
}

func (p *Planner) reset() {
	p.hierarchy = NewHierarchy(p.model)
	p.types = NewTypeRegistry()
	p.enums = NewEnumRegistry(p.model, p.oracle, p.sink)
	p.aggs = make(map[analyze.TypeRef]*Aggregate)
	p.unitAggs = make(map[string]*Aggregate)
	p.generated = make(map[analyze.TypeRef]bool)
	p.declared = make(map[string]analyze.TypeID)
}

// resolveUnits maps unit entity ids onto the model and builds one aggregate per
// unit plus one per distinct set of exposing units.
func (p *Planner) resolveUnits() {
	units := append([]Unit(nil), p.units...)
	sort.SliceStable(units, func(i, j int) bool { return units[i].Name < units[j].Name })

	exposedBy := make(map[analyze.TypeRef][]string)
	unitEntities := make(map[string][]analyze.TypeRef)

	for _, u := range units {
		if _, dup := unitEntities[u.Name]; dup {
			p.sink.LogError(diagnostic.CodeDuplicateUnit,
				fmt.Sprintf("generation unit %q is defined more than once", u.Name), "", "")

			continue
		}

		refs := make([]analyze.TypeRef, 0, len(u.Entities))

		for _, id := range u.Entities {
			ref, ok := p.model.Lookup(id)
			if !ok || !p.model.Type(ref).IsEntity() {
				p.sink.LogError(diagnostic.CodeUnknownUnitEntity,
					fmt.Sprintf("generation unit %q exposes %s, which is not a known entity type", u.Name, id),
					id.String(), "")

				continue
			}

			refs = append(refs, ref)
			exposedBy[ref] = append(exposedBy[ref], u.Name)
		}

		unitEntities[u.Name] = refs
		p.unitAggs[u.Name] = NewAggregate([]string{u.Name}, refs)
	}

	// Entities exposed by the same set of units share one aggregate so the
	// hierarchy memo is reused across them
	byUnits := make(map[string]*Aggregate)

	for ref, names := range exposedBy {
		names = common.SortedUnique(names)
		key := strings.Join(names, "\x00")

		agg, ok := byUnits[key]
		if !ok {
			var entities []analyze.TypeRef
			for _, n := range names {
				entities = append(entities, unitEntities[n]...)
			}

			agg = NewAggregate(names, entities)
			byUnits[key] = agg
		}

		p.aggs[ref] = agg
	}

	known := make(map[analyze.TypeRef]bool, len(p.aggs))
	for ref := range p.aggs {
		known[ref] = true
	}

	p.members = NewMemberPlanner(p.model, p.oracle, known)
	p.assocs = NewAssociationPlanner(p.model, p.members, p.aggs, p.generated, p.sink)
}

// admit selects the known entities that are synthesized in this run, sorted by id.
func (p *Planner) admit() []analyze.TypeRef {
	known := make([]analyze.TypeRef, 0, len(p.aggs))
	for ref := range p.aggs {
		known = append(known, ref)
	}

	p.model.SortRefs(known)

	var admitted []analyze.TypeRef

	for _, t := range known {
		id := p.model.ID(t)

		if id.Namespace == "" {
			p.sink.LogError(diagnostic.CodeMissingNamespace,
				fmt.Sprintf("entity %s must be declared in a namespace", id), id.String(), "")

			continue
		}

		if kind := p.oracle.TypeShareKind(id); kind == sharing.SharedByReference {
			p.sink.LogMessage(diagnostic.CodeTypeShared,
				fmt.Sprintf("entity %s is already visible to the target (%s)", id, kind), id.String(), "")

			continue
		}

		if !p.hierarchy.VerifySharedRoot(t, p.aggs[t], p.unitAggs, p.sink) {
			continue
		}

		p.generated[t] = true
		admitted = append(admitted, t)
	}

	return admitted
}

// TargetNamespace applies the namespace remap.
func (p *Planner) TargetNamespace(ns string) string {
	if mapped, ok := p.opts.NamespaceRemap[ns]; ok && mapped != "" {
		return mapped
	}

	return ns
}

// registerNames registers every generated entity in its own namespace and every
// named type it references in the namespace that refers to it. All names are
// known before the first TypeUse is built, so qualification never depends on
// the order entities are planned in.
func (p *Planner) registerNames(admitted []analyze.TypeRef) {
	for _, t := range admitted {
		id := p.model.ID(t)
		ns := p.TargetNamespace(id.Namespace)

		p.declare(id, ns)
		p.register(id, ns)

		agg := p.aggs[t]
		if base := p.hierarchy.VisibleBaseType(t, agg); base.IsValid() {
			p.registerRef(base, ns)
		}

		for _, prop := range p.model.Properties(t) {
			if p.members.Decide(t, agg, prop).Declare {
				p.registerRef(prop.Type, ns)
			}
		}

		for _, m := range p.model.Type(t).Methods {
			for _, param := range m.Params {
				p.registerRef(param, ns)
			}
		}
	}
}

// declare records a generated declaration and reports two sources landing on
// the same target name.
func (p *Planner) declare(id analyze.TypeID, ns string) {
	key := ns + "." + id.Name
	if existing, ok := p.declared[key]; ok && existing != id {
		p.sink.LogError(diagnostic.CodeDuplicateType,
			fmt.Sprintf("%s and %s are both generated as %s", existing, id, key), id.String(), "")

		return
	}

	p.declared[key] = id
}

func (p *Planner) register(id analyze.TypeID, ns string) {
	wasQualified := p.types.IsQualified(ns)
	if p.types.Register(id, ns) || wasQualified {
		return
	}

	holder := id
	for _, known := range p.types.Known(ns) {
		if known.Name == id.Name {
			holder = known
			break
		}
	}

	p.sink.LogMessage(diagnostic.CodeNamespaceConflict,
		fmt.Sprintf("simple name %s is ambiguous in namespace %s (%s and %s); references there are fully qualified",
			id.Name, ns, holder, id),
		id.String(), "")
}

func (p *Planner) registerRef(ref analyze.TypeRef, ns string) {
	info := p.model.Type(ref)
	if info == nil {
		return
	}

	switch info.Kind {
	case analyze.TypeKindCollection, analyze.TypeKindNullable:
		p.registerRef(info.Elem, ns)
	case analyze.TypeKindEntity, analyze.TypeKindEnum, analyze.TypeKindComplex, analyze.TypeKindExternal:
		p.register(info.ID, ns)
	}
}

// useOf builds the reference to ref as seen from generated code in namespace ns.
func (p *Planner) useOf(ref analyze.TypeRef, ns string) TypeUse {
	info := p.model.Type(ref)
	if info == nil {
		return TypeUse{Name: analyze.TypeKindUnknown.String(), Kind: analyze.TypeKindUnknown.String()}
	}

	use := TypeUse{Name: info.ID.Name, Kind: info.Kind.String()}

	switch info.Kind {
	case analyze.TypeKindCollection, analyze.TypeKindNullable:
		elem := p.useOf(info.Elem, ns)
		use.Elem = &elem
	case analyze.TypeKindPrimitive:
		use.Name = info.Primitive.String()
	default:
		use.Namespace = p.TargetNamespace(info.ID.Namespace)
		use.Qualified = p.opts.UseFullTypeNames || p.types.IsQualified(ns)
	}

	return use
}

func (p *Planner) planType(t analyze.TypeRef) TypeDecl {
	info := p.model.Type(t)
	agg := p.aggs[t]
	typeName := info.ID.String()
	ns := p.TargetNamespace(info.ID.Namespace)

	decl := TypeDecl{
		Source:     info.ID,
		Namespace:  ns,
		Name:       info.ID.Name,
		Root:       p.model.ID(p.hierarchy.RootType(t, agg)),
		Units:      agg.Units(),
		IsShared:   agg.IsShared(),
		Attributes: p.attributes(info.Attributes, typeName, ""),
	}

	if base := p.hierarchy.VisibleBaseType(t, agg); base.IsValid() {
		use := p.useOf(base, ns)
		decl.Base = &use
	}

	var keys []string

	for _, prop := range p.model.Properties(t) {
		d := p.members.Decide(t, agg, prop)
		if !d.Declare {
			p.logDecision(d, typeName, prop.Name)
			continue
		}

		if enum := p.model.EnumOf(prop.Type); enum.IsValid() {
			if !p.enums.CanExpose(enum) {
				continue
			}

			p.enums.RegisterUse(enum)
		}

		var lifted string
		if prop.Declaring != t {
			lifted = p.model.ID(prop.Declaring).String()
		}

		if target := p.assocs.Target(prop); target.IsValid() {
			assoc, ok := p.assocs.Plan(t, prop)
			if !ok {
				continue
			}

			assoc.Target = p.useOf(target, ns)
			assoc.Attributes = p.attributes(prop.Attributes, typeName, prop.Name)
			assoc.LiftedFrom = lifted
			decl.Associations = append(decl.Associations, assoc)

			continue
		}

		decl.Properties = append(decl.Properties, PropertyDecl{
			Name:       prop.Name,
			Type:       p.useOf(prop.Type, ns),
			IsKey:      prop.IsKey,
			Attributes: p.attributes(prop.Attributes, typeName, prop.Name),
			LiftedFrom: lifted,
		})

		if prop.IsKey {
			keys = append(keys, prop.Name)
		}
	}

	if decl.Base == nil {
		decl.IdentityKeys = keys
	}

	decl.Methods = p.planMethods(info, ns)

	return decl
}

func (p *Planner) logDecision(d Decision, typeName, member string) {
	if d.IsError {
		p.sink.LogError(d.Code, d.Reason, typeName, member)
		return
	}

	p.sink.LogMessage(d.Code, d.Reason, typeName, member)
}

// attributes drops attributes the adapter failed to materialize, with a warning.
func (p *Planner) attributes(attrs []analyze.Attribute, typeName, member string) []AttributeDecl {
	var out []AttributeDecl

	for _, a := range attrs {
		if a.Failure != "" {
			p.sink.LogWarning(diagnostic.CodeAttributeFailed,
				fmt.Sprintf("attribute %s could not be materialized: %s", a.Name, a.Failure),
				typeName, member)

			continue
		}

		out = append(out, AttributeDecl{Name: a.Name, Args: append([]string(nil), a.Args...)})
	}

	return out
}

func (p *Planner) planMethods(info *analyze.TypeInfo, ns string) []MethodDecl {
	var out []MethodDecl

	for _, m := range info.Methods {
		params := make([]analyze.TypeID, len(m.Params))
		for i, param := range m.Params {
			params[i] = p.model.ID(param)
		}

		if kind := p.oracle.MethodShareKind(info.ID, m.Name, params); kind != sharing.NotShared {
			p.sink.LogMessage(diagnostic.CodeMethodSkipped,
				fmt.Sprintf("method %s is already visible to the target (%s)", m.Name, kind),
				info.ID.String(), m.Name)

			continue
		}

		if reason, ok := p.exposeParams(m); !ok {
			p.sink.LogMessage(diagnostic.CodeMethodSkipped,
				fmt.Sprintf("method %s is not generated: %s", m.Name, reason),
				info.ID.String(), m.Name)

			continue
		}

		decl := MethodDecl{Name: m.Name}
		for _, param := range m.Params {
			decl.Params = append(decl.Params, p.useOf(param, ns))
		}

		out = append(out, decl)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// exposeParams registers the enums used by m's parameters. It fails without
// registering anything when a parameter refers to an enum that cannot be
// exposed or to an entity no unit exposes.
func (p *Planner) exposeParams(m analyze.Method) (string, bool) {
	var enums []analyze.TypeRef

	for _, param := range m.Params {
		elem := p.model.ElementType(param)
		if p.members.isEntity(elem) && p.aggs[elem] == nil {
			return fmt.Sprintf("parameter type %s is an entity no unit exposes", p.model.ID(elem)), false
		}

		enum := p.model.EnumOf(param)
		if !enum.IsValid() {
			continue
		}

		if !p.enums.CanExpose(enum) {
			return fmt.Sprintf("parameter enum %s cannot be exposed", p.model.ID(enum)), false
		}

		enums = append(enums, enum)
	}

	for _, e := range enums {
		p.enums.RegisterUse(e)
	}

	return "", true
}

// order places every type after its generated base.
func (p *Planner) order(admitted []analyze.TypeRef, decls []TypeDecl) ([]TypeDecl, error) {
	index := make(map[analyze.TypeRef]int, len(admitted))
	for i, t := range admitted {
		index[t] = i
	}

	order, err := orderBaseFirst(len(decls), func(i int) int {
		base := p.hierarchy.VisibleBaseType(admitted[i], p.aggs[admitted[i]])
		if j, ok := index[base]; ok {
			return j
		}

		return noParent
	})
	if err != nil {
		return nil, err
	}

	out := make([]TypeDecl, 0, len(decls))
	for _, i := range order {
		out = append(out, decls[i])
	}

	return out, nil
}

func (p *Planner) planEnums() []EnumDecl {
	var out []EnumDecl

	for _, ref := range p.enums.Generated() {
		info := p.model.Type(ref)
		ns := p.TargetNamespace(info.ID.Namespace)
		p.declare(info.ID, ns)

		out = append(out, EnumDecl{
			Source:    info.ID,
			Namespace: ns,
			Name:      info.ID.Name,
			Values:    append([]analyze.EnumValue(nil), info.EnumValues...),
		})
	}

	return out
}
