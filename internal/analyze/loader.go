package analyze

import (
	"fmt"
	"go/types"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"proxy-generator/internal/common"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// ProxyTag is the struct tag key carrying entity metadata.
//
//	ID       int64   `proxy:"key"`
//	Internal string  `proxy:"exclude"`
//	Customer *Customer `proxy:"assoc=Customer_Orders,this=CustomerID,other=ID,fk"`
//
// Multiple key names are separated with '|'. The flags "virtual" and "new"
// mark overridable and base-hiding accessors.
const ProxyTag = "proxy"

var basicKinds = map[types.BasicKind]PrimitiveKind{
	types.Bool:    KindBool,
	types.Int:     KindInt,
	types.Int8:    KindInt8,
	types.Int16:   KindInt16,
	types.Int32:   KindInt32,
	types.Int64:   KindInt64,
	types.Uint:    KindUint,
	types.Uint8:   KindUint8,
	types.Uint16:  KindUint16,
	types.Uint32:  KindUint32,
	types.Uint64:  KindUint64,
	types.Float32: KindFloat32,
	types.Float64: KindFloat64,
	types.String:  KindString,
}

// Analyzer loads Go packages and describes their structs as metadata.
// Structs with a key field (or embedding an entity) become entities, an
// embedded entity is the base type, and named basic types with package
// constants become enums.
type Analyzer struct {
	builder   *Builder
	loaded    map[string]bool
	enumVals  map[*types.TypeName][]EnumValue
	typeCache map[types.Type]TypeRef // Cache to handle recursive types
}

// NewAnalyzer creates a new Analyzer writing into a fresh Builder.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerFor(NewBuilder())
}

// NewAnalyzerFor creates an Analyzer that adds types to an existing Builder.
func NewAnalyzerFor(b *Builder) *Analyzer {
	return &Analyzer{
		builder:   b,
		loaded:    make(map[string]bool),
		enumVals:  make(map[*types.TypeName][]EnumValue),
		typeCache: make(map[types.Type]TypeRef),
	}
}

// Builder returns the builder the analyzer writes into.
func (a *Analyzer) Builder() *Builder {
	return a.builder
}

// LoadPackages loads the specified packages and adds their types to the builder.
// Patterns are standard Go package patterns (e.g., "./store", "proxy-generator/warehouse").
func (a *Analyzer) LoadPackages(patterns ...string) error {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		a.loaded[pkg.PkgPath] = true
		a.collectEnumValues(pkg.Types.Scope())
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	return nil
}

// collectEnumValues indexes package constants by their named type.
func (a *Analyzer) collectEnumValues(scope *types.Scope) {
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok {
			continue
		}

		named, ok := c.Type().(*types.Named)
		if !ok {
			continue
		}

		a.enumVals[named.Obj()] = append(a.enumVals[named.Obj()], EnumValue{
			Name:  c.Name(),
			Value: c.Val().ExactString(),
		})
	}
}

// processPackage extracts types from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		// Only process type names (not variables, constants, functions)
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || typeName.IsAlias() {
			continue
		}

		a.typeRef(typeName.Type())
	}
}

// typeRef maps a go/types.Type onto a model reference.
func (a *Analyzer) typeRef(t types.Type) TypeRef {
	t = types.Unalias(t)

	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	var ref TypeRef

	switch tt := t.(type) {
	case *types.Basic:
		ref = a.basicRef(tt)

	case *types.Pointer:
		ref = a.builder.Nullable(a.typeRef(tt.Elem()))

	case *types.Slice:
		if b, ok := tt.Elem().(*types.Basic); ok && b.Kind() == types.Byte {
			ref = a.builder.Primitive(KindBinary)
		} else {
			ref = a.builder.Collection(a.typeRef(tt.Elem()))
		}

	case *types.Array:
		ref = a.builder.Collection(a.typeRef(tt.Elem()))

	case *types.Named:
		// namedRef caches before descending into fields
		return a.namedRef(tt)

	default:
		// Maps, interfaces, channels, etc. are opaque and never serializable
		ref = a.opaqueRef(TypeID{Name: types.TypeString(t, nil)}, false)
	}

	a.typeCache[t] = ref

	return ref
}

func (a *Analyzer) basicRef(b *types.Basic) TypeRef {
	if kind, ok := basicKinds[b.Kind()]; ok {
		return a.builder.Primitive(kind)
	}

	return a.opaqueRef(TypeID{Name: b.Name()}, false)
}

func (a *Analyzer) opaqueRef(id TypeID, system bool) TypeRef {
	if a.builder.Declared(id) {
		return a.builder.Ref(id)
	}

	return a.builder.Declare(TypeInfo{ID: id, Kind: TypeKindExternal, Public: true, System: system})
}

// namedRef analyzes a named type.
func (a *Analyzer) namedRef(named *types.Named) TypeRef {
	obj := named.Obj()
	if obj.Pkg() == nil {
		// Predeclared named types such as error
		ref := a.opaqueRef(TypeID{Name: obj.Name()}, true)
		a.typeCache[named] = ref

		return ref
	}

	pkgPath := obj.Pkg().Path()
	id := TypeID{Namespace: pkgPath, Name: obj.Name()}

	if pkgPath == "time" && obj.Name() == "Time" {
		ref := a.builder.Primitive(KindTime)
		a.typeCache[named] = ref

		return ref
	}

	if pkgPath == "time" && obj.Name() == "Duration" {
		ref := a.builder.Primitive(KindDuration)
		a.typeCache[named] = ref

		return ref
	}

	if !a.loaded[pkgPath] {
		return a.externalNamedRef(named, id)
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		kind := TypeKindComplex
		if a.isEntityStruct(ut, map[*types.Struct]bool{}) {
			kind = TypeKindEntity
		}

		ref := a.builder.Declare(TypeInfo{
			ID:           id,
			Kind:         kind,
			Public:       obj.Exported(),
			Serializable: true,
		})
		// Pre-cache to handle recursive types (fields are filled in below)
		a.typeCache[named] = ref
		a.analyzeStructFields(ut, ref, map[*types.Struct]bool{})

		return ref

	case *types.Basic:
		values := a.enumVals[obj]
		if common.IsEmpty(values) {
			// Named wrapper of a simple kind: treat as the kind itself
			ref := a.basicRef(ut)
			a.typeCache[named] = ref

			return ref
		}

		ref := a.builder.Declare(TypeInfo{
			ID:         id,
			Kind:       TypeKindEnum,
			Public:     obj.Exported(),
			EnumValues: values,
		})
		a.typeCache[named] = ref

		return ref

	default:
		ref := a.opaqueRef(id, false)
		a.typeCache[named] = ref

		return ref
	}
}

// externalNamedRef describes a named type from a package outside the analyzed set.
func (a *Analyzer) externalNamedRef(named *types.Named, id TypeID) TypeRef {
	system := isStdlibPath(id.Namespace)

	var ref TypeRef

	switch {
	case a.builder.Declared(id):
		ref = a.builder.Ref(id)
	case isBasicUnderlying(named):
		ref = a.builder.Declare(TypeInfo{ID: id, Kind: TypeKindEnum, Public: named.Obj().Exported(), System: system})
	default:
		ref = a.opaqueRef(id, system)
	}

	a.typeCache[named] = ref

	return ref
}

func isBasicUnderlying(named *types.Named) bool {
	b, ok := named.Underlying().(*types.Basic)
	return ok && b.Info()&(types.IsInteger|types.IsString) != 0
}

// isStdlibPath reports whether the import path belongs to the standard library.
func isStdlibPath(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}

// isEntityStruct reports whether the struct has a key field or embeds an entity.
func (a *Analyzer) isEntityStruct(st *types.Struct, visiting map[*types.Struct]bool) bool {
	if visiting[st] {
		return false
	}

	visiting[st] = true

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if parseProxyTag(reflect.StructTag(st.Tag(i)).Get(ProxyTag)).key {
			return true
		}

		if !field.Embedded() {
			continue
		}

		if inner := embeddedStruct(field.Type()); inner != nil && a.isEntityStruct(inner, visiting) {
			return true
		}
	}

	return false
}

func embeddedStruct(t types.Type) *types.Struct {
	named, ok := types.Unalias(derefPointer(t)).(*types.Named)
	if !ok {
		return nil
	}

	st, _ := named.Underlying().(*types.Struct)

	return st
}

// analyzeStructFields turns exported struct fields into members. An embedded
// entity becomes the base type; fields of other embedded structs are promoted.
func (a *Analyzer) analyzeStructFields(st *types.Struct, owner TypeRef, visiting map[*types.Struct]bool) {
	if visiting[st] {
		return
	}

	visiting[st] = true

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))

		if field.Embedded() {
			if inner := embeddedStruct(field.Type()); inner != nil {
				ref := a.typeRef(derefPointer(field.Type()))

				ownerInfo := a.builder.Info(owner)
				if a.builder.Info(ref).Kind == TypeKindEntity && ownerInfo.Kind == TypeKindEntity && !ownerInfo.Base.IsValid() {
					ownerInfo.Base = ref
				} else {
					a.analyzeStructFields(inner, owner, visiting)
				}

				continue
			}
		}

		// Only exported fields are part of the data contract
		if !field.Exported() {
			continue
		}

		flags := parseProxyTag(tag.Get(ProxyTag))

		member := Member{
			Name:        field.Name(),
			Declaring:   owner,
			Type:        a.typeRef(field.Type()),
			Attributes:  tagAttributes(string(tag)),
			IsKey:       flags.key,
			Excluded:    flags.exclude,
			Overridable: flags.virtual,
			HidesBase:   flags.hides,
			// json:"-" keeps the field off the wire
			NotSerialized: tag.Get("json") == "-",
		}

		if flags.assoc != "" {
			member.Association = &AssociationInfo{
				Name:         flags.assoc,
				ThisKey:      flags.thisKey,
				OtherKey:     flags.otherKey,
				IsForeignKey: flags.fk,
			}
		}

		a.builder.AddMember(owner, member)
	}
}

func derefPointer(t types.Type) types.Type {
	if p, ok := t.(*types.Pointer); ok {
		return p.Elem()
	}

	return t
}

type proxyFlags struct {
	key      bool
	exclude  bool
	virtual  bool
	hides    bool
	fk       bool
	assoc    string
	thisKey  []string
	otherKey []string
}

// parseProxyTag parses the value of a `proxy:"..."` tag.
func parseProxyTag(value string) proxyFlags {
	var f proxyFlags

	for _, part := range strings.Split(value, ",") {
		name, arg, _ := strings.Cut(strings.TrimSpace(part), "=")

		switch name {
		case "key":
			f.key = true
		case "exclude", "-":
			f.exclude = true
		case "virtual":
			f.virtual = true
		case "new":
			f.hides = true
		case "fk":
			f.fk = true
		case "assoc":
			f.assoc = arg
		case "this":
			f.thisKey = splitKeys(arg)
		case "other":
			f.otherKey = splitKeys(arg)
		}
	}

	return f
}

func splitKeys(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(s, "|")
}

// tagAttributes turns every non-proxy struct tag into an explicit attribute.
// A malformed tag yields a single attribute carrying the failure text.
func tagAttributes(tag string) []Attribute {
	var attrs []Attribute

	for tag != "" {
		tag = strings.TrimLeft(tag, " ")
		if tag == "" {
			break
		}

		colon := strings.Index(tag, ":")
		if colon <= 0 || colon+1 >= len(tag) || tag[colon+1] != '"' {
			return append(attrs, Attribute{Name: "tag", Failure: fmt.Sprintf("malformed struct tag near %q", tag)})
		}

		key := tag[:colon]
		rest := tag[colon+1:]

		end := 1
		for end < len(rest) && rest[end] != '"' {
			if rest[end] == '\\' {
				end++
			}

			end++
		}

		if end >= len(rest) {
			return append(attrs, Attribute{Name: key, Failure: "unterminated struct tag value"})
		}

		value, err := strconv.Unquote(rest[:end+1])
		if err != nil {
			attrs = append(attrs, Attribute{Name: key, Failure: err.Error()})
		} else if key != ProxyTag {
			attrs = append(attrs, Attribute{Name: key, Args: strings.Split(value, ",")})
		}

		tag = rest[end+1:]
	}

	sort.SliceStable(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })

	return attrs
}
